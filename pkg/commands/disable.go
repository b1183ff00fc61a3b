package commands

import (
	"context"

	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/experiments"
	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/swap"
)

// DisableOptions controls a disable run.
type DisableOptions struct {
	Selection Selection
}

// Disable restores the original utilities for the selected experiments
// and removes the replacement packages. Restoration is best effort:
// every binding is attempted even when an earlier one fails, and the
// package is only removed once all of its bindings came back clean.
//
// Disable never checks compatibility rules. A system that drifted out
// of support must still be able to restore its original utilities.
func Disable(ctx context.Context, deps Deps, opts DisableOptions) ([]Outcome, error) {
	selected, err := selectExperiments(deps, opts.Selection)
	if err != nil {
		return nil, err
	}

	engine := swap.NewEngine(deps.FS)
	outcomes := make([]Outcome, 0, len(selected))
	for _, exp := range selected {
		outcomes = append(outcomes, disableOne(ctx, deps, engine, exp))
	}
	return outcomes, nil
}

func disableOne(ctx context.Context, deps Deps, engine *swap.Engine, exp experiments.Experiment) Outcome {
	logger := logging.GetLogger("commands.disable")
	defer logging.LogOperationStart(logger, "disable "+exp.Name)()

	outcome := Outcome{Experiment: exp.Name}

	installed, err := deps.Packages.IsInstalled(ctx, exp.Package)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = err
		return outcome
	}

	bindings, err := experiments.Resolve(exp, deps.Inspector, deps.FS, experiments.ResolveOptions{VerifyReplacements: false})
	if err != nil {
		// With the package gone its binary directory disappears too,
		// which means there is nothing left to restore.
		if !installed {
			logger.Info().Str("experiment", exp.Name).Msg("package not installed, nothing to restore")
			outcome.Status = OutcomeSkipped
			outcome.Reason = "package not installed"
			return outcome
		}
		outcome.Status = OutcomeFailed
		outcome.Err = err
		return outcome
	}

	report := engine.Revert(bindings)
	outcome.Reverted = len(report.Reverted)
	outcome.Unchanged = len(report.Skipped)
	outcome.FailedBindings = report.Failed

	if !report.Clean() {
		// The replacement package stays: its binaries still back the
		// symlinks that could not be restored.
		outcome.Status = OutcomeFailed
		outcome.Err = errors.Newf(errors.ErrRestoreFailed,
			"%d of %d bindings could not be restored", len(report.Failed), len(bindings))
		return outcome
	}

	if installed {
		logger.Info().Str("package", exp.Package).Msg("removing package")
		if err := deps.Packages.Remove(ctx, exp.Package); err != nil {
			outcome.Status = OutcomeFailed
			outcome.Err = err
			return outcome
		}
	}

	if outcome.Reverted == 0 && !installed {
		outcome.Status = OutcomeSkipped
		outcome.Reason = "not enabled"
		return outcome
	}

	outcome.Status = OutcomeSucceeded
	logger.Info().
		Str("experiment", exp.Name).
		Int("reverted", outcome.Reverted).
		Int("unchanged", outcome.Unchanged).
		Msg("experiment disabled")
	return outcome
}
