package commands

import (
	"context"

	"github.com/arthur-debert/oxidizr/pkg/compat"
	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/experiments"
	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/swap"
	"github.com/arthur-debert/oxidizr/pkg/system"
)

// EnableOptions controls an enable run.
type EnableOptions struct {
	Selection Selection

	// SkipCompatibilityCheck bypasses the per-experiment compatibility
	// rules. The bypass is logged; use it on unsupported releases at
	// your own risk.
	SkipCompatibilityCheck bool
}

// Enable installs the selected experiments and swaps the system
// utilities they cover for their replacements. Experiments are
// processed independently and in registry order; the returned outcomes
// carry one entry per selected experiment.
//
// A non-nil error means the run itself could not proceed (unknown
// experiment names, undetectable distribution, failed package list
// refresh) or had to stop early because a rollback failed and left
// paths needing manual repair. Per-experiment failures are reported in
// the outcomes instead.
func Enable(ctx context.Context, deps Deps, opts EnableOptions) ([]Outcome, error) {
	logger := logging.GetLogger("commands.enable")

	selected, err := selectExperiments(deps, opts.Selection)
	if err != nil {
		return nil, err
	}

	info, err := deps.Inspector.Distribution(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDistroUnknown, "cannot determine the running distribution")
	}
	logger.Debug().
		Str("distribution", info.ID).
		Str("release", info.Release).
		Msg("detected distribution")

	if deps.Settings != nil && deps.Settings.Packages.UpdateLists {
		logger.Info().Msg("updating package lists")
		if err := deps.Packages.Update(ctx); err != nil {
			return nil, err
		}
	}

	engine := swap.NewEngine(deps.FS)
	outcomes := make([]Outcome, 0, len(selected))
	for _, exp := range selected {
		outcome := enableOne(ctx, deps, engine, exp, info, opts.SkipCompatibilityCheck)
		outcomes = append(outcomes, outcome)

		// A failed rollback leaves the system needing manual repair.
		// Swapping further experiments on top of that would only widen
		// the damage, so the run stops here.
		if errors.IsCode(outcome.Err, errors.ErrRollbackFailed) {
			return outcomes, outcome.Err
		}
	}
	return outcomes, nil
}

func enableOne(ctx context.Context, deps Deps, engine *swap.Engine, exp experiments.Experiment, info system.Info, bypass bool) Outcome {
	logger := logging.GetLogger("commands.enable")
	defer logging.LogOperationStart(logger, "enable "+exp.Name)()

	outcome := Outcome{Experiment: exp.Name}

	decision := compat.Evaluate(exp.Compat, info, bypass)
	if !decision.Allowed {
		logger.Warn().
			Str("experiment", exp.Name).
			Str("reason", decision.Reason).
			Msg("skipping incompatible experiment")
		outcome.Status = OutcomeSkipped
		outcome.Reason = decision.Reason
		outcome.Err = errors.New(errors.ErrIncompatibleSystem, decision.Reason)
		return outcome
	}

	if err := ensureInstalled(ctx, deps, exp); err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = err
		return outcome
	}

	bindings, err := experiments.Resolve(exp, deps.Inspector, deps.FS, experiments.ResolveOptions{VerifyReplacements: true})
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = err
		return outcome
	}

	report, err := engine.Apply(bindings)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = OutcomeSucceeded
	outcome.Swapped = report.SwapCount()
	outcome.Unchanged = len(report.Results) - report.SwapCount()
	logger.Info().
		Str("experiment", exp.Name).
		Int("swapped", outcome.Swapped).
		Int("unchanged", outcome.Unchanged).
		Msg("experiment enabled")
	return outcome
}

// ensureInstalled makes sure the experiment's package is present,
// installing it when it is not.
func ensureInstalled(ctx context.Context, deps Deps, exp experiments.Experiment) error {
	logger := logging.GetLogger("commands.enable")

	installed, err := deps.Packages.IsInstalled(ctx, exp.Package)
	if err != nil {
		return err
	}
	if installed {
		logger.Debug().Str("package", exp.Package).Msg("package already installed")
		return nil
	}

	logger.Info().Str("package", exp.Package).Msg("installing package")
	return deps.Packages.Install(ctx, exp.Package)
}
