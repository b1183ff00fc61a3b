package commands

import (
	"context"

	"github.com/arthur-debert/oxidizr/pkg/experiments"
	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/swap"
)

// Summary condenses the observed binding states of one experiment.
type Summary string

const (
	// SummaryEnabled means every binding points at its replacement.
	SummaryEnabled Summary = "enabled"

	// SummaryDisabled means every binding still holds its original.
	SummaryDisabled Summary = "disabled"

	// SummaryPartial means some bindings are swapped and some are not,
	// typically after an interrupted enable or disable.
	SummaryPartial Summary = "partial"

	// SummaryInconsistent means at least one binding is in a state this
	// tool cannot account for and will refuse to touch.
	SummaryInconsistent Summary = "inconsistent"

	// SummaryUnknown means the experiment's bindings could not be
	// resolved, so nothing could be observed.
	SummaryUnknown Summary = "unknown"
)

// BindingStatus is the observed state of a single binding.
type BindingStatus struct {
	Binding swap.Binding
	State   swap.State

	// Detail explains inconsistent states.
	Detail string
}

// ExperimentStatus is the observed state of one experiment.
type ExperimentStatus struct {
	Experiment string
	Package    string
	Installed  bool
	Summary    Summary
	Bindings   []BindingStatus

	// Err is set when the experiment's bindings could not be resolved.
	Err error
}

// Status reports the observed state of the selected experiments without
// changing anything on disk. Unlike enable and disable, an empty
// selection covers every experiment in the registry rather than the
// configured defaults: a status report is only useful when complete.
func Status(ctx context.Context, deps Deps, sel Selection) ([]ExperimentStatus, error) {
	logger := logging.GetLogger("commands.status")

	var selected []experiments.Experiment
	if sel.All || len(sel.Experiments) == 0 {
		selected = deps.Registry.All()
	} else {
		var err error
		selected, err = deps.Registry.Select(sel.Experiments)
		if err != nil {
			return nil, err
		}
	}

	statuses := make([]ExperimentStatus, 0, len(selected))
	for _, exp := range selected {
		statuses = append(statuses, statusOne(ctx, deps, exp))
	}
	logger.Debug().Int("experiments", len(statuses)).Msg("status collected")
	return statuses, nil
}

func statusOne(ctx context.Context, deps Deps, exp experiments.Experiment) ExperimentStatus {
	logger := logging.GetLogger("commands.status")

	status := ExperimentStatus{
		Experiment: exp.Name,
		Package:    exp.Package,
	}

	installed, err := deps.Packages.IsInstalled(ctx, exp.Package)
	if err != nil {
		status.Summary = SummaryUnknown
		status.Err = err
		return status
	}
	status.Installed = installed

	bindings, err := experiments.Resolve(exp, deps.Inspector, deps.FS, experiments.ResolveOptions{VerifyReplacements: false})
	if err != nil {
		if !installed {
			// Without the package there is no binary directory to scan,
			// and nothing to report beyond "disabled".
			status.Summary = SummaryDisabled
			return status
		}
		logger.Debug().Str("experiment", exp.Name).Err(err).Msg("binding resolution failed")
		status.Summary = SummaryUnknown
		status.Err = err
		return status
	}

	for _, b := range bindings {
		obs := swap.Inspect(deps.FS, b)
		status.Bindings = append(status.Bindings, BindingStatus{
			Binding: b,
			State:   obs.State,
			Detail:  obs.Detail,
		})
	}
	status.Summary = summarize(status.Bindings)
	return status
}

// summarize folds per-binding states into one experiment-level summary.
func summarize(bindings []BindingStatus) Summary {
	if len(bindings) == 0 {
		return SummaryDisabled
	}

	swapped, unmodified := 0, 0
	for _, b := range bindings {
		switch b.State {
		case swap.StateSwapped:
			swapped++
		case swap.StateUnmodified:
			unmodified++
		default:
			return SummaryInconsistent
		}
	}
	switch {
	case swapped == len(bindings):
		return SummaryEnabled
	case unmodified == len(bindings):
		return SummaryDisabled
	default:
		return SummaryPartial
	}
}
