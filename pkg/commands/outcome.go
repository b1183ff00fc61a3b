package commands

import "github.com/arthur-debert/oxidizr/pkg/swap"

// OutcomeStatus classifies how an experiment fared during an enable or
// disable run.
type OutcomeStatus string

const (
	// OutcomeSucceeded means every step for the experiment completed.
	OutcomeSucceeded OutcomeStatus = "succeeded"

	// OutcomeSkipped means the experiment was deliberately left alone,
	// for example because the system is incompatible or the package was
	// never installed. Reason explains why.
	OutcomeSkipped OutcomeStatus = "skipped"

	// OutcomeFailed means a step errored. Err carries the cause.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the per-experiment result of an enable or disable run.
type Outcome struct {
	Experiment string
	Status     OutcomeStatus

	// Reason gives human context for skipped outcomes.
	Reason string

	// Err is set when Status is OutcomeFailed, and for skips that carry
	// a coded cause (such as an incompatible system).
	Err error

	// Swapped counts bindings switched to their replacement during
	// enable. Reverted counts bindings restored during disable.
	// Unchanged counts bindings that were already in the desired state.
	Swapped   int
	Reverted  int
	Unchanged int

	// FailedBindings lists bindings a best-effort revert could not
	// restore, with the order they failed in.
	FailedBindings []swap.BindingFailure
}

// AnyFailed reports whether at least one outcome failed.
func AnyFailed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Status == OutcomeFailed {
			return true
		}
	}
	return false
}
