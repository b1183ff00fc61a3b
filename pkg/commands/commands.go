// Package commands implements the operations behind the CLI verbs:
// enabling experiments, disabling them, and reporting their status.
//
// Each command receives its collaborators through a Deps value instead
// of reaching for globals, so the full flows run against the in-memory
// fakes in pkg/testutil. Enable and disable process experiments
// independently: one experiment failing never prevents the others from
// being attempted.
package commands

import (
	"github.com/arthur-debert/oxidizr/pkg/apt"
	"github.com/arthur-debert/oxidizr/pkg/config"
	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/experiments"
	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/system"
	"github.com/arthur-debert/oxidizr/pkg/types"
)

// Deps bundles the collaborators a command needs. The CLI wires the
// real implementations; tests wire fakes.
type Deps struct {
	Registry  *experiments.Registry
	Inspector system.Inspector
	Packages  apt.Provider
	FS        types.FS
	Settings  *config.Settings
}

// Selection describes which experiments a command should operate on.
type Selection struct {
	// Experiments holds explicitly requested experiment names.
	Experiments []string

	// All selects every experiment in the registry. When both All and
	// Experiments are set, All wins and the explicit list is ignored.
	All bool
}

// selectExperiments turns a Selection into concrete experiments, in
// registry order. An empty selection falls back to the configured
// defaults.
func selectExperiments(deps Deps, sel Selection) ([]experiments.Experiment, error) {
	logger := logging.GetLogger("commands")

	if sel.All {
		if len(sel.Experiments) > 0 {
			logger.Warn().
				Strs("experiments", sel.Experiments).
				Msg("--all overrides the explicit experiment selection")
		}
		return deps.Registry.All(), nil
	}

	names := sel.Experiments
	if len(names) == 0 {
		if deps.Settings == nil {
			return nil, errors.New(errors.ErrInternal, "no settings available for default experiment selection")
		}
		names = deps.Settings.Experiments.Default
	}
	return deps.Registry.Select(names)
}
