package experiments

import (
	"strings"

	"github.com/arthur-debert/oxidizr/pkg/compat"
	"github.com/arthur-debert/oxidizr/pkg/errors"
)

// Registry is the ordered catalog of known experiments. Selection
// validates names up front: a typo must surface before any package or
// filesystem mutation, not halfway through a run.
type Registry struct {
	experiments []Experiment
	index       map[string]int
}

// NewRegistry builds a registry preserving the given order.
func NewRegistry(exps ...Experiment) *Registry {
	r := &Registry{
		experiments: exps,
		index:       make(map[string]int, len(exps)),
	}
	for i, exp := range exps {
		r.index[exp.Name] = i
	}
	return r
}

// DefaultRegistry returns the built-in catalog in canonical order.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Experiment{
			Name:          "coreutils",
			Package:       "rust-coreutils",
			Compat:        compat.Rule{Distribution: "Ubuntu", MinRelease: "24.04"},
			Layout:        LayoutMultiplexed,
			BinDir:        "/usr/lib/cargo/bin/coreutils",
			UnifiedBinary: "/usr/bin/coreutils",
			TargetDir:     "/usr/bin",
		},
		Experiment{
			Name:          "diffutils",
			Package:       "rust-diffutils",
			Compat:        compat.Rule{Distribution: "Ubuntu", MinRelease: "24.10"},
			Layout:        LayoutMultiplexed,
			BinDir:        "/usr/lib/cargo/bin/diffutils",
			UnifiedBinary: "/usr/lib/cargo/bin/diffutils/diffutils",
			TargetDir:     "/usr/bin",
		},
		Experiment{
			Name:      "findutils",
			Package:   "rust-findutils",
			Compat:    compat.Rule{Distribution: "Ubuntu", MinRelease: "24.04"},
			Layout:    LayoutPerUtility,
			BinDir:    "/usr/lib/cargo/bin/findutils",
			Utilities: []string{"find", "xargs"},
			TargetDir: "/usr/bin",
		},
		Experiment{
			Name:         "sudo-rs",
			Package:      "sudo-rs",
			Compat:       compat.Rule{Distribution: "Ubuntu", Releases: []string{"24.04", "24.10", "25.04"}},
			Layout:       LayoutPerUtility,
			BinDir:       "/usr/lib/cargo/bin",
			Utilities:    []string{"su", "sudo", "visudo"},
			TargetDir:    "/usr/bin",
			LocateInPath: true,
		},
	)
}

// All returns every experiment in catalog order.
func (r *Registry) All() []Experiment {
	out := make([]Experiment, len(r.experiments))
	copy(out, r.experiments)
	return out
}

// Names returns the catalog names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.experiments))
	for i, exp := range r.experiments {
		names[i] = exp.Name
	}
	return names
}

// Get looks an experiment up by name.
func (r *Registry) Get(name string) (Experiment, bool) {
	i, ok := r.index[name]
	if !ok {
		return Experiment{}, false
	}
	return r.experiments[i], true
}

// Select returns the named experiments in catalog order. Every name is
// validated first and all unknown names are reported together, so the
// caller never starts mutating on a partially valid selection.
func (r *Registry) Select(names []string) ([]Experiment, error) {
	var unknown []string
	requested := make(map[string]bool, len(names))

	for _, name := range names {
		if _, ok := r.index[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		requested[name] = true
	}

	if len(unknown) > 0 {
		return nil, errors.Newf(errors.ErrUnknownExperiment,
			"unknown experiments: %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(r.Names(), ", ")).
			WithDetail("unknown", unknown)
	}

	selected := make([]Experiment, 0, len(requested))
	for _, exp := range r.experiments {
		if requested[exp.Name] {
			selected = append(selected, exp)
		}
	}

	return selected, nil
}
