package experiments

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/swap"
	"github.com/arthur-debert/oxidizr/pkg/system"
	"github.com/arthur-debert/oxidizr/pkg/types"
)

// ResolveOptions control binding resolution.
type ResolveOptions struct {
	// VerifyReplacements requires every replacement binary to exist on
	// disk. Enabling verifies; disabling does not, so originals can
	// still be restored when parts of the replacement package are
	// already gone.
	VerifyReplacements bool
}

// Resolve computes the bindings an experiment covers right now. The
// result is sorted by original path so apply and rollback order are
// deterministic; it is never cached between invocations.
func Resolve(exp Experiment, insp system.Inspector, fsys types.FS, opts ResolveOptions) ([]swap.Binding, error) {
	var bindings []swap.Binding
	var err error

	switch exp.Layout {
	case LayoutMultiplexed:
		bindings, err = resolveMultiplexed(exp, insp, fsys, opts)
	case LayoutPerUtility:
		bindings, err = resolvePerUtility(exp, insp, fsys, opts)
	default:
		return nil, errors.Newf(errors.ErrInternal, "experiment %s has unknown layout %v", exp.Name, exp.Layout)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Original < bindings[j].Original
	})

	return bindings, nil
}

func resolveMultiplexed(exp Experiment, insp system.Inspector, fsys types.FS, opts ResolveOptions) ([]swap.Binding, error) {
	if opts.VerifyReplacements {
		if err := verifyExists(fsys, exp.UnifiedBinary); err != nil {
			return nil, errors.Wrapf(err, errors.ErrResolution,
				"experiment %s: unified binary %s is not usable", exp.Name, exp.UnifiedBinary)
		}
	}

	entries, err := fsys.ReadDir(exp.BinDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrResolution,
			"experiment %s: cannot enumerate %s", exp.Name, exp.BinDir)
	}

	var bindings []swap.Binding
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		bindings = append(bindings, swap.Binding{
			Original:    originalFor(exp, insp, entry.Name()),
			Replacement: exp.UnifiedBinary,
		})
	}

	return bindings, nil
}

func resolvePerUtility(exp Experiment, insp system.Inspector, fsys types.FS, opts ResolveOptions) ([]swap.Binding, error) {
	bindings := make([]swap.Binding, 0, len(exp.Utilities))

	for _, util := range exp.Utilities {
		replacement := filepath.Join(exp.BinDir, util)

		if opts.VerifyReplacements {
			if err := verifyExists(fsys, replacement); err != nil {
				return nil, errors.Wrapf(err, errors.ErrResolution,
					"experiment %s: no replacement for utility %q at %s", exp.Name, util, replacement)
			}
		}

		bindings = append(bindings, swap.Binding{
			Original:    originalFor(exp, insp, util),
			Replacement: replacement,
		})
	}

	return bindings, nil
}

// originalFor locates the original utility. PATH lookup applies only when
// the experiment asks for it, and a missing PATH entry falls back to the
// conventional location instead of failing: a swapped-away or missing
// original is the swap engine's call to make, not the resolver's.
func originalFor(exp Experiment, insp system.Inspector, name string) string {
	if exp.LocateInPath {
		if path, err := insp.LookPath(name); err == nil {
			return path
		}
	}
	return filepath.Join(exp.TargetDir, name)
}

func verifyExists(fsys types.FS, path string) error {
	if _, err := fsys.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return stderrors.New("file does not exist")
		}
		return err
	}
	return nil
}
