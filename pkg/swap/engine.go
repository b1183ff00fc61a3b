package swap

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/types"
)

// Action records what Apply did for one binding.
type Action string

const (
	// ActionSwapped: the original was backed up and the symlink created.
	ActionSwapped Action = "swapped"
	// ActionNone: the binding was already swapped; nothing was touched.
	ActionNone Action = "already-swapped"
)

// BindingResult is the per-binding outcome of a successful Apply.
type BindingResult struct {
	Binding Binding
	Action  Action
}

// ApplyReport lists what a successful Apply did, in binding order.
type ApplyReport struct {
	Results []BindingResult
}

// SwapCount returns how many bindings were actually swapped (as opposed
// to found already swapped).
func (r *ApplyReport) SwapCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Action == ActionSwapped {
			n++
		}
	}
	return n
}

// BindingFailure pairs a binding with the error that stopped its revert.
type BindingFailure struct {
	Binding Binding
	Err     error
}

// RevertReport is the outcome of a best-effort Revert. Partial success is
// an expected result, not an error: callers must check Failed.
type RevertReport struct {
	Reverted []Binding
	Skipped  []Binding
	Failed   []BindingFailure
}

// Clean reports whether every binding ended up unmodified.
func (r *RevertReport) Clean() bool {
	return len(r.Failed) == 0
}

// Engine executes swap transactions over a filesystem.
type Engine struct {
	fs     types.FS
	logger zerolog.Logger
}

// NewEngine creates an engine over the given filesystem.
func NewEngine(fsys types.FS) *Engine {
	return &Engine{
		fs:     fsys,
		logger: logging.GetLogger("swap"),
	}
}

// Apply swaps every binding, all-or-nothing. Bindings already swapped are
// no-ops; an inconsistent binding aborts with a CONFLICT before anything
// else is touched for it. On any failure the swaps this call already made
// are undone in reverse order; if that undo itself fails the returned
// error is ROLLBACK_FAILED and names every path left behind.
func (e *Engine) Apply(bindings []Binding) (*ApplyReport, error) {
	done := logging.LogOperationStart(e.logger, "apply swap transaction")
	defer done()

	report := &ApplyReport{}
	var attempted []Binding

	for _, b := range bindings {
		obs := Inspect(e.fs, b)

		switch obs.State {
		case StateSwapped:
			e.logger.Debug().Str("original", b.Original).Msg("Already swapped, skipping")
			report.Results = append(report.Results, BindingResult{Binding: b, Action: ActionNone})

		case StateInconsistent:
			err := errors.Newf(errors.ErrConflict, "refusing to touch %s: %s", b.Original, obs.Detail).
				WithDetail("original", b.Original).
				WithDetail("replacement", b.Replacement).
				WithDetail("backup", b.BackupPath())
			return nil, e.failApply(attempted, err)

		case StateUnmodified:
			attempted = append(attempted, b)
			if err := e.swapOne(b); err != nil {
				return nil, e.failApply(attempted, err)
			}
			report.Results = append(report.Results, BindingResult{Binding: b, Action: ActionSwapped})
		}
	}

	return report, nil
}

// swapOne backs the original up and links the replacement into its place.
func (e *Engine) swapOne(b Binding) error {
	backup := b.BackupPath()

	// Rename would silently clobber an existing backup; refuse instead.
	occupied, err := lexists(e.fs, backup)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot check backup path %s", backup)
	}
	if occupied {
		return errors.Newf(errors.ErrConflict, "backup path %s is already occupied", backup).
			WithDetail("original", b.Original).
			WithDetail("backup", backup)
	}

	if err := e.fs.Rename(b.Original, backup); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to move %s to %s", b.Original, backup)
	}

	if err := e.fs.Symlink(b.Replacement, b.Original); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s to %s", b.Original, b.Replacement)
	}

	e.logger.Info().
		Str("original", b.Original).
		Str("replacement", b.Replacement).
		Str("backup", backup).
		Msg("Swapped utility")

	return nil
}

// failApply rolls back this call's work in reverse order and decides which
// error surfaces: the step error when the rollback restored everything, or
// ROLLBACK_FAILED when it could not.
func (e *Engine) failApply(attempted []Binding, stepErr error) error {
	e.logger.Warn().
		Err(stepErr).
		Int("toRollBack", len(attempted)).
		Msg("Apply failed, rolling back this run's swaps")

	var failures []string
	for i := len(attempted) - 1; i >= 0; i-- {
		if err := e.undoOne(attempted[i]); err != nil {
			e.logger.Error().
				Err(err).
				Str("original", attempted[i].Original).
				Msg("Rollback step failed")
			failures = append(failures, err.Error())
		}
	}

	if len(failures) > 0 {
		return errors.Wrapf(stepErr, errors.ErrRollbackFailed,
			"rollback failed, manual repair needed: %s", strings.Join(failures, "; ")).
			WithDetail("failures", failures)
	}

	return stepErr
}

// undoOne restores a binding this Apply call may have fully or partially
// swapped. It only removes a symlink the engine itself would have created
// and never overwrites a foreign file with the backup.
func (e *Engine) undoOne(b Binding) error {
	backup := b.BackupPath()

	info, err := e.fs.Lstat(b.Original)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		target, rerr := e.fs.Readlink(b.Original)
		if rerr != nil {
			return errors.Wrapf(rerr, errors.ErrRestoreFailed, "cannot read symlink %s during rollback", b.Original)
		}
		if !sameTarget(b.Original, target, b.Replacement) {
			return errors.Newf(errors.ErrRestoreFailed,
				"%s links to %s, not the replacement; leaving it and backup %s in place", b.Original, target, backup)
		}
		if rmErr := e.fs.Remove(b.Original); rmErr != nil {
			return errors.Wrapf(rmErr, errors.ErrRestoreFailed, "failed to remove symlink %s", b.Original)
		}

	case err == nil:
		// A non-symlink occupies the original slot. This call did not
		// put it there, so it stays.
		occupied, lerr := lexists(e.fs, backup)
		if lerr == nil && !occupied {
			return nil
		}
		return errors.Newf(errors.ErrRestoreFailed,
			"refusing to overwrite %s with backup %s", b.Original, backup)

	case !stderrors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(err, errors.ErrRestoreFailed, "cannot inspect %s during rollback", b.Original)
	}

	occupied, err := lexists(e.fs, backup)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRestoreFailed, "cannot inspect backup %s during rollback", backup)
	}
	if !occupied {
		// The swap never got past the rename; nothing to move back.
		return nil
	}

	if err := e.fs.Rename(backup, b.Original); err != nil {
		return errors.Wrapf(err, errors.ErrRestoreFailed, "failed to restore %s from %s", b.Original, backup)
	}

	e.logger.Info().Str("original", b.Original).Msg("Rolled back swap")
	return nil
}

// Revert restores bindings best-effort, in reverse of apply order. Each
// binding is handled independently: an inconsistent or failing binding is
// recorded and the rest still get their originals back.
func (e *Engine) Revert(bindings []Binding) *RevertReport {
	done := logging.LogOperationStart(e.logger, "revert swap transaction")
	defer done()

	report := &RevertReport{}

	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		obs := Inspect(e.fs, b)

		switch obs.State {
		case StateUnmodified:
			e.logger.Debug().Str("original", b.Original).Msg("Not swapped, skipping")
			report.Skipped = append(report.Skipped, b)

		case StateInconsistent:
			report.Failed = append(report.Failed, BindingFailure{
				Binding: b,
				Err: errors.Newf(errors.ErrConflict, "refusing to touch %s: %s", b.Original, obs.Detail).
					WithDetail("original", b.Original).
					WithDetail("backup", b.BackupPath()),
			})

		case StateSwapped:
			if err := e.revertOne(b); err != nil {
				report.Failed = append(report.Failed, BindingFailure{Binding: b, Err: err})
				continue
			}
			report.Reverted = append(report.Reverted, b)
		}
	}

	return report
}

// revertOne removes the replacement symlink and moves the backup home.
func (e *Engine) revertOne(b Binding) error {
	backup := b.BackupPath()

	if err := e.fs.Remove(b.Original); err != nil {
		return errors.Wrapf(err, errors.ErrRestoreFailed, "failed to remove symlink %s", b.Original)
	}

	if err := e.fs.Rename(backup, b.Original); err != nil {
		// The symlink is gone but the original is still parked in the
		// backup; the paths in this error are the operator's repair
		// instructions.
		return errors.Wrapf(err, errors.ErrRestoreFailed, "failed to restore %s from %s", b.Original, backup).
			WithDetail("original", b.Original).
			WithDetail("backup", backup)
	}

	e.logger.Info().
		Str("original", b.Original).
		Str("backup", backup).
		Msg("Restored utility")

	return nil
}
