package swap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/oxidizr/pkg/types"
)

// State classifies what a binding looks like on disk at observation time.
type State int

const (
	// StateUnmodified: the original is in place (a regular file, or a
	// symlink that does not point at the replacement) and no backup
	// exists.
	StateUnmodified State = iota

	// StateSwapped: the original path is a symlink to the replacement
	// and the backup exists.
	StateSwapped

	// StateInconsistent: any other combination. The engine never
	// repairs these silently.
	StateInconsistent
)

func (s State) String() string {
	switch s {
	case StateUnmodified:
		return "unmodified"
	case StateSwapped:
		return "swapped"
	case StateInconsistent:
		return "inconsistent"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Observation is the classified state of a binding plus a human-readable
// detail naming the anomaly when the state is inconsistent.
type Observation struct {
	State  State
	Detail string
}

// Inspect classifies one binding against the filesystem. It is a pure
// read; classification failures (unreadable paths) report as
// inconsistent rather than guessing.
func Inspect(fsys types.FS, b Binding) Observation {
	backup := b.BackupPath()

	backupExists, err := lexists(fsys, backup)
	if err != nil {
		return Observation{StateInconsistent, fmt.Sprintf("cannot inspect backup %s: %v", backup, err)}
	}

	info, err := fsys.Lstat(b.Original)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		target, rerr := fsys.Readlink(b.Original)
		if rerr != nil {
			return Observation{StateInconsistent, fmt.Sprintf("cannot read symlink %s: %v", b.Original, rerr)}
		}
		if sameTarget(b.Original, target, b.Replacement) {
			if backupExists {
				return Observation{State: StateSwapped}
			}
			return Observation{StateInconsistent,
				fmt.Sprintf("%s links to %s but backup %s is missing", b.Original, b.Replacement, backup)}
		}
		if backupExists {
			return Observation{StateInconsistent,
				fmt.Sprintf("backup %s exists but %s links to %s, not %s", backup, b.Original, target, b.Replacement)}
		}
		// A symlink somebody else manages still counts as the original.
		return Observation{State: StateUnmodified}

	case err == nil:
		if backupExists {
			return Observation{StateInconsistent,
				fmt.Sprintf("backup %s exists alongside an unmanaged %s", backup, b.Original)}
		}
		return Observation{State: StateUnmodified}

	case errors.Is(err, fs.ErrNotExist):
		if backupExists {
			return Observation{StateInconsistent,
				fmt.Sprintf("%s is missing but backup %s exists", b.Original, backup)}
		}
		return Observation{StateInconsistent, fmt.Sprintf("%s does not exist", b.Original)}

	default:
		return Observation{StateInconsistent, fmt.Sprintf("cannot inspect %s: %v", b.Original, err)}
	}
}

// lexists reports whether any node occupies the path, without following
// symlinks.
func lexists(fsys types.FS, path string) (bool, error) {
	if _, err := fsys.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// sameTarget reports whether a symlink at link pointing to target refers
// to want. Relative targets resolve against the link's directory.
func sameTarget(link, target, want string) bool {
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target) == filepath.Clean(want)
}
