package swap

import (
	"fmt"
	"path/filepath"
)

// BackupSuffix is appended to a hidden copy of the original's name to
// form the backup path. The format is load-bearing: restore must find
// backups written by any earlier version, so it never changes.
const BackupSuffix = ".oxidizr.bak"

// Binding pairs one original utility path with the replacement that
// stands in for it while an experiment is enabled.
type Binding struct {
	Original    string
	Replacement string
}

// BackupPath derives where the original is parked while swapped:
// /usr/bin/date becomes /usr/bin/.date.oxidizr.bak. The dot prefix keeps
// backups out of shell globs and tab completion in /usr/bin.
func (b Binding) BackupPath() string {
	dir := filepath.Dir(b.Original)
	name := filepath.Base(b.Original)
	return filepath.Join(dir, "."+name+BackupSuffix)
}

func (b Binding) String() string {
	return fmt.Sprintf("%s -> %s", b.Original, b.Replacement)
}
