package types

import "io/fs"

// FS abstracts the filesystem operations used by oxidizr. It covers exactly
// the operations the swap engine, the binding resolver and the system
// inspector need — no more. The production implementation lives in
// pkg/filesystem; tests use the symlink-aware memory filesystem from
// pkg/testutil.
type FS interface {
	// Stat follows symlinks; Lstat does not. The swap engine depends on
	// Lstat to classify a path without being fooled by a dangling link.
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)

	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink creates newname pointing at oldname. Readlink reports the
	// target of an existing link.
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	Remove(name string) error

	// Rename is assumed atomic within a filesystem; the swap engine relies
	// on this to keep the window of inconsistency during backup creation as
	// small as the OS allows.
	Rename(oldpath, newpath string) error
}
