// Package swap is the transaction engine that replaces system utilities
// with alternative binaries and restores them. Each utility is a Binding:
// the original path, the replacement path, and a backup path derived from
// the original. The package classifies what a binding looks like on disk
// (unmodified, swapped, inconsistent), applies swaps all-or-nothing with
// reverse-order rollback, and reverts them best-effort.
//
// State is always observed from the filesystem at the moment it is
// needed; nothing is cached or persisted between invocations. Concurrent
// invocations against the same bindings are not supported and their
// outcome is undefined.
package swap
