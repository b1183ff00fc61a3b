// Package testutil provides the test doubles shared across packages: an
// in-memory filesystem with real symlink semantics, a command runner that
// records invocations, and stub implementations of the package provider
// and system inspector.
package testutil
