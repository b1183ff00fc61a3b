// Package experiments defines the catalog of swappable utility sets and
// resolves each one to the concrete bindings the swap engine operates on.
package experiments

import (
	"fmt"

	"github.com/arthur-debert/oxidizr/pkg/compat"
)

// Layout describes how a replacement package ships its binaries.
type Layout int

const (
	// LayoutMultiplexed: the package ships one unified binary plus a
	// directory whose entries name the utilities it covers; every
	// original is linked to the unified binary.
	LayoutMultiplexed Layout = iota

	// LayoutPerUtility: the package ships one replacement binary per
	// declared utility name.
	LayoutPerUtility
)

func (l Layout) String() string {
	switch l {
	case LayoutMultiplexed:
		return "multiplexed"
	case LayoutPerUtility:
		return "per-utility"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// Experiment describes one swappable utility set. Values are immutable
// catalog entries; anything observable about an experiment's progress
// lives on disk and is recomputed, never stored here.
type Experiment struct {
	// Name identifies the experiment on the command line.
	Name string

	// Package is the Debian package shipping the replacement binaries.
	Package string

	// Compat gates the experiment on distribution and release.
	Compat compat.Rule

	// Layout selects how bindings are resolved.
	Layout Layout

	// BinDir is the directory the package installs its binaries into.
	// For the multiplexed layout its entries are enumerated to learn
	// which utilities are covered.
	BinDir string

	// UnifiedBinary is the multiplexed layout's single entry point.
	UnifiedBinary string

	// Utilities are the per-utility layout's binary names.
	Utilities []string

	// TargetDir is where the originals live, /usr/bin on Ubuntu.
	TargetDir string

	// LocateInPath resolves each original through PATH before falling
	// back to TargetDir. sudo-rs needs this: visudo lives in /usr/sbin.
	LocateInPath bool
}
