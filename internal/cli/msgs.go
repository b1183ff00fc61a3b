package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Swap Ubuntu system utilities for their Rust replacements"
	MsgRootLong  = `oxidizr manages a set of experiments: system utilities whose stock
implementations can be swapped for modern Rust-based replacements and
swapped back later. Every original is kept as a backup next to its
symlink, so a disable run restores the system bit for bit.`

	MsgEnableShort = "Install replacement packages and swap the originals in"
	MsgEnableLong  = `Enable installs each selected experiment's package and replaces the
system utilities it covers with symlinks to the replacement binaries.
The originals are kept as backups beside the symlinks.

Each experiment is swapped atomically: if one of its utilities cannot
be swapped, the ones already done are rolled back before the error is
reported.`

	MsgDisableShort = "Restore the original utilities and remove the replacements"
	MsgDisableLong  = `Disable puts the original utilities back in place from their backups
and removes the replacement packages. Restoration is best effort: one
stuck utility does not keep the others from being restored, and the
package stays installed while any of its symlinks remain.`

	MsgStatusShort = "Show the observed state of each experiment"
	MsgStatusLong  = `Status inspects the filesystem and reports, per experiment, whether
its utilities point at the replacements, at the originals, or at
something this tool cannot account for. It never changes anything.`

	MsgListShort    = "List known experiments and their compatibility rules"
	MsgConfigShort  = "Print the effective configuration"
	MsgConfigLong   = "Print the configuration after defaults, config files and environment variables are merged."
	MsgDocsShort    = "Show a documentation topic"
	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagYes         = "Skip the confirmation prompt"
	MsgFlagAll         = "Select every known experiment"
	MsgFlagExperiments = "Experiments to operate on (repeatable or comma-separated)"
	MsgFlagNoCompat    = "Skip the distribution compatibility check (dangerous)"
	MsgFlagFormat      = "Output format: auto, term, text or json"
	MsgFlagDefault     = "Print the built-in default configuration instead"
	MsgFlagCheck       = "Check GitHub for a newer release"

	// Version output
	MsgVersionFormat = "oxidizr version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"
	MsgUpToDate      = "You are on the latest version.\n"
	MsgOutdated      = "A newer version is available: %s (you have %s)\n"

	// Run messages
	MsgNeedRoot        = "oxidizr must be run as root to modify system utilities"
	MsgAborted         = "aborted by user"
	MsgNothingSelected = "no experiments selected, nothing to do"
	MsgConfirmEnable   = "Continue?"
	MsgConfirmDisable  = "Restore the original utilities?"
)
