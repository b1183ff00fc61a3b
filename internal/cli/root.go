// Package cli builds the oxidizr command tree. Commands parse flags,
// wire the real system collaborators and hand off to pkg/commands; all
// user-facing rendering goes through pkg/ui.
package cli

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/internal/version"
	"github.com/arthur-debert/oxidizr/pkg/apt"
	"github.com/arthur-debert/oxidizr/pkg/commands"
	"github.com/arthur-debert/oxidizr/pkg/config"
	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/experiments"
	"github.com/arthur-debert/oxidizr/pkg/filesystem"
	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/paths"
	"github.com/arthur-debert/oxidizr/pkg/system"
	"github.com/arthur-debert/oxidizr/pkg/ui"
)

// rootFlags carries the persistent flag values shared by subcommands.
type rootFlags struct {
	verbosity   int
	yes         bool
	all         bool
	experiments []string
	noCompat    bool
	format      string
}

// geteuid is swappable so CLI tests can pretend to be root.
var geteuid = os.Geteuid

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "oxidizr",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.BoolVarP(&flags.yes, "yes", "y", false, MsgFlagYes)
	pf.BoolVarP(&flags.all, "all", "a", false, MsgFlagAll)
	pf.StringSliceVarP(&flags.experiments, "experiments", "e", nil, MsgFlagExperiments)
	pf.BoolVar(&flags.noCompat, "no-compatibility-check", false, MsgFlagNoCompat)
	pf.StringVar(&flags.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddCommand(newEnableCmd(flags))
	rootCmd.AddCommand(newDisableCmd(flags))
	rootCmd.AddCommand(newStatusCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// selection translates the persistent flags into a command selection.
func (f *rootFlags) selection() commands.Selection {
	return commands.Selection{Experiments: f.experiments, All: f.all}
}

// renderer builds the output renderer the flags ask for, resolving
// auto-detection against stdout.
func (f *rootFlags) renderer(cmd *cobra.Command) (*ui.Renderer, error) {
	format, err := ui.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}
	if format == ui.FormatAuto {
		format = ui.DetectFormat(os.Stdout)
	}
	return ui.NewRenderer(cmd.OutOrStdout(), format), nil
}

// buildDeps wires the real collaborators: the host filesystem, apt and
// lsb_release through an exec-backed runner, and the layered config.
func buildDeps() (commands.Deps, error) {
	settings, err := config.Load(paths.New())
	if err != nil {
		return commands.Deps{}, err
	}

	runner := system.NewExecRunner()
	return commands.Deps{
		Registry:  experiments.DefaultRegistry(),
		Inspector: system.NewHostInspector(runner),
		Packages:  apt.New(runner),
		FS:        filesystem.NewOS(),
		Settings:  settings,
	}, nil
}

// requireRoot refuses to run mutating commands without root: both the
// package manager and /usr/bin need it.
func requireRoot() error {
	if geteuid() != 0 {
		return errors.New(errors.ErrInvalidInput, MsgNeedRoot)
	}
	return nil
}
