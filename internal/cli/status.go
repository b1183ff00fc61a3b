package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/pkg/commands"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Example: `  # Status of every experiment
  oxidizr status

  # Status of one experiment, machine readable
  oxidizr status -e coreutils --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.renderer(cmd)
			if err != nil {
				return err
			}

			deps, err := buildDeps()
			if err != nil {
				return err
			}

			statuses, err := commands.Status(cmd.Context(), deps, flags.selection())
			if err != nil {
				return err
			}
			return r.Statuses(statuses)
		},
	}
}
