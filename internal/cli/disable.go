package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/pkg/commands"
	"github.com/arthur-debert/oxidizr/pkg/ui"
)

func newDisableCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: MsgDisableShort,
		Long:  MsgDisableLong,
		Example: `  # Restore the default experiments
  sudo oxidizr disable

  # Restore everything oxidizr knows about
  sudo oxidizr disable --all --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.renderer(cmd)
			if err != nil {
				return err
			}

			if err := requireRoot(); err != nil {
				return err
			}

			deps, err := buildDeps()
			if err != nil {
				return err
			}

			ok, err := ui.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), MsgConfirmDisable, flags.yes)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf(MsgAborted)
			}

			outcomes, err := commands.Disable(cmd.Context(), deps, commands.DisableOptions{
				Selection: flags.selection(),
			})
			if err != nil {
				return err
			}

			if len(outcomes) == 0 {
				return r.Message(MsgNothingSelected)
			}
			if err := r.Summary("disable", outcomes); err != nil {
				return err
			}
			if commands.AnyFailed(outcomes) {
				return fmt.Errorf("one or more experiments failed")
			}
			return nil
		},
	}
}
