package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/pkg/commands"
	"github.com/arthur-debert/oxidizr/pkg/ui"
)

func newEnableCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: MsgEnableShort,
		Long:  MsgEnableLong,
		Example: `  # Enable the default experiments
  sudo oxidizr enable

  # Enable specific experiments
  sudo oxidizr enable -e coreutils -e findutils

  # Everything, no questions asked
  sudo oxidizr enable --all --yes`,
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

			ok, err := ui.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), MsgConfirmEnable, flags.yes)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf(MsgAborted)
			}

			outcomes, err := commands.Enable(cmd.Context(), deps, commands.EnableOptions{
				Selection:              flags.selection(),
				SkipCompatibilityCheck: flags.noCompat,
			})
			if err != nil {
				// A rollback failure still carries the outcomes gathered
				// before the run stopped; show them before the error.
				if len(outcomes) > 0 {
					_ = r.Summary("enable", outcomes)
				}
				return err
			}

			if len(outcomes) == 0 {
				return r.Message(MsgNothingSelected)
			}
			if err := r.Summary("enable", outcomes); err != nil {
				return err
			}
			if commands.AnyFailed(outcomes) {
				return fmt.Errorf("one or more experiments failed")
			}
			return nil
		},
	}
}
