package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/pkg/experiments"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Example: `  # List experiments
  oxidizr list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			registry := experiments.DefaultRegistry()

			fmt.Fprintf(out, "%-12s %-16s %-13s %s\n", "EXPERIMENT", "PACKAGE", "LAYOUT", "COMPATIBILITY")
			for _, exp := range registry.All() {
				fmt.Fprintf(out, "%-12s %-16s %-13s %s\n",
					exp.Name, exp.Package, exp.Layout, exp.Compat.String())
			}
			return nil
		},
	}
}
