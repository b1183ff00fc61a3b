package cli

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/oxidizr/pkg/config"
	"github.com/arthur-debert/oxidizr/pkg/paths"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	var showDefault bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Example: `  # Effective configuration after all layers
  oxidizr config

  # The built-in defaults, ready to copy into a config file
  oxidizr config --default > /etc/oxidizr/config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if showDefault {
				fmt.Fprint(out, config.DefaultConfigContent())
				return nil
			}

			settings, err := config.Load(paths.New())
			if err != nil {
				return err
			}
			data, err := toml.Marshal(settings)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&showDefault, "default", false, MsgFlagDefault)
	return cmd
}
