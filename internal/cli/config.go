package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/casetree/pkg/config"
)

// configCommand prints the effective configuration in casetree.toml syntax.
// The output can be saved and edited as a starting config file:
//
//	casetree config > casetree.toml
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}
	cmd.Flags().String(flagConfig, "", "config file (default "+config.DefaultFile+" if present)")
	return cmd
}
