package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// config show|init: inspect or persist the effective configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				shown := *cfg
				if shown.Service.Token != "" {
					shown.Service.Token = "********"
				}
				b, err := yaml.Marshal(&shown)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the effective configuration, minus the token, to the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				// tokens belong in the sealed credential store
				saved := *cfg
				saved.Service.Token = ""
				if err := saved.Save(cfgPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgPath)
				return nil
			},
		},
	)
	return cmd
}
