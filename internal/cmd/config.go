package cmd

import (
	"fmt"

	"github.com/dendrascience/tidy/internal/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates and returns the config subcommand for the tidy CLI.
// It prints the effective configuration after defaults are applied.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "# loaded from %s\n", resolved)
			} else {
				fmt.Fprintf(out, "# %s not found, showing defaults\n", resolved)
			}
			_, err = out.Write(data)
			return err
		},
	}
}
