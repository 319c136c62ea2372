package cmd

import (
	"github.com/dendrascience/tidy/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the tidy CLI.
// The root command performs the sort; utilities are attached as subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := newSortCmd()
	rootCmd.Version = version.GetFullVersion()

	groupUtilities := "utilities"
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd()
	configCmd := NewConfigCmd()

	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	configCmd.GroupID = groupUtilities

	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)

	return rootCmd
}
