package cmd

import (
	"fmt"

	"github.com/dendrascience/tidy/internal/sorter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the tidy CLI.
// It reports how many files of each extension a run would copy.
func NewCountCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count files per extension in a directory",
		Long: `Count the files directly inside a directory, grouped by extension.

Only the immediate entries are counted, the same ones a sort would copy.
Files without an extension are listed as (none). Nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			return runCount(cmd, path)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")

	return cmd
}

func runCount(cmd *cobra.Command, path string) error {
	// The target root only shapes FileTask.Target, which count never prints.
	plan, err := sorter.NewPlan(afero.NewOsFs(), path, ".")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderCounts(plan, shouldColorize(out)))
	fmt.Fprintf(out, "Total files: %d\n", len(plan.Tasks)+len(plan.Skipped))
	return nil
}
