package cmd

import (
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"stat", "streak"},
	Short:   "Show exercise totals and your streak",
	Long: `Show how many exercises you have completed and how many days in a
row you have completed at least one. Skipped cards do not count.

Examples:
  deskercise stats
  deskercise stats -f json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	summary, err := ctx.Session.Stats()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(summary)
	}
	ctx.CLIFormatter().PrintStats(summary)
	return nil
}
