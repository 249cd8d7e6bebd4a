package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/config"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/parser"
	"github.com/deskercise/deskercise/internal/session"
)

// History command flags.
var (
	historyFlagSince  string
	historyFlagStatus string
	historyFlagLimit  int
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log", "hist"},
	Short:   "Show logged exercises",
	Long: `Show your exercise log, newest first, grouped into today, this week
and earlier. Signed-in users see their own log.

Examples:
  deskercise history
  deskercise history --since yesterday
  deskercise history --since "last week" --status completed
  deskercise history --limit 50 -f json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyFlagSince, "since", "s", "",
		"Only show entries after this time (e.g. 'yesterday', 'last week')")
	historyCmd.Flags().StringVar(&historyFlagStatus, "status", "",
		"Only show one outcome: completed, skipped")
	historyCmd.Flags().IntVarP(&historyFlagLimit, "limit", "n", 0,
		"Maximum number of entries (default from DESKERCISE_HISTORY_LIMIT)")

	historyCmd.RegisterFlagCompletionFunc("status", cobra.FixedCompletions(
		[]string{string(model.StatusCompleted), string(model.StatusSkipped)}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(historyCmd)
}

// runHistory handles the history command.
func runHistory(cmd *cobra.Command, args []string) error {
	filter, err := historyFilter(ctx.Clock.Now())
	if err != nil {
		return err
	}

	events, err := ctx.Session.History(filter)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintHistory(events)
	}
	ctx.CLIFormatter().PrintHistory(events, ctx.Clock.Now())
	return nil
}

// historyFilter builds the filter from the command flags.
func historyFilter(now time.Time) (session.HistoryFilter, error) {
	filter := session.HistoryFilter{Limit: historyFlagLimit}
	if filter.Limit <= 0 {
		filter.Limit = config.Global.History.DefaultLimit
	}

	if historyFlagSince != "" {
		since, err := parser.ParseSince(historyFlagSince, now)
		if err != nil {
			return filter, err
		}
		filter.Since = since
	}

	if historyFlagStatus != "" {
		status := model.EventStatus(historyFlagStatus)
		if !status.Valid() {
			return filter, errs.NewUserErrorWithField("status", historyFlagStatus,
				"unknown status", "Status must be one of: completed, skipped.")
		}
		filter.Status = status
	}
	return filter, nil
}
