package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/tui"
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "tui"},
	Short:   "Open the interactive dashboard",
	Long: `Open an interactive terminal dashboard with the reminder countdown,
the card on the table, the exercise timer and your streak.

Keyboard Controls:
  d      Draw a card
  r      Log the card as done and keep it
  s      Skip the card and draw another
  n      Log the card as done and draw another
  SPACE  Start, pause or resume the timer
  ESC    Stop the timer
  z      Snooze the reminder
  x      Dismiss the reminder
  q      Quit

Examples:
  deskercise dashboard
  deskercise dash`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	// The terminal surface would draw over the alternate screen; the
	// dashboard shows its own banner and only the webhook is kept.
	sched, err := ctx.NewScheduler(io.Discard, false)
	if err != nil {
		return err
	}
	defer sched.Close()

	sched.Start(context.Background(), settings.Interval, settings.NotificationsEnabled)
	ctx.Session.AttachReminder(sched)

	return tui.Run(tui.DashboardConfig{
		Session:   ctx.Session,
		Scheduler: sched,
		Clock:     ctx.Clock,
	})
}
