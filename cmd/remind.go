package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/reminder"
)

// remindCmd represents the remind command.
var remindCmd = &cobra.Command{
	Use:     "remind [command]",
	Aliases: []string{"reminder", "rem"},
	Short:   "Manage the move reminder",
	Long: `Manage the recurring reminder to get up and move. The countdown is
stored, so it carries over between commands and is picked up by a running
daemon within a few seconds.

Examples:
  deskercise remind
  deskercise remind start
  deskercise remind snooze
  deskercise remind reset
  deskercise remind stop`,
	Args: cobra.NoArgs,
	RunE: runRemindStatus,
}

// remindStatusCmd shows the reminder countdown.
var remindStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the next reminder",
	Args:  cobra.NoArgs,
	RunE:  runRemindStatus,
}

// remindStartCmd turns reminders on.
var remindStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Turn reminders on and start the countdown",
	Long: `Turn reminders on. A countdown that is still running is kept;
otherwise a full interval starts now.

Examples:
  deskercise remind start
  deskercise daemon start   # deliver reminders while no dashboard is open`,
	Args: cobra.NoArgs,
	RunE: runRemindStart,
}

// remindSnoozeCmd pushes the next reminder back.
var remindSnoozeCmd = &cobra.Command{
	Use:   "snooze",
	Short: fmt.Sprintf("Remind again in %d minutes", int(reminder.SnoozeDuration.Minutes())),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemindAction("snoozed", (*reminder.Scheduler).Snooze)
	},
}

// remindDismissCmd hides the reminder prompt.
var remindDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Hide the reminder prompt and keep the countdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemindAction("dismissed", (*reminder.Scheduler).Dismiss)
	},
}

// remindResetCmd restarts the countdown.
var remindResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart a full interval from now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemindAction("reset", (*reminder.Scheduler).Reset)
	},
}

// remindStopCmd turns reminders off.
var remindStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Turn reminders off",
	Args:  cobra.NoArgs,
	RunE:  runRemindStop,
}

func init() {
	remindCmd.AddCommand(remindStatusCmd)
	remindCmd.AddCommand(remindStartCmd)
	remindCmd.AddCommand(remindSnoozeCmd)
	remindCmd.AddCommand(remindDismissCmd)
	remindCmd.AddCommand(remindResetCmd)
	remindCmd.AddCommand(remindStopCmd)

	rootCmd.AddCommand(remindCmd)
}

// runRemindStatus reads the stored countdown without changing it.
func runRemindStatus(cmd *cobra.Command, args []string) error {
	st, err := ctx.ReminderState()
	if err != nil {
		return err
	}
	remaining := st.NextFire.Sub(ctx.Clock.Now())
	if !st.Active || remaining < 0 {
		remaining = 0
	}
	return printReminder("ok", st, remaining)
}

// runRemindStart handles the remind start command.
func runRemindStart(cmd *cobra.Command, args []string) error {
	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}
	if !settings.NotificationsEnabled {
		settings.NotificationsEnabled = true
		if err := ctx.SettingsRepo.Save(settings); err != nil {
			return err
		}
	}

	sched, _, err := ctx.LoadScheduler(context.Background())
	if err != nil {
		return err
	}
	defer sched.Close()

	return printReminder("started", sched.State(), sched.Remaining())
}

// runRemindAction resumes the stored countdown, applies action and stores
// the result.
func runRemindAction(status string, action func(*reminder.Scheduler)) error {
	sched, settings, err := ctx.LoadScheduler(context.Background())
	if err != nil {
		return err
	}
	defer sched.Close()

	if !settings.NotificationsEnabled {
		return errs.ErrRemindersDisabled
	}

	action(sched)
	return printReminder(status, sched.State(), sched.Remaining())
}

// runRemindStop handles the remind stop command.
func runRemindStop(cmd *cobra.Command, args []string) error {
	sched, settings, err := ctx.LoadScheduler(context.Background())
	if err != nil {
		return err
	}
	defer sched.Close()

	sched.Stop()
	if settings.NotificationsEnabled {
		settings.NotificationsEnabled = false
		if err := ctx.SettingsRepo.Save(settings); err != nil {
			return err
		}
	}
	return printReminder("stopped", sched.State(), 0)
}

func printReminder(status string, st reminder.State, remaining time.Duration) error {
	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(output.NewReminderResponse(status, st, remaining))
	}

	cli := ctx.CLIFormatter()
	switch status {
	case "snoozed":
		cli.Success(fmt.Sprintf("Snoozed for %d minutes", int(reminder.SnoozeDuration.Minutes())))
	case "reset":
		cli.Success("Countdown restarted")
	case "dismissed":
		cli.Success("Reminder dismissed")
	case "stopped":
		cli.Success("Reminders turned off")
		return nil
	}
	cli.PrintReminder(st, remaining)
	return nil
}
