package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/notify"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/validate"
)

// settingKeys lists the keys accepted by settings set.
var settingKeys = []string{"interval", "difficulty", "notifications", "webhook-url", "webhook-type"}

// settingsCmd represents the settings command.
var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config", "cfg"},
	Short:   "Show or change preferences",
	Long: `Show your preferences: reminder interval, difficulty, whether
reminders are on, and the optional webhook that receives them.

Examples:
  deskercise settings
  deskercise settings set interval 60
  deskercise settings set difficulty silent
  deskercise settings set notifications on
  deskercise settings set webhook-url https://hooks.slack.com/services/...
  deskercise settings test-webhook`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

// settingsSetCmd updates one preference.
var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a preference",
	Long: `Change a preference.

Keys and values:
  interval MINUTES          Reminder interval: 30, 60 or 90
  difficulty LEVEL          Card pool: easy, intense, silent
  notifications on|off      Turn reminders on or off
  webhook-url URL           Also post reminders to this URL ("" to remove)
  webhook-type TYPE         Payload format: slack, discord, generic

Changing the difficulty clears the card on the table. Changing the
interval restarts the reminder countdown.

Examples:
  deskercise settings set interval 90
  deskercise settings set notifications off`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeSettingArgs,
	RunE:              runSettingsSet,
}

// settingsTestWebhookCmd sends a test notification.
var settingsTestWebhookCmd = &cobra.Command{
	Use:   "test-webhook",
	Short: "Send a test notification to the configured webhook",
	Args:  cobra.NoArgs,
	RunE:  runSettingsTestWebhook,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTestWebhookCmd)
	rootCmd.AddCommand(settingsCmd)
}

// runSettingsShow handles the settings command.
func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}
	return printSettings(settings)
}

// runSettingsSet handles the settings set command.
func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := strings.ToLower(args[0]), args[1]

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}
	prev := *settings

	switch key {
	case "interval":
		settings.Interval, err = validate.Interval(value)
	case "difficulty":
		level, verr := validate.Difficulty(value)
		if verr != nil {
			return verr
		}
		// Goes through the session so the recent window and table are cleared.
		if err := ctx.Session.SetDifficulty(level); err != nil {
			return err
		}
		if settings, err = ctx.SettingsRepo.Get(); err != nil {
			return err
		}
		return printSettings(settings)
	case "notifications":
		settings.NotificationsEnabled, err = parseToggle(value)
	case "webhook-url":
		value = strings.TrimSpace(value)
		if value != "" && value != "none" {
			err = validate.URL(value)
		} else {
			value = ""
		}
		settings.WebhookURL = value
	case "webhook-type":
		settings.WebhookType, err = validate.WebhookType(value)
	default:
		return errs.NewUserErrorWithField("setting", args[0], "unknown setting", "").Because(errs.ErrInvalidSetting)
	}
	if err != nil {
		return err
	}

	if err := ctx.SettingsRepo.Save(settings); err != nil {
		return err
	}
	if err := applyReminderSettings(&prev, settings); err != nil {
		return err
	}

	logging.Info("setting changed", "key", key)
	return printSettings(settings)
}

// applyReminderSettings brings the stored reminder cycle in line with new
// preferences.
func applyReminderSettings(prev, next *model.Settings) error {
	if !next.NotificationsEnabled {
		if prev.NotificationsEnabled {
			return ctx.ReminderRepo.Clear()
		}
		return nil
	}
	if prev.NotificationsEnabled && prev.Interval == next.Interval {
		return nil
	}

	if err := ctx.ReminderRepo.Clear(); err != nil {
		return err
	}
	sched, _, err := ctx.LoadScheduler(context.Background())
	if err != nil {
		return err
	}
	sched.Close()
	return nil
}

// runSettingsTestWebhook handles the settings test-webhook command.
func runSettingsTestWebhook(cmd *cobra.Command, args []string) error {
	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}
	if settings.WebhookURL == "" {
		return errs.NewUserError("No webhook configured",
			"Set one with 'deskercise settings set webhook-url <url>'.")
	}

	c, cancel := context.WithTimeout(context.Background(), reminder.DefaultNotifyTimeout)
	defer cancel()

	hook := notify.NewWebhookSurface(settings.WebhookURL, settings.WebhookType, nil)
	if _, err := hook.RequestPermission(c); err != nil {
		return err
	}
	n := model.NewNotification(model.NotifyTest, "Deskercise test", "Your webhook is set up. Reminders will arrive here.")
	if err := hook.Show(c, n); err != nil {
		return errs.NewSystemErrorWithOp("webhook", "test notification failed", err)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(map[string]any{
			"status":  "sent",
			"webhook": logging.MaskURL(settings.WebhookURL),
		})
	}
	ctx.CLIFormatter().Success("Test notification sent to " + logging.MaskURL(settings.WebhookURL))
	return nil
}

func printSettings(s *model.Settings) error {
	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(s)
	}

	cli := ctx.CLIFormatter()
	notifications := "off"
	if s.NotificationsEnabled {
		notifications = "on"
	}
	webhook := "none"
	if s.WebhookURL != "" {
		webhook = fmt.Sprintf("%s (%s)", logging.MaskURL(s.WebhookURL), s.WebhookType)
	}

	cli.PrintTable([]string{"SETTING", "VALUE"}, []output.TableRow{
		{Columns: []string{"interval", fmt.Sprintf("%d min", s.Interval)}},
		{Columns: []string{"difficulty", cli.Difficulty(s.Difficulty)}},
		{Columns: []string{"notifications", notifications}},
		{Columns: []string{"webhook", webhook}},
	})
	return nil
}

// parseToggle accepts on/off in addition to the strconv boolean forms.
func parseToggle(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "enabled", "enable":
		return true, nil
	case "off", "no", "disabled", "disable":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewUserErrorWithField("notifications", raw,
			"expected on or off", "Use 'on' or 'off'.").Because(errs.ErrInvalidSetting)
	}
	return b, nil
}
