package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/stats"
	"github.com/deskercise/deskercise/internal/timer"
)

func boxWidth(width int) int {
	if width < 24 {
		return 20
	}
	return width - 4
}

// ReminderComponent shows the next reminder or the active prompt.
type ReminderComponent struct {
	State     reminder.State
	Remaining time.Duration
	Width     int
}

// View renders the reminder component.
func (rc ReminderComponent) View() string {
	var content strings.Builder

	switch {
	case rc.State.SurfaceVisible:
		content.WriteString(StyleWarning.Bold(true).Render("Time to move! 🎴"))
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render("Do the card below, or z to snooze 5 min, x to dismiss"))
		return StyleAlertBox.Width(boxWidth(rc.Width)).Render(content.String())
	case !rc.State.Enabled:
		content.WriteString(StyleInactive.Render("Reminders are off"))
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render("Turn them on with: deskercise settings set notifications on"))
	case !rc.State.Active:
		content.WriteString(StyleInactive.Render("No reminder scheduled"))
	default:
		label := "Next reminder in "
		if rc.State.Snoozed {
			label = "Snoozed, reminding in "
		}
		content.WriteString(StyleSubtitle.Render(label))
		content.WriteString(StyleClock.Render(timer.FormatSeconds(int(rc.Remaining.Round(time.Second).Seconds()))))
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render(fmt.Sprintf("every %d min, at %s",
			rc.State.IntervalMinutes, output.FormatTimeOnly(rc.State.NextFire))))
	}

	return StyleBox.Width(boxWidth(rc.Width)).Render(content.String())
}

// CardComponent shows the current exercise card.
type CardComponent struct {
	Card  *catalog.Exercise
	Width int
}

// View renders the card component.
func (cc CardComponent) View() string {
	var content strings.Builder

	if cc.Card == nil {
		content.WriteString(StyleInactive.Render("No card drawn"))
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render("Press d to draw one"))
		return StyleBox.Width(boxWidth(cc.Width)).Render(content.String())
	}

	ex := cc.Card
	content.WriteString(ex.Emoji + "  " + StyleExercise.Render(ex.Name))
	content.WriteString("  ")
	content.WriteString(DifficultyBadge(ex.Difficulty))
	content.WriteString("\n")
	content.WriteString(StyleDescription.Render(ex.Description))
	content.WriteString("\n")
	content.WriteString(StyleSubtitle.Render(output.FormatDuration(ex.Duration())))

	return StyleBox.Width(boxWidth(cc.Width)).Render(content.String())
}

// TimerComponent shows the exercise timer.
type TimerComponent struct {
	Snapshot timer.Snapshot
	Width    int
}

// View renders the timer component.
func (tc TimerComponent) View() string {
	snap := tc.Snapshot
	var content strings.Builder

	switch snap.Phase {
	case timer.PhaseIdle:
		content.WriteString(StyleInactive.Render("Timer ready " + timer.FormatSeconds(snap.Total)))
	case timer.PhaseCountdown:
		content.WriteString(StyleWarning.Bold(true).Render(fmt.Sprintf("Get ready... %d", snap.Countdown)))
	case timer.PhaseComplete:
		content.WriteString(StyleSuccess.Bold(true).Render("Done! Logged to your history."))
	default:
		content.WriteString(StyleClock.Render(timer.FormatSeconds(snap.Remaining)))
		if snap.Phase == timer.PhasePaused {
			content.WriteString("  " + StyleWarning.Render("[PAUSED]"))
		}
		content.WriteString("\n")
		barWidth := boxWidth(tc.Width) - 6
		if barWidth < 10 {
			barWidth = 10
		}
		content.WriteString(ProgressBar(snap.Progress()*100, barWidth))
	}

	return StyleBox.Width(boxWidth(tc.Width)).Render(content.String())
}

// StatsComponent shows totals and the streak.
type StatsComponent struct {
	Stats stats.Stats
	Width int
}

// View renders the stats component.
func (sc StatsComponent) View() string {
	streak := fmt.Sprintf("%d day", sc.Stats.CurrentStreakDays)
	if sc.Stats.CurrentStreakDays != 1 {
		streak += "s"
	}
	if sc.Stats.CurrentStreakDays > 0 {
		streak += " 🔥"
	}

	content := StyleSubtitle.Render("Completed ") + StyleExercise.Render(fmt.Sprintf("%d", sc.Stats.TotalCompleted)) +
		StyleSubtitle.Render("   Streak ") + StyleExercise.Render(streak)
	return StyleBox.Width(boxWidth(sc.Width)).Render(content)
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"d", "draw"},
		{"r", "repeat"},
		{"s", "skip"},
		{"n", "next"},
		{"space", "timer"},
		{"esc", "stop"},
		{"z", "snooze"},
		{"x", "dismiss"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
