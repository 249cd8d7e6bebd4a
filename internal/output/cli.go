package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/stats"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorSilent  = lipgloss.Color("#3B82F6") // Blue

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleExercise = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleNote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2)
)

// DifficultyColor returns the accent color for a difficulty.
func DifficultyColor(d catalog.Difficulty) lipgloss.Color {
	switch d {
	case catalog.Intense:
		return colorError
	case catalog.Silent:
		return colorSilent
	default:
		return colorSuccess
	}
}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(s lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return s.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Bold formats text in bold.
func (c *CLIFormatter) Bold(text string) string {
	return c.render(styleBold, text)
}

// ExerciseName formats an exercise name.
func (c *CLIFormatter) ExerciseName(name string) string {
	return c.render(styleExercise, name)
}

// Difficulty formats a difficulty label in its accent color.
func (c *CLIFormatter) Difficulty(d catalog.Difficulty) string {
	return c.render(lipgloss.NewStyle().Foreground(DifficultyColor(d)), d.Label())
}

// Note formats a note.
func (c *CLIFormatter) Note(text string) string {
	return c.render(styleNote, text)
}

// PrintCard prints an exercise card.
func (c *CLIFormatter) PrintCard(ex catalog.Exercise) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", ex.Emoji, c.ExerciseName(ex.Name))
	fmt.Fprintf(&b, "%s · %s\n\n", c.Difficulty(ex.Difficulty), FormatDuration(ex.Duration()))
	b.WriteString(ex.Description)

	if c.IsColorEnabled() {
		c.Println(styleCard.Render(b.String()))
		return
	}
	c.Println(b.String())
}

// PrintNoCard prints the hint shown when no card is on the table.
func (c *CLIFormatter) PrintNoCard() {
	c.Muted("No card on the table.")
	c.Muted("Use 'deskercise draw' to pick an exercise.")
}

// PrintEvent prints one history line.
func (c *CLIFormatter) PrintEvent(ev *model.ExerciseEvent) {
	mark := c.render(styleSuccess, "✓")
	if !ev.IsCompleted() {
		mark = c.render(styleMuted, "↷")
	}
	c.Printf("  %s %s %s  %s  %s\n",
		mark,
		ev.Emoji,
		c.ExerciseName(ev.ExerciseName),
		c.Difficulty(ev.Difficulty),
		c.Note(FormatEpochMillis(ev.Timestamp)),
	)
}

// PrintHistory prints events grouped into today, this week and earlier.
func (c *CLIFormatter) PrintHistory(events []*model.ExerciseEvent, now time.Time) {
	if len(events) == 0 {
		c.Muted("No exercises logged yet.")
		return
	}

	for _, g := range GroupByAge(events, now) {
		if len(g.Events) == 0 {
			continue
		}
		c.Title(g.Label)
		for _, ev := range g.Events {
			c.PrintEvent(ev)
		}
		c.Println()
	}
}

// EventGroup is a labelled slice of history.
type EventGroup struct {
	Label  string
	Events []*model.ExerciseEvent
}

// GroupByAge splits events into "Today", "This Week" and "Earlier" using
// now's calendar. Input order is preserved within a group.
func GroupByAge(events []*model.ExerciseEvent, now time.Time) []EventGroup {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))

	groups := []EventGroup{{Label: "Today"}, {Label: "This Week"}, {Label: "Earlier"}}
	for _, ev := range events {
		t := ev.Time().In(loc)
		switch {
		case !t.Before(today):
			groups[0].Events = append(groups[0].Events, ev)
		case !t.Before(weekStart):
			groups[1].Events = append(groups[1].Events, ev)
		default:
			groups[2].Events = append(groups[2].Events, ev)
		}
	}
	return groups
}

// PrintStats prints totals and the current streak.
func (c *CLIFormatter) PrintStats(s stats.Stats) {
	c.Printf("Completed: %s\n", c.Bold(fmt.Sprintf("%d", s.TotalCompleted)))
	streak := fmt.Sprintf("%d day", s.CurrentStreakDays)
	if s.CurrentStreakDays != 1 {
		streak += "s"
	}
	if s.CurrentStreakDays > 0 {
		streak += " 🔥"
	}
	c.Printf("Streak:    %s\n", c.Bold(streak))
}

// PrintReminder prints the scheduler state.
func (c *CLIFormatter) PrintReminder(st reminder.State, remaining time.Duration) {
	if !st.Active {
		c.Muted("Reminders are off.")
		c.Muted("Use 'deskercise remind start' to turn them on.")
		return
	}

	label := fmt.Sprintf("every %d min", st.IntervalMinutes)
	if st.Snoozed {
		label += ", snoozed"
	}
	c.Printf("Next reminder: %s (in %s)\n", c.Bold(FormatTimeOnly(st.NextFire)), FormatDuration(remaining))
	c.Printf("  %s\n", c.Note(label))
	if st.SurfaceVisible {
		c.Warning("Time to move! Draw a card or snooze.")
	}
}

// PrintLeaderboard prints team standings.
func (c *CLIFormatter) PrintLeaderboard(rows []stats.MemberStats) {
	if len(rows) == 0 {
		c.Muted("No members yet.")
		return
	}
	table := make([]TableRow, len(rows))
	for i, r := range rows {
		name := r.DisplayName
		if r.AvatarEmoji != "" {
			name = r.AvatarEmoji + " " + name
		}
		table[i] = TableRow{Columns: []string{
			fmt.Sprintf("%d", i+1),
			name,
			fmt.Sprintf("%d", r.TotalCompleted),
			fmt.Sprintf("%d", r.CurrentStreakDays),
		}}
	}
	c.PrintTable([]string{"#", "MEMBER", "DONE", "STREAK"}, table)
}

// PrintTeam prints a team header with its invite code.
func (c *CLIFormatter) PrintTeam(t *model.Team) {
	c.Printf("%s %s\n", c.Bold(t.Name), c.Note("("+t.ShortID()+")"))
	c.Printf("  Invite code: %s\n", t.InviteCode)
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && lipgloss.Width(col) > widths[i] {
				widths[i] = lipgloss.Width(col)
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-lipgloss.Width(s)) + "  "
	}

	var header strings.Builder
	for i, h := range headers {
		header.WriteString(pad(h, widths[i]))
	}
	c.Println(c.Bold(strings.TrimRight(header.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				line.WriteString(pad(col, widths[i]))
			}
		}
		c.Println(strings.TrimRight(line.String(), " "))
	}
}
