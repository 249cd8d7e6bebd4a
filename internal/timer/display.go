package timer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deskercise/deskercise/internal/catalog"
)

// Display renders timer snapshots for a terminal.
type Display struct {
	Writer   io.Writer
	UseColor bool
	Width    int
}

// NewDisplay creates a display writing to stdout.
func NewDisplay() *Display {
	return &Display{
		Writer:   os.Stdout,
		UseColor: true,
		Width:    30,
	}
}

var (
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	nameStyle = lipgloss.NewStyle().
			Bold(true)

	leadInStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	doneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6B7280"))
)

// DifficultyColor returns the accent used for a difficulty level.
func DifficultyColor(d catalog.Difficulty) lipgloss.Color {
	switch d {
	case catalog.Intense:
		return lipgloss.Color("#EF4444")
	case catalog.Silent:
		return lipgloss.Color("#3B82F6")
	default:
		return lipgloss.Color("#10B981")
	}
}

// FormatSeconds formats a second count as MM:SS.
func FormatSeconds(s int) string {
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func (d *Display) style(s lipgloss.Style, text string) string {
	if !d.UseColor {
		return text
	}
	return s.Render(text)
}

// Render renders the full timer screen for snap.
func (d *Display) Render(snap Snapshot) string {
	var b strings.Builder

	ex := snap.Exercise
	b.WriteString(d.style(nameStyle, fmt.Sprintf("%s %s", ex.Emoji, ex.Name)))
	level := fmt.Sprintf(" [%s]", ex.Difficulty.Label())
	b.WriteString(d.style(lipgloss.NewStyle().Foreground(DifficultyColor(ex.Difficulty)), level))
	b.WriteString("\n\n")

	switch snap.Phase {
	case PhaseCountdown:
		b.WriteString(d.style(leadInStyle, fmt.Sprintf("Get ready... %d", snap.Countdown)))
	case PhaseComplete:
		b.WriteString(d.style(doneStyle, "Done!"))
	default:
		b.WriteString(d.style(clockStyle, FormatSeconds(snap.Remaining)))
	}
	b.WriteString("\n\n")

	b.WriteString(d.style(barStyle, d.progressBar(snap.Progress())))
	b.WriteString("\n\n")

	b.WriteString(d.style(hintStyle, hint(snap.Phase)))
	return b.String()
}

func hint(p Phase) string {
	switch p {
	case PhaseIdle:
		return "Press SPACE to start, Q to quit"
	case PhasePaused:
		return "[PAUSED] Press SPACE to resume, S to stop, Q to quit"
	case PhaseComplete:
		return "Nice work!"
	default:
		return "Press SPACE to pause, S to stop, Q to quit"
	}
}

func (d *Display) progressBar(progress float64) string {
	width := d.Width
	if width <= 0 {
		width = 30
	}
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %d%%", bar, int(progress*100))
}

// ClearScreen clears the terminal and homes the cursor.
func (d *Display) ClearScreen() {
	fmt.Fprint(d.Writer, "\033[H\033[2J")
}

// RenderComplete renders the closing line after a finished exercise.
func (d *Display) RenderComplete(ex catalog.Exercise, logged bool) string {
	msg := fmt.Sprintf("%s %s complete!", ex.Emoji, ex.Name)
	out := d.style(doneStyle, msg)
	if logged {
		out += "\n" + d.style(hintStyle, "Logged to your history.")
	}
	return out
}
