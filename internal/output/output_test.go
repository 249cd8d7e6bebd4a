package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/stats"
)

func newPlainCLI() (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewCLIFormatter(&Formatter{Writer: &buf, ColorMode: ColorNever}), &buf
}

func burpees(t *testing.T) catalog.Exercise {
	t.Helper()
	ex, ok := catalog.Lookup("21")
	require.True(t, ok)
	return ex
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		f := &Formatter{Writer: &bytes.Buffer{}, ColorMode: ColorAuto}
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	require.NoError(t, f.PrintJSON(map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, buf.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{5 * time.Minute, "5m"},
		{4*time.Minute + 30*time.Second, "4m 30s"},
		{90 * time.Minute, "1h 30m"},
		{2 * time.Hour, "2h"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

// =============================================================================
// CLIFormatter Tests
// =============================================================================

func TestCLIFormatterMessages(t *testing.T) {
	cli, buf := newPlainCLI()

	cli.Title("Title")
	cli.Success("done")
	cli.Warning("careful")
	cli.Error("broken")
	cli.Muted("quiet")

	out := buf.String()
	assert.Contains(t, out, "Title\n")
	assert.Contains(t, out, "✓ done")
	assert.Contains(t, out, "⚠ careful")
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "quiet")
}

func TestCLIFormatterPrintCard(t *testing.T) {
	cli, buf := newPlainCLI()
	ex := burpees(t)

	cli.PrintCard(ex)
	out := buf.String()
	assert.Contains(t, out, "Burpees")
	assert.Contains(t, out, "Intense")
	assert.Contains(t, out, "1m")
	assert.Contains(t, out, ex.Description)
}

func TestCLIFormatterPrintEvent(t *testing.T) {
	cli, buf := newPlainCLI()
	ex := burpees(t)

	cli.PrintEvent(model.NewExerciseEvent(ex, model.StatusCompleted, "", time.Now()))
	cli.PrintEvent(model.NewExerciseEvent(ex, model.StatusSkipped, "", time.Now()))

	out := buf.String()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "↷")
	assert.Contains(t, out, "Burpees")
}

func TestGroupByAge(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	ex := burpees(t)
	at := func(ts time.Time) *model.ExerciseEvent {
		return model.NewExerciseEvent(ex, model.StatusCompleted, "", ts)
	}

	events := []*model.ExerciseEvent{
		at(now.Add(-time.Hour)),
		at(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)),
		at(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		at(time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)),
		at(time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)),
	}

	groups := GroupByAge(events, now)
	require.Len(t, groups, 3)
	assert.Equal(t, "Today", groups[0].Label)
	assert.Len(t, groups[0].Events, 2)
	assert.Len(t, groups[1].Events, 2)
	assert.Len(t, groups[2].Events, 1)
}

func TestCLIFormatterPrintHistoryEmpty(t *testing.T) {
	cli, buf := newPlainCLI()
	cli.PrintHistory(nil, time.Now())
	assert.Contains(t, buf.String(), "No exercises logged yet.")
}

func TestCLIFormatterPrintStats(t *testing.T) {
	tests := []struct {
		name     string
		stats    stats.Stats
		expected string
	}{
		{"no_streak", stats.Stats{TotalCompleted: 0}, "0 days"},
		{"one_day", stats.Stats{TotalCompleted: 3, CurrentStreakDays: 1}, "1 day 🔥"},
		{"many_days", stats.Stats{TotalCompleted: 12, CurrentStreakDays: 4}, "4 days 🔥"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, buf := newPlainCLI()
			cli.PrintStats(tt.stats)
			assert.Contains(t, buf.String(), tt.expected)
		})
	}
}

func TestCLIFormatterPrintReminder(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		cli, buf := newPlainCLI()
		cli.PrintReminder(reminder.State{}, 0)
		assert.Contains(t, buf.String(), "Reminders are off.")
	})

	t.Run("snoozed_and_visible", func(t *testing.T) {
		cli, buf := newPlainCLI()
		st := reminder.State{
			Enabled:         true,
			Active:          true,
			IntervalMinutes: 30,
			NextFire:        time.Now().Add(5 * time.Minute),
			Snoozed:         true,
			SurfaceVisible:  true,
		}
		cli.PrintReminder(st, 5*time.Minute)
		out := buf.String()
		assert.Contains(t, out, "in 5m")
		assert.Contains(t, out, "every 30 min, snoozed")
		assert.Contains(t, out, "Time to move!")
	})
}

func TestCLIFormatterPrintLeaderboard(t *testing.T) {
	cli, buf := newPlainCLI()
	rows := []stats.MemberStats{
		{UserID: "a", DisplayName: "Ada Lovelace", AvatarEmoji: "🦊", Stats: stats.Stats{TotalCompleted: 9, CurrentStreakDays: 3}},
		{UserID: "b", DisplayName: "Grace Hopper", Stats: stats.Stats{TotalCompleted: 4}},
	}
	cli.PrintLeaderboard(rows)

	out := buf.String()
	assert.Contains(t, out, "MEMBER")
	assert.Contains(t, out, "🦊 Ada Lovelace")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Ada")), bytes.Index(buf.Bytes(), []byte("Grace")))
}

func TestCLIFormatterPrintTable(t *testing.T) {
	cli, buf := newPlainCLI()
	cli.PrintTable([]string{"A", "B"}, []TableRow{{Columns: []string{"long value", "x"}}})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "A           B", string(lines[0]))
	assert.Equal(t, "long value  x", string(lines[2]))

	buf.Reset()
	cli.PrintTable([]string{"A"}, nil)
	assert.Empty(t, buf.String())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░", ProgressBar(0, 4))
	assert.Equal(t, "██░░", ProgressBar(50, 4))
	assert.Equal(t, "████", ProgressBar(150, 4))
	assert.Equal(t, "░░░░", ProgressBar(-5, 4))
}

// =============================================================================
// JSON Tests
// =============================================================================

func TestNewEventOutput(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ev := model.NewExerciseEvent(burpees(t), model.StatusSkipped, "u1", ts)

	out := NewEventOutput(ev)
	assert.Equal(t, ev.ID, out.ID)
	assert.Equal(t, "Burpees", out.ExerciseName)
	assert.Equal(t, "intense", out.Difficulty)
	assert.Equal(t, "skipped", out.Status)
	assert.Equal(t, "2025-03-10T09:00:00Z", out.Timestamp)
	assert.Equal(t, "u1", out.UserID)
}

func TestNewReminderResponse(t *testing.T) {
	next := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	resp := NewReminderResponse("scheduled", reminder.State{Active: true, IntervalMinutes: 30, NextFire: next}, 10*time.Minute)
	assert.Equal(t, "2025-03-10T09:30:00Z", resp.NextFire)
	assert.Equal(t, int64(600), resp.RemainingSeconds)

	resp = NewReminderResponse("stopped", reminder.State{}, 0)
	assert.Empty(t, resp.NextFire)
	assert.Zero(t, resp.IntervalMinutes)
}

func TestNewTeamOutput(t *testing.T) {
	team := model.NewTeam("team-1", "Desk Crew", "0123456789abcdef", "u1")
	members := []*model.User{model.NewUser("u1", "Ada", "Lovelace", "")}

	out := NewTeamOutput(team, members)
	assert.Equal(t, "Desk Crew", out.Name)
	require.Len(t, out.Members, 1)
	assert.Equal(t, "Ada Lovelace", out.Members[0].DisplayName)
}

func TestJSONFormatterPrintCard(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})

	require.NoError(t, j.PrintCard(nil))
	assert.JSONEq(t, `{"status":"empty"}`, buf.String())

	buf.Reset()
	ex := burpees(t)
	require.NoError(t, j.PrintCard(&ex))

	var resp CardResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "card", resp.Status)
	assert.Equal(t, "21", resp.Card.ID)
}

func TestJSONFormatterPrintError(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})

	require.NoError(t, j.PrintError("no_card", "no card on the table", "Draw one"))
	assert.JSONEq(t, `{"status":"error","error":"no_card","message":"no card on the table","suggestion":"Draw one"}`, buf.String())
}

func TestJSONFormatterPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	ev := model.NewExerciseEvent(burpees(t), model.StatusCompleted, "", time.Now())

	require.NoError(t, j.PrintHistory([]*model.ExerciseEvent{ev}))

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 1, resp.ShownCount)
	assert.Equal(t, "completed", resp.Events[0].Status)
}
