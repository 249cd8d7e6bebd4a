package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/clock"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/session"
	"github.com/deskercise/deskercise/internal/stats"
	"github.com/deskercise/deskercise/internal/storage"
	"github.com/deskercise/deskercise/internal/timer"
)

var epoch = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func setupTestDB(t *testing.T) *storage.DB {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func key(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type dashFixture struct {
	model     *DashboardModel
	db        *storage.DB
	clock     *clock.Fake
	scheduler *reminder.Scheduler
}

func newDashFixture(t *testing.T) *dashFixture {
	db := setupTestDB(t)
	clk := clock.NewFake(epoch)

	sched := reminder.New(reminder.Options{Clock: clk, Store: storage.NewReminderStateRepo(db)})
	sched.Start(t.Context(), 30, true)
	t.Cleanup(sched.Close)

	sess := session.New(session.Options{DB: db, Clock: clk, Rand: firstRand{}, Reminder: sched})
	m := NewDashboardModel(DashboardConfig{Session: sess, Scheduler: sched, Clock: clk})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	return &dashFixture{model: m, db: db, clock: clk, scheduler: sched}
}

func (f *dashFixture) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = f.model.Update(key(k))
	}
	return cmd
}

// drain feeds queued listener events back into the model.
func (f *dashFixture) drain() {
	for {
		select {
		case msg := <-f.model.events:
			f.model.Update(msg)
		default:
			return
		}
	}
}

// =============================================================================
// Component Tests
// =============================================================================

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		width      int
	}{
		{"zero", 0, 10},
		{"half", 50, 10},
		{"full", 100, 10},
		{"over", 150, 10},
		{"negative", -10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.percentage, tt.width)
			assert.NotEmpty(t, bar)
		})
	}

	assert.Greater(t, len(ProgressBar(50, 20)), len(ProgressBar(50, 10)))
}

func TestDifficultyBadge(t *testing.T) {
	for _, d := range catalog.Difficulties {
		assert.Contains(t, DifficultyBadge(d), d.Label())
	}
}

func TestReminderComponentView(t *testing.T) {
	next := epoch.Add(30 * time.Minute)

	tests := []struct {
		name     string
		state    reminder.State
		expected string
	}{
		{"off", reminder.State{}, "Reminders are off"},
		{"idle", reminder.State{Enabled: true}, "No reminder scheduled"},
		{"scheduled", reminder.State{Enabled: true, Active: true, IntervalMinutes: 30, NextFire: next}, "Next reminder in"},
		{"snoozed", reminder.State{Enabled: true, Active: true, Snoozed: true, NextFire: next}, "Snoozed"},
		{"showing", reminder.State{Enabled: true, Active: true, SurfaceVisible: true}, "Time to move!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ReminderComponent{State: tt.state, Remaining: 29*time.Minute + 30*time.Second, Width: 80}.View()
			assert.Contains(t, view, tt.expected)
		})
	}

	view := ReminderComponent{
		State:     reminder.State{Enabled: true, Active: true, IntervalMinutes: 30, NextFire: next},
		Remaining: 12*time.Minute + 5*time.Second,
		Width:     80,
	}.View()
	assert.Contains(t, view, "12:05")
	assert.Contains(t, view, "every 30 min")
}

func TestCardComponentView(t *testing.T) {
	assert.Contains(t, CardComponent{Width: 80}.View(), "No card drawn")

	ex, ok := catalog.Lookup("21")
	require.True(t, ok)
	view := CardComponent{Card: &ex, Width: 80}.View()
	assert.Contains(t, view, ex.Name)
	assert.Contains(t, view, "Intense")
}

func TestTimerComponentView(t *testing.T) {
	ex, _ := catalog.Lookup("21")

	tests := []struct {
		name     string
		snap     timer.Snapshot
		expected string
	}{
		{"idle", timer.Snapshot{Phase: timer.PhaseIdle, Exercise: ex, Total: 60, Remaining: 60}, "Timer ready 01:00"},
		{"countdown", timer.Snapshot{Phase: timer.PhaseCountdown, Countdown: 2, Total: 60, Remaining: 60}, "Get ready... 2"},
		{"running", timer.Snapshot{Phase: timer.PhaseRunning, Total: 60, Remaining: 45}, "00:45"},
		{"paused", timer.Snapshot{Phase: timer.PhasePaused, Total: 60, Remaining: 45}, "[PAUSED]"},
		{"complete", timer.Snapshot{Phase: timer.PhaseComplete, Total: 60}, "Done!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, TimerComponent{Snapshot: tt.snap, Width: 80}.View(), tt.expected)
		})
	}
}

func TestStatsComponentView(t *testing.T) {
	tests := []struct {
		name     string
		stats    stats.Stats
		expected string
	}{
		{"none", stats.Stats{}, "0 days"},
		{"one", stats.Stats{TotalCompleted: 3, CurrentStreakDays: 1}, "1 day 🔥"},
		{"many", stats.Stats{TotalCompleted: 9, CurrentStreakDays: 4}, "4 days 🔥"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, StatsComponent{Stats: tt.stats, Width: 80}.View(), tt.expected)
		})
	}
}

func TestHelpBar(t *testing.T) {
	help := HelpBar()
	for _, k := range []string{"draw", "repeat", "skip", "next", "timer", "snooze", "dismiss", "quit"} {
		assert.Contains(t, help, k)
	}
}

// =============================================================================
// Dashboard Tests
// =============================================================================

func TestDashboardLoading(t *testing.T) {
	db := setupTestDB(t)
	m := NewDashboardModel(DashboardConfig{
		Session: session.New(session.Options{DB: db, Clock: clock.NewFake(epoch)}),
		Clock:   clock.NewFake(epoch),
	})
	t.Cleanup(m.Close)

	assert.Equal(t, "Loading...", m.View())
	assert.NotNil(t, m.Init())
}

func TestDashboardDrawAndRepeat(t *testing.T) {
	f := newDashFixture(t)

	view := f.model.View()
	assert.Contains(t, view, "No card drawn")
	assert.Contains(t, view, "Next reminder in")

	f.press("d")
	require.NotNil(t, f.model.card)
	name := f.model.card.Name
	assert.Contains(t, f.model.View(), name)
	assert.Contains(t, f.model.View(), "Timer ready")

	f.clock.Advance(10 * time.Minute)
	f.press("r")
	assert.Equal(t, name, f.model.card.Name)
	assert.Equal(t, 1, f.model.stats.TotalCompleted)
	assert.Contains(t, f.model.message, "Logged "+name)

	st := f.scheduler.State()
	assert.Equal(t, f.clock.Now().Add(30*time.Minute), st.NextFire)
}

func TestDashboardSkipAndNext(t *testing.T) {
	f := newDashFixture(t)

	f.press("s")
	assert.Contains(t, f.model.message, "No card drawn")

	f.press("d")
	first := f.model.card.ID

	f.press("s")
	require.NotNil(t, f.model.card)
	assert.NotEqual(t, first, f.model.card.ID)
	assert.Contains(t, f.model.message, "Skipped")
	assert.Equal(t, 0, f.model.stats.TotalCompleted)

	f.clock.Advance(time.Second)
	f.press("n")
	assert.Equal(t, 1, f.model.stats.TotalCompleted)

	events, err := storage.LogFor(f.db, "").List(0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.StatusCompleted, events[0].Status)
	assert.Equal(t, model.StatusSkipped, events[1].Status)
}

func TestDashboardTimerRequiresCard(t *testing.T) {
	f := newDashFixture(t)

	f.press("space")
	assert.Equal(t, "Draw a card first", f.model.message)
	assert.Equal(t, timer.PhaseIdle, f.model.timerSnap.Phase)
}

func TestDashboardTimerCompletionLogs(t *testing.T) {
	f := newDashFixture(t)
	f.press("d")
	ex := *f.model.card

	f.press("space")
	assert.Equal(t, timer.PhaseCountdown, f.model.timerSnap.Phase)

	f.press("space")
	assert.Equal(t, timer.PhaseCountdown, f.model.timerSnap.Phase, "pause is ignored during the lead-in")

	f.clock.Advance(time.Duration(timer.CountdownSteps) * time.Second)
	f.drain()
	assert.Equal(t, timer.PhaseRunning, f.model.timerSnap.Phase)

	f.press("space")
	assert.Equal(t, timer.PhasePaused, f.model.timerSnap.Phase)
	assert.Contains(t, f.model.View(), "[PAUSED]")
	f.press("space")

	f.clock.Advance(ex.Duration())
	f.drain()

	assert.Equal(t, timer.PhaseComplete, f.model.timerSnap.Phase)
	assert.Equal(t, 1, f.model.stats.TotalCompleted)
	assert.Contains(t, f.model.View(), "Done!")
}

func TestDashboardTimerStop(t *testing.T) {
	f := newDashFixture(t)
	f.press("d", "space")
	f.clock.Advance(5 * time.Second)

	f.press("esc")
	assert.Equal(t, timer.PhaseIdle, f.model.timerSnap.Phase)
	assert.Equal(t, f.model.card.DurationSeconds, f.model.timerSnap.Remaining)
}

func TestDashboardReminderKeys(t *testing.T) {
	f := newDashFixture(t)

	f.clock.Advance(30 * time.Minute)
	f.drain()
	assert.True(t, f.model.reminder.SurfaceVisible)
	assert.Contains(t, f.model.View(), "Time to move!")

	f.press("z")
	assert.True(t, f.model.reminder.Snoozed)
	assert.False(t, f.model.reminder.SurfaceVisible)
	assert.Equal(t, f.clock.Now().Add(reminder.SnoozeDuration), f.model.reminder.NextFire)

	f.clock.Advance(reminder.SnoozeDuration)
	f.drain()
	assert.True(t, f.model.reminder.SurfaceVisible)

	f.press("x")
	assert.False(t, f.model.reminder.SurfaceVisible)
	assert.True(t, f.model.reminder.Active)
}

func TestDashboardQuit(t *testing.T) {
	f := newDashFixture(t)

	cmd := f.press("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	select {
	case <-f.model.done:
	default:
		t.Fatal("listeners still attached after quit")
	}
}

func TestDashboardMessageExpires(t *testing.T) {
	f := newDashFixture(t)
	f.press("space")
	require.NotEmpty(t, f.model.message)

	f.clock.Advance(3 * time.Second)
	f.model.Update(tickMsg(f.clock.Now()))
	assert.Empty(t, f.model.message)
}
