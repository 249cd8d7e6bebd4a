package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/clock"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/storage"
)

var epoch = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

type countingResetter struct{ n int }

func (r *countingResetter) Reset() { r.n++ }

func setupTestDB(t *testing.T) *storage.DB {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestController(t *testing.T) (*Controller, *storage.DB, *clock.Fake, *countingResetter) {
	t.Helper()
	db := setupTestDB(t)
	clk := clock.NewFake(epoch)
	r := &countingResetter{}
	c := New(Options{DB: db, Clock: clk, Rand: firstRand{}, Reminder: r})
	return c, db, clk, r
}

func historyLen(t *testing.T, c *Controller) int {
	t.Helper()
	events, err := c.History(HistoryFilter{})
	require.NoError(t, err)
	return len(events)
}

// =============================================================================
// Drawing
// =============================================================================

func TestDrawPutsCardOnTable(t *testing.T) {
	c, db, _, _ := newTestController(t)

	ex, err := c.Draw()
	require.NoError(t, err)
	assert.Equal(t, catalog.ByDifficulty(catalog.Easy)[0].ID, ex.ID)

	current, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, ex.ID, current.ID)

	recent, err := storage.NewRecentRepo(db).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{ex.ID}, []string(recent))
	assert.Equal(t, 0, historyLen(t, c), "drawing does not log")
}

func TestDrawUsesActiveDifficulty(t *testing.T) {
	c, _, _, _ := newTestController(t)
	require.NoError(t, c.SetDifficulty(catalog.Silent))

	ex, err := c.Draw()
	require.NoError(t, err)
	assert.Equal(t, catalog.Silent, ex.Difficulty)
}

func TestDrawNeverRepeatsWithinWindow(t *testing.T) {
	db := setupTestDB(t)
	c := New(Options{DB: db, Clock: clock.NewFake(epoch)})

	var drawn []string
	for i := 0; i < 20; i++ {
		ex, err := c.Draw()
		require.NoError(t, err)

		start := len(drawn) - 10
		if start < 0 {
			start = 0
		}
		assert.NotContains(t, drawn[start:], ex.ID, "draw %d", i)
		drawn = append(drawn, ex.ID)
	}
}

func TestCurrentWithoutCard(t *testing.T) {
	c, _, _, _ := newTestController(t)
	_, err := c.Current()
	assert.ErrorIs(t, err, errs.ErrNoCurrentCard)
}

// =============================================================================
// Card actions
// =============================================================================

func TestRepeatKeepsCard(t *testing.T) {
	c, _, _, r := newTestController(t)
	ex, err := c.Draw()
	require.NoError(t, err)

	res, err := c.Repeat()
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Equal(t, model.StatusCompleted, res.Event.Status)
	assert.Equal(t, ex.Name, res.Event.ExerciseName)
	assert.Equal(t, ex.ID, res.Card.ID)
	assert.Equal(t, epoch.UnixMilli(), res.Event.Timestamp)

	current, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, ex.ID, current.ID)
	assert.Equal(t, 1, historyLen(t, c))
	assert.Equal(t, 1, r.n)
}

func TestSkipLogsAndDraws(t *testing.T) {
	c, _, _, r := newTestController(t)
	first, err := c.Draw()
	require.NoError(t, err)

	res, err := c.Skip()
	require.NoError(t, err)
	assert.Equal(t, model.StatusSkipped, res.Event.Status)
	assert.Equal(t, first.ID, res.Event.ExerciseID)
	require.NotNil(t, res.Card)
	assert.NotEqual(t, first.ID, res.Card.ID)

	assert.Equal(t, 1, historyLen(t, c))
	assert.Equal(t, 0, r.n, "skips do not reset the reminder")
}

func TestDrawNewLogsCompleted(t *testing.T) {
	c, _, _, r := newTestController(t)
	first, err := c.Draw()
	require.NoError(t, err)

	res, err := c.DrawNew()
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, res.Event.Status)
	assert.Equal(t, first.ID, res.Event.ExerciseID)
	assert.NotEqual(t, first.ID, res.Card.ID)

	current, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, res.Card.ID, current.ID)
	assert.Equal(t, 1, historyLen(t, c))
	assert.Equal(t, 1, r.n)
}

func TestActionsWithoutCard(t *testing.T) {
	tests := []struct {
		name string
		act  func(c *Controller) (ActionResult, error)
	}{
		{"repeat", (*Controller).Repeat},
		{"skip", (*Controller).Skip},
		{"draw_new", (*Controller).DrawNew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _, r := newTestController(t)
			_, err := tt.act(c)
			assert.ErrorIs(t, err, errs.ErrNoCurrentCard)
			assert.Equal(t, 0, historyLen(t, c))
			assert.Equal(t, 0, r.n)
		})
	}
}

func TestCompleteWithoutReminder(t *testing.T) {
	db := setupTestDB(t)
	c := New(Options{DB: db, Clock: clock.NewFake(epoch)})

	ex, _ := catalog.Lookup("21")
	ev, err := c.Complete(ex)
	require.NoError(t, err)
	assert.Equal(t, "Burpees", ev.ExerciseName)

	_, err = c.Current()
	assert.ErrorIs(t, err, errs.ErrNoCurrentCard, "completing does not place a card")
}

func TestAttachReminder(t *testing.T) {
	db := setupTestDB(t)
	c := New(Options{DB: db, Clock: clock.NewFake(epoch)})
	r := &countingResetter{}
	c.AttachReminder(r)

	ex, _ := catalog.Lookup("1")
	_, err := c.Complete(ex)
	require.NoError(t, err)
	assert.Equal(t, 1, r.n)
}

// =============================================================================
// Difficulty
// =============================================================================

func TestSetDifficultyClearsRecentAndCard(t *testing.T) {
	c, db, _, _ := newTestController(t)
	_, err := c.Draw()
	require.NoError(t, err)

	require.NoError(t, c.SetDifficulty(catalog.Intense))

	settings, err := storage.NewSettingsRepo(db).Get()
	require.NoError(t, err)
	assert.Equal(t, catalog.Intense, settings.Difficulty)

	recent, err := storage.NewRecentRepo(db).Load()
	require.NoError(t, err)
	assert.Empty(t, recent)

	_, err = c.Current()
	assert.ErrorIs(t, err, errs.ErrNoCurrentCard)
}

func TestSetSameDifficultyKeepsState(t *testing.T) {
	c, db, _, _ := newTestController(t)
	ex, err := c.Draw()
	require.NoError(t, err)

	require.NoError(t, c.SetDifficulty(catalog.Easy))

	recent, err := storage.NewRecentRepo(db).Load()
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	current, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, ex.ID, current.ID)
}

func TestSetInvalidDifficulty(t *testing.T) {
	c, _, _, _ := newTestController(t)
	err := c.SetDifficulty(catalog.Difficulty("hard"))
	assert.True(t, errors.Is(err, errs.ErrInvalidDifficulty))
	assert.True(t, errs.IsUserError(err))
}

// =============================================================================
// History and stats
// =============================================================================

func TestSignedInUserLogsToOwnLog(t *testing.T) {
	c, db, _, _ := newTestController(t)
	require.NoError(t, storage.NewConfigRepo(db).SetCurrentUser("u1"))

	_, err := c.Draw()
	require.NoError(t, err)
	_, err = c.Repeat()
	require.NoError(t, err)

	events, err := storage.NewEventRepo(db).ListByUser("u1", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "u1", events[0].UserID)

	anon, err := storage.NewHistoryRepo(db).List(0)
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestStats(t *testing.T) {
	c, _, clk, _ := newTestController(t)
	_, err := c.Draw()
	require.NoError(t, err)

	_, err = c.Repeat()
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = c.Skip()
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = c.DrawNew()
	require.NoError(t, err)

	s, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalCompleted)
	assert.Equal(t, 1, s.CurrentStreakDays)
}

func TestHistoryFilter(t *testing.T) {
	c, _, clk, _ := newTestController(t)
	_, err := c.Draw()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = c.Repeat()
		require.NoError(t, err)
		clk.Advance(time.Hour)
	}
	_, err = c.Skip()
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   HistoryFilter
		expected int
	}{
		{"all", HistoryFilter{}, 4},
		{"completed_only", HistoryFilter{Status: model.StatusCompleted}, 3},
		{"skipped_only", HistoryFilter{Status: model.StatusSkipped}, 1},
		{"since", HistoryFilter{Since: epoch.Add(90 * time.Minute)}, 2},
		{"limit", HistoryFilter{Limit: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := c.History(tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.expected)
		})
	}

	events, err := c.History(HistoryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, model.StatusSkipped, events[0].Status, "newest first")
}
