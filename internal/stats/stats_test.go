package stats

import (
	"testing"
	"time"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	zone = time.FixedZone("UTC-5", -5*3600)
	now  = time.Date(2025, 6, 15, 14, 0, 0, 0, zone)
)

func event(t *testing.T, status model.EventStatus, at time.Time, userID string) *model.ExerciseEvent {
	t.Helper()
	ex, ok := catalog.Lookup("1")
	require.True(t, ok)
	return model.NewExerciseEvent(ex, status, userID, at)
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

// =============================================================================
// Compute Tests
// =============================================================================

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, now)
	assert.Equal(t, Stats{}, s)
}

func TestComputeTotals(t *testing.T) {
	events := []*model.ExerciseEvent{
		event(t, model.StatusCompleted, daysAgo(0), ""),
		event(t, model.StatusSkipped, daysAgo(0), ""),
		event(t, model.StatusCompleted, daysAgo(3), ""),
		nil,
	}
	s := Compute(events, now)
	assert.Equal(t, 2, s.TotalCompleted)
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name     string
		days     []int
		expected int
	}{
		{"none_today", []int{1, 2}, 0},
		{"three_days", []int{0, 1, 2}, 3},
		{"gap_after_run", []int{0, 1, 2, 4, 5}, 3},
		{"today_only", []int{0}, 1},
		{"duplicates_same_day", []int{0, 0, 0, 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []*model.ExerciseEvent
			for _, d := range tt.days {
				events = append(events, event(t, model.StatusCompleted, daysAgo(d), ""))
			}
			assert.Equal(t, tt.expected, Compute(events, now).CurrentStreakDays)
		})
	}
}

func TestComputeSkippedDoesNotExtendStreak(t *testing.T) {
	events := []*model.ExerciseEvent{
		event(t, model.StatusCompleted, daysAgo(0), ""),
		event(t, model.StatusSkipped, daysAgo(1), ""),
		event(t, model.StatusCompleted, daysAgo(2), ""),
	}
	assert.Equal(t, 1, Compute(events, now).CurrentStreakDays)
}

func TestComputeUsesLocalDay(t *testing.T) {
	// 23:30 local on the previous day is 04:30 UTC today; it must count as
	// yesterday in the caller's zone.
	lateYesterday := time.Date(2025, 6, 14, 23, 30, 0, 0, zone)
	events := []*model.ExerciseEvent{
		event(t, model.StatusCompleted, lateYesterday.UTC(), ""),
	}
	assert.Equal(t, 0, Compute(events, now).CurrentStreakDays)

	events = append(events, event(t, model.StatusCompleted, time.Date(2025, 6, 15, 0, 5, 0, 0, zone), ""))
	assert.Equal(t, 2, Compute(events, now).CurrentStreakDays)
}

func TestComputeStreakCap(t *testing.T) {
	var events []*model.ExerciseEvent
	for d := 0; d < 400; d++ {
		events = append(events, event(t, model.StatusCompleted, daysAgo(d), ""))
	}
	s := Compute(events, now)
	assert.Equal(t, MaxStreakDays, s.CurrentStreakDays)
	assert.Equal(t, 400, s.TotalCompleted)
}

func TestComputeAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone database unavailable")
	}
	// DST started 2025-03-09 in New York.
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, ny)
	var events []*model.ExerciseEvent
	for d := 0; d < 4; d++ {
		events = append(events, event(t, model.StatusCompleted, at.AddDate(0, 0, -d), ""))
	}
	assert.Equal(t, 4, Compute(events, at).CurrentStreakDays)
}

func TestCompletedToday(t *testing.T) {
	assert.False(t, CompletedToday(nil, now))
	assert.False(t, CompletedToday([]*model.ExerciseEvent{
		event(t, model.StatusSkipped, daysAgo(0), ""),
		event(t, model.StatusCompleted, daysAgo(1), ""),
	}, now))
	assert.True(t, CompletedToday([]*model.ExerciseEvent{
		event(t, model.StatusCompleted, daysAgo(0), ""),
	}, now))
}

// =============================================================================
// Leaderboard Tests
// =============================================================================

func TestLeaderboard(t *testing.T) {
	alice := &model.User{ID: "a", FirstName: "Alice"}
	bob := &model.User{ID: "b", FirstName: "Bob"}
	carol := &model.User{ID: "c", Email: "carol@example.com"}

	events := []*model.ExerciseEvent{
		event(t, model.StatusCompleted, daysAgo(0), "b"),
		event(t, model.StatusCompleted, daysAgo(1), "b"),
		event(t, model.StatusCompleted, daysAgo(2), "b"),
		event(t, model.StatusCompleted, daysAgo(0), "a"),
		event(t, model.StatusSkipped, daysAgo(0), "c"),
		event(t, model.StatusCompleted, daysAgo(0), "stranger"),
	}

	rows := Leaderboard([]*model.User{alice, bob, carol}, events, now)
	require.Len(t, rows, 3)

	assert.Equal(t, "b", rows[0].UserID)
	assert.Equal(t, 3, rows[0].TotalCompleted)
	assert.Equal(t, 3, rows[0].CurrentStreakDays)

	assert.Equal(t, "a", rows[1].UserID)
	assert.Equal(t, 1, rows[1].TotalCompleted)

	assert.Equal(t, "carol@example.com", rows[2].DisplayName)
	assert.Equal(t, 0, rows[2].TotalCompleted)
}

func TestLeaderboardTiesByName(t *testing.T) {
	zed := &model.User{ID: "z", FirstName: "Zed"}
	amy := &model.User{ID: "y", FirstName: "Amy"}
	rows := Leaderboard([]*model.User{zed, amy}, nil, now)
	require.Len(t, rows, 2)
	assert.Equal(t, "Amy", rows[0].DisplayName)
	assert.Equal(t, "Zed", rows[1].DisplayName)
}
