// Package stats derives totals and day streaks from exercise events. Local
// history, per-user logs and team leaderboards all go through Compute.
package stats

import (
	"sort"
	"time"

	"github.com/deskercise/deskercise/internal/model"
)

// MaxStreakDays bounds the backward day walk. Longer streaks report this value.
const MaxStreakDays = 365

// Stats are the derived numbers shown for a user.
type Stats struct {
	TotalCompleted    int `json:"totalCompleted"`
	CurrentStreakDays int `json:"currentStreak"`
}

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{y, m, d}
}

// Compute counts completed events and the run of consecutive calendar days,
// ending today, with at least one completion. Days are taken in now's
// location; a day without a completion ends the run, so no completion today
// means a streak of zero.
func Compute(events []*model.ExerciseEvent, now time.Time) Stats {
	loc := now.Location()
	var s Stats
	days := make(map[day]struct{})

	for _, e := range events {
		if e == nil || !e.IsCompleted() {
			continue
		}
		s.TotalCompleted++
		days[dayOf(e.Time().In(loc))] = struct{}{}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, loc)
	for i := 0; i < MaxStreakDays; i++ {
		if _, ok := days[dayOf(today.AddDate(0, 0, -i))]; !ok {
			break
		}
		s.CurrentStreakDays++
	}

	return s
}

// CompletedToday reports whether any completed event falls on now's day.
func CompletedToday(events []*model.ExerciseEvent, now time.Time) bool {
	today := dayOf(now)
	for _, e := range events {
		if e != nil && e.IsCompleted() && dayOf(e.Time().In(now.Location())) == today {
			return true
		}
	}
	return false
}

// MemberStats is one leaderboard row.
type MemberStats struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarEmoji string `json:"avatarEmoji,omitempty"`
	Stats
}

// Leaderboard computes stats per member from the team's combined events and
// orders rows by total completed, highest first. Ties keep name order.
func Leaderboard(members []*model.User, events []*model.ExerciseEvent, now time.Time) []MemberStats {
	byUser := make(map[string][]*model.ExerciseEvent, len(members))
	for _, e := range events {
		if e == nil {
			continue
		}
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	rows := make([]MemberStats, 0, len(members))
	for _, m := range members {
		if m == nil {
			continue
		}
		rows = append(rows, MemberStats{
			UserID:      m.ID,
			DisplayName: m.DisplayName(),
			AvatarEmoji: m.AvatarEmoji,
			Stats:       Compute(byUser[m.ID], now),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalCompleted != rows[j].TotalCompleted {
			return rows[i].TotalCompleted > rows[j].TotalCompleted
		}
		return rows[i].DisplayName < rows[j].DisplayName
	})
	return rows
}
