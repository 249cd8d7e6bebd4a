package model

import (
	"fmt"
	"time"

	"github.com/deskercise/deskercise/internal/catalog"
)

// EventStatus is the outcome recorded for a drawn card.
type EventStatus string

// Event statuses.
const (
	StatusCompleted EventStatus = "completed"
	StatusSkipped   EventStatus = "skipped"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// ExerciseEvent is an append-only record of one card action.
type ExerciseEvent struct {
	Key          string             `json:"-"`
	ID           string             `json:"id"`
	ExerciseID   string             `json:"exerciseId,omitempty"`
	ExerciseName string             `json:"exerciseName"`
	Emoji        string             `json:"emoji"`
	Difficulty   catalog.Difficulty `json:"difficulty"`
	Status       EventStatus        `json:"status"`
	Timestamp    int64              `json:"timestamp"`
	UserID       string             `json:"userId,omitempty"`
}

// SetKey sets the database key for this event.
func (e *ExerciseEvent) SetKey(key string) {
	e.Key = key
}

// GetKey returns the database key for this event.
func (e *ExerciseEvent) GetKey() string {
	return e.Key
}

// NewExerciseEvent records status for ex at the given time. The id is
// "<epoch-ms>-<exercise id>".
func NewExerciseEvent(ex catalog.Exercise, status EventStatus, userID string, at time.Time) *ExerciseEvent {
	return &ExerciseEvent{
		ID:           fmt.Sprintf("%d-%s", at.UnixMilli(), ex.ID),
		ExerciseID:   ex.ID,
		ExerciseName: ex.Name,
		Emoji:        ex.Emoji,
		Difficulty:   ex.Difficulty,
		Status:       status,
		Timestamp:    at.UnixMilli(),
		UserID:       userID,
	}
}

// Time returns the event timestamp.
func (e *ExerciseEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// IsCompleted reports whether the event counts toward totals and streaks.
func (e *ExerciseEvent) IsCompleted() bool {
	return e.Status == StatusCompleted
}

// GenerateEventKey builds "event:<user>:<id>".
func GenerateEventKey(userID, id string) string {
	return PrefixEvent + ":" + userID + ":" + id
}

// EventPrefixForUser returns the key prefix for a user's events.
func EventPrefixForUser(userID string) string {
	return PrefixEvent + ":" + userID + ":"
}
