// Package catalog holds the static table of desk exercises.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the intensity level an exercise is tagged with.
type Difficulty string

// Difficulty levels.
const (
	Easy    Difficulty = "easy"
	Intense Difficulty = "intense"
	Silent  Difficulty = "silent"
)

// Difficulties lists every level in display order.
var Difficulties = []Difficulty{Easy, Intense, Silent}

// ParseDifficulty converts user input into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Intense, Silent:
		return true
	}
	return false
}

// Label returns the display label.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Easy"
	case Intense:
		return "Intense"
	case Silent:
		return "Silent"
	default:
		return string(d)
	}
}

// Exercise is a single catalog entry. Values are never mutated.
type Exercise struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Emoji           string     `json:"emoji"`
	Difficulty      Difficulty `json:"difficulty"`
	DurationSeconds int        `json:"durationSeconds"`
}

// Duration returns the exercise length.
func (e Exercise) Duration() time.Duration {
	return time.Duration(e.DurationSeconds) * time.Second
}

// All returns a copy of the full catalog.
func All() []Exercise {
	out := make([]Exercise, len(exercises))
	copy(out, exercises)
	return out
}

// ByDifficulty returns every exercise tagged with level.
func ByDifficulty(level Difficulty) []Exercise {
	var out []Exercise
	for _, e := range exercises {
		if e.Difficulty == level {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds an exercise by id.
func Lookup(id string) (Exercise, bool) {
	for _, e := range exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}
