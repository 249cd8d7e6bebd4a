// Package parser turns natural-language time expressions into instants for
// history filters.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	errs "github.com/deskercise/deskercise/internal/errors"
)

// Examples lists accepted --since forms.
var Examples = []string{
	"today",
	"yesterday",
	"this week",
	"last month",
	"3 days ago",
	"2025-03-01",
}

// periodRegex matches period expressions like "this week", "last month".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(day|week|month|year)$`)

// ParseSince resolves input relative to now. Periods resolve to their
// start; "today" and "yesterday" to local midnight.
func ParseSince(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if match := periodRegex.FindStringSubmatch(input); match != nil {
		return periodStart(now, strings.ToLower(match[1]), strings.ToLower(match[2])), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, errs.NewUserErrorWithField("since", input,
			"could not understand time '"+input+"'",
			"Try forms like: "+strings.Join(Examples, ", ")).Because(errs.ErrInvalidTimestamp)
	}
	return result.Time, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// periodStart returns the first instant of the period. Weeks start on
// Monday.
func periodStart(now time.Time, modifier, period string) time.Time {
	previous := modifier == "last" || modifier == "previous"
	day := startOfDay(now)

	switch period {
	case "day":
		if previous {
			return day.AddDate(0, 0, -1)
		}
		return day
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		t := day.AddDate(0, 0, 1-weekday)
		if previous {
			t = t.AddDate(0, 0, -7)
		}
		return t
	case "month":
		t := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		if previous {
			t = t.AddDate(0, -1, 0)
		}
		return t
	default:
		t := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		if previous {
			t = t.AddDate(-1, 0, 0)
		}
		return t
	}
}
