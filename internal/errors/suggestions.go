package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrNoCurrentCard:     "Draw a card first with 'deskercise draw'.",
	ErrEmptyPool:         "Pick another difficulty with 'deskercise settings set difficulty easy'.",
	ErrExerciseNotFound:  "Use 'deskercise exercises' to list exercise ids.",
	ErrInvalidDifficulty: "Difficulty must be one of: easy, intense, silent.",
	ErrInvalidInterval:   "Reminder interval must be 30, 60, or 90 minutes.",
	ErrInvalidTimestamp:  "Try formats like 'yesterday', 'last week', '3 days ago', or '2025-01-31'.",
	ErrInvalidURL:        "Provide a valid URL starting with https:// (or http:// for localhost).",
	ErrInvalidSetting:    "Settings are: interval, difficulty, notifications, webhook-url, webhook-type.",
	ErrNotSignedIn:       "Sign in with 'deskercise login <first-name>'.",
	ErrUserNotFound:      "Use 'deskercise login' to create a profile.",
	ErrTeamNotFound:      "Use 'deskercise team list' to see your teams.",
	ErrInvalidInviteCode: "Ask a teammate for the 16-character code shown by 'deskercise team show'.",
	ErrAlreadyMember:     "Use 'deskercise team board <team>' to see the leaderboard.",
	ErrNotMember:         "Join first with 'deskercise team join <invite-code>'.",
	ErrRemindersDisabled: "Enable reminders with 'deskercise settings set notifications on'.",

	ErrDatabaseCorrupted:  "Move the data directory (~/.local/share/deskercise/) aside and try again.",
	ErrNetworkUnavailable: "Check your internet connection. The in-terminal reminder still works.",
	ErrTimeout:            "The operation took too long. Try again or check your network connection.",
	ErrPermissionDenied:   "Check file permissions in your data directory (~/.local/share/deskercise/).",
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// FormatError formats an error with its suggestion on a second line.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}
