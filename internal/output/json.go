package output

import (
	"time"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/stats"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// CardResponse is the output of draw and status.
type CardResponse struct {
	Status string            `json:"status"`
	Card   *catalog.Exercise `json:"card,omitempty"`
}

// EventOutput represents a history event in JSON output.
type EventOutput struct {
	ID           string `json:"id"`
	ExerciseID   string `json:"exercise_id,omitempty"`
	ExerciseName string `json:"exercise_name"`
	Emoji        string `json:"emoji"`
	Difficulty   string `json:"difficulty"`
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	UserID       string `json:"user_id,omitempty"`
}

// NewEventOutput creates an EventOutput from an event.
func NewEventOutput(ev *model.ExerciseEvent) *EventOutput {
	return &EventOutput{
		ID:           ev.ID,
		ExerciseID:   ev.ExerciseID,
		ExerciseName: ev.ExerciseName,
		Emoji:        ev.Emoji,
		Difficulty:   string(ev.Difficulty),
		Status:       string(ev.Status),
		Timestamp:    ev.Time().UTC().Format(time.RFC3339),
		UserID:       ev.UserID,
	}
}

// ActionResponse is the output of repeat, skip and next.
type ActionResponse struct {
	Status string            `json:"status"`
	Event  *EventOutput      `json:"event,omitempty"`
	Card   *catalog.Exercise `json:"card,omitempty"`
	Stats  *stats.Stats      `json:"stats,omitempty"`
}

// HistoryResponse is the output of history.
type HistoryResponse struct {
	Events     []*EventOutput `json:"events"`
	ShownCount int            `json:"shown_count"`
}

// NewHistoryResponse creates a HistoryResponse from events.
func NewHistoryResponse(events []*model.ExerciseEvent) *HistoryResponse {
	out := make([]*EventOutput, len(events))
	for i, ev := range events {
		out[i] = NewEventOutput(ev)
	}
	return &HistoryResponse{Events: out, ShownCount: len(out)}
}

// ReminderResponse is the output of remind and its subcommands.
type ReminderResponse struct {
	Status           string `json:"status"`
	Active           bool   `json:"active"`
	IntervalMinutes  int    `json:"interval_minutes,omitempty"`
	NextFire         string `json:"next_fire,omitempty"`
	RemainingSeconds int64  `json:"remaining_seconds,omitempty"`
	Snoozed          bool   `json:"snoozed"`
	SurfaceVisible   bool   `json:"surface_visible"`
}

// NewReminderResponse creates a ReminderResponse from scheduler state.
func NewReminderResponse(status string, st reminder.State, remaining time.Duration) *ReminderResponse {
	resp := &ReminderResponse{
		Status:         status,
		Active:         st.Active,
		Snoozed:        st.Snoozed,
		SurfaceVisible: st.SurfaceVisible,
	}
	if st.Active {
		resp.IntervalMinutes = st.IntervalMinutes
		resp.NextFire = st.NextFire.UTC().Format(time.RFC3339)
		resp.RemainingSeconds = int64(remaining.Seconds())
	}
	return resp
}

// TeamOutput represents a team in JSON output.
type TeamOutput struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	InviteCode string          `json:"invite_code"`
	CreatedAt  string          `json:"created_at"`
	Members    []*MemberOutput `json:"members,omitempty"`
}

// MemberOutput represents a team member in JSON output.
type MemberOutput struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarEmoji string `json:"avatar_emoji,omitempty"`
}

// NewTeamOutput creates a TeamOutput from a team and its members.
func NewTeamOutput(t *model.Team, members []*model.User) *TeamOutput {
	out := &TeamOutput{
		ID:         t.ID,
		Name:       t.Name,
		InviteCode: t.InviteCode,
		CreatedAt:  t.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, u := range members {
		out.Members = append(out.Members, &MemberOutput{
			UserID:      u.ID,
			DisplayName: u.DisplayName(),
			AvatarEmoji: u.AvatarEmoji,
		})
	}
	return out
}

// TeamLogOutput is an event joined with its member identity.
type TeamLogOutput struct {
	*EventOutput
	DisplayName string `json:"display_name"`
	AvatarEmoji string `json:"avatar_emoji,omitempty"`
}

// LeaderboardResponse is the output of team board.
type LeaderboardResponse struct {
	TeamID string              `json:"team_id"`
	Rows   []stats.MemberStats `json:"rows"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(errMsg, message, suggestion string) error {
	return j.JSON(ErrorResponse{
		Status:     "error",
		Error:      errMsg,
		Message:    message,
		Suggestion: suggestion,
	})
}

// PrintCard outputs the current card in JSON format.
func (j *JSONFormatter) PrintCard(ex *catalog.Exercise) error {
	resp := CardResponse{Status: "empty"}
	if ex != nil {
		resp.Status = "card"
		resp.Card = ex
	}
	return j.JSON(resp)
}

// PrintHistory outputs events in JSON format.
func (j *JSONFormatter) PrintHistory(events []*model.ExerciseEvent) error {
	return j.JSON(NewHistoryResponse(events))
}

// StatusResponse is the output of the bare command: the card on the table,
// the reminder cycle and the running totals.
type StatusResponse struct {
	Status   string            `json:"status"`
	Card     *catalog.Exercise `json:"card,omitempty"`
	Reminder *ReminderResponse `json:"reminder"`
	Stats    stats.Stats       `json:"stats"`
}
