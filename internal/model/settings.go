package model

import "github.com/deskercise/deskercise/internal/catalog"

// Allowed reminder intervals in minutes.
var ReminderIntervals = []int{30, 60, 90}

// Webhook surface types.
const (
	WebhookTypeSlack   = "slack"
	WebhookTypeDiscord = "discord"
	WebhookTypeGeneric = "generic"
)

// Settings holds the user's reminder and exercise preferences.
type Settings struct {
	Key                  string             `json:"-"`
	Interval             int                `json:"interval"`
	Difficulty           catalog.Difficulty `json:"difficulty"`
	NotificationsEnabled bool               `json:"notificationsEnabled"`
	WebhookURL           string             `json:"webhookUrl,omitempty"`
	WebhookType          string             `json:"webhookType,omitempty"`
}

// SetKey sets the database key for the settings.
func (s *Settings) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for the settings.
func (s *Settings) GetKey() string {
	return s.Key
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() *Settings {
	return &Settings{
		Key:        KeySettings,
		Interval:   30,
		Difficulty: catalog.Easy,
	}
}

// IsValidInterval reports whether minutes is one of ReminderIntervals.
func IsValidInterval(minutes int) bool {
	for _, v := range ReminderIntervals {
		if v == minutes {
			return true
		}
	}
	return false
}

// Normalize replaces out-of-range values with defaults.
func (s *Settings) Normalize() {
	def := DefaultSettings()
	if !IsValidInterval(s.Interval) {
		s.Interval = def.Interval
	}
	if !s.Difficulty.Valid() {
		s.Difficulty = def.Difficulty
	}
	if s.WebhookURL != "" && s.WebhookType == "" {
		s.WebhookType = WebhookTypeGeneric
	}
	s.Key = KeySettings
}
