// Package model defines the persisted records for Deskercise.
package model

// Model is the interface that all database models must implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// Key prefixes for multi-record collections.
const (
	PrefixEvent  = "event"
	PrefixUser   = "user"
	PrefixTeam   = "team"
	PrefixMember = "member"
	PrefixInvite = "invite"
)

// Singleton keys.
const (
	KeyConfig        = "config"
	KeySettings      = "settings"
	KeyReminderState = "reminder-state"
	KeyRecentCards   = "recent-cards"
	KeyHistory       = "history"
)
