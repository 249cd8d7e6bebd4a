package model

import (
	"strings"
	"time"
)

// User is a locally registered profile used for event ownership and teams.
type User struct {
	Key         string    `json:"key"`
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	AvatarEmoji string    `json:"avatar_emoji,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetKey sets the database key for this user.
func (u *User) SetKey(key string) {
	u.Key = key
}

// GetKey returns the database key for this user.
func (u *User) GetKey() string {
	return u.Key
}

// NewUser creates a user with the given id.
func NewUser(id, firstName, lastName, email string) *User {
	return &User{
		Key:       GenerateUserKey(id),
		ID:        id,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now(),
	}
}

// DisplayName returns "First Last", falling back to the email and then to
// a generic label.
func (u *User) DisplayName() string {
	if u == nil {
		return "Team Member"
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Team Member"
}

// GenerateUserKey builds "user:<id>".
func GenerateUserKey(id string) string {
	return PrefixUser + ":" + id
}
