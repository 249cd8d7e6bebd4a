package model

// Config holds installation state (singleton).
type Config struct {
	Key           string `json:"key"`
	UserKey       string `json:"user_key" validate:"required"`
	CurrentUserID string `json:"current_user_id,omitempty"`
	CurrentCardID string `json:"current_card_id,omitempty"`
}

// SetKey sets the database key for this config.
func (c *Config) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this config.
func (c *Config) GetKey() string {
	return c.Key
}

// NewConfig creates a new config with the given installation key.
func NewConfig(userKey string) *Config {
	return &Config{
		Key:     KeyConfig,
		UserKey: userKey,
	}
}

// SignedIn reports whether a local user profile is selected.
func (c *Config) SignedIn() bool {
	return c.CurrentUserID != ""
}
