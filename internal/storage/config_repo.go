package storage

import (
	"github.com/google/uuid"

	"github.com/deskercise/deskercise/internal/model"
)

// ConfigRepo provides operations for the installation Config singleton.
type ConfigRepo struct {
	db *DB
}

// NewConfigRepo creates a new config repository.
func NewConfigRepo(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// Get retrieves the config, creating it if it doesn't exist.
func (r *ConfigRepo) Get() (*model.Config, error) {
	config := &model.Config{}
	err := r.db.Get(model.KeyConfig, config)
	if err == nil {
		return config, nil
	}

	if !IsErrKeyNotFound(err) && !IsCorrupt(err) {
		return nil, err
	}

	installKey, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	config = model.NewConfig(installKey.String())
	if err := r.db.Set(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Update updates the config.
func (r *ConfigRepo) Update(config *model.Config) error {
	return r.db.Set(config)
}

// SetCurrentUser selects the signed-in user. Empty signs out.
func (r *ConfigRepo) SetCurrentUser(userID string) error {
	config, err := r.Get()
	if err != nil {
		return err
	}
	config.CurrentUserID = userID
	return r.Update(config)
}

// SetCurrentCard remembers the card on the table. Empty clears it.
func (r *ConfigRepo) SetCurrentCard(exerciseID string) error {
	config, err := r.Get()
	if err != nil {
		return err
	}
	config.CurrentCardID = exerciseID
	return r.Update(config)
}
