package storage

import (
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
)

// SettingsRepo stores the user's preferences singleton.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the stored settings. Missing or unreadable records yield the
// defaults; out-of-range fields are normalized.
func (r *SettingsRepo) Get() (*model.Settings, error) {
	s := &model.Settings{}
	err := r.db.Get(model.KeySettings, s)
	switch {
	case err == nil:
		s.Normalize()
		return s, nil
	case IsErrKeyNotFound(err):
		return model.DefaultSettings(), nil
	case IsCorrupt(err):
		logging.Warn("settings unreadable, using defaults", logging.KeyError, err)
		return model.DefaultSettings(), nil
	default:
		return nil, err
	}
}

// Save normalizes and stores s.
func (r *SettingsRepo) Save(s *model.Settings) error {
	s.Normalize()
	return r.db.Set(s)
}
