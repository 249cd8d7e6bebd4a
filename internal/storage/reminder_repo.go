package storage

import (
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
)

// ReminderStateRepo stores the pending reminder cycle.
type ReminderStateRepo struct {
	db *DB
}

// NewReminderStateRepo creates a new reminder state repository.
func NewReminderStateRepo(db *DB) *ReminderStateRepo {
	return &ReminderStateRepo{db: db}
}

// Load returns the persisted cycle, or nil when none is stored or the
// record cannot be decoded.
func (r *ReminderStateRepo) Load() (*model.ReminderRecord, error) {
	rec := &model.ReminderRecord{}
	err := r.db.Get(model.KeyReminderState, rec)
	switch {
	case err == nil:
		return rec, nil
	case IsErrKeyNotFound(err):
		return nil, nil
	case IsCorrupt(err):
		logging.Warn("reminder state unreadable, starting fresh", logging.KeyError, err)
		return nil, nil
	default:
		return nil, err
	}
}

// Save stores rec under the reminder state key.
func (r *ReminderStateRepo) Save(rec *model.ReminderRecord) error {
	rec.Key = model.KeyReminderState
	return r.db.Set(rec)
}

// Clear removes the persisted cycle.
func (r *ReminderStateRepo) Clear() error {
	return r.db.Delete(model.KeyReminderState)
}
