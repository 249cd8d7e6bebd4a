package storage

import (
	"github.com/deskercise/deskercise/internal/deck"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
)

// RecentRepo stores the recent-draw window as a JSON array of ids.
type RecentRepo struct {
	db *DB
}

// NewRecentRepo creates a new recent-cards repository.
func NewRecentRepo(db *DB) *RecentRepo {
	return &RecentRepo{db: db}
}

// Load returns the stored window. Missing or malformed data is an empty
// window, and anything past deck.RecentWindow is dropped.
func (r *RecentRepo) Load() (deck.Recent, error) {
	var ids []string
	err := r.db.GetRaw(model.KeyRecentCards, &ids)
	switch {
	case err == nil:
	case IsErrKeyNotFound(err):
		return nil, nil
	case IsCorrupt(err):
		logging.Warn("recent cards unreadable, resetting", logging.KeyError, err)
		return nil, nil
	default:
		return nil, err
	}

	if len(ids) > deck.RecentWindow {
		ids = ids[:deck.RecentWindow]
	}
	return deck.Recent(ids), nil
}

// Save stores the window.
func (r *RecentRepo) Save(recent deck.Recent) error {
	ids := []string(recent)
	if ids == nil {
		ids = []string{}
	}
	return r.db.SetRaw(model.KeyRecentCards, ids)
}

// Clear empties the window.
func (r *RecentRepo) Clear() error {
	return r.db.Delete(model.KeyRecentCards)
}
