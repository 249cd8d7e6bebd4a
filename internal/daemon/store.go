package daemon

import (
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/storage"
)

// Opener opens the store for a single operation. release is called once the
// operation is done.
type Opener func() (db *storage.DB, release func(), err error)

// PathOpener opens the on-disk store at path for each operation so the
// daemon never holds the directory lock between jobs.
func PathOpener(path string) Opener {
	return func() (*storage.DB, func(), error) {
		db, err := storage.Open(storage.Options{Path: path})
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}
}

// SharedOpener hands out an already open store and never closes it.
func SharedOpener(db *storage.DB) Opener {
	return func() (*storage.DB, func(), error) {
		return db, func() {}, nil
	}
}

func withDB[T any](open Opener, fn func(*storage.DB) (T, error)) (T, error) {
	var zero T
	db, release, err := open()
	if err != nil {
		return zero, err
	}
	defer release()
	return fn(db)
}

// reminderStore persists the reminder cycle through an Opener.
type reminderStore struct {
	open Opener
}

func (s reminderStore) Load() (*model.ReminderRecord, error) {
	return withDB(s.open, func(db *storage.DB) (*model.ReminderRecord, error) {
		return storage.NewReminderStateRepo(db).Load()
	})
}

func (s reminderStore) Save(rec *model.ReminderRecord) error {
	_, err := withDB(s.open, func(db *storage.DB) (struct{}, error) {
		return struct{}{}, storage.NewReminderStateRepo(db).Save(rec)
	})
	return err
}

func (s reminderStore) Clear() error {
	_, err := withDB(s.open, func(db *storage.DB) (struct{}, error) {
		return struct{}{}, storage.NewReminderStateRepo(db).Clear()
	})
	return err
}
