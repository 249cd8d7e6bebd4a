package storage

import (
	"sort"

	"github.com/google/uuid"

	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
)

// EventLog is an append-only list of card outcomes, read newest-first.
type EventLog interface {
	Append(ev *model.ExerciseEvent) error
	// List returns up to limit events, newest first. limit <= 0 means all.
	List(limit int) ([]*model.ExerciseEvent, error)
}

// LogFor returns the per-user log when userID is set and the anonymous
// history otherwise.
func LogFor(db *DB, userID string) EventLog {
	if userID == "" {
		return NewHistoryRepo(db)
	}
	return NewEventRepo(db).ForUser(userID)
}

// HistoryRepo is the anonymous fallback log: one JSON array under the
// history key, newest first.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new anonymous history repository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) load() ([]*model.ExerciseEvent, error) {
	var events []*model.ExerciseEvent
	err := r.db.GetRaw(model.KeyHistory, &events)
	switch {
	case err == nil:
		return events, nil
	case IsErrKeyNotFound(err):
		return nil, nil
	case IsCorrupt(err):
		logging.Warn("history unreadable, starting empty", logging.KeyError, err)
		return nil, nil
	default:
		return nil, err
	}
}

// Append prepends ev to the history.
func (r *HistoryRepo) Append(ev *model.ExerciseEvent) error {
	events, err := r.load()
	if err != nil {
		return err
	}
	events = append([]*model.ExerciseEvent{ev}, events...)
	return r.db.SetRaw(model.KeyHistory, events)
}

// List returns up to limit events, newest first.
func (r *HistoryRepo) List(limit int) ([]*model.ExerciseEvent, error) {
	events, err := r.load()
	if err != nil {
		return nil, err
	}
	return truncate(events, limit), nil
}

// Clear removes the anonymous history.
func (r *HistoryRepo) Clear() error {
	return r.db.Delete(model.KeyHistory)
}

// EventRepo stores per-user events under event:<user>:<uuid>.
type EventRepo struct {
	db *DB
}

// NewEventRepo creates a new event repository.
func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

// Append stores ev for userID with a fresh time-ordered key.
func (r *EventRepo) Append(userID string, ev *model.ExerciseEvent) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	ev.UserID = userID
	ev.Key = model.GenerateEventKey(userID, id.String())
	return r.db.Set(ev)
}

// ListByUser returns up to limit of userID's events, newest first.
func (r *EventRepo) ListByUser(userID string, limit int) ([]*model.ExerciseEvent, error) {
	events, err := GetAllByPrefix(r.db, model.EventPrefixForUser(userID), func() *model.ExerciseEvent {
		return &model.ExerciseEvent{}
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(events)
	return truncate(events, limit), nil
}

// ListForUsers merges the events of every user, newest first.
func (r *EventRepo) ListForUsers(userIDs []string, limit int) ([]*model.ExerciseEvent, error) {
	var all []*model.ExerciseEvent
	for _, id := range userIDs {
		events, err := r.ListByUser(id, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	sortNewestFirst(all)
	return truncate(all, limit), nil
}

// ForUser binds the repository to one user as an EventLog.
func (r *EventRepo) ForUser(userID string) EventLog {
	return &userLog{repo: r, userID: userID}
}

type userLog struct {
	repo   *EventRepo
	userID string
}

func (l *userLog) Append(ev *model.ExerciseEvent) error {
	return l.repo.Append(l.userID, ev)
}

func (l *userLog) List(limit int) ([]*model.ExerciseEvent, error) {
	return l.repo.ListByUser(l.userID, limit)
}

func sortNewestFirst(events []*model.ExerciseEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp != events[j].Timestamp {
			return events[i].Timestamp > events[j].Timestamp
		}
		return events[i].Key > events[j].Key
	})
}

func truncate(events []*model.ExerciseEvent, limit int) []*model.ExerciseEvent {
	if limit > 0 && len(events) > limit {
		return events[:limit]
	}
	return events
}
