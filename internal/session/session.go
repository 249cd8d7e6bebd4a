// Package session owns the card on the table and the card actions: draw,
// repeat, skip and draw-new. Every action that records an outcome appends
// exactly one event to the active log.
package session

import (
	"log/slog"
	"time"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/clock"
	"github.com/deskercise/deskercise/internal/deck"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/stats"
	"github.com/deskercise/deskercise/internal/storage"
)

// Resetter restarts the reminder countdown after an exercise is done.
type Resetter interface {
	Reset()
}

// Options configures a Controller.
type Options struct {
	DB       *storage.DB
	Clock    clock.Clock
	Rand     deck.Rand
	Reminder Resetter // optional
	Logger   *slog.Logger
}

// Controller runs card actions against persisted state.
type Controller struct {
	db       *storage.DB
	settings *storage.SettingsRepo
	recent   *storage.RecentRepo
	config   *storage.ConfigRepo
	clock    clock.Clock
	rng      deck.Rand
	reminder Resetter
	log      *slog.Logger
}

// ActionResult is the outcome of a card action.
type ActionResult struct {
	Event *model.ExerciseEvent `json:"event,omitempty"`
	Card  *catalog.Exercise    `json:"card,omitempty"`
}

// HistoryFilter narrows History.
type HistoryFilter struct {
	Since  time.Time
	Status model.EventStatus
	Limit  int
}

// New creates a Controller.
func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Component("session")
	}
	return &Controller{
		db:       opts.DB,
		settings: storage.NewSettingsRepo(opts.DB),
		recent:   storage.NewRecentRepo(opts.DB),
		config:   storage.NewConfigRepo(opts.DB),
		clock:    opts.Clock,
		rng:      opts.Rand,
		reminder: opts.Reminder,
		log:      opts.Logger,
	}
}

// AttachReminder sets the scheduler reset after completions.
func (c *Controller) AttachReminder(r Resetter) {
	c.reminder = r
}

// Current returns the card on the table.
func (c *Controller) Current() (catalog.Exercise, error) {
	cfg, err := c.config.Get()
	if err != nil {
		return catalog.Exercise{}, errs.NewSystemErrorWithOp("session.current", "failed to load config", err)
	}
	if cfg.CurrentCardID == "" {
		return catalog.Exercise{}, errs.ErrNoCurrentCard
	}
	ex, ok := catalog.Lookup(cfg.CurrentCardID)
	if !ok {
		return catalog.Exercise{}, errs.ErrNoCurrentCard
	}
	return ex, nil
}

// Draw picks a card from the active difficulty pool and puts it on the
// table. An empty pool leaves everything unchanged.
func (c *Controller) Draw() (catalog.Exercise, error) {
	settings, err := c.settings.Get()
	if err != nil {
		return catalog.Exercise{}, errs.NewSystemErrorWithOp("session.draw", "failed to load settings", err)
	}
	recent, err := c.recent.Load()
	if err != nil {
		return catalog.Exercise{}, errs.NewSystemErrorWithOp("session.draw", "failed to load recent cards", err)
	}

	ex, next, ok := deck.Draw(catalog.ByDifficulty(settings.Difficulty), recent, c.rng)
	if !ok {
		c.log.Warn("empty pool", logging.KeyDifficulty, settings.Difficulty)
		return catalog.Exercise{}, errs.ErrEmptyPool
	}

	if err := c.recent.Save(next); err != nil {
		return catalog.Exercise{}, errs.NewSystemErrorWithOp("session.draw", "failed to save recent cards", err)
	}
	if err := c.config.SetCurrentCard(ex.ID); err != nil {
		return catalog.Exercise{}, errs.NewSystemErrorWithOp("session.draw", "failed to save current card", err)
	}

	c.log.Debug("card drawn", logging.KeyExercise, ex.ID, logging.KeyDifficulty, ex.Difficulty)
	return ex, nil
}

// Repeat logs the current card as completed and keeps it on the table.
func (c *Controller) Repeat() (ActionResult, error) {
	ex, err := c.Current()
	if err != nil {
		return ActionResult{}, err
	}
	ev, err := c.record(ex, model.StatusCompleted)
	if err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Event: ev, Card: &ex}, nil
}

// Skip logs the current card as skipped and draws the next one.
func (c *Controller) Skip() (ActionResult, error) {
	return c.logAndDraw(model.StatusSkipped)
}

// DrawNew logs the current card as completed and draws the next one.
func (c *Controller) DrawNew() (ActionResult, error) {
	return c.logAndDraw(model.StatusCompleted)
}

// Complete logs ex as completed without touching the table.
func (c *Controller) Complete(ex catalog.Exercise) (*model.ExerciseEvent, error) {
	return c.record(ex, model.StatusCompleted)
}

func (c *Controller) logAndDraw(status model.EventStatus) (ActionResult, error) {
	ex, err := c.Current()
	if err != nil {
		return ActionResult{}, err
	}
	ev, err := c.record(ex, status)
	if err != nil {
		return ActionResult{}, err
	}

	res := ActionResult{Event: ev}
	next, err := c.Draw()
	if err != nil {
		return res, err
	}
	res.Card = &next
	return res, nil
}

// SetDifficulty stores the level and clears the recent window and the
// current card, since both belong to the old pool.
func (c *Controller) SetDifficulty(level catalog.Difficulty) error {
	if !level.Valid() {
		return errs.NewUserErrorWithField("difficulty", string(level), "unknown difficulty", errs.GetSuggestion(errs.ErrInvalidDifficulty)).Because(errs.ErrInvalidDifficulty)
	}

	settings, err := c.settings.Get()
	if err != nil {
		return errs.NewSystemErrorWithOp("session.difficulty", "failed to load settings", err)
	}
	changed := settings.Difficulty != level
	settings.Difficulty = level
	if err := c.settings.Save(settings); err != nil {
		return errs.NewSystemErrorWithOp("session.difficulty", "failed to save settings", err)
	}
	if !changed {
		return nil
	}

	if err := c.recent.Clear(); err != nil {
		return errs.NewSystemErrorWithOp("session.difficulty", "failed to clear recent cards", err)
	}
	if err := c.config.SetCurrentCard(""); err != nil {
		return errs.NewSystemErrorWithOp("session.difficulty", "failed to clear current card", err)
	}

	c.log.Info("difficulty changed", logging.KeyDifficulty, level)
	return nil
}

// Log returns the event log of the signed-in user, or the anonymous
// history.
func (c *Controller) Log() (storage.EventLog, error) {
	cfg, err := c.config.Get()
	if err != nil {
		return nil, errs.NewSystemErrorWithOp("session.log", "failed to load config", err)
	}
	return storage.LogFor(c.db, cfg.CurrentUserID), nil
}

// Stats computes totals and the streak from the active log.
func (c *Controller) Stats() (stats.Stats, error) {
	log, err := c.Log()
	if err != nil {
		return stats.Stats{}, err
	}
	events, err := log.List(0)
	if err != nil {
		return stats.Stats{}, errs.NewSystemErrorWithOp("session.stats", "failed to load history", err)
	}
	return stats.Compute(events, c.clock.Now()), nil
}

// History returns events from the active log, newest first.
func (c *Controller) History(f HistoryFilter) ([]*model.ExerciseEvent, error) {
	log, err := c.Log()
	if err != nil {
		return nil, err
	}
	events, err := log.List(0)
	if err != nil {
		return nil, errs.NewSystemErrorWithOp("session.history", "failed to load history", err)
	}

	out := make([]*model.ExerciseEvent, 0, len(events))
	for _, ev := range events {
		if f.Status != "" && ev.Status != f.Status {
			continue
		}
		if !f.Since.IsZero() && ev.Time().Before(f.Since) {
			continue
		}
		out = append(out, ev)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (c *Controller) record(ex catalog.Exercise, status model.EventStatus) (*model.ExerciseEvent, error) {
	log, err := c.Log()
	if err != nil {
		return nil, err
	}

	ev := model.NewExerciseEvent(ex, status, "", c.clock.Now())
	if err := log.Append(ev); err != nil {
		return nil, errs.NewSystemErrorWithOp("session.record", "failed to record exercise", err)
	}

	c.log.Info("exercise logged",
		logging.KeyExercise, ex.ID,
		logging.KeyStatus, string(status),
	)

	if status == model.StatusCompleted && c.reminder != nil {
		c.reminder.Reset()
	}
	return ev, nil
}
