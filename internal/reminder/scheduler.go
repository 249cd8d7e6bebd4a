// Package reminder schedules the recurring "time to move" prompt. A
// Scheduler owns a single pending timer, persists each cycle's absolute fire
// time so a restarted process resumes the same countdown, and supports
// snooze, dismiss, reset and stop.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deskercise/deskercise/internal/clock"
	"github.com/deskercise/deskercise/internal/events"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/notify"
)

// SnoozeDuration is how far a snooze pushes the next reminder.
const SnoozeDuration = 5 * time.Minute

// DefaultNotifyTimeout bounds a single platform notification send.
const DefaultNotifyTimeout = 30 * time.Second

// Store persists the pending cycle.
type Store interface {
	// Load returns nil when nothing usable is stored.
	Load() (*model.ReminderRecord, error)
	Save(rec *model.ReminderRecord) error
	Clear() error
}

// State is a snapshot of the scheduler.
type State struct {
	Enabled         bool      `json:"enabled"`
	Active          bool      `json:"active"`
	IntervalMinutes int       `json:"intervalMinutes"`
	NextFire        time.Time `json:"nextFire,omitempty"`
	Snoozed         bool      `json:"snoozed"`
	SurfaceVisible  bool      `json:"surfaceVisible"`
}

// Options configures a Scheduler.
type Options struct {
	Clock         clock.Clock
	Store         Store
	Surface       notify.Surface // optional
	Logger        *slog.Logger
	NotifyTimeout time.Duration
}

// Scheduler is the reminder state machine. All methods are safe for
// concurrent use; listeners run outside the internal lock.
type Scheduler struct {
	clock         clock.Clock
	store         Store
	surface       notify.Surface
	log           *slog.Logger
	notifyTimeout time.Duration

	mu       sync.Mutex
	state    State
	timer    clock.Timer
	gen      uint64
	reminded *events.Event[State]
	changed  *events.Event[State]
}

// New creates a stopped Scheduler.
func New(opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Component("reminder")
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	return &Scheduler{
		clock:         opts.Clock,
		store:         opts.Store,
		surface:       opts.Surface,
		log:           opts.Logger,
		notifyTimeout: opts.NotifyTimeout,
		reminded:      events.New[State](false),
		changed:       events.New[State](true),
	}
}

// OnReminder registers fn to run each time a reminder fires.
func (s *Scheduler) OnReminder(fn func(State)) func() {
	return s.reminded.Listen(fn)
}

// OnChange registers fn to run after every state transition. The current
// state is replayed to fn once it has been published.
func (s *Scheduler) OnChange(fn func(State)) func() {
	return s.changed.Listen(fn)
}

// State returns a snapshot.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the time until the next fire, or zero when stopped.
func (s *Scheduler) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Active {
		return 0
	}
	if d := s.state.NextFire.Sub(s.clock.Now()); d > 0 {
		return d
	}
	return 0
}

// Start begins reminding every intervalMinutes. A persisted cycle for the
// same interval that is still in the future is resumed at its exact fire
// time; anything else starts a fresh cycle. Start with enabled=false is Stop.
func (s *Scheduler) Start(ctx context.Context, intervalMinutes int, enabled bool) {
	if !enabled {
		s.Stop()
		return
	}

	s.mu.Lock()
	s.state.Enabled = true
	s.state.IntervalMinutes = intervalMinutes
	now := s.clock.Now()
	if rec := s.loadLocked(); rec != nil && rec.ResumableAt(now, intervalMinutes) {
		s.scheduleAtLocked(rec.NextFire(), rec.IsSnoozed)
		s.log.Info("reminder resumed", logging.KeyNextFire, rec.NextFire(), logging.KeySnoozed, rec.IsSnoozed)
	} else {
		s.scheduleAtLocked(now.Add(minutes(intervalMinutes)), false)
		s.log.Info("reminder scheduled", logging.KeyInterval, intervalMinutes)
	}
	snap := s.state
	s.mu.Unlock()

	s.requestPermission(ctx)
	s.changed.Notify(snap)
}

// OnSettingsChanged re-syncs the scheduler with new preferences. An
// unchanged interval leaves the running cycle alone.
func (s *Scheduler) OnSettingsChanged(ctx context.Context, intervalMinutes int, enabled bool) {
	if !enabled {
		s.Stop()
		return
	}
	s.mu.Lock()
	unchanged := s.state.Active && s.state.IntervalMinutes == intervalMinutes
	s.mu.Unlock()
	if unchanged {
		return
	}
	s.Start(ctx, intervalMinutes, true)
}

// Sync adopts a cycle persisted by another process, such as a snooze or
// reset issued from the command line while a daemon holds the timer.
func (s *Scheduler) Sync(ctx context.Context, intervalMinutes int, enabled bool) {
	s.mu.Lock()
	running := s.state.Active && s.state.IntervalMinutes == intervalMinutes
	s.mu.Unlock()

	if !enabled || !running {
		s.OnSettingsChanged(ctx, intervalMinutes, enabled)
		return
	}

	s.mu.Lock()
	rec := s.loadLocked()
	now := s.clock.Now()
	switch {
	case rec == nil:
		// Removed externally while still enabled; keep our cycle on disk.
		s.persistLocked()
		s.mu.Unlock()
		return
	case !rec.ResumableAt(now, intervalMinutes), rec.NextReminderTime == s.state.NextFire.UnixMilli():
		s.mu.Unlock()
		return
	}
	s.scheduleAtLocked(rec.NextFire(), rec.IsSnoozed)
	s.state.SurfaceVisible = false
	snap := s.state
	s.mu.Unlock()

	s.log.Info("reminder synced", logging.KeyNextFire, rec.NextFire(), logging.KeySnoozed, rec.IsSnoozed)
	s.changed.Notify(snap)
}

// Snooze hides the prompt and reminds again in SnoozeDuration. It only
// hides the prompt when reminders are off.
func (s *Scheduler) Snooze() {
	s.mu.Lock()
	s.state.SurfaceVisible = false
	if s.state.Enabled {
		s.scheduleAtLocked(s.clock.Now().Add(SnoozeDuration), true)
		s.log.Info("reminder snoozed", logging.KeyNextFire, s.state.NextFire)
	}
	snap := s.state
	s.mu.Unlock()

	s.changed.Notify(snap)
}

// Dismiss hides the prompt. The cycle scheduled at fire time continues.
func (s *Scheduler) Dismiss() {
	s.mu.Lock()
	s.state.SurfaceVisible = false
	snap := s.state
	s.mu.Unlock()

	s.changed.Notify(snap)
}

// Reset hides the prompt and restarts a full interval from now.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.state.SurfaceVisible = false
	if s.state.Enabled {
		s.scheduleAtLocked(s.clock.Now().Add(minutes(s.state.IntervalMinutes)), false)
		s.log.Debug("reminder reset", logging.KeyNextFire, s.state.NextFire)
	}
	snap := s.state
	s.mu.Unlock()

	s.changed.Notify(snap)
}

// Stop cancels the pending timer and removes the persisted cycle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancelLocked()
	s.state = State{IntervalMinutes: s.state.IntervalMinutes}
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			s.log.Warn("failed to clear reminder state", logging.KeyError, err)
		}
	}
	snap := s.state
	s.mu.Unlock()

	s.changed.Notify(snap)
}

// Close cancels the pending timer but keeps the persisted cycle, so the
// next Start resumes it.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.state.Active {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.state.SurfaceVisible = true
	if s.state.Enabled {
		s.scheduleAtLocked(s.clock.Now().Add(minutes(s.state.IntervalMinutes)), false)
	} else {
		s.state.Active = false
	}
	snap := s.state
	s.mu.Unlock()

	s.log.Info("reminder fired", logging.KeyNextFire, snap.NextFire)
	s.reminded.Notify(snap)
	s.show()
	s.changed.Notify(snap)
}

// show sends the platform notification. Failures degrade to the in-app
// prompt, which is already visible.
func (s *Scheduler) show() {
	if s.surface == nil || s.surface.Permission() != notify.PermissionGranted {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()
	if err := s.surface.Show(ctx, model.NewReminderNotification()); err != nil {
		s.log.Warn("reminder notification failed", logging.KeyError, err)
	}
}

// requestPermission asks the surface for consent while it is undecided.
func (s *Scheduler) requestPermission(ctx context.Context) {
	if s.surface == nil || s.surface.Permission() != notify.PermissionDefault {
		return
	}
	perm, err := s.surface.RequestPermission(ctx)
	if err != nil {
		s.log.Warn("notification permission request failed", logging.KeyError, err)
	}
	s.log.Debug("notification permission", logging.KeyStatus, perm.String())
}

// scheduleAtLocked cancels any pending timer, arms a new one for at, and
// persists the cycle.
func (s *Scheduler) scheduleAtLocked(at time.Time, snoozed bool) {
	s.cancelLocked()

	s.gen++
	gen := s.gen
	delay := at.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(gen) })

	s.state.Active = true
	s.state.NextFire = at
	s.state.Snoozed = snoozed
	s.persistLocked()
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) persistLocked() {
	if s.store == nil || !s.state.Active {
		return
	}
	rec := model.NewReminderRecord(s.state.NextFire, s.state.IntervalMinutes, s.state.Snoozed)
	if err := s.store.Save(rec); err != nil {
		s.log.Warn("failed to persist reminder state", logging.KeyError, err)
	}
}

func (s *Scheduler) loadLocked() *model.ReminderRecord {
	if s.store == nil {
		return nil
	}
	rec, err := s.store.Load()
	if err != nil {
		s.log.Warn("failed to load reminder state", logging.KeyError, err)
		return nil
	}
	return rec
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
