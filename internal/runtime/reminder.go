package runtime

import (
	"context"

	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/reminder"
)

// persistedReminder restarts the stored reminder cycle from a short-lived
// process. A running daemon adopts the new cycle on its next sync.
type persistedReminder struct {
	c *Context
}

func (p persistedReminder) Reset() {
	sched, settings, err := p.c.LoadScheduler(context.Background())
	if err != nil {
		p.c.Debugf("reminder reset skipped: %v", err)
		return
	}
	defer sched.Close()
	if settings.NotificationsEnabled {
		sched.Reset()
	}
}

// LoadScheduler returns a scheduler without a surface. When reminders are
// enabled it has resumed the stored cycle, or started a fresh one if the
// stored cycle is missing or stale. The caller must Close it.
func (c *Context) LoadScheduler(ctx context.Context) (*reminder.Scheduler, *model.Settings, error) {
	settings, err := c.SettingsRepo.Get()
	if err != nil {
		return nil, nil, errs.NewSystemErrorWithOp("settings", "failed to load settings", err)
	}
	sched := reminder.New(reminder.Options{Clock: c.Clock, Store: c.ReminderRepo})
	if settings.NotificationsEnabled {
		sched.Start(ctx, settings.Interval, true)
	}
	return sched, settings, nil
}

// ReminderState reads the stored cycle without scheduling anything.
func (c *Context) ReminderState() (reminder.State, error) {
	settings, err := c.SettingsRepo.Get()
	if err != nil {
		return reminder.State{}, errs.NewSystemErrorWithOp("settings", "failed to load settings", err)
	}
	st := reminder.State{
		Enabled:         settings.NotificationsEnabled,
		IntervalMinutes: settings.Interval,
	}
	if !st.Enabled {
		return st, nil
	}

	rec, err := c.ReminderRepo.Load()
	if err != nil {
		return reminder.State{}, errs.NewSystemErrorWithOp("reminder", "failed to load reminder state", err)
	}
	if rec != nil && rec.ResumableAt(c.Clock.Now(), settings.Interval) {
		st.Active = true
		st.NextFire = rec.NextFire()
		st.Snoozed = rec.IsSnoozed
	}
	return st, nil
}
