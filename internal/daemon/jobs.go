package daemon

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/deskercise/deskercise/internal/config"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/notify"
	"github.com/deskercise/deskercise/internal/session"
	"github.com/deskercise/deskercise/internal/stats"
	"github.com/deskercise/deskercise/internal/storage"
)

// startJobs registers the periodic jobs on a seconds-resolution cron.
func (d *Daemon) startJobs(ctx context.Context) error {
	cfg := config.Global.Daemon
	d.cron = cron.New(cron.WithSeconds())

	if _, err := d.cron.AddFunc(cfg.SyncSpec, func() { d.syncOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}
	if _, err := d.cron.AddFunc(cfg.StreakNudgeSpec, func() { d.nudgeOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to add streak job: %w", err)
	}

	d.cron.Start()
	d.log.Debug("jobs started", "sync", cfg.SyncSpec, "nudge", cfg.StreakNudgeSpec)
	return nil
}

func (d *Daemon) stopJobs() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
	d.cron = nil
}

// syncOnce picks up settings and reminder changes made by other processes.
func (d *Daemon) syncOnce(ctx context.Context) {
	settings, err := d.loadSettings()
	if err != nil {
		d.log.Warn("sync skipped", logging.KeyError, err)
		d.metrics.RecordError(d.clock.Now(), "sync", err)
		return
	}

	if d.surface.refresh(settings) {
		d.log.Info("notification surface rebuilt", logging.KeyWebhook, logging.MaskURL(settings.WebhookURL))
		if settings.NotificationsEnabled {
			if _, err := d.surface.RequestPermission(ctx); err != nil {
				d.log.Warn("permission request failed", logging.KeyError, err)
			}
		}
	}

	d.scheduler.Sync(ctx, settings.Interval, settings.NotificationsEnabled)
	d.metrics.RecordSync(d.clock.Now())

	if err := d.writeState(); err != nil {
		d.log.Warn("failed to write state", logging.KeyError, err)
	}
}

// nudgeOnce sends the evening streak notification when notifications are on
// and nothing has been completed today.
func (d *Daemon) nudgeOnce(ctx context.Context) {
	type result struct {
		enabled bool
		streak  stats.Stats
		done    bool
	}

	now := d.clock.Now()
	r, err := withDB(d.open, func(db *storage.DB) (result, error) {
		settings, err := storage.NewSettingsRepo(db).Get()
		if err != nil {
			return result{}, err
		}
		if !settings.NotificationsEnabled {
			return result{}, nil
		}
		log, err := session.New(session.Options{DB: db, Clock: d.clock}).Log()
		if err != nil {
			return result{}, err
		}
		events, err := log.List(0)
		if err != nil {
			return result{}, err
		}
		// Yesterday's run is what is at stake tonight.
		return result{
			enabled: true,
			streak:  stats.Compute(events, now.AddDate(0, 0, -1)),
			done:    stats.CompletedToday(events, now),
		}, nil
	})
	if err != nil {
		d.log.Warn("streak check failed", logging.KeyError, err)
		d.metrics.RecordError(now, "nudge", err)
		return
	}
	if !r.enabled || r.done {
		return
	}
	if d.surface.Permission() != notify.PermissionGranted {
		d.log.Debug("streak nudge skipped, no surface granted")
		return
	}

	n := streakNotification(r.streak.CurrentStreakDays)
	nctx, cancel := context.WithTimeout(ctx, config.Global.HTTP.Timeout)
	defer cancel()
	if err := d.surface.Show(nctx, n); err != nil {
		d.log.Warn("streak notification failed", logging.KeyError, err)
		return
	}
	d.metrics.RecordStreakNudge()
	d.log.Info("streak nudge sent", "streak", r.streak.CurrentStreakDays)
}

func streakNotification(streak int) *model.Notification {
	msg := "No exercise logged today yet. A quick one keeps the habit going."
	if streak > 0 {
		msg = fmt.Sprintf("Your %d day streak ends tonight unless you move. One card is enough.", streak)
	}
	return model.NewNotification(model.NotifyStreak, "Keep your streak", msg).
		WithField("streak", fmt.Sprintf("%d", streak)).
		WithColor(model.DefaultColorForType(model.NotifyStreak))
}
