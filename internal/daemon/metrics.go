package daemon

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks daemon operational counters.
type Metrics struct {
	remindersFired      atomic.Int64
	notificationsSent   atomic.Int64
	notificationsFailed atomic.Int64
	streakNudges        atomic.Int64
	syncRuns            atomic.Int64
	errorsTotal         atomic.Int64

	mu                 sync.RWMutex
	lastReminderAt     time.Time
	lastNotificationAt time.Time
	lastSyncAt         time.Time
	lastError          string
	lastErrorAt        time.Time
	errorsByCategory   map[string]int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{errorsByCategory: make(map[string]int64)}
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	RemindersFiredTotal      int64            `json:"reminders_fired_total"`
	NotificationsSentTotal   int64            `json:"notifications_sent_total"`
	NotificationsFailedTotal int64            `json:"notifications_failed_total"`
	StreakNudgesTotal        int64            `json:"streak_nudges_total"`
	SyncRunsTotal            int64            `json:"sync_runs_total"`
	ErrorsTotal              int64            `json:"errors_total"`
	LastReminderAt           *time.Time       `json:"last_reminder_at,omitempty"`
	LastNotificationAt       *time.Time       `json:"last_notification_at,omitempty"`
	LastSyncAt               *time.Time       `json:"last_sync_at,omitempty"`
	LastError                string           `json:"last_error,omitempty"`
	LastErrorAt              *time.Time       `json:"last_error_at,omitempty"`
	ErrorsByCategory         map[string]int64 `json:"errors_by_category,omitempty"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Snapshot returns a copy of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		RemindersFiredTotal:      m.remindersFired.Load(),
		NotificationsSentTotal:   m.notificationsSent.Load(),
		NotificationsFailedTotal: m.notificationsFailed.Load(),
		StreakNudgesTotal:        m.streakNudges.Load(),
		SyncRunsTotal:            m.syncRuns.Load(),
		ErrorsTotal:              m.errorsTotal.Load(),
		LastReminderAt:           timePtr(m.lastReminderAt),
		LastNotificationAt:       timePtr(m.lastNotificationAt),
		LastSyncAt:               timePtr(m.lastSyncAt),
		LastError:                m.lastError,
		LastErrorAt:              timePtr(m.lastErrorAt),
	}
	if len(m.errorsByCategory) > 0 {
		snap.ErrorsByCategory = make(map[string]int64, len(m.errorsByCategory))
		for k, v := range m.errorsByCategory {
			snap.ErrorsByCategory[k] = v
		}
	}
	return snap
}

// RecordReminderFired records a reminder cycle reaching its fire time.
func (m *Metrics) RecordReminderFired(at time.Time) {
	m.remindersFired.Add(1)
	m.mu.Lock()
	m.lastReminderAt = at
	m.mu.Unlock()
}

// RecordNotificationSent records a delivered notification.
func (m *Metrics) RecordNotificationSent(at time.Time) {
	m.notificationsSent.Add(1)
	m.mu.Lock()
	m.lastNotificationAt = at
	m.mu.Unlock()
}

// RecordNotificationFailed records a failed notification.
func (m *Metrics) RecordNotificationFailed(at time.Time, err error) {
	m.notificationsFailed.Add(1)
	m.RecordError(at, "notification", err)
}

// RecordStreakNudge records an evening streak notification.
func (m *Metrics) RecordStreakNudge() {
	m.streakNudges.Add(1)
}

// RecordSync records a re-sync with persisted state.
func (m *Metrics) RecordSync(at time.Time) {
	m.syncRuns.Add(1)
	m.mu.Lock()
	m.lastSyncAt = at
	m.mu.Unlock()
}

// RecordError records an error with category.
func (m *Metrics) RecordError(at time.Time, category string, err error) {
	m.errorsTotal.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = err.Error()
	m.lastErrorAt = at
	if category != "" {
		m.errorsByCategory[category]++
	}
}
