package model

import "time"

// ReminderRecord is the persisted form of the scheduler's pending cycle.
// NextReminderTime is an absolute epoch-millisecond timestamp so a restarted
// process resumes the same countdown.
type ReminderRecord struct {
	Key              string `json:"-"`
	NextReminderTime int64  `json:"nextReminderTime"`
	IntervalMinutes  int    `json:"intervalMinutes"`
	IsSnoozed        bool   `json:"isSnoozed"`
}

// SetKey sets the database key for this record.
func (r *ReminderRecord) SetKey(key string) {
	r.Key = key
}

// GetKey returns the database key for this record.
func (r *ReminderRecord) GetKey() string {
	return r.Key
}

// NewReminderRecord creates a record for a cycle firing at next.
func NewReminderRecord(next time.Time, intervalMinutes int, snoozed bool) *ReminderRecord {
	return &ReminderRecord{
		Key:              KeyReminderState,
		NextReminderTime: next.UnixMilli(),
		IntervalMinutes:  intervalMinutes,
		IsSnoozed:        snoozed,
	}
}

// NextFire returns the fire time as a time.Time.
func (r *ReminderRecord) NextFire() time.Time {
	return time.UnixMilli(r.NextReminderTime)
}

// ResumableAt reports whether the record can be resumed at now for the
// given interval: the fire time is still ahead and the interval matches.
func (r *ReminderRecord) ResumableAt(now time.Time, intervalMinutes int) bool {
	return r.IntervalMinutes == intervalMinutes && r.NextFire().After(now)
}
