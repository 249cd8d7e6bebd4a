// Package config provides centralized configuration for Deskercise runtime values.
// User preferences (interval, difficulty, notifications) are not here: they are
// the persisted settings record.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RuntimeConfig holds tunable runtime values.
type RuntimeConfig struct {
	Daemon  DaemonConfig
	HTTP    HTTPConfig
	History HistoryConfig

	// DatabasePath overrides the XDG data location. ":memory:" opens an
	// in-memory store.
	DatabasePath string
}

// DaemonConfig holds daemon-related configuration.
type DaemonConfig struct {
	// StartupWait is the time to wait for the daemon to start before checking status.
	// Default: 500ms
	StartupWait time.Duration

	// KillTimeout is the timeout for graceful shutdown before force kill.
	// Default: 5s
	KillTimeout time.Duration

	// SyncSpec is the cron spec (with seconds) for re-reading settings and
	// reminder state written by other processes.
	// Default: every 15 seconds
	SyncSpec string

	// StreakNudgeSpec is the cron spec for the evening streak reminder.
	// Default: 20:00 local time
	StreakNudgeSpec string

	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// HTTPConfig holds webhook client configuration.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	// Default: 10s
	Timeout time.Duration

	// MaxRetries is the maximum number of attempts.
	// Default: 3
	MaxRetries int

	// RetryDelays are the delays before each attempt.
	// Default: [0s, 2s, 10s]
	RetryDelays []time.Duration
}

// HistoryConfig holds list defaults.
type HistoryConfig struct {
	// DefaultLimit caps `history` output.
	// Default: 20
	DefaultLimit int

	// TeamLogLimit caps `team logs` output.
	// Default: 100
	TeamLogLimit int
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Daemon: DaemonConfig{
			StartupWait:     500 * time.Millisecond,
			KillTimeout:     5 * time.Second,
			SyncSpec:        "*/15 * * * * *",
			StreakNudgeSpec: "0 0 20 * * *",
			LogMaxSizeMB:    5,
			LogMaxBackups:   3,
			LogMaxAgeDays:   28,
		},
		HTTP: HTTPConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 3,
			RetryDelays: []time.Duration{
				0,
				2 * time.Second,
				10 * time.Second,
			},
		},
		History: HistoryConfig{
			DefaultLimit: 20,
			TeamLogLimit: 100,
		},
	}
}

// Global holds the process-wide runtime configuration.
var Global = initGlobal()

func initGlobal() *RuntimeConfig {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("DESKERCISE_DATABASE"); v != "" {
		c.DatabasePath = v
	}

	envDuration("DESKERCISE_DAEMON_STARTUP_WAIT", &c.Daemon.StartupWait)
	envDuration("DESKERCISE_DAEMON_KILL_TIMEOUT", &c.Daemon.KillTimeout)
	if v := os.Getenv("DESKERCISE_DAEMON_SYNC_SPEC"); v != "" {
		c.Daemon.SyncSpec = v
	}
	if v := os.Getenv("DESKERCISE_DAEMON_NUDGE_SPEC"); v != "" {
		c.Daemon.StreakNudgeSpec = v
	}
	envInt("DESKERCISE_DAEMON_LOG_MAX_SIZE_MB", &c.Daemon.LogMaxSizeMB, 1)

	envDuration("DESKERCISE_HTTP_TIMEOUT", &c.HTTP.Timeout)
	envInt("DESKERCISE_HTTP_MAX_RETRIES", &c.HTTP.MaxRetries, 0)

	envInt("DESKERCISE_HISTORY_LIMIT", &c.History.DefaultLimit, 1)
	envInt("DESKERCISE_TEAM_LOG_LIMIT", &c.History.TeamLogLimit, 1)
}

func envDuration(name string, dst *time.Duration) {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envInt(name string, dst *int, min int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			*dst = n
		}
	}
}

// ReloadFromEnv reloads configuration from environment variables.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}

// Reset restores the defaults. Tests use it after Setenv.
func (c *RuntimeConfig) Reset() {
	*c = *DefaultRuntimeConfig()
}
