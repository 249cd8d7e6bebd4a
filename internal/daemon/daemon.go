package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/deskercise/deskercise/internal/clock"
	"github.com/deskercise/deskercise/internal/config"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/storage"
)

// StateFileName is the daemon state file name.
const StateFileName = "daemon.json"

// Options configures a Daemon.
type Options struct {
	// Dir holds the PID, state and log files. Default: StateDir().
	Dir string
	// Open opens the store per operation. Default: PathOpener(storage.DefaultPath()).
	Open  Opener
	Clock clock.Clock
	// Out receives terminal reminders. Nil disables the terminal surface.
	Out         io.Writer
	Interactive bool
	// Logger overrides the rotating file log.
	Logger *slog.Logger
	Debug  bool
}

// Daemon runs the reminder scheduler in a long-lived process.
type Daemon struct {
	dir         string
	open        Opener
	clock       clock.Clock
	out         io.Writer
	interactive bool
	debug       bool

	pidFile   *PIDFile
	metrics   *Metrics
	health    *HealthChecker
	log       *slog.Logger
	logCloser io.Closer

	surface   *liveSurface
	scheduler *reminder.Scheduler
	cron      *cron.Cron
	startedAt time.Time
}

// Status represents the daemon status.
type Status struct {
	Running   bool             `json:"running"`
	PID       int              `json:"pid,omitempty"`
	StartedAt time.Time        `json:"started_at,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Reminder  *reminder.State  `json:"reminder,omitempty"`
	Metrics   *MetricsSnapshot `json:"metrics,omitempty"`
	Health    *HealthStatus    `json:"health,omitempty"`
	LogPath   string           `json:"log_path"`
}

// State is the file a running daemon keeps current for `daemon status`.
type State struct {
	PID       int             `json:"pid"`
	StartedAt time.Time       `json:"started_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Reminder  reminder.State  `json:"reminder"`
	Metrics   MetricsSnapshot `json:"metrics"`
	Health    HealthStatus    `json:"health"`
}

// New creates a daemon manager.
func New(opts Options) *Daemon {
	if opts.Dir == "" {
		opts.Dir = StateDir()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Open == nil {
		path := storage.DefaultPath()
		if p := config.Global.DatabasePath; p != "" && p != storage.MemoryPath {
			path = p
		}
		opts.Open = PathOpener(path)
	}
	return &Daemon{
		dir:         opts.Dir,
		open:        opts.Open,
		clock:       opts.Clock,
		out:         opts.Out,
		interactive: opts.Interactive,
		debug:       opts.Debug,
		pidFile:     NewPIDFile(opts.Dir),
		metrics:     NewMetrics(),
		health:      NewHealthChecker(),
		log:         opts.Logger,
	}
}

// Dir returns the state directory.
func (d *Daemon) Dir() string {
	return d.dir
}

// IsRunning returns true if a daemon process is alive.
func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// Metrics returns the live counters of an in-process daemon.
func (d *Daemon) Metrics() *Metrics {
	return d.metrics
}

// Scheduler returns the reminder scheduler once Start has run.
func (d *Daemon) Scheduler() *reminder.Scheduler {
	return d.scheduler
}

// Run starts the daemon in the foreground and blocks until a shutdown
// signal arrives or ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	defer d.Shutdown()

	sigHandler := NewSignalHandler()
	defer sigHandler.Cleanup()

	if sig := sigHandler.Wait(ctx); sig != nil {
		d.log.Info("received signal", "signal", sig.String())
	}
	return nil
}

// Start claims the PID file, resumes the reminder cycle and starts the
// periodic jobs.
func (d *Daemon) Start(ctx context.Context) error {
	if d.IsRunning() {
		return ErrAlreadyRunning
	}
	if err := d.pidFile.Write(); err != nil {
		return err
	}

	if d.log == nil {
		logger, closer, err := OpenLog(d.dir, d.debug)
		if err != nil {
			d.pidFile.Remove()
			return fmt.Errorf("failed to open daemon log: %w", err)
		}
		d.log, d.logCloser = logger, closer
	}

	settings, err := d.loadSettings()
	if err != nil {
		d.log.Error("cannot access database", logging.KeyError, err)
		d.release()
		return fmt.Errorf("cannot access database: %w", err)
	}

	d.startedAt = d.clock.Now()
	d.surface = newLiveSurface(settings, d.out, d.interactive, d.metrics, d.clock)
	d.scheduler = reminder.New(reminder.Options{
		Clock:         d.clock,
		Store:         reminderStore{open: d.open},
		Surface:       d.surface,
		Logger:        d.log.With(logging.KeyComponent, "reminder"),
		NotifyTimeout: config.Global.HTTP.Timeout,
	})
	d.scheduler.OnReminder(func(st reminder.State) {
		d.metrics.RecordReminderFired(d.clock.Now())
		if err := d.writeState(); err != nil {
			d.log.Warn("failed to write state", logging.KeyError, err)
		}
	})

	d.health.AddCheck("database", func() error {
		_, err := d.loadSettings()
		return err
	})
	d.health.AddCheck("scheduler", func() error {
		st := d.scheduler.State()
		if st.Enabled && !st.Active {
			return fmt.Errorf("reminders enabled but no cycle is pending")
		}
		return nil
	})

	d.scheduler.Start(ctx, settings.Interval, settings.NotificationsEnabled)

	if err := d.startJobs(ctx); err != nil {
		d.scheduler.Close()
		d.release()
		return err
	}
	if err := d.writeState(); err != nil {
		d.log.Warn("failed to write state", logging.KeyError, err)
	}

	d.log.Info("daemon started",
		"pid", os.Getpid(),
		logging.KeyInterval, settings.Interval,
		logging.KeyStatus, settings.NotificationsEnabled,
	)
	return nil
}

// Shutdown stops the jobs and the pending timer. The persisted cycle is
// kept so the next start resumes it.
func (d *Daemon) Shutdown() {
	d.stopJobs()
	if d.scheduler != nil {
		d.scheduler.Close()
	}
	if d.log != nil {
		d.log.Info("daemon stopped")
	}
	d.release()
}

func (d *Daemon) release() {
	d.pidFile.Remove()
	d.removeState()
	if d.logCloser != nil {
		_ = d.logCloser.Close()
		d.logCloser = nil
	}
}

func (d *Daemon) loadSettings() (*model.Settings, error) {
	return withDB(d.open, func(db *storage.DB) (*model.Settings, error) {
		return storage.NewSettingsRepo(db).Get()
	})
}

// Unreachable reports whether reminders would fire with nowhere to go: no
// terminal output and no webhook configured.
func (d *Daemon) Unreachable() (bool, error) {
	if d.out != nil {
		return false, nil
	}
	settings, err := d.loadSettings()
	if err != nil {
		return false, err
	}
	return settings.WebhookURL == "", nil
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() *Status {
	status := &Status{LogPath: LogPath(d.dir)}

	pid := d.pidFile.RunningPID()
	if pid == 0 {
		return status
	}
	status.Running = true
	status.PID = pid

	if state, err := d.readState(); err == nil {
		status.StartedAt = state.StartedAt
		status.Uptime = formatUptime(d.clock.Now().Sub(state.StartedAt))
		status.Reminder = &state.Reminder
		status.Metrics = &state.Metrics
		status.Health = &state.Health
	}
	return status
}

// StartBackground starts the daemon as a detached child process.
func (d *Daemon) StartBackground() (int, error) {
	if d.IsRunning() {
		return d.pidFile.RunningPID(), ErrAlreadyRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	args := []string{"daemon", "start", "--foreground"}
	if d.debug {
		args = append(args, "--debug")
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon: %w", err)
	}
	_ = cmd.Process.Release()

	time.Sleep(config.Global.Daemon.StartupWait)

	if !d.pidFile.IsRunning() {
		if errMsg := d.lastLogError(); errMsg != "" {
			return 0, fmt.Errorf("daemon failed to start: %s", errMsg)
		}
		return 0, fmt.Errorf("daemon failed to start (check logs: %s)", LogPath(d.dir))
	}
	return d.pidFile.RunningPID(), nil
}

// lastLogError returns the most recent error line from the tail of the log.
func (d *Daemon) lastLogError() string {
	lines, err := TailLog(d.dir, 10)
	if err != nil {
		return ""
	}
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.Contains(line, "level=ERROR") || strings.Contains(line, "cannot access database") {
			return line
		}
	}
	return ""
}

// Stop signals the running daemon and waits for it to exit.
func (d *Daemon) Stop() error {
	pid := d.pidFile.RunningPID()
	if pid == 0 {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
	}

	deadline := time.Now().Add(config.Global.Daemon.KillTimeout)
	for IsProcessRunning(pid) {
		if time.Now().After(deadline) {
			_ = process.Kill()
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	d.pidFile.Remove()
	d.removeState()
	return nil
}

func (d *Daemon) statePath() string {
	return filepath.Join(d.dir, StateFileName)
}

func (d *Daemon) writeState() error {
	if d.scheduler == nil {
		return nil
	}
	now := d.clock.Now()
	state := &State{
		PID:       os.Getpid(),
		StartedAt: d.startedAt,
		UpdatedAt: now,
		Reminder:  d.scheduler.State(),
		Metrics:   d.metrics.Snapshot(),
		Health:    d.health.Check(now.Sub(d.startedAt)),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return err
	}
	tmp := d.statePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, d.statePath())
}

func (d *Daemon) readState() (*State, error) {
	data, err := os.ReadFile(d.statePath())
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *Daemon) removeState() {
	if err := os.Remove(d.statePath()); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove daemon state file", logging.KeyError, err, "path", d.statePath())
	}
}

// formatUptime formats a duration as uptime.
func formatUptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	if hours > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}
