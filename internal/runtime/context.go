// Package runtime provides the per-invocation application context: the
// open store, repositories, output formatter and session controller.
package runtime

import (
	"io"

	"github.com/deskercise/deskercise/internal/clock"
	"github.com/deskercise/deskercise/internal/config"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/notify"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/session"
	"github.com/deskercise/deskercise/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter
	Clock     clock.Clock

	// Repositories
	SettingsRepo *storage.SettingsRepo
	ReminderRepo *storage.ReminderStateRepo
	ConfigRepo   *storage.ConfigRepo
	UserRepo     *storage.UserRepo
	TeamRepo     *storage.TeamRepo
	EventRepo    *storage.EventRepo

	Session *session.Controller

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
	Clock     clock.Clock
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	if p := config.Global.DatabasePath; p != "" {
		if p == storage.MemoryPath {
			opts.InMemory = true
		} else {
			opts.DBPath = p
		}
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, errs.NewSystemErrorWithOp("open", "failed to open database", err)
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	c := &Context{
		DB:           db,
		Formatter:    formatter,
		Clock:        opts.Clock,
		SettingsRepo: storage.NewSettingsRepo(db),
		ReminderRepo: storage.NewReminderStateRepo(db),
		ConfigRepo:   storage.NewConfigRepo(db),
		UserRepo:     storage.NewUserRepo(db),
		TeamRepo:     storage.NewTeamRepo(db),
		EventRepo:    storage.NewEventRepo(db),
		Session:      session.New(session.Options{DB: db, Clock: opts.Clock}),
		Debug:        opts.Debug,
	}
	c.Session.AttachReminder(persistedReminder{c: c})
	return c, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...any) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}

// NewScheduler builds a reminder scheduler over the persisted state. When w
// is non-nil, reminders are also shown there and on any configured webhook.
func (c *Context) NewScheduler(w io.Writer, interactive bool) (*reminder.Scheduler, error) {
	opts := reminder.Options{Clock: c.Clock, Store: c.ReminderRepo}
	if w != nil {
		settings, err := c.SettingsRepo.Get()
		if err != nil {
			return nil, errs.NewSystemErrorWithOp("settings", "failed to load settings", err)
		}
		opts.Surface = notify.FromSettings(settings, w, interactive)
	}
	return reminder.New(opts), nil
}

// CurrentUser returns the signed-in user, or nil in anonymous mode.
func (c *Context) CurrentUser() (*model.User, error) {
	cfg, err := c.ConfigRepo.Get()
	if err != nil {
		return nil, err
	}
	if !cfg.SignedIn() {
		return nil, nil
	}
	user, err := c.UserRepo.Get(cfg.CurrentUserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RequireUser returns the signed-in user or ErrNotSignedIn.
func (c *Context) RequireUser() (*model.User, error) {
	user, err := c.CurrentUser()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.ErrNotSignedIn
	}
	return user, nil
}
