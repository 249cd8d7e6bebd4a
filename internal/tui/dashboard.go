package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/clock"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/reminder"
	"github.com/deskercise/deskercise/internal/session"
	"github.com/deskercise/deskercise/internal/stats"
	"github.com/deskercise/deskercise/internal/timer"
)

// tickMsg is sent when the refresh timer ticks.
type tickMsg time.Time

// refreshMsg is sent when data needs to be reloaded.
type refreshMsg struct{}

// reminderMsg carries a scheduler state change.
type reminderMsg reminder.State

// timerMsg carries an exercise timer state change.
type timerMsg timer.Snapshot

// timerDoneMsg is sent when the exercise timer finishes.
type timerDoneMsg catalog.Exercise

const eventBuffer = 256

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	session   *session.Controller
	scheduler *reminder.Scheduler
	timer     *timer.ExerciseTimer
	clock     clock.Clock

	// Data
	card      *catalog.Exercise
	reminder  reminder.State
	timerSnap timer.Snapshot
	stats     stats.Stats

	// Scheduler and timer listeners feed events; done stops them on quit.
	events chan tea.Msg
	done   chan struct{}
	unsubs []func()

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	refreshInterval time.Duration
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Session         *session.Controller
	Scheduler       *reminder.Scheduler
	Clock           clock.Clock
	RefreshInterval time.Duration
}

// NewDashboardModel creates a new dashboard model and subscribes it to the
// scheduler and a fresh exercise timer. Close releases the subscriptions.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}

	m := &DashboardModel{
		session:         config.Session,
		scheduler:       config.Scheduler,
		clock:           config.Clock,
		events:          make(chan tea.Msg, eventBuffer),
		done:            make(chan struct{}),
		refreshInterval: config.RefreshInterval,
	}

	m.timer = timer.New(config.Clock, catalog.Exercise{})
	m.unsubs = append(m.unsubs,
		m.timer.OnChange(func(s timer.Snapshot) { m.emit(timerMsg(s)) }),
		m.timer.OnComplete(func(ex catalog.Exercise) { m.emit(timerDoneMsg(ex)) }),
	)
	if m.scheduler != nil {
		m.unsubs = append(m.unsubs, m.scheduler.OnChange(func(s reminder.State) { m.emit(reminderMsg(s)) }))
	}

	m.loadData()
	return m
}

func (m *DashboardModel) emit(msg tea.Msg) {
	select {
	case m.events <- msg:
	case <-m.done:
	}
}

// Close stops the timer and detaches the listeners.
func (m *DashboardModel) Close() {
	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.timer.Close()
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.refreshCmd(),
		m.waitForEvent(),
	)
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && m.clock.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil

	case reminderMsg:
		m.reminder = reminder.State(msg)
		return m, m.waitForEvent()

	case timerMsg:
		m.timerSnap = timer.Snapshot(msg)
		return m, m.waitForEvent()

	case timerDoneMsg:
		m.completeTimer(catalog.Exercise(msg))
		return m, m.waitForEvent()
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return m, tea.Quit

	case "d":
		ex, err := m.session.Draw()
		if err != nil {
			m.fail(err)
			break
		}
		m.setCard(&ex)
		m.setMessage(fmt.Sprintf("Drew %s %s", ex.Emoji, ex.Name), 3*time.Second)

	case "r":
		res, err := m.session.Repeat()
		if err != nil {
			m.fail(err)
			break
		}
		m.setMessage("✓ Logged "+res.Event.ExerciseName, 3*time.Second)

	case "s":
		m.logAndDraw(m.session.Skip, "↷ Skipped ")

	case "n":
		m.logAndDraw(m.session.DrawNew, "✓ Logged ")

	case " ", "space":
		if m.card == nil {
			m.setMessage("Draw a card first", 2*time.Second)
			break
		}
		m.timer.Toggle()

	case "esc":
		m.timer.Stop()

	case "z":
		if m.scheduler != nil {
			m.scheduler.Snooze()
			m.setMessage("Snoozed for 5 minutes", 2*time.Second)
		}

	case "x":
		if m.scheduler != nil {
			m.scheduler.Dismiss()
		}
	}

	m.syncSources()
	return m, nil
}

func (m *DashboardModel) logAndDraw(action func() (session.ActionResult, error), verb string) {
	res, err := action()
	if res.Event != nil {
		m.setMessage(verb+res.Event.ExerciseName, 3*time.Second)
		m.refreshStats()
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.setCard(res.Card)
}

func (m *DashboardModel) completeTimer(ex catalog.Exercise) {
	if _, err := m.session.Complete(ex); err != nil {
		m.fail(err)
		return
	}
	m.setMessage("✓ Logged "+ex.Name, 3*time.Second)
	m.syncSources()
}

func (m *DashboardModel) fail(err error) {
	switch {
	case errors.Is(err, errs.ErrNoCurrentCard):
		m.setMessage("No card drawn. Press d to draw one", 3*time.Second)
	case errors.Is(err, errs.ErrEmptyPool):
		m.setMessage("No exercises match the selected difficulty", 3*time.Second)
	default:
		m.err = err
	}
}

func (m *DashboardModel) setCard(ex *catalog.Exercise) {
	m.card = ex
	if ex != nil {
		m.timer.SetExercise(*ex)
	}
}

// syncSources reads the scheduler and timer directly so the view does not
// lag behind queued events.
func (m *DashboardModel) syncSources() {
	m.timerSnap = m.timer.Snapshot()
	if m.scheduler != nil {
		m.reminder = m.scheduler.State()
	}
	m.refreshStats()
}

func (m *DashboardModel) refreshStats() {
	s, err := m.session.Stats()
	if err != nil {
		m.err = err
		return
	}
	m.stats = s
}

// loadData reloads the card and stats from the store.
func (m *DashboardModel) loadData() {
	ex, err := m.session.Current()
	switch {
	case err == nil:
		if m.card == nil || m.card.ID != ex.ID {
			m.setCard(&ex)
		}
	case errors.Is(err, errs.ErrNoCurrentCard):
		m.card = nil
	default:
		m.err = err
		return
	}

	m.err = nil
	m.syncSources()
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	remaining := time.Duration(0)
	if m.scheduler != nil {
		remaining = m.scheduler.Remaining()
	}
	sections = append(sections,
		ReminderComponent{State: m.reminder, Remaining: remaining, Width: m.width}.View(),
		CardComponent{Card: m.card, Width: m.width}.View(),
	)
	if m.card != nil {
		sections = append(sections, TimerComponent{Snapshot: m.timerSnap, Width: m.width}.View())
	}
	sections = append(sections,
		StatsComponent{Stats: m.stats, Width: m.width}.View(),
		HelpBar(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("Deskercise")
	now := m.clock.Now().Format("Mon Jan 2, 15:04:05")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(now)) + "\n"
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.clock.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd returns a command that sends a refresh message.
func (m *DashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{}
	}
}

// waitForEvent delivers the next scheduler or timer event.
func (m *DashboardModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.done:
			return nil
		}
	}
}

// Run starts the dashboard TUI.
func Run(config DashboardConfig) error {
	model := NewDashboardModel(config)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
