// Package timer runs the per-exercise countdown: a three step lead-in
// followed by a one-second countdown over the exercise duration, with
// pause, resume and stop.
package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/clock"
	"github.com/deskercise/deskercise/internal/events"
	"github.com/deskercise/deskercise/internal/logging"
)

// CountdownSteps is the length of the lead-in before an exercise starts.
const CountdownSteps = 3

// TickInterval is the period of the tick source.
const TickInterval = time.Second

// Phase is the timer state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountdown
	PhaseRunning
	PhasePaused
	PhaseComplete
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the timer.
type Snapshot struct {
	Phase     Phase            `json:"-"`
	PhaseName string           `json:"phase"`
	Exercise  catalog.Exercise `json:"exercise"`
	Countdown int              `json:"countdown,omitempty"`
	Remaining int              `json:"remainingSeconds"`
	Total     int              `json:"totalSeconds"`
}

// Progress returns the completed fraction of the exercise in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.Phase == PhaseComplete {
		return 1
	}
	if s.Total <= 0 {
		return 0
	}
	p := 1 - float64(s.Remaining)/float64(s.Total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Ticking reports whether the phase owns a tick source.
func (s Snapshot) Ticking() bool {
	return s.Phase == PhaseCountdown || s.Phase == PhaseRunning
}

// ExerciseTimer is the exercise countdown state machine. Invalid transitions
// are no-ops. All methods are safe for concurrent use.
type ExerciseTimer struct {
	clock clock.Clock
	log   *slog.Logger

	mu        sync.Mutex
	exercise  catalog.Exercise
	phase     Phase
	countdown int
	remaining int
	ticker    clock.Timer
	gen       uint64

	changed   *events.Event[Snapshot]
	completed *events.Event[catalog.Exercise]
}

// New creates an idle timer for ex. A nil clock uses wall time.
func New(clk clock.Clock, ex catalog.Exercise) *ExerciseTimer {
	if clk == nil {
		clk = clock.Real()
	}
	return &ExerciseTimer{
		clock:     clk,
		log:       logging.Component("timer"),
		exercise:  ex,
		remaining: ex.DurationSeconds,
		changed:   events.New[Snapshot](false),
		completed: events.New[catalog.Exercise](false),
	}
}

// OnChange registers fn for every state change.
func (t *ExerciseTimer) OnChange(fn func(Snapshot)) func() {
	return t.changed.Listen(fn)
}

// OnComplete registers fn for finished exercises.
func (t *ExerciseTimer) OnComplete(fn func(catalog.Exercise)) func() {
	return t.completed.Listen(fn)
}

// Snapshot returns the current state.
func (t *ExerciseTimer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// SetExercise switches to ex, cancelling any tick source and returning to
// idle with the new duration.
func (t *ExerciseTimer) SetExercise(ex catalog.Exercise) {
	t.mu.Lock()
	t.cancelLocked()
	t.exercise = ex
	t.phase = PhaseIdle
	t.countdown = 0
	t.remaining = ex.DurationSeconds
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.log.Debug("exercise changed", logging.KeyExercise, ex.ID)
	t.changed.Notify(snap)
}

// Start begins the lead-in. It is valid from idle and from complete.
func (t *ExerciseTimer) Start() {
	t.mu.Lock()
	if t.phase != PhaseIdle && t.phase != PhaseComplete {
		t.mu.Unlock()
		return
	}
	t.phase = PhaseCountdown
	t.countdown = CountdownSteps
	t.remaining = t.exercise.DurationSeconds
	t.scheduleLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.log.Debug("timer started", logging.KeyExercise, snap.Exercise.ID)
	t.changed.Notify(snap)
}

// Tick advances the timer by exactly one step. It does nothing outside the
// countdown and running phases.
func (t *ExerciseTimer) Tick() {
	t.mu.Lock()
	t.step()
}

// Pause freezes a running timer.
func (t *ExerciseTimer) Pause() {
	t.transition(PhaseRunning, PhasePaused)
}

// Resume restarts a paused timer from the preserved remaining time.
func (t *ExerciseTimer) Resume() {
	t.transition(PhasePaused, PhaseRunning)
}

// Toggle starts, pauses or resumes depending on the phase.
func (t *ExerciseTimer) Toggle() {
	switch t.Snapshot().Phase {
	case PhaseIdle, PhaseComplete:
		t.Start()
	case PhaseRunning:
		t.Pause()
	case PhasePaused:
		t.Resume()
	}
}

// Stop returns to idle with the full duration restored.
func (t *ExerciseTimer) Stop() {
	t.mu.Lock()
	if t.phase == PhaseIdle {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	t.phase = PhaseIdle
	t.countdown = 0
	t.remaining = t.exercise.DurationSeconds
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed.Notify(snap)
}

// Close cancels the tick source without a state change.
func (t *ExerciseTimer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *ExerciseTimer) transition(from, to Phase) {
	t.mu.Lock()
	if t.phase != from {
		t.mu.Unlock()
		return
	}
	t.phase = to
	if to == PhaseRunning {
		t.scheduleLocked()
	} else {
		t.cancelLocked()
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.log.Debug("timer "+to.String(), logging.KeyExercise, snap.Exercise.ID)
	t.changed.Notify(snap)
}

func (t *ExerciseTimer) onTick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.ticker = nil
	t.step()
	t.mu.Lock()
	if gen == t.gen && t.ticker == nil && (t.phase == PhaseCountdown || t.phase == PhaseRunning) {
		t.scheduleLocked()
	}
	t.mu.Unlock()
}

// step must be called with t.mu held; it releases it.
func (t *ExerciseTimer) step() {
	done := false
	switch t.phase {
	case PhaseCountdown:
		t.countdown--
		if t.countdown <= 0 {
			t.countdown = 0
			t.phase = PhaseRunning
		}
	case PhaseRunning:
		if t.remaining > 0 {
			t.remaining--
		}
		if t.remaining <= 0 {
			t.remaining = 0
			t.phase = PhaseComplete
			t.cancelLocked()
			done = true
		}
	default:
		t.mu.Unlock()
		return
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed.Notify(snap)
	if done {
		t.log.Info("exercise complete", logging.KeyExercise, snap.Exercise.ID)
		t.completed.Notify(snap.Exercise)
	}
}

func (t *ExerciseTimer) scheduleLocked() {
	t.cancelLocked()
	gen := t.gen
	t.ticker = t.clock.AfterFunc(TickInterval, func() { t.onTick(gen) })
}

func (t *ExerciseTimer) cancelLocked() {
	t.gen++
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

func (t *ExerciseTimer) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:     t.phase,
		PhaseName: t.phase.String(),
		Exercise:  t.exercise,
		Countdown: t.countdown,
		Remaining: t.remaining,
		Total:     t.exercise.DurationSeconds,
	}
}
