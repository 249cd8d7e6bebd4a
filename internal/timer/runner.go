package timer

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/deskercise/deskercise/internal/catalog"
)

// Outcome is how an interactive run ended.
type Outcome int

const (
	OutcomeQuit Outcome = iota
	OutcomeCompleted
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	if o == OutcomeCompleted {
		return "completed"
	}
	return "quit"
}

// Runner drives an ExerciseTimer from keyboard input and redraws the
// display on every change.
type Runner struct {
	Timer   *ExerciseTimer
	Display *Display
	In      io.Reader

	renderMu sync.Mutex
}

// NewRunner creates a runner reading keys from stdin.
func NewRunner(t *ExerciseTimer, d *Display) *Runner {
	if d == nil {
		d = NewDisplay()
	}
	return &Runner{Timer: t, Display: d, In: os.Stdin}
}

// Run starts the timer and blocks until the exercise completes or the user
// quits. SPACE pauses and resumes, S stops, Q or Ctrl+C quits.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if f, ok := r.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		oldState, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return OutcomeQuit, err
		}
		defer term.Restore(int(f.Fd()), oldState)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{}, 1)
	unsubDone := r.Timer.OnComplete(func(catalog.Exercise) {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	defer unsubDone()
	unsubRender := r.Timer.OnChange(r.render)
	defer unsubRender()
	defer r.Timer.Close()

	keys := make(chan byte)
	go r.listenKeyboard(ctx, keys)

	r.Timer.Start()

	for {
		select {
		case <-ctx.Done():
			r.Timer.Stop()
			return OutcomeQuit, nil
		case <-sigCh:
			r.Timer.Stop()
			return OutcomeQuit, nil
		case <-done:
			return OutcomeCompleted, nil
		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch k {
			case ' ':
				r.Timer.Toggle()
			case 's', 'S':
				r.Timer.Stop()
			case 'q', 'Q', 3:
				r.Timer.Stop()
				return OutcomeQuit, nil
			}
		}
	}
}

func (r *Runner) render(snap Snapshot) {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()

	r.Display.ClearScreen()
	io.WriteString(r.Display.Writer, r.Display.Render(snap))
}

func (r *Runner) listenKeyboard(ctx context.Context, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := r.In.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		select {
		case keys <- buf[0]:
		case <-ctx.Done():
			return
		}
	}
}
