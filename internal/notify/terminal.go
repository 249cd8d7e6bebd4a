package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/deskercise/deskercise/internal/model"
)

// TerminalSurface rings the bell and prints the reminder. It is only
// granted when attached to an interactive terminal.
type TerminalSurface struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	perm        Permission
}

// NewTerminalSurface returns a surface writing to w.
func NewTerminalSurface(w io.Writer, interactive bool) *TerminalSurface {
	return &TerminalSurface{w: w, interactive: interactive}
}

func (t *TerminalSurface) Permission() Permission {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.perm
}

func (t *TerminalSurface) RequestPermission(ctx context.Context) (Permission, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.perm == PermissionDefault {
		if t.interactive {
			t.perm = PermissionGranted
		} else {
			t.perm = PermissionDenied
		}
	}
	return t.perm, nil
}

func (t *TerminalSurface) Show(ctx context.Context, n *model.Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "\a%s  %s\n", n.Title, n.Message)
	return err
}
