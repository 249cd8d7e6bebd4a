package daemon

import (
	"context"
	"io"
	"sync"

	"github.com/deskercise/deskercise/internal/clock"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/notify"
)

// liveSurface is the daemon's notification surface. It is rebuilt when the
// webhook settings change and counts every delivery.
type liveSurface struct {
	out         io.Writer
	interactive bool
	metrics     *Metrics
	clock       clock.Clock

	mu    sync.RWMutex
	inner notify.Surface
	key   string
}

func newLiveSurface(s *model.Settings, out io.Writer, interactive bool, m *Metrics, clk clock.Clock) *liveSurface {
	ls := &liveSurface{out: out, interactive: interactive, metrics: m, clock: clk}
	ls.refresh(s)
	return ls
}

func surfaceKey(s *model.Settings) string {
	if s == nil {
		return ""
	}
	return s.WebhookType + "|" + s.WebhookURL
}

// refresh rebuilds the surface if the webhook changed and reports whether
// it did.
func (l *liveSurface) refresh(s *model.Settings) bool {
	key := surfaceKey(s)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inner != nil && key == l.key {
		return false
	}
	l.inner = notify.FromSettings(s, l.out, l.interactive)
	l.key = key
	return true
}

func (l *liveSurface) current() notify.Surface {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.inner
}

func (l *liveSurface) Permission() notify.Permission {
	return l.current().Permission()
}

func (l *liveSurface) RequestPermission(ctx context.Context) (notify.Permission, error) {
	return l.current().RequestPermission(ctx)
}

func (l *liveSurface) Show(ctx context.Context, n *model.Notification) error {
	err := l.current().Show(ctx, n)
	if err != nil {
		l.metrics.RecordNotificationFailed(l.clock.Now(), err)
		return err
	}
	l.metrics.RecordNotificationSent(l.clock.Now())
	return nil
}
