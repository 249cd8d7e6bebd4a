package notify

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/deskercise/deskercise/internal/model"
)

// Permission is the user's consent state for a surface.
type Permission int

const (
	// PermissionDefault means consent has not been asked for yet.
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Surface is a place a reminder can be shown outside the app itself.
type Surface interface {
	Permission() Permission
	// RequestPermission asks for consent. Implementations resolve to
	// Granted or Denied and never block on user input for long.
	RequestPermission(ctx context.Context) (Permission, error)
	// Show delivers n. It is only called while Permission is Granted.
	Show(ctx context.Context, n *model.Notification) error
}

// Multi fans a notification out to several surfaces.
type Multi struct {
	mu       sync.Mutex
	surfaces []Surface
}

// NewMulti combines surfaces. Nil entries are dropped.
func NewMulti(surfaces ...Surface) *Multi {
	m := &Multi{}
	for _, s := range surfaces {
		if s != nil {
			m.surfaces = append(m.surfaces, s)
		}
	}
	return m
}

// Permission is Granted if any member is, Default if any member still
// needs asking, and Denied otherwise.
func (m *Multi) Permission() Permission {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := PermissionDenied
	for _, s := range m.surfaces {
		switch s.Permission() {
		case PermissionGranted:
			return PermissionGranted
		case PermissionDefault:
			result = PermissionDefault
		}
	}
	return result
}

// RequestPermission asks every member still in the default state.
func (m *Multi) RequestPermission(ctx context.Context) (Permission, error) {
	m.mu.Lock()
	surfaces := append([]Surface(nil), m.surfaces...)
	m.mu.Unlock()

	var errs []error
	for _, s := range surfaces {
		if s.Permission() != PermissionDefault {
			continue
		}
		if _, err := s.RequestPermission(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return m.Permission(), errors.Join(errs...)
}

// Show delivers n to every granted member.
func (m *Multi) Show(ctx context.Context, n *model.Notification) error {
	m.mu.Lock()
	surfaces := append([]Surface(nil), m.surfaces...)
	m.mu.Unlock()

	var errs []error
	for _, s := range surfaces {
		if s.Permission() != PermissionGranted {
			continue
		}
		if err := s.Show(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromSettings builds the surface set for s: the configured webhook, if
// any, plus the terminal surface on w.
func FromSettings(s *model.Settings, w io.Writer, interactive bool) *Multi {
	var surfaces []Surface
	if s != nil && s.WebhookURL != "" {
		surfaces = append(surfaces, NewWebhookSurface(s.WebhookURL, s.WebhookType, nil))
	}
	if w != nil {
		surfaces = append(surfaces, NewTerminalSurface(w, interactive))
	}
	return NewMulti(surfaces...)
}

// Len returns the number of member surfaces.
func (m *Multi) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.surfaces)
}
