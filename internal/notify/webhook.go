package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/deskercise/deskercise/internal/config"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/validate"
)

// WebhookSurface posts reminders to a Slack, Discord, or generic webhook.
// Permission is granted once the URL passes validation.
type WebhookSurface struct {
	url       string
	formatter Formatter
	client    *HTTPClient

	mu   sync.Mutex
	perm Permission
}

// NewWebhookSurface returns a surface for url. An empty url is permanently
// denied.
func NewWebhookSurface(url, webhookType string, client *HTTPClient) *WebhookSurface {
	if client == nil {
		client = NewHTTPClient(config.Global.HTTP)
	}
	w := &WebhookSurface{
		url:       url,
		formatter: GetFormatter(webhookType),
		client:    client,
	}
	if url == "" {
		w.perm = PermissionDenied
	}
	return w
}

// Permission returns the current consent state.
func (w *WebhookSurface) Permission() Permission {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.perm
}

// RequestPermission validates the URL.
func (w *WebhookSurface) RequestPermission(ctx context.Context) (Permission, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.perm != PermissionDefault {
		return w.perm, nil
	}
	if err := validate.URL(w.url); err != nil {
		w.perm = PermissionDenied
		return w.perm, err
	}
	w.perm = PermissionGranted
	return w.perm, nil
}

// Show formats and posts n.
func (w *WebhookSurface) Show(ctx context.Context, n *model.Notification) error {
	body, err := w.formatter.Format(n)
	if err != nil {
		return err
	}

	result := w.client.Send(ctx, w.url, w.formatter.ContentType(), body)
	logging.DebugLog("webhook delivery",
		logging.KeyWebhook, logging.MaskURL(w.url),
		logging.KeyStatus, result.StatusCode,
		"attempts", result.Attempts,
	)
	if result.Error != nil {
		return fmt.Errorf("webhook %s: %w", logging.MaskURL(w.url), result.Error)
	}
	return nil
}
