package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskercise/deskercise/internal/config"
	"github.com/deskercise/deskercise/internal/model"
)

func testClient(retries int) *HTTPClient {
	return NewHTTPClient(config.HTTPConfig{
		Timeout:     2 * time.Second,
		MaxRetries:  retries,
		RetryDelays: []time.Duration{0, 0, 0},
	})
}

func reminder() *model.Notification {
	n := model.NewReminderNotification()
	n.Timestamp = time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC)
	return n.WithField("Interval", "30 min")
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestGetFormatter(t *testing.T) {
	tests := []struct {
		webhookType string
		expected    string
	}{
		{model.WebhookTypeDiscord, "*notify.DiscordFormatter"},
		{model.WebhookTypeSlack, "*notify.SlackFormatter"},
		{model.WebhookTypeGeneric, "*notify.GenericFormatter"},
		{"unknown", "*notify.GenericFormatter"},
		{"", "*notify.GenericFormatter"},
	}

	for _, tt := range tests {
		t.Run(tt.webhookType, func(t *testing.T) {
			formatter := GetFormatter(tt.webhookType)
			assert.Equal(t, tt.expected, fmt.Sprintf("%T", formatter))
			assert.Equal(t, "application/json", formatter.ContentType())
		})
	}
}

func TestDiscordFormatter(t *testing.T) {
	payload, err := (&DiscordFormatter{}).Format(reminder())
	require.NoError(t, err)

	var decoded discordPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded.Embeds, 1)
	embed := decoded.Embeds[0]
	assert.Equal(t, model.ReminderTitle, embed.Title)
	assert.Equal(t, model.ReminderBody, embed.Description)
	assert.Equal(t, model.ColorWarning, embed.Color)
	assert.Equal(t, "2025-06-01T15:04:00Z", embed.Timestamp)
	assert.Equal(t, "Deskercise", embed.Footer.Text)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Interval", embed.Fields[0].Name)
}

func TestSlackFormatter(t *testing.T) {
	n := reminder()
	n.Message = "stretch <now> & breathe"
	payload, err := (&SlackFormatter{}).Format(n.WithColor(model.ColorSuccess))
	require.NoError(t, err)

	var decoded slackPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, model.ReminderTitle, decoded.Text)
	require.Len(t, decoded.Blocks, 4)
	assert.Equal(t, model.ReminderTitle, decoded.Blocks[0].Text.Text)
	assert.Equal(t, "stretch &lt;now&gt; &amp; breathe", decoded.Blocks[1].Text.Text)
	assert.Equal(t, "Deskercise | Jun 1, 3:04 PM", decoded.Blocks[3].Text.Text)
	require.Len(t, decoded.Attachments, 1)
	assert.Equal(t, "#57F287", decoded.Attachments[0].Color)
}

func TestGenericFormatter(t *testing.T) {
	payload, err := (&GenericFormatter{}).Format(reminder())
	require.NoError(t, err)

	var decoded genericPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "reminder", decoded.Type)
	assert.Equal(t, model.ReminderTag, decoded.Tag)
	assert.Equal(t, "30 min", decoded.Fields["Interval"])
}

func TestSlackEscape(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; c", slackEscape("a <b> & c"))
	assert.Equal(t, "#3498DB", colorToHex(model.ColorPrimary))
}

// =============================================================================
// HTTPClient Tests
// =============================================================================

func TestHTTPClientSend(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = io.ReadAll(r.Body)
			assert.Equal(t, "Deskercise/1.0", r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		result := testClient(3).Send(context.Background(), srv.URL, "application/json", []byte(`{"ok":true}`))
		require.NoError(t, result.Error)
		assert.Equal(t, 1, result.Attempts)
		assert.Equal(t, `{"ok":true}`, string(got))
	})

	t.Run("retries_server_errors", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		result := testClient(3).Send(context.Background(), srv.URL, "application/json", nil)
		require.NoError(t, result.Error)
		assert.Equal(t, 3, result.Attempts)
	})

	t.Run("client_error_not_retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		result := testClient(3).Send(context.Background(), srv.URL, "application/json", nil)
		assert.Error(t, result.Error)
		assert.Equal(t, http.StatusNotFound, result.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("gives_up_after_max", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		result := testClient(2).Send(context.Background(), srv.URL, "application/json", nil)
		assert.ErrorContains(t, result.Error, "429")
		assert.Equal(t, 2, result.Attempts)
	})
}

// =============================================================================
// Surface Tests
// =============================================================================

func TestWebhookSurface(t *testing.T) {
	var received int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&received, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewWebhookSurface(srv.URL, model.WebhookTypeDiscord, testClient(1))
	assert.Equal(t, PermissionDefault, s.Permission())

	perm, err := s.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, perm)

	require.NoError(t, s.Show(context.Background(), reminder()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&received))
}

func TestWebhookSurfaceDenied(t *testing.T) {
	empty := NewWebhookSurface("", "", testClient(1))
	assert.Equal(t, PermissionDenied, empty.Permission())

	internal := NewWebhookSurface("https://10.0.0.1/hook", "", testClient(1))
	perm, err := internal.RequestPermission(context.Background())
	assert.Error(t, err)
	assert.Equal(t, PermissionDenied, perm)

	perm, err = internal.RequestPermission(context.Background())
	assert.NoError(t, err, "asking again returns the settled state")
	assert.Equal(t, PermissionDenied, perm)
}

func TestTerminalSurface(t *testing.T) {
	var buf bytes.Buffer
	s := NewTerminalSurface(&buf, true)
	perm, err := s.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, perm)

	require.NoError(t, s.Show(context.Background(), reminder()))
	assert.Equal(t, "\a"+model.ReminderTitle+"  "+model.ReminderBody+"\n", buf.String())

	piped := NewTerminalSurface(&buf, false)
	perm, _ = piped.RequestPermission(context.Background())
	assert.Equal(t, PermissionDenied, perm)
}

type fakeSurface struct {
	perm  Permission
	next  Permission
	shown int
	err   error
}

func (f *fakeSurface) Permission() Permission { return f.perm }

func (f *fakeSurface) RequestPermission(context.Context) (Permission, error) {
	f.perm = f.next
	return f.perm, nil
}

func (f *fakeSurface) Show(context.Context, *model.Notification) error {
	f.shown++
	return f.err
}

func TestMulti(t *testing.T) {
	a := &fakeSurface{perm: PermissionDefault, next: PermissionGranted}
	b := &fakeSurface{perm: PermissionDenied}
	c := &fakeSurface{perm: PermissionGranted, err: fmt.Errorf("boom")}

	m := NewMulti(a, nil, b)
	assert.Equal(t, PermissionDefault, m.Permission())

	perm, err := m.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, perm)

	require.NoError(t, m.Show(context.Background(), reminder()))
	assert.Equal(t, 1, a.shown)
	assert.Equal(t, 0, b.shown)

	assert.Error(t, NewMulti(c).Show(context.Background(), reminder()))
	assert.Equal(t, PermissionDenied, NewMulti(b).Permission())
	assert.Equal(t, "granted", PermissionGranted.String())
}

func TestFromSettings(t *testing.T) {
	t.Run("terminal_only", func(t *testing.T) {
		m := FromSettings(model.DefaultSettings(), &bytes.Buffer{}, true)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("webhook_and_terminal", func(t *testing.T) {
		s := model.DefaultSettings()
		s.WebhookURL = "https://hooks.slack.com/services/T000/B000/XXX"
		s.WebhookType = model.WebhookTypeSlack
		m := FromSettings(s, &bytes.Buffer{}, false)
		assert.Equal(t, 2, m.Len())
		assert.Equal(t, PermissionDefault, m.Permission())
	})

	t.Run("nothing", func(t *testing.T) {
		m := FromSettings(nil, nil, false)
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, PermissionDenied, m.Permission())
	})
}
