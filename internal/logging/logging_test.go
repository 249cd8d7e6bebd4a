package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.JSON)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddSource)
}

func TestInit(t *testing.T) {
	t.Run("debug_level_sets_flag", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
		assert.True(t, Debug)
	})

	t.Run("nil_output_uses_stderr", func(t *testing.T) {
		Init(Config{Level: slog.LevelInfo})
		assert.NotNil(t, Logger())
		assert.False(t, Debug)
	})
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	tests := []struct {
		name string
		log  func(string, ...any)
	}{
		{"info", Info},
		{"debug", DebugLog},
		{"warn", Warn},
		{"error", Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log(tt.name+" message", KeyExercise, "21")
			assert.Contains(t, buf.String(), tt.name+" message")
			assert.Contains(t, buf.String(), `"exercise":"21"`)
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelInfo, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Component("reminder").Info("fired", KeyInterval, 30)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reminder", entry[KeyComponent])
	assert.Equal(t, float64(30), entry[KeyInterval])
}

func TestNewDoesNotReplaceGlobal(t *testing.T) {
	before := Logger()
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})
	l.Info("local only")

	assert.Same(t, before, Logger())
	assert.Contains(t, buf.String(), "local only")
}

func TestRotatingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	w := NewRotatingWriter(RotateConfig{Path: path, MaxSizeMB: 1, MaxBackups: 2})
	defer w.Close()

	l := New(Config{Level: slog.LevelInfo, Output: w})
	l.Info("reminder scheduled", KeyNextFire, "09:30")

	assert.FileExists(t, path)
}

// =============================================================================
// Mask Tests
// =============================================================================

func TestMaskURL(t *testing.T) {
	short := "https://example.com/a"
	assert.Equal(t, short, MaskURL(short))

	long := "https://hooks.slack.com/services/T000/B000/XXXXXXXX"
	masked := MaskURL(long)
	assert.Equal(t, long[:URLMaskLength]+"***", masked)
	assert.NotContains(t, masked, "XXXXXXXX")
}

func TestMaskString(t *testing.T) {
	t.Run("no_urls", func(t *testing.T) {
		assert.Equal(t, "plain message", MaskString("plain message"))
	})

	t.Run("with_url", func(t *testing.T) {
		result := MaskString("posting to https://discord.com/api/webhooks/123456/secret-token")
		assert.Contains(t, result, "posting to")
		assert.Contains(t, result, "***")
		assert.NotContains(t, result, "secret-token")
	})

	t.Run("with_localhost", func(t *testing.T) {
		msg := "posting to http://localhost:8080/hook/with/a/long/path"
		assert.Equal(t, msg, MaskString(msg))
	})
}
