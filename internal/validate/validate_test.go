package validate

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
)

// =============================================================================
// Setting Tests
// =============================================================================

func TestInterval(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"thirty", "30", 30, false},
		{"sixty_with_suffix", "60m", 60, false},
		{"ninety_padded", " 90 ", 90, false},
		{"forty_five", "45", 0, true},
		{"zero", "0", 0, true},
		{"word", "hourly", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interval(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficulty(t *testing.T) {
	d, err := Difficulty("Silent")
	require.NoError(t, err)
	assert.Equal(t, catalog.Silent, d)

	_, err = Difficulty("extreme")
	assert.ErrorIs(t, err, errors.ErrInvalidDifficulty)
	assert.True(t, errors.IsUserError(err))
}

func TestWebhookType(t *testing.T) {
	wt, err := WebhookType("Discord")
	require.NoError(t, err)
	assert.Equal(t, model.WebhookTypeDiscord, wt)

	_, err = WebhookType("teams")
	assert.Error(t, err)
}

// =============================================================================
// Identity and Team Tests
// =============================================================================

func TestTeamName(t *testing.T) {
	tests := []struct {
		name    string
		team    string
		wantErr bool
	}{
		{"simple", "Platform", false},
		{"unicode", "Équipe 🏋️", false},
		{"max_length", strings.Repeat("a", MaxTeamNameLength), false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too_long", strings.Repeat("a", MaxTeamNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TeamName(tt.team)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPersonName(t *testing.T) {
	assert.NoError(t, PersonName("first_name", "Ada"))
	assert.NoError(t, PersonName("last_name", ""))
	assert.Error(t, PersonName("first_name", strings.Repeat("x", MaxNameLength+1)))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email(""))
	assert.NoError(t, Email("ada@example.com"))
	assert.Error(t, Email("ada"))
	assert.Error(t, Email("@example.com"))
	assert.Error(t, Email("ada@"))
	assert.Error(t, Email("ada lovelace@example.com"))
}

func TestInviteCode(t *testing.T) {
	code, err := InviteCode("  0123456789ABCDEF ")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", code)

	for _, bad := range []string{"", "0123", "0123456789abcdeg", "0123456789abcdef00"} {
		_, err := InviteCode(bad)
		assert.ErrorIs(t, err, errors.ErrInvalidInviteCode, bad)
	}
}

// =============================================================================
// URL Tests
// =============================================================================

func TestURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https_ip", "https://93.184.216.34/webhook", false},
		{"https_with_port", "https://93.184.216.34:8443/hook", false},
		{"localhost_http", "http://localhost/webhook", false},
		{"localhost_127", "http://127.0.0.1/webhook", false},
		{"localhost_ipv6", "http://[::1]/webhook", false},

		{"empty", "", true},
		{"http_non_localhost", "http://93.184.216.34/webhook", true},
		{"ftp_scheme", "ftp://93.184.216.34/file", true},
		{"no_scheme", "example.com/webhook", true},
		{"missing_host", "https:///path", true},
		{"too_long", "https://93.184.216.34/" + strings.Repeat("a", MaxURLLength), true},
		{"internal_10", "https://10.0.0.1/webhook", true},
		{"internal_172", "https://172.16.0.1/webhook", true},
		{"internal_192", "https://192.168.1.1/webhook", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := URL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidURL, "URL: %s", tt.url)
			} else {
				assert.NoError(t, err, "URL: %s", tt.url)
			}
		})
	}
}

func TestIsInternalIP(t *testing.T) {
	tests := []struct {
		ip       string
		internal bool
	}{
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"169.254.0.1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)
			assert.Equal(t, tt.internal, isInternalIP(ip))
		})
	}
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("name", "x"))
	assert.Error(t, NonEmpty("name", ""))
	assert.Error(t, NonEmpty("name", " \t"))
}

// =============================================================================
// Sanitize Tests
// =============================================================================

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Ada", CleanName("  Ada\x00\n"))
	assert.Equal(t, "Core Team", CleanName("Core\x07 Team"))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"truncated", "abcdefgh", 6, "abc..."},
		{"tiny_limit", "abcdef", 2, "ab"},
		{"runes", "🏋️🏋️🏋️🏋️", 3, "🏋️🏋"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.input, tt.maxLen))
		})
	}
}
