// Package validate provides input validation helpers for the Deskercise CLI.
package validate

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
)

const (
	// MaxURLLength is the maximum length for a webhook URL.
	MaxURLLength = 2048
	// MaxTeamNameLength is the maximum length for a team name.
	MaxTeamNameLength = 100
	// MaxNameLength is the maximum length for a first or last name.
	MaxNameLength = 64
	// InviteCodeLength is the length of a hex invite code.
	InviteCodeLength = 16
)

var inviteCodeRegex = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Interval parses and validates a reminder interval in minutes.
func Interval(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(raw, "m")))
	if err != nil || !model.IsValidInterval(n) {
		return 0, errors.NewUserErrorWithField("interval", raw,
			"Invalid reminder interval",
			"Reminder interval must be 30, 60, or 90 minutes.").Because(errors.ErrInvalidInterval)
	}
	return n, nil
}

// Difficulty parses and validates a difficulty level.
func Difficulty(raw string) (catalog.Difficulty, error) {
	d, err := catalog.ParseDifficulty(raw)
	if err != nil {
		return "", errors.NewUserErrorWithField("difficulty", raw,
			"Invalid difficulty",
			"Difficulty must be one of: easy, intense, silent.").Because(errors.ErrInvalidDifficulty)
	}
	return d, nil
}

// TeamName validates a team name.
func TeamName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewUserError("Team name cannot be empty", "Provide a team name")
	}
	if utf8.RuneCountInString(name) > MaxTeamNameLength {
		return errors.NewUserErrorWithField("team", name,
			"Team name too long",
			"Team names must be 100 characters or fewer")
	}
	return nil
}

// PersonName validates a first or last name. Empty is allowed for the
// last name, so callers check NonEmpty separately.
func PersonName(field, name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField(field, name,
			"Name too long",
			"Names must be 64 characters or fewer")
	}
	return nil
}

// Email performs a light shape check. Empty is allowed.
func Email(email string) error {
	if email == "" {
		return nil
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return errors.NewUserErrorWithField("email", email,
			"Invalid email address",
			"Use a form like name@example.com")
	}
	return nil
}

// InviteCode normalizes and validates a team invite code.
func InviteCode(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !inviteCodeRegex.MatchString(code) {
		return "", errors.NewUserErrorWithField("invite_code", code,
			"Invalid invite code",
			"Invite codes are 16 hexadecimal characters.").Because(errors.ErrInvalidInviteCode)
	}
	return code, nil
}

// WebhookType validates a webhook payload format.
func WebhookType(raw string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch t {
	case model.WebhookTypeSlack, model.WebhookTypeDiscord, model.WebhookTypeGeneric:
		return t, nil
	}
	return "", errors.NewUserErrorWithField("webhook_type", raw,
		"Invalid webhook type",
		"Webhook type must be one of: slack, discord, generic.")
}

// URL validates a URL for use as a webhook endpoint.
func URL(rawURL string) error {
	if rawURL == "" {
		return errors.NewUserError("URL cannot be empty", "Provide a valid URL").Because(errors.ErrInvalidURL)
	}
	if len(rawURL) > MaxURLLength {
		return errors.NewUserError("URL too long", "URLs must be 2048 characters or fewer").Because(errors.ErrInvalidURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return invalidURL(rawURL, "Invalid URL format", "Provide a valid URL starting with https://")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return invalidURL(rawURL, "Invalid URL scheme", "URLs must use https:// (or http:// for localhost)")
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return invalidURL(rawURL, "Invalid URL: missing hostname", "Provide a valid URL like https://example.com/webhook")
	}

	isLocalhost := hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1"
	if parsed.Scheme == "http" && !isLocalhost {
		return invalidURL(rawURL, "HTTP not allowed for external URLs", "Use https://. HTTP is only allowed for localhost.")
	}
	if !isLocalhost {
		return checkInternalIP(hostname)
	}
	return nil
}

func invalidURL(raw, msg, suggestion string) error {
	return errors.NewUserErrorWithField("url", raw, msg, suggestion).Because(errors.ErrInvalidURL)
}

// checkInternalIP rejects hostnames that are, or resolve to, private addresses.
func checkInternalIP(hostname string) error {
	if ip := net.ParseIP(hostname); ip != nil {
		if isInternalIP(ip) {
			return invalidURL(hostname, "Internal IP addresses not allowed", "Webhook URLs must point to external services")
		}
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		// Unresolvable now; the send will fail and degrade later.
		return nil
	}
	for _, ip := range ips {
		if isInternalIP(ip) {
			return invalidURL(hostname, "Hostname resolves to internal IP", "Webhook URLs must point to external services")
		}
	}
	return nil
}

var privateNets = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"fc00::/7",
		"fe80::/10",
		"::1/128",
	} {
		_, n, err := net.ParseCIDR(cidr)
		if err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}()

func isInternalIP(ip net.IP) bool {
	for _, n := range privateNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// NonEmpty validates that a string is not blank.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}
