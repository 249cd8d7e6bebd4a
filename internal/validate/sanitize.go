package validate

import (
	"strings"
	"unicode"
)

// CleanName trims s and drops control characters.
func CleanName(s string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TruncateString shortens s to maxLen runes, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
