package logging

import (
	"regexp"
	"strings"
)

// URLMaskLength is how much of a webhook URL survives masking. Slack and
// Discord embed their secret in the path, so only the host is kept.
const URLMaskLength = 30

var urlPattern = regexp.MustCompile(`https?://[^\s"']+`)

// MaskURL truncates url after URLMaskLength characters.
func MaskURL(url string) string {
	if len(url) <= URLMaskLength {
		return url
	}
	return url[:URLMaskLength] + "***"
}

// MaskString masks every non-local URL in s.
func MaskString(s string) string {
	return urlPattern.ReplaceAllStringFunc(s, func(url string) string {
		if strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1") {
			return url
		}
		return MaskURL(url)
	})
}
