// Package notify delivers reminder notifications to the platform surfaces
// Deskercise supports: the terminal and chat webhooks.
package notify

import (
	"time"

	"github.com/deskercise/deskercise/internal/model"
)

// Formatter formats notifications for a specific webhook type.
type Formatter interface {
	Format(n *model.Notification) ([]byte, error)
	ContentType() string
}

// GetFormatter returns the formatter for a webhook type. Unknown types get
// the generic JSON payload.
func GetFormatter(webhookType string) Formatter {
	switch webhookType {
	case model.WebhookTypeDiscord:
		return &DiscordFormatter{}
	case model.WebhookTypeSlack:
		return &SlackFormatter{}
	default:
		return &GenericFormatter{}
	}
}

func colorFor(n *model.Notification) int {
	if n.Color != 0 {
		return n.Color
	}
	return model.DefaultColorForType(n.Type)
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
