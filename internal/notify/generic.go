package notify

import (
	"encoding/json"

	"github.com/deskercise/deskercise/internal/model"
)

// GenericFormatter emits the notification as flat JSON for custom receivers.
type GenericFormatter struct{}

type genericPayload struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Tag       string            `json:"tag,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
	Color     int               `json:"color,omitempty"`
}

// Format converts a notification to the generic payload.
func (f *GenericFormatter) Format(n *model.Notification) ([]byte, error) {
	return json.Marshal(genericPayload{
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Tag:       n.Tag,
		Fields:    n.Fields,
		Timestamp: isoTime(n.Timestamp),
		Color:     colorFor(n),
	})
}

// ContentType returns the content type for generic webhooks.
func (f *GenericFormatter) ContentType() string {
	return "application/json"
}
