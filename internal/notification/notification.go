// Package notification delivers wellness alert messages to operators.
package notification

import (
	"context"
	"strings"
	"time"
)

// Sink accepts alert notifications. Callers treat delivery as best effort.
type Sink interface {
	Send(ctx context.Context, contact string, reasons []string) error
}

// Message is the payload published for one alerting submission.
type Message struct {
	Contact string    `json:"contact"`
	Reasons []string  `json:"reasons"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sent_at"`
}

// NewMessage builds the payload for contact, keeping the reason order.
func NewMessage(contact string, reasons []string, now time.Time) Message {
	copied := make([]string, len(reasons))
	copy(copied, reasons)
	return Message{
		Contact: contact,
		Reasons: copied,
		Text:    "Alert for " + contact + ": " + strings.Join(reasons, ", "),
		SentAt:  now.UTC(),
	}
}
