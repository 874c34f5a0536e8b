// Package notify is the boundary to the external notification provider.
package notify

import "context"

// Message is one outbound notification. The sender identity is part of
// the provider configuration, never caller-supplied.
type Message struct {
	To   string
	Body string
}

// Notifier sends notification messages. Send returns the provider's
// message identifier on success and raises on failure (invalid recipient,
// provider outage, auth failure). Calls are not idempotent across this
// boundary, so callers must not retry blindly.
type Notifier interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
}
