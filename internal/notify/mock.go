package notify

import (
	"context"
	"sync"
)

// MockNotifier is a test double for Notifier.
type MockNotifier struct {
	SendFunc func(ctx context.Context, msg Message) (string, error)

	mu   sync.Mutex
	sent []Message
}

func (m *MockNotifier) Send(ctx context.Context, msg Message) (string, error) {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return "SM_mock", nil
}

// Sent returns the messages received so far.
func (m *MockNotifier) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
