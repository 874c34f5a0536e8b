package backend

import (
	"context"
	"sync"

	"github.com/soyeahso/agentbridge/internal/domain"
)

// MockInvoker is a test double for AgentInvoker.
type MockInvoker struct {
	InvokeFunc func(ctx context.Context, req InvocationRequest) (Stream, error)

	mu    sync.Mutex
	calls []InvocationRequest
}

func (m *MockInvoker) Invoke(ctx context.Context, req InvocationRequest) (Stream, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, req)
	}
	return NewFixedStream([]string{"mock response"}, nil), nil
}

// Calls returns the invocation requests received so far.
func (m *MockInvoker) Calls() []InvocationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]InvocationRequest(nil), m.calls...)
}

// FixedStream yields a predetermined chunk sequence, then terminates with
// the given error (nil for clean exhaustion).
type FixedStream struct {
	events  chan ChunkEvent
	err     error
	closeMu sync.Mutex
	closed  bool
}

// NewFixedStream builds a stream of one payload event per string. A
// non-nil err makes Err return it after the events drain.
func NewFixedStream(chunks []string, err error) *FixedStream {
	s := &FixedStream{
		events: make(chan ChunkEvent, len(chunks)),
		err:    err,
	}
	for _, c := range chunks {
		s.events <- ChunkEvent{Bytes: []byte(c), Kind: "chunk"}
	}
	close(s.events)
	return s
}

func (s *FixedStream) Events() <-chan ChunkEvent { return s.events }
func (s *FixedStream) Err() error                { return s.err }

func (s *FixedStream) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *FixedStream) Closed() bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	return s.closed
}

// MockIndexer is a test double for Indexer.
type MockIndexer struct {
	StartFunc func(ctx context.Context, trig domain.IngestionTrigger) (string, error)

	mu    sync.Mutex
	calls []domain.IngestionTrigger
}

func (m *MockIndexer) Start(ctx context.Context, trig domain.IngestionTrigger) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, trig)
	m.mu.Unlock()

	if m.StartFunc != nil {
		return m.StartFunc(ctx, trig)
	}
	return "job-1", nil
}

// Calls returns the triggers received so far.
func (m *MockIndexer) Calls() []domain.IngestionTrigger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.IngestionTrigger(nil), m.calls...)
}
