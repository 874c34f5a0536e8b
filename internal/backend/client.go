// Package backend defines the narrow boundary to the managed agent
// backend: opening streamed agent invocations and starting ingestion jobs.
// Production implementations live in bedrock.go; tests use the in-package
// doubles from mock.go.
package backend

import (
	"context"

	"github.com/soyeahso/agentbridge/internal/domain"
)

// ChunkEvent is one event from an open agent invocation stream. Payload
// events carry Bytes; trace/metadata events carry only a Kind for logging.
type ChunkEvent struct {
	Bytes []byte
	Kind  string // "chunk" for payload events, otherwise the event type
}

// Payload reports whether the event carries response bytes to relay.
func (e ChunkEvent) Payload() bool {
	return e.Bytes != nil
}

// Stream is an open handle yielding chunk events in arrival order.
// Events closes when the backend stream is exhausted or fails; Err reports
// the failure afterwards, nil on clean exhaustion.
type Stream interface {
	Events() <-chan ChunkEvent
	Err() error
	Close() error
}

// InvocationRequest is derived 1:1 from a validated InboundQuery plus the
// configured agent identifiers. Immutable once built.
type InvocationRequest struct {
	AgentID                 string
	AgentAliasID            string
	SessionID               string
	InputText               string
	SessionAttributes       map[string]string
	PromptSessionAttributes map[string]string
	StreamFinalResponse     bool
}

// AgentInvoker opens an invocation against the conversational agent.
type AgentInvoker interface {
	Invoke(ctx context.Context, req InvocationRequest) (Stream, error)
}

// Indexer starts reindexing jobs in the backend's indexing subsystem.
// Start is idempotent per distinct idempotency token.
type Indexer interface {
	Start(ctx context.Context, trig domain.IngestionTrigger) (jobID string, err error)
}
