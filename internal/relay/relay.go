// Package relay bridges inbound queries to the agent backend and forwards
// the backend's incrementally produced answer to the caller.
//
// A request moves through three states: validating (synchronous, may
// still produce a clean buffered error response), streaming (bytes are
// flowing; all failures become in-band stream content), and terminated.
// The irrevocable point is the successful Open call: after it, the
// outbound stream is committed and must always terminate visibly.
package relay

import (
	"context"
	"errors"
	"io"

	"github.com/soyeahso/agentbridge/internal/backend"
	"github.com/soyeahso/agentbridge/internal/domain"
	"github.com/soyeahso/agentbridge/internal/logging"
)

// ErrNotConfigured indicates missing agent identifiers. This is an
// operator error, not a caller error.
var ErrNotConfigured = errors.New("agent ID or agent alias ID is not configured")

// errorMarker is written into the outbound stream when forwarding fails
// mid-stream. The response status is already committed by then, so the
// marker is the only way to tell the caller the answer is truncated.
const errorMarker = "\n[error] streaming interrupted, response may be incomplete\n"

// Config carries the fixed identifiers for which agent to target.
type Config struct {
	AgentID      string
	AgentAliasID string
}

// Outcome summarizes one terminated forwarding phase.
type Outcome struct {
	Chunks int   // payload events forwarded
	Bytes  int64 // payload bytes written
	Err    error // terminal error, nil for a cleanly drained stream
}

// Relay opens agent invocations and forwards their chunk streams.
type Relay struct {
	cfg     Config
	invoker backend.AgentInvoker
	log     *logging.Logger
}

// New creates a relay. Identifiers are validated per call so a
// misconfigured process fails requests loudly rather than at startup only.
func New(cfg Config, invoker backend.AgentInvoker, log *logging.Logger) *Relay {
	return &Relay{
		cfg:     cfg,
		invoker: invoker,
		log:     log.Sub("relay"),
	}
}

// Open runs the validating state: configuration check, query validation,
// then the backend open call. Every error returned here still maps to a
// clean non-streaming response; no stream bytes have been sent.
//
// The query is never forwarded when validation fails.
func (r *Relay) Open(ctx context.Context, q domain.InboundQuery) (backend.Stream, error) {
	if r.cfg.AgentID == "" || r.cfg.AgentAliasID == "" {
		return nil, ErrNotConfigured
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	stream, err := r.invoker.Invoke(ctx, backend.InvocationRequest{
		AgentID:                 r.cfg.AgentID,
		AgentAliasID:            r.cfg.AgentAliasID,
		SessionID:               q.SessionID,
		InputText:               q.Prompt,
		SessionAttributes:       q.SessionAttributes,
		PromptSessionAttributes: q.PromptSessionAttributes,
		StreamFinalResponse:     true,
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Forward runs the streaming state: it drains the backend stream into w,
// writing each payload chunk immediately in arrival order and flushing if
// w supports it. Non-payload events are logged at debug and skipped.
//
// Forward never fails upward once bytes may have flowed. A backend error
// mid-stream produces the in-band error marker; a write error (caller
// disconnected) or context cancellation abandons the stream without a
// marker. Partial output already written is preserved either way.
func (r *Relay) Forward(ctx context.Context, stream backend.Stream, w io.Writer) Outcome {
	defer stream.Close()

	var out Outcome
	flush, _ := w.(interface{ Flush() })

	for {
		select {
		case <-ctx.Done():
			out.Err = ctx.Err()
			r.log.Debug().Int("chunks", out.Chunks).Msg("caller gone, abandoning backend stream")
			return out
		case ev, ok := <-stream.Events():
			if !ok {
				if err := stream.Err(); err != nil {
					out.Err = err
					r.log.Error().Err(err).Int("chunks", out.Chunks).Msg("backend stream failed mid-relay")
					r.writeMarker(w, flush)
					return out
				}
				r.log.Debug().Int("chunks", out.Chunks).Int64("bytes", out.Bytes).Msg("stream drained")
				return out
			}
			if !ev.Payload() {
				r.log.Debug().Str("kind", ev.Kind).Msg("skipping non-payload event")
				continue
			}
			n, err := w.Write(ev.Bytes)
			out.Bytes += int64(n)
			if err != nil {
				out.Err = err
				r.log.Warn().Err(err).Msg("outbound write failed, abandoning stream")
				return out
			}
			out.Chunks++
			if flush != nil {
				flush.Flush()
			}
		}
	}
}

// Drain collects the full response for buffered-mode deployments. Unlike
// Forward, a mid-stream failure here surfaces as an error because no
// bytes have been committed to the caller yet.
func (r *Relay) Drain(ctx context.Context, stream backend.Stream) (string, error) {
	defer stream.Close()

	var buf []byte
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-stream.Events():
			if !ok {
				if err := stream.Err(); err != nil {
					return "", err
				}
				return string(buf), nil
			}
			if ev.Payload() {
				buf = append(buf, ev.Bytes...)
			}
		}
	}
}

func (r *Relay) writeMarker(w io.Writer, flush interface{ Flush() }) {
	if _, err := io.WriteString(w, errorMarker); err != nil {
		r.log.Warn().Err(err).Msg("failed to write error marker")
		return
	}
	if flush != nil {
		flush.Flush()
	}
}
