package gateway

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soyeahso/agentbridge/internal/domain"
	"github.com/soyeahso/agentbridge/internal/relay"
)

const wsQueryTimeout = 10 * time.Second

// handleWebSocket runs a single query over a WebSocket connection: the
// client sends one query frame, the server streams completion chunks
// back as text messages and then closes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxBodyBytes)

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("new websocket connection")

	conn.SetReadDeadline(time.Now().Add(wsQueryTimeout))
	var q domain.InboundQuery
	if err := conn.ReadJSON(&q); err != nil {
		sendErrorAndClose(conn, "invalid_query", "expected a JSON query frame")
		return
	}
	conn.SetReadDeadline(time.Time{})

	stream, err := s.relay.Open(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, relay.ErrNotConfigured):
			sendErrorAndClose(conn, "not_configured", "Agent ID or Agent Alias ID is not configured.")
		case errors.Is(err, domain.ErrMissingPrompt):
			sendErrorAndClose(conn, "missing_prompt", "Error: Missing required field: prompt.")
		default:
			s.log.Error().Err(err).Msg("failed to invoke agent")
			sendErrorAndClose(conn, "backend_error", "Error: failed to invoke agent.")
		}
		return
	}

	out := s.relay.Forward(r.Context(), stream, &wsWriter{conn: conn})
	s.log.Debug().
		Int("chunks", out.Chunks).
		Int64("bytes", out.Bytes).
		Msg("websocket stream complete")

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// wsWriter adapts a WebSocket connection to io.Writer so the relay can
// forward completion chunks as individual text messages.
type wsWriter struct {
	conn *websocket.Conn
}

func (w *wsWriter) Write(b []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// sendErrorAndClose sends a JSON error frame and closes the connection.
func sendErrorAndClose(conn *websocket.Conn, code, message string) {
	conn.WriteJSON(map[string]string{
		"error":   code,
		"message": message,
	})
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, message))
}
