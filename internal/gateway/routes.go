package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/soyeahso/agentbridge/internal/config"
	"github.com/soyeahso/agentbridge/internal/domain"
	"github.com/soyeahso/agentbridge/internal/relay"
)

// maxBodyBytes caps inbound request bodies.
const maxBodyBytes = 1 << 20 // 1MB

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v1/query", s.handleQuery)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("POST /v1/action", s.handleAction)
	mux.HandleFunc("POST /v1/ingest", s.handleIngest)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"message": "not found",
		"path":    r.URL.Path,
	})
}

// handleQuery is the relay's HTTP surface: a clean buffered error before
// any stream bytes, or a committed 200 whose body terminates visibly.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q, parseErr := parseQuery(r)

	// Open checks configuration before anything else, so a misconfigured
	// process reports 500 regardless of what the caller sent.
	stream, err := s.relay.Open(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, relay.ErrNotConfigured):
			s.log.Error().Msg("agent ID or agent alias ID is not configured")
			writeError(w, http.StatusInternalServerError, "Agent ID or Agent Alias ID is not configured.")
		case parseErr != nil:
			s.log.Warn().Err(parseErr).Msg("invalid request body")
			writeError(w, http.StatusBadRequest, "Error: Missing request body.")
		case errors.Is(err, domain.ErrMissingPrompt):
			s.log.Warn().Msg("missing required field: prompt")
			writeError(w, http.StatusBadRequest, "Error: Missing required field: prompt.")
		default:
			s.log.Error().Err(err).Msg("failed to invoke agent")
			writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
		}
		return
	}

	if s.relayMode == config.ModeBuffered {
		text, err := s.relay.Drain(r.Context(), stream)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to drain agent response")
			writeError(w, http.StatusInternalServerError, "Error: failed to read agent response.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"completion": text})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	s.relay.Forward(r.Context(), stream, w)
}

// parseQuery reads and decodes the inbound query body.
func parseQuery(r *http.Request) (domain.InboundQuery, error) {
	var q domain.InboundQuery

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return q, err
	}
	if len(body) == 0 {
		return q, errors.New("missing request body")
	}
	if err := json.Unmarshal(body, &q); err != nil {
		return q, err
	}
	return q, nil
}

// handleAction is the backend-originated action callback surface.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if s.executor == nil {
		writeError(w, http.StatusServiceUnavailable, "action executor is not configured")
		return
	}

	var inv domain.ActionInvocation
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(&inv); err != nil {
		s.log.Warn().Err(err).Msg("invalid action invocation")
		writeError(w, http.StatusBadRequest, "invalid action invocation body")
		return
	}

	res := s.executor.Execute(r.Context(), inv)
	writeJSON(w, res.StatusCode, res.Envelope)
}

// handleIngest lets operators kick a reindex without a storage event.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.trigger == nil {
		writeError(w, http.StatusServiceUnavailable, "ingestion is not configured")
		return
	}

	jobID, err := s.trigger.Fire(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to start ingestion job")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
