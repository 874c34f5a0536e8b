// Package gateway is the caller-facing HTTP surface: the streaming query
// endpoint, the action callback endpoint, and operational routes.
package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soyeahso/agentbridge/internal/action"
	"github.com/soyeahso/agentbridge/internal/config"
	"github.com/soyeahso/agentbridge/internal/ingestion"
	"github.com/soyeahso/agentbridge/internal/logging"
	"github.com/soyeahso/agentbridge/internal/relay"
)

// Server is the agentbridge HTTP + WebSocket server.
type Server struct {
	cfg       config.GatewayConfig
	relay     *relay.Relay
	relayMode string
	log       *logging.Logger

	// Action executor (optional — nil if the notifier is not configured)
	executor *action.Executor

	// Ingestion trigger (optional — nil if identifiers are not configured)
	trigger *ingestion.Trigger

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// ServerOption configures the gateway server.
type ServerOption func(*Server)

// WithExecutor enables the action callback endpoint.
func WithExecutor(ex *action.Executor) ServerOption {
	return func(s *Server) { s.executor = ex }
}

// WithTrigger enables the manual ingestion endpoint.
func WithTrigger(tr *ingestion.Trigger) ServerOption {
	return func(s *Server) { s.trigger = tr }
}

// WithRelayMode selects streamed or buffered query responses.
func WithRelayMode(mode string) ServerOption {
	return func(s *Server) { s.relayMode = mode }
}

// New creates a gateway server around a relay.
func New(cfg config.GatewayConfig, rl *relay.Relay, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg:       cfg,
		relay:     rl,
		relayMode: config.ModeStreamed,
		log:       log.Sub("gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(cfg.AllowedOrigins),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// checkWebSocketOrigin validates WebSocket Origin headers. Requests
// without an Origin header (non-browser clients) are always allowed.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Handler builds the full route + middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.AllowedOrigins)
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP and WebSocket connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// No WriteTimeout: streamed responses are open-ended and their
		// duration is bounded by the backend call, not the server.
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(s.cfg.TLS.CertPath, s.cfg.TLS.KeyPath)
		if err != nil {
			ln.Close()
			return fmt.Errorf("loading TLS certificate: %w", err)
		}
		ln = tls.NewListener(ln, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
		s.log.Info().Msg("TLS enabled")
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Bind).
		Str("relayMode", s.relayMode).
		Bool("actions", s.executor != nil).
		Bool("ingestion", s.trigger != nil).
		Msg("gateway server ready")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
