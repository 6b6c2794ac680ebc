// Package server exposes solitaire games over WebSocket. Each client
// message addresses the session attached to its connection, and every reply
// carries a full snapshot so clients never re-derive rules.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/klondike/internal/game"
)

// Server represents the WebSocket server
type Server struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]struct{}
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc

	clock       quartz.Clock
	rules       game.Rules
	idleTimeout time.Duration
	maxSessions int
	sessions    *SessionManager
	metrics     *Metrics
	httpServer  *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for session idle tracking
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithRules sets the rules for games that do not choose their own
func WithRules(rules game.Rules) Option {
	return func(s *Server) { s.rules = rules }
}

// WithIdleTimeout sets how long an untouched session survives
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// WithMaxSessions caps the number of live sessions
func WithMaxSessions(n int) Option {
	return func(s *Server) { s.maxSessions = n }
}

// NewServer creates a new WebSocket server
func NewServer(logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]struct{}),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		clock:       quartz.NewReal(),
		rules:       game.DefaultRules(),
		idleTimeout: 30 * time.Minute,
		metrics:     NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = NewSessionManager(s.clock, s.idleTimeout, s.maxSessions, s.metrics, s.logger)
	return s
}

// Sessions returns the server's session manager
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// ListenAndServe serves on addr until Shutdown is called
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called
func (s *Server) Serve(ln net.Listener) error {
	s.sessions.RunReaper(s.ctx)

	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes the open ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()

	s.metrics.Connections.Inc()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	s.metrics.Connections.Dec()
	s.logger.Info("Client disconnected", "total", total, "session", conn.GetSession())
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s)
	s.register(client)
	client.Start()

	// Sessions outlive their connection so a client can resume
	go func() {
		<-client.ctx.Done()
		s.unregister(client)
	}()
}

// Health is the /health response body
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Health{Status: "ok", Sessions: s.sessions.Len()})
}
