package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/gameid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
)

// Session owns one game. A Game is not safe for concurrent use, so every
// access goes through Apply.
type Session struct {
	ID string

	mu       sync.Mutex
	game     *game.Game
	finished bool
	metrics  *Metrics
}

// Apply runs fn with exclusive access to the session's game and records the
// result in metrics.
func (s *Session) Apply(fn func(g *game.Game) (game.Snapshot, error)) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := fn(s.game)
	if err != nil {
		return snap, err
	}

	terminal := snap.Outcome.Terminal()
	if terminal && !s.finished && s.metrics != nil {
		s.metrics.GamesFinished.WithLabelValues(snap.Outcome.String()).Inc()
	}
	s.finished = terminal
	return snap, nil
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// SessionManager holds the live sessions and reaps idle ones
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	clock       quartz.Clock
	ids         *gameid.Generator
	idleTimeout time.Duration
	maxSessions int
	metrics     *Metrics
	logger      *log.Logger
}

// NewSessionManager creates a session manager. maxSessions <= 0 means no
// limit and idleTimeout <= 0 disables reaping.
func NewSessionManager(clock quartz.Clock, idleTimeout time.Duration, maxSessions int, metrics *Metrics, logger *log.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*sessionEntry),
		clock:       clock,
		ids:         gameid.NewGenerator(nil, clock),
		idleTimeout: idleTimeout,
		maxSessions: maxSessions,
		metrics:     metrics,
		logger:      logger.WithPrefix("sessions"),
	}
}

// Create deals a new game into a new session
func (m *SessionManager) Create(seed int64, rules game.Rules) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("%w (%d)", ErrSessionLimit, m.maxSessions)
	}

	id := m.ids.Generate()
	s := &Session{
		ID:      id,
		game:    game.New(seed, game.WithRules(rules), game.WithLogger(m.logger.With("session", id))),
		metrics: m.metrics,
	}
	m.sessions[id] = &sessionEntry{session: s, lastSeen: m.clock.Now()}

	m.metrics.SessionsCreated.Inc()
	m.metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.logger.Info("Session created", "session", id, "seed", seed)
	return s, nil
}

// Get looks up a session and marks it as recently used
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.lastSeen = m.clock.Now()
	return e.session, nil
}

// Remove drops a session
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	m.metrics.SessionsActive.Set(float64(len(m.sessions)))
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reap removes sessions idle for at least the idle timeout and returns how
// many were removed.
func (m *SessionManager) Reap() int {
	if m.idleTimeout <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	reaped := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) >= m.idleTimeout {
			delete(m.sessions, id)
			reaped++
			m.logger.Debug("Session reaped", "session", id, "idle", now.Sub(e.lastSeen))
		}
	}

	if reaped > 0 {
		m.metrics.SessionsReaped.Add(float64(reaped))
		m.metrics.SessionsActive.Set(float64(len(m.sessions)))
		m.logger.Info("Reaped idle sessions", "count", reaped, "remaining", len(m.sessions))
	}
	return reaped
}

// ReapInterval is how often RunReaper checks for idle sessions
func (m *SessionManager) ReapInterval() time.Duration {
	return max(m.idleTimeout/2, time.Second)
}

// RunReaper reaps idle sessions on a ticker until ctx is done. It returns
// nil when reaping is disabled.
func (m *SessionManager) RunReaper(ctx context.Context) quartz.Waiter {
	if m.idleTimeout <= 0 {
		return nil
	}
	return m.clock.TickerFunc(ctx, m.ReapInterval(), func() error {
		m.Reap()
		return nil
	}, "reaper")
}
