package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/gameid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func startServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(testLogger(), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ MessageType, data any, requestID string) {
	t.Helper()
	msg := Message{Type: typ, RequestID: requestID}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		msg.Data = raw
	}
	require.NoError(t, conn.WriteJSON(msg))
}

func recv(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func recvState(t *testing.T, conn *websocket.Conn) StateData {
	t.Helper()
	msg := recv(t, conn)
	require.Equal(t, MessageTypeState, msg.Type, "payload: %s", msg.Data)
	var data StateData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func recvError(t *testing.T, conn *websocket.Conn) ErrorData {
	t.Helper()
	msg := recv(t, conn)
	require.Equal(t, MessageTypeError, msg.Type, "payload: %s", msg.Data)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func seeded(seed int64) NewGameData {
	return NewGameData{Seed: &seed}
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var health Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, Health{Status: "ok", Sessions: 0}, health)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)

	conn := dial(t, ts)
	send(t, conn, MessageTypeNewGame, seeded(1), "")
	recvState(t, conn)
	send(t, conn, MessageTypeDraw, nil, "")
	recvState(t, conn)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "klondike_sessions_created_total 1")
	assert.Contains(t, string(body), `klondike_moves_total{result="accepted"} 1`)
	assert.Contains(t, string(body), "klondike_sessions_active 1")
}

func TestNewGame(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeNewGame, seeded(42), "req-1")
	msg := recv(t, conn)
	require.Equal(t, MessageTypeState, msg.Type)
	assert.Equal(t, "req-1", msg.RequestID)

	var state StateData
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.NoError(t, gameid.Validate(state.SessionID))
	assert.Equal(t, int64(42), state.Snapshot.Seed)
	assert.Len(t, state.Snapshot.Stock, 24)
	assert.Equal(t, game.InProgress, state.Snapshot.Outcome)
	assert.False(t, state.Snapshot.CanUndo)
	for col, pile := range state.Snapshot.Tableau {
		assert.Len(t, pile, col+1)
	}
}

func TestSameSeedSameDeal(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)

	a, b := dial(t, ts), dial(t, ts)
	send(t, a, MessageTypeNewGame, seeded(7), "")
	send(t, b, MessageTypeNewGame, seeded(7), "")
	sa, sb := recvState(t, a), recvState(t, b)

	assert.NotEqual(t, sa.SessionID, sb.SessionID)
	assert.Equal(t, sa.Snapshot.Tableau, sb.Snapshot.Tableau)
	assert.Equal(t, sa.Snapshot.Stock, sb.Snapshot.Stock)
}

func TestCommandWithoutSession(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeDraw, nil, "")
	assert.Equal(t, ErrCodeNoSession, recvError(t, conn).Code)
}

func TestDrawAndUndo(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeNewGame, seeded(3), "")
	recvState(t, conn)

	send(t, conn, MessageTypeDraw, nil, "")
	drawn := recvState(t, conn)
	assert.Equal(t, 1, drawn.Snapshot.Moves)
	assert.Len(t, drawn.Snapshot.Waste, 1)
	assert.Len(t, drawn.Snapshot.Stock, 23)
	assert.True(t, drawn.Snapshot.CanUndo)

	send(t, conn, MessageTypeMove, map[string]any{"from": "stock"}, "")
	assert.Len(t, recvState(t, conn).Snapshot.Waste, 2)

	send(t, conn, MessageTypeUndo, nil, "")
	send(t, conn, MessageTypeUndo, nil, "")
	recvState(t, conn)
	undone := recvState(t, conn)
	assert.Empty(t, undone.Snapshot.Waste)
	assert.False(t, undone.Snapshot.CanUndo)

	send(t, conn, MessageTypeUndo, nil, "")
	assert.Equal(t, ErrCodeUndoUnavailable, recvError(t, conn).Code)
}

func TestMoveRejected(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeNewGame, seeded(5), "")
	before := recvState(t, conn)

	send(t, conn, MessageTypeMove, map[string]any{"from": "waste", "to": "f"}, "bad")
	msg := recv(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)
	assert.Equal(t, "bad", msg.RequestID)

	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, ErrCodeMoveRejected, data.Code)
	require.NotNil(t, data.Reason)
	assert.Equal(t, game.EmptySourceSelection, *data.Reason)

	send(t, conn, MessageTypeSnapshot, nil, "")
	after := recvState(t, conn)
	assert.Equal(t, before.Snapshot, after.Snapshot)
}

func TestInvalidMessages(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeNewGame, seeded(1), "")
	recvState(t, conn)

	tests := []struct {
		name string
		typ  MessageType
		data any
		code string
	}{
		{"unknown type", "shuffle", nil, ErrCodeUnknownType},
		{"bad zone", MessageTypeMove, map[string]any{"from": "t9", "to": "f"}, ErrCodeInvalidMessage},
		{"missing from", MessageTypeMove, map[string]any{"to": "t1"}, ErrCodeInvalidMessage},
		{"missing to", MessageTypeMove, map[string]any{"from": "t1"}, ErrCodeInvalidMessage},
		{"negative recycles", MessageTypeNewGame, map[string]any{"maxRecycles": -1}, ErrCodeInvalidMessage},
		{"unknown session", MessageTypeResume, ResumeData{SessionID: "nope"}, ErrCodeSessionNotFound},
	}

	// Subtests share the connection, so they run in order.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.typ, tt.data, "")
			assert.Equal(t, tt.code, recvError(t, conn).Code)
		})
	}

	for _, raw := range []string{"{not json", "{", `{"type": 7}`} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
		assert.Equal(t, ErrCodeInvalidMessage, recvError(t, conn).Code, raw)
	}
}

func TestResume(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)

	first := dial(t, ts)
	send(t, first, MessageTypeNewGame, seeded(11), "")
	created := recvState(t, first)
	send(t, first, MessageTypeDraw, nil, "")
	recvState(t, first)
	require.NoError(t, first.Close())

	second := dial(t, ts)
	send(t, second, MessageTypeResume, ResumeData{SessionID: created.SessionID}, "")
	resumed := recvState(t, second)
	assert.Equal(t, created.SessionID, resumed.SessionID)
	assert.Equal(t, 1, resumed.Snapshot.Moves)
}

func TestSessionLimit(t *testing.T) {
	t.Parallel()
	srv, ts := startServer(t, WithMaxSessions(1))

	a := dial(t, ts)
	send(t, a, MessageTypeNewGame, seeded(1), "")
	recvState(t, a)

	// Replacing your own game does not count against the limit
	send(t, a, MessageTypeNewGame, seeded(2), "")
	recvState(t, a)
	assert.Equal(t, 1, srv.Sessions().Len())

	b := dial(t, ts)
	send(t, b, MessageTypeNewGame, seeded(3), "")
	assert.Equal(t, ErrCodeSessionLimit, recvError(t, b).Code)
}

func TestHint(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeNewGame, seeded(9), "")
	recvState(t, conn)

	send(t, conn, MessageTypeHint, nil, "h")
	msg := recv(t, conn)
	require.Equal(t, MessageTypeHints, msg.Type)

	var hints HintsData
	require.NoError(t, json.Unmarshal(msg.Data, &hints))
	assert.NotEmpty(t, hints.Moves)
	assert.Contains(t, hints.Moves, game.Draw())
	require.NotNil(t, hints.Best)
	assert.Contains(t, hints.Moves, *hints.Best)
}

func TestLimitedRecycles(t *testing.T) {
	t.Parallel()
	_, ts := startServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeNewGame, map[string]any{"seed": 4, "maxRecycles": 0}, "")
	state := recvState(t, conn)
	require.NotNil(t, state.Snapshot.MaxRecycles)
	assert.Equal(t, 0, *state.Snapshot.MaxRecycles)

	for range 24 {
		send(t, conn, MessageTypeDraw, nil, "")
		recvState(t, conn)
	}
	send(t, conn, MessageTypeDraw, nil, "")
	data := recvError(t, conn)
	require.NotNil(t, data.Reason)
	assert.Equal(t, game.StockEmptyNoRecycleAllowed, *data.Reason)
}

func TestServeAndShutdown(t *testing.T) {
	t.Parallel()
	srv := NewServer(testLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	healthURL := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestSessionReaping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := quartz.NewMock(t)
	m := NewSessionManager(clock, time.Minute, 0, NewMetrics(), testLogger())

	idle, err := m.Create(1, game.DefaultRules())
	require.NoError(t, err)
	busy, err := m.Create(2, game.DefaultRules())
	require.NoError(t, err)

	clock.Advance(40 * time.Second).MustWait(ctx)
	_, err = m.Get(busy.ID)
	require.NoError(t, err)
	assert.Zero(t, m.Reap())

	clock.Advance(20 * time.Second).MustWait(ctx)
	assert.Equal(t, 1, m.Reap())
	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(busy.ID)
	assert.NoError(t, err)
}

func TestRunReaper(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := quartz.NewMock(t)
	m := NewSessionManager(clock, 2*time.Minute, 0, NewMetrics(), testLogger())
	require.Equal(t, time.Minute, m.ReapInterval())

	_, err := m.Create(1, game.DefaultRules())
	require.NoError(t, err)
	m.RunReaper(ctx)

	clock.Advance(time.Minute).MustWait(ctx)
	assert.Equal(t, 1, m.Len())

	clock.Advance(time.Minute).MustWait(ctx)
	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestSessionLimitManager(t *testing.T) {
	t.Parallel()
	m := NewSessionManager(quartz.NewMock(t), 0, 2, NewMetrics(), testLogger())

	for seed := range int64(2) {
		_, err := m.Create(seed, game.DefaultRules())
		require.NoError(t, err)
	}
	_, err := m.Create(3, game.DefaultRules())
	assert.ErrorIs(t, err, ErrSessionLimit)
	assert.Zero(t, m.Reap())
	assert.Nil(t, m.RunReaper(context.Background()))
}
