// Package client talks to a klondike server over WebSocket. Calls are
// request/response: each request carries a requestId and waits for the
// reply with the same id.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/server"
)

// ErrClosed is returned for calls on a closed client
var ErrClosed = errors.New("client closed")

// ServerError is an error reply from the server
type ServerError struct {
	server.ErrorData
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports rejected moves and empty undo history as their game errors
func (e *ServerError) Is(target error) bool {
	switch e.Code {
	case server.ErrCodeMoveRejected:
		return target == game.ErrMoveRejected
	case server.ErrCodeUndoUnavailable:
		return target == game.ErrUndoUnavailable
	}
	return false
}

// Client represents a WebSocket client for a klondike server
type Client struct {
	serverURL string
	conn      *websocket.Conn
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	writeMu sync.Mutex

	mu        sync.Mutex
	pending   map[string]chan *server.Message
	nextID    uint64
	sessionID string
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[string]chan *server.Message),
	}
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn

	go c.readPump()

	c.logger.Info("Connected to server")
	return nil
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			c.writeMu.Lock()
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			c.writeMu.Unlock()
			err = c.conn.Close()
		}
		c.logger.Info("Disconnected from server")
	})
	return err
}

// SessionID returns the session the client is attached to
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// readPump routes replies to their waiting requests
func (c *Client) readPump() {
	defer c.cancel()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

		c.mu.Lock()
		ch, ok := c.pending[msg.RequestID]
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()

		if !ok {
			c.logger.Debug("Dropping unsolicited message", "type", msg.Type)
			continue
		}
		ch <- &msg
	}
}

// request sends one message and waits for its reply. Error replies come
// back as *ServerError.
func (c *Client) request(ctx context.Context, messageType server.MessageType, data any) (*server.Message, error) {
	msg, err := server.NewMessage(messageType, data)
	if err != nil {
		return nil, err
	}

	reply := make(chan *server.Message, 1)
	c.mu.Lock()
	c.nextID++
	msg.RequestID = strconv.FormatUint(c.nextID, 10)
	c.pending[msg.RequestID] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	err = c.conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("sending %s: %w", messageType, err)
	}

	select {
	case resp := <-reply:
		if resp.Type == server.MessageTypeError {
			var data server.ErrorData
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return nil, fmt.Errorf("decoding error reply: %w", err)
			}
			return nil, &ServerError{ErrorData: data}
		}
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, ErrClosed
	}
}

// state sends a command that replies with the game state
func (c *Client) state(ctx context.Context, messageType server.MessageType, data any) (game.Snapshot, error) {
	resp, err := c.request(ctx, messageType, data)
	if err != nil {
		return game.Snapshot{}, err
	}
	if resp.Type != server.MessageTypeState {
		return game.Snapshot{}, fmt.Errorf("unexpected reply %s to %s", resp.Type, messageType)
	}

	var state server.StateData
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		return game.Snapshot{}, fmt.Errorf("decoding state: %w", err)
	}

	c.mu.Lock()
	c.sessionID = state.SessionID
	c.mu.Unlock()
	return state.Snapshot, nil
}

// NewGame deals a new game. A nil seed lets the server choose and a nil
// maxRecycles uses the server's rules.
func (c *Client) NewGame(ctx context.Context, seed *int64, maxRecycles *int) (game.Snapshot, error) {
	return c.state(ctx, server.MessageTypeNewGame, server.NewGameData{Seed: seed, MaxRecycles: maxRecycles})
}

// Resume attaches to an existing session
func (c *Client) Resume(ctx context.Context, sessionID string) (game.Snapshot, error) {
	return c.state(ctx, server.MessageTypeResume, server.ResumeData{SessionID: sessionID})
}

// Move plays a move
func (c *Client) Move(ctx context.Context, m game.Move) (game.Snapshot, error) {
	return c.state(ctx, server.MessageTypeMove, server.MoveData{From: &m.From, To: &m.To, Count: m.Count})
}

// Draw turns a stock card or recycles the waste
func (c *Client) Draw(ctx context.Context) (game.Snapshot, error) {
	return c.state(ctx, server.MessageTypeDraw, struct{}{})
}

// Undo takes back the last move
func (c *Client) Undo(ctx context.Context) (game.Snapshot, error) {
	return c.state(ctx, server.MessageTypeUndo, struct{}{})
}

// Snapshot fetches the current state
func (c *Client) Snapshot(ctx context.Context) (game.Snapshot, error) {
	return c.state(ctx, server.MessageTypeSnapshot, struct{}{})
}

// Hint fetches the legal moves and the server's suggestion
func (c *Client) Hint(ctx context.Context) (server.HintsData, error) {
	resp, err := c.request(ctx, server.MessageTypeHint, struct{}{})
	if err != nil {
		return server.HintsData{}, err
	}

	var hints server.HintsData
	if err := json.Unmarshal(resp.Data, &hints); err != nil {
		return server.HintsData{}, fmt.Errorf("decoding hints: %w", err)
	}
	return hints, nil
}

// Autoplay follows the server's suggestions until the game ends, the server
// has none, or maxMoves moves have been played.
func (c *Client) Autoplay(ctx context.Context, maxMoves int) (game.Snapshot, int, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return snap, 0, err
	}

	played := 0
	for played < maxMoves && !snap.Outcome.Terminal() {
		hints, err := c.Hint(ctx)
		if err != nil {
			return snap, played, err
		}
		if hints.Best == nil {
			break
		}
		next, err := c.Move(ctx, *hints.Best)
		if err != nil {
			return snap, played, err
		}
		snap = next
		played++
	}
	return snap, played, nil
}
