package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/klondike/internal/bot"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/randutil"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sessionID string
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server) *Connection {
	ctx, cancel := context.WithCancel(server.ctx)

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: server.logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetSession attaches the connection to a session
func (c *Connection) SetSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}

// GetSession returns the attached session ID
func (c *Connection) GetSession() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("", ErrCodeInvalidMessage, "Malformed JSON: "+err.Error(), nil)
			continue
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "session", c.GetSession())

	switch msg.Type {
	case MessageTypeNewGame:
		var data NewGameData
		if !c.decode(msg, &data) {
			return
		}
		c.handleNewGame(msg.RequestID, data)

	case MessageTypeResume:
		var data ResumeData
		if !c.decode(msg, &data) {
			return
		}
		c.handleResume(msg.RequestID, data)

	case MessageTypeMove:
		var data MoveData
		if !c.decode(msg, &data) {
			return
		}
		m, err := data.Move()
		if err != nil {
			c.sendError(msg.RequestID, ErrCodeInvalidMessage, err.Error(), nil)
			return
		}
		c.command(msg.RequestID, func(g *game.Game) (game.Snapshot, error) { return g.Move(m) })

	case MessageTypeDraw:
		c.command(msg.RequestID, func(g *game.Game) (game.Snapshot, error) { return g.Draw() })

	case MessageTypeUndo:
		c.command(msg.RequestID, func(g *game.Game) (game.Snapshot, error) { return g.Undo() })

	case MessageTypeSnapshot:
		c.command(msg.RequestID, func(g *game.Game) (game.Snapshot, error) { return g.Snapshot(), nil })

	case MessageTypeHint:
		c.handleHint(msg.RequestID)

	default:
		c.sendError(msg.RequestID, ErrCodeUnknownType, "Unknown message type: "+msg.Type.String(), nil)
	}
}

// decode unmarshals the message payload, replying with an error on failure.
// An absent payload leaves v at its zero value.
func (c *Connection) decode(msg *Message, v any) bool {
	if len(msg.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.sendError(msg.RequestID, ErrCodeInvalidMessage, "Failed to parse "+msg.Type.String()+" data: "+err.Error(), nil)
		return false
	}
	return true
}

func (c *Connection) handleNewGame(requestID string, data NewGameData) {
	seed := randutil.NewSeed()
	if data.Seed != nil {
		seed = *data.Seed
	}
	rules := c.server.rules
	if data.MaxRecycles != nil {
		if *data.MaxRecycles < 0 {
			c.sendError(requestID, ErrCodeInvalidMessage, "maxRecycles must not be negative", nil)
			return
		}
		rules = game.Limited(*data.MaxRecycles)
	}

	if prev := c.GetSession(); prev != "" {
		c.server.sessions.Remove(prev)
	}

	session, err := c.server.sessions.Create(seed, rules)
	if err != nil {
		if errors.Is(err, ErrSessionLimit) {
			c.sendError(requestID, ErrCodeSessionLimit, err.Error(), nil)
			return
		}
		c.sendError(requestID, ErrCodeInternal, err.Error(), nil)
		return
	}

	c.SetSession(session.ID)
	snap, _ := session.Apply(func(g *game.Game) (game.Snapshot, error) { return g.Snapshot(), nil })
	c.sendState(requestID, session.ID, snap)
}

func (c *Connection) handleResume(requestID string, data ResumeData) {
	session, err := c.server.sessions.Get(data.SessionID)
	if err != nil {
		c.sendError(requestID, ErrCodeSessionNotFound, err.Error(), nil)
		return
	}

	c.SetSession(session.ID)
	c.logger.Info("Session resumed", "session", session.ID)
	snap, _ := session.Apply(func(g *game.Game) (game.Snapshot, error) { return g.Snapshot(), nil })
	c.sendState(requestID, session.ID, snap)
}

// session resolves the attached session, replying with an error if there
// is none.
func (c *Connection) session(requestID string) (*Session, bool) {
	id := c.GetSession()
	if id == "" {
		c.sendError(requestID, ErrCodeNoSession, "Start or resume a game first", nil)
		return nil, false
	}
	session, err := c.server.sessions.Get(id)
	if err != nil {
		c.SetSession("")
		c.sendError(requestID, ErrCodeSessionNotFound, err.Error(), nil)
		return nil, false
	}
	return session, true
}

// command runs a game command against the attached session and replies with
// the resulting state or the rejection.
func (c *Connection) command(requestID string, fn func(g *game.Game) (game.Snapshot, error)) {
	session, ok := c.session(requestID)
	if !ok {
		return
	}

	snap, err := session.Apply(fn)
	var rejected *game.MoveRejectedError
	switch {
	case errors.As(err, &rejected):
		c.server.metrics.Moves.WithLabelValues(rejected.Reason.String()).Inc()
		c.sendError(requestID, ErrCodeMoveRejected, err.Error(), &rejected.Reason)
	case errors.Is(err, game.ErrUndoUnavailable):
		c.sendError(requestID, ErrCodeUndoUnavailable, err.Error(), nil)
	case err != nil:
		c.sendError(requestID, ErrCodeInternal, err.Error(), nil)
	default:
		c.server.metrics.Moves.WithLabelValues("accepted").Inc()
		c.sendState(requestID, session.ID, snap)
	}
}

func (c *Connection) handleHint(requestID string) {
	session, ok := c.session(requestID)
	if !ok {
		return
	}

	var data HintsData
	_, _ = session.Apply(func(g *game.Game) (game.Snapshot, error) {
		data.Moves = g.LegalMoves()
		if m, ok := bot.NewGreedy().Choose(g); ok {
			data.Best = &m
		}
		return g.Snapshot(), nil
	})
	if data.Moves == nil {
		data.Moves = []game.Move{}
	}
	data.SessionID = session.ID
	c.reply(requestID, MessageTypeHints, data)
}

func (c *Connection) sendState(requestID, sessionID string, snap game.Snapshot) {
	c.reply(requestID, MessageTypeState, StateData{SessionID: sessionID, Snapshot: snap})
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string, reason *game.Reason) {
	c.reply(requestID, MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
		Reason:  reason,
	})
}

func (c *Connection) reply(requestID string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}
