package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/klondike/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// NewGameData starts a fresh game. A nil Seed picks a random deal and a nil
// MaxRecycles uses the server's rules.
type NewGameData struct {
	Seed        *int64 `json:"seed,omitempty"`
	MaxRecycles *int   `json:"maxRecycles,omitempty"`
}

// MoveData requests a move. Count defaults to 1 and a move from the stock
// is a draw.
type MoveData struct {
	From  *game.Zone `json:"from"`
	To    *game.Zone `json:"to,omitempty"`
	Count int        `json:"count,omitempty"`
}

// Move converts the request into a game move
func (d MoveData) Move() (game.Move, error) {
	if d.From == nil {
		return game.Move{}, errors.New("move requires from")
	}
	if d.From.Kind == game.ZoneStock {
		return game.Draw(), nil
	}
	if d.To == nil {
		return game.Move{}, errors.New("move requires to")
	}
	count := d.Count
	if count == 0 {
		count = 1
	}
	return game.Move{From: *d.From, To: *d.To, Count: count}, nil
}

type ResumeData struct {
	SessionID string `json:"sessionId"`
}

// Server → Client Messages

type StateData struct {
	SessionID string        `json:"sessionId"`
	Snapshot  game.Snapshot `json:"snapshot"`
}

type HintsData struct {
	SessionID string      `json:"sessionId"`
	Moves     []game.Move `json:"moves"`
	Best      *game.Move  `json:"best,omitempty"`
}

type ErrorData struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Reason  *game.Reason `json:"reason,omitempty"`
}
