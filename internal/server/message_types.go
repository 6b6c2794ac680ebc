package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeNewGame  MessageType = "new_game"
	MessageTypeMove     MessageType = "move"
	MessageTypeDraw     MessageType = "draw"
	MessageTypeUndo     MessageType = "undo"
	MessageTypeSnapshot MessageType = "snapshot"
	MessageTypeHint     MessageType = "hint"
	MessageTypeResume   MessageType = "resume"

	// Server to client messages
	MessageTypeState MessageType = "state"
	MessageTypeHints MessageType = "hints"
	MessageTypeError MessageType = "error"
)

// Error codes carried in ErrorData
const (
	ErrCodeInvalidMessage  = "invalid_message"
	ErrCodeUnknownType     = "unknown_message_type"
	ErrCodeNoSession       = "no_session"
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeSessionLimit    = "session_limit"
	ErrCodeMoveRejected    = "move_rejected"
	ErrCodeUndoUnavailable = "undo_unavailable"
	ErrCodeInternal        = "internal"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
