package game

import (
	"errors"
	"fmt"
)

var (
	// ErrMoveRejected matches every *MoveRejectedError via errors.Is.
	ErrMoveRejected = errors.New("move rejected")

	// ErrUndoUnavailable is returned by Undo when the history is empty.
	ErrUndoUnavailable = errors.New("undo unavailable: history is empty")
)

// Reason explains why a move was rejected.
type Reason uint8

const (
	WrongRank Reason = iota
	WrongSuit
	WrongColorSequence
	EmptySourceSelection
	InvalidSuffixRange
	DestinationNotEligible
	StockEmptyNoRecycleAllowed
	InvalidZone
)

var reasonNames = [...]string{
	"wrong_rank",
	"wrong_suit",
	"wrong_color_sequence",
	"empty_source_selection",
	"invalid_suffix_range",
	"destination_not_eligible",
	"stock_empty_no_recycle_allowed",
	"invalid_zone",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Reason) UnmarshalText(text []byte) error {
	for i, name := range reasonNames {
		if name == string(text) {
			*r = Reason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown rejection reason: %q", text)
}

// MoveRejectedError reports an illegal move. The board is unchanged.
type MoveRejectedError struct {
	Move   Move
	Reason Reason
}

func (e *MoveRejectedError) Error() string {
	return fmt.Sprintf("move %q rejected: %s", e.Move, e.Reason)
}

// Is lets errors.Is(err, ErrMoveRejected) match
func (e *MoveRejectedError) Is(target error) bool {
	return target == ErrMoveRejected
}

// ReasonOf extracts the rejection reason from err
func ReasonOf(err error) (Reason, bool) {
	var rejected *MoveRejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason, true
	}
	return 0, false
}

func reject(m Move, r Reason) *MoveRejectedError {
	return &MoveRejectedError{Move: m, Reason: r}
}
