package game

import (
	"fmt"
	"strconv"
	"strings"
)

// MoveKind is the closed set of move shapes the ruleset allows.
type MoveKind uint8

const (
	MoveDraw MoveKind = iota
	MoveWasteToTableau
	MoveWasteToFoundation
	MoveTableauToTableau
	MoveTableauToFoundation
)

func (k MoveKind) String() string {
	return [...]string{"draw", "waste-to-tableau", "waste-to-foundation", "tableau-to-tableau", "tableau-to-foundation"}[k]
}

// Move is a request to transfer Count cards from one zone to another.
// Build moves with Draw, WasteTo and TableauTo.
type Move struct {
	From  Zone `json:"from"`
	To    Zone `json:"to"`
	Count int  `json:"count"`
}

// Draw turns the top stock card onto the waste, or recycles the waste when
// the stock is empty.
func Draw() Move {
	return Move{From: StockZone, To: WasteZone, Count: 1}
}

// WasteTo moves the top waste card to a tableau column or foundation
func WasteTo(to Zone) Move {
	return Move{From: WasteZone, To: to, Count: 1}
}

// TableauTo moves the top count face-up cards of column col
func TableauTo(col int, to Zone, count int) Move {
	return Move{From: TableauZone(col), To: to, Count: count}
}

// Kind classifies the move. ok is false for shapes outside the ruleset,
// such as moves out of a foundation or into the stock.
func (m Move) Kind() (kind MoveKind, ok bool) {
	switch m.From.Kind {
	case ZoneStock:
		if m.To.Kind == ZoneWaste {
			return MoveDraw, true
		}
	case ZoneWaste:
		switch m.To.Kind {
		case ZoneTableau:
			return MoveWasteToTableau, true
		case ZoneFoundation:
			return MoveWasteToFoundation, true
		}
	case ZoneTableau:
		switch m.To.Kind {
		case ZoneTableau:
			return MoveTableauToTableau, true
		case ZoneFoundation:
			return MoveTableauToFoundation, true
		}
	}
	return 0, false
}

// String renders the move in the notation ParseMove accepts
func (m Move) String() string {
	if kind, ok := m.Kind(); ok && kind == MoveDraw {
		return "draw"
	}
	if m.Count > 1 {
		return fmt.Sprintf("%s %s %d", m.From, m.To, m.Count)
	}
	return fmt.Sprintf("%s %s", m.From, m.To)
}

// ParseMove parses "draw", "<from> <to>" or "<from> <to> <count>",
// e.g. "w t3", "t2 f", "t1 t4 3". Count defaults to 1.
func ParseMove(s string) (Move, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return Move{}, fmt.Errorf("empty move")
	}

	if len(fields) == 1 {
		switch fields[0] {
		case "d", "draw", "s", "stock":
			return Draw(), nil
		}
		return Move{}, fmt.Errorf("invalid move: %q", s)
	}
	if len(fields) > 3 {
		return Move{}, fmt.Errorf("invalid move: %q", s)
	}

	from, err := ParseZone(fields[0])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseZone(fields[1])
	if err != nil {
		return Move{}, err
	}

	count := 1
	if len(fields) == 3 {
		count, err = strconv.Atoi(fields[2])
		if err != nil || count < 1 {
			return Move{}, fmt.Errorf("invalid card count: %q", fields[2])
		}
	}

	return Move{From: from, To: to, Count: count}, nil
}
