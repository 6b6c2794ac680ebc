package game

import "github.com/lox/klondike/klondike"

// candidates lists every structurally possible move; legality is left to
// the validator.
func candidates(b *Board) []Move {
	moves := make([]Move, 0, 64)
	moves = append(moves, Draw())

	if len(b.Waste) > 0 {
		for j := range NumTableaus {
			moves = append(moves, WasteTo(TableauZone(j)))
		}
		for f := range NumFoundations {
			moves = append(moves, WasteTo(FoundationZone(f)))
		}
	}

	for col := range NumTableaus {
		run := faceUpRun(b.Tableau[col])
		if run == 0 {
			continue
		}
		for f := range NumFoundations {
			moves = append(moves, TableauTo(col, FoundationZone(f), 1))
		}
		for n := 1; n <= run; n++ {
			for j := range NumTableaus {
				if j != col {
					moves = append(moves, TableauTo(col, TableauZone(j), n))
				}
			}
		}
	}

	return moves
}

// LegalMoves returns every move that would be accepted on b
func LegalMoves(b *Board, rules Rules, recycles int) []Move {
	var legal []Move
	for _, m := range candidates(b) {
		if validate(b, rules, recycles, m) == nil {
			legal = append(legal, m)
		}
	}
	return legal
}

// Evaluate derives the outcome of a board
func Evaluate(b *Board, rules Rules, recycles int) Outcome {
	if b.Complete() {
		return Won
	}
	for _, m := range candidates(b) {
		if validate(b, rules, recycles, m) == nil {
			return InProgress
		}
	}
	return Stuck
}

// resolveFoundation replaces an AnyFoundation destination with the
// foundation matching the suit of the card that would move
func resolveFoundation(b *Board, m Move) Move {
	if m.To.Kind != ZoneFoundation || m.To.Index != AnyFoundation {
		return m
	}

	var card klondike.Card
	var ok bool
	switch {
	case m.From.Kind == ZoneWaste:
		card, ok = top(b.Waste)
	case m.From.Kind == ZoneTableau && m.From.Valid():
		card, ok = top(b.Tableau[m.From.Index])
	}

	m.To.Index = 0
	if ok {
		m.To.Index = FoundationFor(card.Suit())
	}
	return m
}
