package game

import (
	"slices"

	"github.com/lox/klondike/klondike"
)

// DeltaKind distinguishes the three reversible transitions.
type DeltaKind uint8

const (
	DeltaTransfer DeltaKind = iota
	DeltaDraw
	DeltaRecycle
)

func (k DeltaKind) String() string {
	return [...]string{"transfer", "draw", "recycle"}[k]
}

// Delta records one applied move with enough detail to reverse it.
type Delta struct {
	Move  Move
	Kind  DeltaKind
	Count int
	// Flipped is set when removing cards exposed a face-down tableau card
	// that was turned face up as part of the same transition.
	Flipped bool
}

// apply executes a move that has already passed validation
func apply(b *Board, m Move) Delta {
	if m.From.Kind == ZoneStock {
		return applyDraw(b, m)
	}

	src, dst := b.pile(m.From), b.pile(m.To)
	cut := len(*src) - m.Count
	*dst = append(*dst, (*src)[cut:]...)
	*src = (*src)[:cut]

	d := Delta{Move: m, Kind: DeltaTransfer, Count: m.Count}
	if m.From.Kind == ZoneTableau && cut > 0 && !(*src)[cut-1].FaceUp() {
		(*src)[cut-1] = (*src)[cut-1].Up()
		d.Flipped = true
	}
	return d
}

func applyDraw(b *Board, m Move) Delta {
	if n := len(b.Stock); n > 0 {
		card := b.Stock[n-1]
		b.Stock = b.Stock[:n-1]
		b.Waste = append(b.Waste, card.Up())
		return Delta{Move: m, Kind: DeltaDraw, Count: 1}
	}

	n := len(b.Waste)
	b.Stock = turnOver(b.Waste, klondike.Card.Down)
	b.Waste = nil
	return Delta{Move: m, Kind: DeltaRecycle, Count: n}
}

// revert applies the inverse of d, restoring the board it was recorded on
func revert(b *Board, d Delta) {
	switch d.Kind {
	case DeltaDraw:
		n := len(b.Waste)
		card := b.Waste[n-1]
		b.Waste = b.Waste[:n-1]
		b.Stock = append(b.Stock, card.Down())

	case DeltaRecycle:
		b.Waste = turnOver(b.Stock, klondike.Card.Up)
		b.Stock = nil

	case DeltaTransfer:
		src, dst := b.pile(d.Move.From), b.pile(d.Move.To)
		if d.Flipped {
			last := len(*src) - 1
			(*src)[last] = (*src)[last].Down()
		}
		cut := len(*dst) - d.Count
		*src = append(*src, (*dst)[cut:]...)
		*dst = (*dst)[:cut]
	}
}

// turnOver reverses a pile and sets every card's orientation with orient
func turnOver(cards []klondike.Card, orient func(klondike.Card) klondike.Card) []klondike.Card {
	out := slices.Clone(cards)
	slices.Reverse(out)
	for i := range out {
		out[i] = orient(out[i])
	}
	return out
}
