package game

import (
	"slices"

	"github.com/lox/klondike/klondike"
)

// Board holds every pile. The last element of each slice is the top card.
// Across all piles each of the 52 cards appears exactly once.
type Board struct {
	Stock       []klondike.Card
	Waste       []klondike.Card
	Foundations [NumFoundations][]klondike.Card
	Tableau     [NumTableaus][]klondike.Card
}

// Deal lays out a deck in the standard pattern: column i gets i+1 cards with
// only the last face up, and the remaining 24 cards form the face-down stock.
// Cards are taken from the end of the deck.
func Deal(deck klondike.Deck) Board {
	var b Board
	n := len(deck)

	for col := range NumTableaus {
		b.Tableau[col] = make([]klondike.Card, 0, col+1+klondike.NumRanks)
		for row := 0; row <= col; row++ {
			n--
			card := deck[n].Down()
			if row == col {
				card = card.Up()
			}
			b.Tableau[col] = append(b.Tableau[col], card)
		}
	}

	b.Stock = make([]klondike.Card, n)
	for i := range n {
		b.Stock[i] = deck[i].Down()
	}

	return b
}

// Clone returns a deep copy of the board
func (b *Board) Clone() Board {
	c := Board{
		Stock: slices.Clone(b.Stock),
		Waste: slices.Clone(b.Waste),
	}
	for i := range b.Foundations {
		c.Foundations[i] = slices.Clone(b.Foundations[i])
	}
	for i := range b.Tableau {
		c.Tableau[i] = slices.Clone(b.Tableau[i])
	}
	return c
}

// pile returns a pointer to the slice backing zone z, or nil if z does not exist
func (b *Board) pile(z Zone) *[]klondike.Card {
	if !z.Valid() {
		return nil
	}
	switch z.Kind {
	case ZoneStock:
		return &b.Stock
	case ZoneWaste:
		return &b.Waste
	case ZoneFoundation:
		return &b.Foundations[z.Index]
	case ZoneTableau:
		return &b.Tableau[z.Index]
	}
	return nil
}

// Cards returns every card on the board, pile by pile
func (b *Board) Cards() []klondike.Card {
	cards := make([]klondike.Card, 0, klondike.DeckSize)
	cards = append(cards, b.Stock...)
	cards = append(cards, b.Waste...)
	for _, f := range b.Foundations {
		cards = append(cards, f...)
	}
	for _, t := range b.Tableau {
		cards = append(cards, t...)
	}
	return cards
}

// Complete reports whether every foundation holds a full suit
func (b *Board) Complete() bool {
	for _, f := range b.Foundations {
		if len(f) != klondike.NumRanks {
			return false
		}
	}
	return true
}

// FoundationFor returns the foundation index for a suit
func FoundationFor(suit klondike.Suit) int {
	return int(suit)
}

// faceUpRun returns how many cards at the top of a column are face up
func faceUpRun(col []klondike.Card) int {
	n := 0
	for i := len(col) - 1; i >= 0 && col[i].FaceUp(); i-- {
		n++
	}
	return n
}

// isBuildSequence reports whether cards, bottom to top, are face up, strictly
// descending by one and alternate colour.
func isBuildSequence(cards []klondike.Card) bool {
	for i, c := range cards {
		if !c.FaceUp() {
			return false
		}
		if i == 0 {
			continue
		}
		prev := cards[i-1]
		if c.Rank()+1 != prev.Rank() || c.Color() == prev.Color() {
			return false
		}
	}
	return true
}

func top(cards []klondike.Card) (klondike.Card, bool) {
	if len(cards) == 0 {
		return 0, false
	}
	return cards[len(cards)-1], true
}

// Equal reports whether two boards hold the same cards, in the same order and
// orientation, in every pile
func (b *Board) Equal(other *Board) bool {
	if !slices.Equal(b.Stock, other.Stock) || !slices.Equal(b.Waste, other.Waste) {
		return false
	}
	for i := range b.Foundations {
		if !slices.Equal(b.Foundations[i], other.Foundations[i]) {
			return false
		}
	}
	for i := range b.Tableau {
		if !slices.Equal(b.Tableau[i], other.Tableau[i]) {
			return false
		}
	}
	return true
}
