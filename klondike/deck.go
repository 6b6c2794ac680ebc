package klondike

import (
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = NumSuits * NumRanks

// Deck is a full 52-card deck. The fixed-size array plus the constructors
// below mean a Deck always holds each card exactly once.
type Deck [DeckSize]Card

// NewDeck returns an unshuffled face-down deck ordered by suit then rank
func NewDeck() Deck {
	var d Deck
	i := 0
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			d[i] = NewCard(rank, suit)
			i++
		}
	}
	return d
}

// NewShuffledDeck returns a deck permuted by the supplied random source.
// The same source state always yields the same order.
func NewShuffledDeck(rng *rand.Rand) Deck {
	if rng == nil {
		panic("rng is required for shuffling")
	}
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// Shuffle permutes the deck in place using Fisher-Yates
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Contains reports whether the deck holds the card identity
func (d *Deck) Contains(c Card) bool {
	for _, card := range d {
		if card.Identity() == c.Identity() {
			return true
		}
	}
	return false
}
