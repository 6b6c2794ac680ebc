package klondike

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeckUnique(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	seen := make(map[Card]bool)
	for _, c := range d {
		assert.True(t, c.Valid(), "invalid card %v", c)
		assert.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)
}

func TestShuffledDeckIsPermutation(t *testing.T) {
	t.Parallel()

	d := NewShuffledDeck(rand.New(rand.NewPCG(1, 2)))
	var bits uint64
	for _, c := range d {
		bits |= 1 << c.Index()
	}
	assert.Equal(t, uint64(1)<<DeckSize-1, bits)
	assert.NotEqual(t, NewDeck(), d)
}

func TestShuffleDeterministic(t *testing.T) {
	t.Parallel()

	a := NewShuffledDeck(rand.New(rand.NewPCG(42, 7)))
	b := NewShuffledDeck(rand.New(rand.NewPCG(42, 7)))
	c := NewShuffledDeck(rand.New(rand.NewPCG(43, 7)))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestShuffleRequiresRNG(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewShuffledDeck(nil) })
}
