package game

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/klondike/klondike"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// pile parses fixture notation bottom to top. A leading '#' marks a
// face-down card, e.g. "#Kh #2c 9s 8h".
func pile(t testing.TB, spec string) []klondike.Card {
	t.Helper()
	var cards []klondike.Card
	for _, tok := range strings.Fields(spec) {
		down := strings.HasPrefix(tok, "#")
		c, err := klondike.ParseCard(strings.TrimPrefix(tok, "#"))
		require.NoError(t, err)
		if !down {
			c = c.Up()
		}
		cards = append(cards, c)
	}
	return cards
}

// suitRun returns face-up cards of suit from Ace up to and including rank
func suitRun(suit klondike.Suit, through klondike.Rank) []klondike.Card {
	var cards []klondike.Card
	for r := klondike.Ace; r <= through; r++ {
		cards = append(cards, klondike.NewCard(r, suit).Up())
	}
	return cards
}

// gameWithBoard builds a game positioned on an arbitrary board
func gameWithBoard(b Board, opts ...Option) *Game {
	g := New(1, append([]Option{WithLogger(quietLogger())}, opts...)...)
	g.board = b.Clone()
	g.refresh()
	return g
}

// requireInvariants checks the structural board invariants
func requireInvariants(t testing.TB, b *Board) {
	t.Helper()

	var seen uint64
	cards := b.Cards()
	require.Len(t, cards, klondike.DeckSize)
	for _, c := range cards {
		require.True(t, c.Valid(), "invalid card %v", c)
		bit := uint64(1) << c.Index()
		require.Zero(t, seen&bit, "duplicate card %v", c)
		seen |= bit
	}

	for _, c := range b.Stock {
		require.False(t, c.FaceUp(), "stock card %v face up", c)
	}
	for _, c := range b.Waste {
		require.True(t, c.FaceUp(), "waste card %v face down", c)
	}
	for i, f := range b.Foundations {
		for j, c := range f {
			require.Equal(t, klondike.Suits[i], c.Suit(), "foundation %d", i)
			require.Equal(t, klondike.Rank(j+1), c.Rank(), "foundation %d", i)
		}
	}
	for i, col := range b.Tableau {
		run := faceUpRun(col)
		if len(col) > 0 {
			require.Positive(t, run, "tableau %d has a face-down top", i)
		}
		require.True(t, isBuildSequence(col[len(col)-run:]), "tableau %d run broken", i)
		for _, c := range col[:len(col)-run] {
			require.False(t, c.FaceUp())
		}
	}
}
