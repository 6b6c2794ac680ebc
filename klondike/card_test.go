package klondike

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()

	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, Ace, aceSpades.Rank())
	assert.Equal(t, Spades, aceSpades.Suit())
	assert.Equal(t, "As", aceSpades.String())
	assert.False(t, aceSpades.FaceUp())

	kingClubs := NewCard(King, Clubs)
	assert.Equal(t, "Kc", kingClubs.String())
	assert.Equal(t, Black, kingClubs.Color())
	assert.Equal(t, Red, NewCard(Five, Hearts).Color())
	assert.Equal(t, Red, NewCard(Five, Diamonds).Color())
}

func TestCardOrientation(t *testing.T) {
	t.Parallel()

	c := NewCard(Queen, Hearts)
	up := c.Up()

	assert.True(t, up.FaceUp())
	assert.Equal(t, c, up.Down())
	assert.Equal(t, c.Identity(), up.Identity())
	assert.Equal(t, Queen, up.Rank())
	assert.Equal(t, Hearts, up.Suit())
}

func TestInvalidCard(t *testing.T) {
	t.Parallel()

	var zero Card
	assert.False(t, zero.Valid())
	assert.Equal(t, "??", zero.String())
	assert.False(t, NewCard(0, Clubs).Valid())
	assert.False(t, NewCard(Ace, Suit(9)).Valid())
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "2h", want: NewCard(Two, Hearts)},
		{input: "Td", want: NewCard(Ten, Diamonds)},
		{input: "10d", want: NewCard(Ten, Diamonds)},
		{input: "kc", want: NewCard(King, Clubs)},
		{input: "Xs", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("Kh Qs  Jd")
	require.NoError(t, err)
	assert.Equal(t, []Card{NewCard(King, Hearts), NewCard(Queen, Spades), NewCard(Jack, Diamonds)}, cards)

	_, err = ParseCards("Kh Zz")
	assert.Error(t, err)
}

func TestRankLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10", Ten.Label())
	assert.Equal(t, "T", Ten.String())
	assert.Equal(t, "A", Ace.Label())
}
