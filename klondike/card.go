// Package klondike provides the playing-card primitives used by the solitaire engine.
package klondike

import (
	"fmt"
	"strings"
)

// Suit identifies one of the four suits. The order doubles as the foundation order.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NumSuits is the number of suits and therefore the number of foundations.
const NumSuits = 4

// Suits lists every suit in foundation order.
var Suits = [NumSuits]Suit{Clubs, Diamonds, Hearts, Spades}

// Color is the colour of a suit, used for alternating tableau sequences.
type Color uint8

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Color returns the colour of the suit
func (s Suit) Color() Color {
	if s == Diamonds || s == Hearts {
		return Red
	}
	return Black
}

// String returns the short form used in card notation (c, d, h, s)
func (s Suit) String() string {
	if s >= NumSuits {
		return "?"
	}
	return string("cdhs"[s])
}

// Name returns the long lowercase name of the suit
func (s Suit) Name() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// Symbol returns the unicode pip for the suit
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Rank is the card rank, Ace low (1) through King (13).
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// NumRanks is the number of ranks per suit.
const NumRanks = 13

const rankChars = "A23456789TJQK"

// String returns the single-character rank used in card notation
func (r Rank) String() string {
	if r < Ace || r > King {
		return "?"
	}
	return string(rankChars[r-1])
}

// Label returns the rank as printed on a card face ("10" rather than "T")
func (r Rank) Label() string {
	if r == Ten {
		return "10"
	}
	return r.String()
}

// Card is a single playing card packed into a byte.
//
// Layout: bit 7 is the face-up flag, bits 0-5 hold the identity 1..52
// (suit*13 + rank). The zero Card is not a valid card.
type Card uint8

const (
	faceUpBit    Card = 0x80
	identityMask Card = 0x3f
)

// NewCard creates a face-down card
func NewCard(rank Rank, suit Suit) Card {
	if rank < Ace || rank > King || suit >= NumSuits {
		return 0
	}
	return Card(uint8(suit)*NumRanks + uint8(rank))
}

// Valid reports whether c identifies one of the 52 cards
func (c Card) Valid() bool {
	id := c & identityMask
	return id >= 1 && id <= 52
}

// Rank returns the rank of the card
func (c Card) Rank() Rank {
	if !c.Valid() {
		return 0
	}
	return Rank((uint8(c&identityMask)-1)%NumRanks + 1)
}

// Suit returns the suit of the card
func (c Card) Suit() Suit {
	if !c.Valid() {
		return NumSuits
	}
	return Suit((uint8(c&identityMask) - 1) / NumRanks)
}

// Color returns the colour of the card's suit
func (c Card) Color() Color {
	return c.Suit().Color()
}

// FaceUp reports whether the card is turned face up
func (c Card) FaceUp() bool {
	return c&faceUpBit != 0
}

// Up returns the card turned face up
func (c Card) Up() Card {
	return c | faceUpBit
}

// Down returns the card turned face down
func (c Card) Down() Card {
	return c &^ faceUpBit
}

// Identity strips orientation, leaving the (rank, suit) identity
func (c Card) Identity() Card {
	return c & identityMask
}

// Index returns a 0-51 slot for the card identity, handy for bitsets
func (c Card) Index() int {
	return int(c&identityMask) - 1
}

// String returns the two-character notation, e.g. "Ah" or "Tc"
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// ParseCard parses a string like "Qs" or "10h" into a face-down card
func ParseCard(s string) (Card, error) {
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card string: %q", s)
	}

	idx := strings.IndexByte(rankChars, upper(s[0]))
	if idx < 0 {
		return 0, fmt.Errorf("invalid rank: %c", s[0])
	}

	var suit Suit
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return 0, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(Rank(idx+1), suit), nil
}

// ParseCards parses whitespace separated card notation
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error, for fixtures
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
