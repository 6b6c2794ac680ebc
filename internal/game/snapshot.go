package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/klondike/klondike"
)

// Outcome is the derived status of a board.
type Outcome uint8

const (
	InProgress Outcome = iota
	Won
	Stuck
)

var outcomeNames = [...]string{"in_progress", "won", "stuck"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Terminal reports whether no further progress is possible
func (o Outcome) Terminal() bool {
	return o == Won || o == Stuck
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	for i, name := range outcomeNames {
		if name == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome: %q", text)
}

// CardView is the serializable form of a card in a Snapshot.
type CardView struct {
	Card   klondike.Card `json:"-" yaml:"-"`
	Rank   string        `json:"rank" yaml:"rank"`
	Suit   string        `json:"suit" yaml:"suit"`
	FaceUp bool          `json:"faceUp" yaml:"face_up"`
}

// NewCardView builds the view of a card
func NewCardView(c klondike.Card) CardView {
	return CardView{
		Card:   c,
		Rank:   c.Rank().String(),
		Suit:   c.Suit().String(),
		FaceUp: c.FaceUp(),
	}
}

// UnmarshalJSON restores Card from the rank and suit fields
func (v *CardView) UnmarshalJSON(data []byte) error {
	type plain CardView
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	c, err := klondike.ParseCard(p.Rank + p.Suit)
	if err != nil {
		return err
	}
	if p.FaceUp {
		c = c.Up()
	}
	p.Card = c
	*v = CardView(p)
	return nil
}

func (v CardView) String() string {
	if !v.FaceUp {
		return "##"
	}
	return v.Card.String()
}

// Snapshot is a read-only copy of the game, sufficient for rendering
// without re-deriving any rules.
type Snapshot struct {
	Seed        int64                      `json:"seed" yaml:"seed"`
	Stock       []CardView                 `json:"stock" yaml:"stock"`
	Waste       []CardView                 `json:"waste" yaml:"waste"`
	Foundations [NumFoundations][]CardView `json:"foundations" yaml:"foundations"`
	Tableau     [NumTableaus][]CardView    `json:"tableau" yaml:"tableau"`
	Outcome     Outcome                    `json:"outcome" yaml:"outcome"`
	CanUndo     bool                       `json:"canUndo" yaml:"can_undo"`
	Moves       int                        `json:"moves" yaml:"moves"`
	Recycles    int                        `json:"recycles" yaml:"recycles"`
	MaxRecycles *int                       `json:"maxRecycles,omitempty" yaml:"max_recycles,omitempty"`
}

func viewPile(cards []klondike.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = NewCardView(c)
	}
	return views
}
