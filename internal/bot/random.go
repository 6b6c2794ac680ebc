package bot

import (
	rand "math/rand/v2"

	"github.com/lox/klondike/internal/game"
)

// Random plays a uniformly random legal move
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random player drawing from rng
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		panic("rng is required for the random player")
	}
	return &Random{rng: rng}
}

// Choose implements Player
func (p *Random) Choose(g *game.Game) (game.Move, bool) {
	legal := g.LegalMoves()
	if len(legal) == 0 {
		return game.Move{}, false
	}
	return legal[p.rng.IntN(len(legal))], true
}
