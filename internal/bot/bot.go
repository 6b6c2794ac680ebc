// Package bot contains automatic solitaire players used by the simulator
// and the hint command.
package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/klondike/internal/game"
)

// Player picks the next move for a game. ok is false when the player gives
// up, either because nothing is legal or because it sees no progress.
// A Player keeps per-game state; use one per game.
type Player interface {
	Choose(g *game.Game) (m game.Move, ok bool)
}

// Kinds lists the names accepted by New.
var Kinds = []string{"greedy", "random"}

// New creates a player by name
func New(kind string, rng *rand.Rand) (Player, error) {
	switch kind {
	case "greedy":
		return NewGreedy(), nil
	case "random":
		return NewRandom(rng), nil
	default:
		return nil, fmt.Errorf("unknown bot %q (valid: %v)", kind, Kinds)
	}
}
