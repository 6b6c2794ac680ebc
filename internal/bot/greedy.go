package bot

import (
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/klondike"
)

const (
	scoreSkip       = -1
	scoreDraw       = 1
	scoreEmptyCol   = 30
	scoreWaste      = 40
	scoreReveal     = 50
	scoreFoundation = 100
)

// Greedy plays the highest scoring legal move. It only makes moves that
// make progress (foundation plays, revealing face-down cards, emptying a
// column, playing off the waste) and otherwise draws, giving up after a full
// pass through stock and waste without progress.
type Greedy struct {
	idleDraws int
}

// NewGreedy creates a greedy player
func NewGreedy() *Greedy {
	return &Greedy{}
}

// Choose implements Player
func (p *Greedy) Choose(g *game.Game) (game.Move, bool) {
	b := g.Board()
	best, bestScore := game.Move{}, scoreSkip
	for _, m := range g.LegalMoves() {
		if s := Score(&b, m); s > bestScore {
			best, bestScore = m, s
		}
	}

	switch {
	case bestScore == scoreSkip:
		return game.Move{}, false
	case bestScore == scoreDraw:
		p.idleDraws++
		if p.idleDraws > len(b.Stock)+len(b.Waste)+1 {
			return game.Move{}, false
		}
	default:
		p.idleDraws = 0
	}
	return best, true
}

// Score rates a legal move for the greedy player. Moves scoring below zero
// are never played.
func Score(b *game.Board, m game.Move) int {
	kind, _ := m.Kind()
	switch kind {
	case game.MoveDraw:
		return scoreDraw

	case game.MoveWasteToFoundation:
		return scoreFoundation

	case game.MoveWasteToTableau:
		return scoreWaste

	case game.MoveTableauToFoundation:
		col := b.Tableau[m.From.Index]
		if below := len(col) - 2; below >= 0 && !col[below].FaceUp() {
			return scoreFoundation + 10
		}
		return scoreFoundation

	case game.MoveTableauToTableau:
		col := b.Tableau[m.From.Index]
		below := len(col) - m.Count - 1
		if below >= 0 {
			if col[below].FaceUp() {
				return scoreSkip
			}
			return scoreReveal + hidden(col)
		}
		if col[0].Rank() == klondike.King {
			return scoreSkip
		}
		return scoreEmptyCol
	}
	return scoreSkip
}

func hidden(col []klondike.Card) int {
	n := 0
	for _, c := range col {
		if !c.FaceUp() {
			n++
		}
	}
	return n
}
