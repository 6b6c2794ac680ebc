package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/klondike"
)

// Game owns the live board and its history and is the only way to change
// them. Create one with New; each Game is independent of every other.
type Game struct {
	board    Board
	history  History
	rules    Rules
	seed     int64
	recycles int
	outcome  Outcome
	logger   *log.Logger
}

// Option configures a Game during creation.
type Option func(*Game)

// WithRules replaces the default ruleset
func WithRules(r Rules) Option {
	return func(g *Game) {
		g.rules = r
	}
}

// WithMaxRecycles limits how often the waste may be recycled
func WithMaxRecycles(n int) Option {
	return func(g *Game) {
		g.rules.MaxRecycles = &n
	}
}

// WithLogger sets the logger used for move and outcome events
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// New creates a game and deals it from seed
func New(seed int64, opts ...Option) *Game {
	g := &Game{
		rules:  DefaultRules(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.WithPrefix("game")
	g.NewGame(seed)
	return g
}

// NewGame discards the current board and history and deals a fresh game
func (g *Game) NewGame(seed int64) Snapshot {
	deck := klondike.NewShuffledDeck(randutil.New(seed))
	g.board = Deal(deck)
	g.history.Clear()
	g.seed = seed
	g.recycles = 0
	g.refresh()

	g.logger.Debug("dealt new game", "seed", seed)
	return g.Snapshot()
}

// Move validates and applies m. A rejected move returns a
// *MoveRejectedError and leaves the game untouched.
func (g *Game) Move(m Move) (Snapshot, error) {
	m = resolveFoundation(&g.board, m)
	if err := validate(&g.board, g.rules, g.recycles, m); err != nil {
		g.logger.Debug("move rejected", "move", m, "reason", err.Reason)
		return Snapshot{}, err
	}

	d := apply(&g.board, m)
	if d.Kind == DeltaRecycle {
		g.recycles++
	}
	g.history.Push(d)
	g.refresh()

	g.logger.Debug("move applied", "move", m, "delta", d.Kind, "flipped", d.Flipped, "outcome", g.outcome)
	return g.Snapshot(), nil
}

// Draw is shorthand for Move(Draw())
func (g *Game) Draw() (Snapshot, error) {
	return g.Move(Draw())
}

// Undo reverts the most recent move
func (g *Game) Undo() (Snapshot, error) {
	d, ok := g.history.Pop()
	if !ok {
		return Snapshot{}, ErrUndoUnavailable
	}

	revert(&g.board, d)
	if d.Kind == DeltaRecycle {
		g.recycles--
	}
	g.refresh()

	g.logger.Debug("move undone", "move", d.Move, "delta", d.Kind)
	return g.Snapshot(), nil
}

// Snapshot returns a read-only copy of the current state
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Seed:     g.seed,
		Stock:    viewPile(g.board.Stock),
		Waste:    viewPile(g.board.Waste),
		Outcome:  g.outcome,
		CanUndo:  g.history.Len() > 0,
		Moves:    g.history.Len(),
		Recycles: g.recycles,
	}
	if g.rules.MaxRecycles != nil {
		limit := *g.rules.MaxRecycles
		s.MaxRecycles = &limit
	}
	for i, f := range g.board.Foundations {
		s.Foundations[i] = viewPile(f)
	}
	for i, t := range g.board.Tableau {
		s.Tableau[i] = viewPile(t)
	}
	return s
}

// Board returns a deep copy of the current board
func (g *Game) Board() Board {
	return g.board.Clone()
}

// Outcome returns the status derived after the last command
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// LegalMoves lists every move currently accepted
func (g *Game) LegalMoves() []Move {
	return LegalMoves(&g.board, g.rules, g.recycles)
}

// Moves returns the applied moves still on the history, oldest first
func (g *Game) Moves() []Move {
	return g.history.Moves()
}

// CanUndo reports whether Undo would succeed
func (g *Game) CanUndo() bool {
	return g.history.Len() > 0
}

// Seed returns the seed the current game was dealt from
func (g *Game) Seed() int64 {
	return g.seed
}

// Rules returns the active ruleset
func (g *Game) Rules() Rules {
	return g.rules
}

// Recycles returns how many times the waste has been recycled
func (g *Game) Recycles() int {
	return g.recycles
}

func (g *Game) refresh() {
	prev := g.outcome
	g.outcome = Evaluate(&g.board, g.rules, g.recycles)
	if g.outcome != prev && g.outcome.Terminal() {
		g.logger.Info("game over", "seed", g.seed, "outcome", g.outcome, "moves", g.history.Len())
	}
}
