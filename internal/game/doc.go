// Package game implements the Klondike solitaire rule engine.
//
// The main type is Game, which owns a single Board and its undo History.
// Every command runs to completion before returning and either yields a new
// Snapshot or a structured error; a rejected move never changes the Board.
//
// # Basic Usage
//
//	g := game.New(42)
//	snap, err := g.Move(game.TableauTo(2, game.FoundationZone(game.AnyFoundation), 1))
//	if errors.Is(err, game.ErrMoveRejected) {
//	    reason, _ := game.ReasonOf(err)
//	    ...
//	}
//	snap, err = g.Draw()
//	snap, err = g.Undo()
//
// # Deterministic Deals
//
// Deals are derived from an explicit int64 seed through randutil, so the same
// seed always produces the same layout. Starting a new game clears history.
//
// # Rules
//
// Draw is one card at a time. When the stock is empty a draw recycles the
// waste back into the stock; WithMaxRecycles bounds how often that may happen.
// Foundations are suit-assigned in the order clubs, diamonds, hearts, spades.
//
// # Concurrency
//
// Game performs no locking. Callers that share a Game between goroutines must
// serialize access themselves (the websocket server wraps each one in a mutex).
package game
