package game

import (
	"github.com/lox/klondike/klondike"
)

// Validate decides whether m is legal on b given the rules and the number of
// recycles already performed. It returns nil or a *MoveRejectedError and never
// modifies the board.
func Validate(b *Board, rules Rules, recycles int, m Move) error {
	if err := validate(b, rules, recycles, m); err != nil {
		return err
	}
	return nil
}

func validate(b *Board, rules Rules, recycles int, m Move) *MoveRejectedError {
	kind, ok := m.Kind()
	if !ok || !m.From.Valid() || !m.To.Valid() {
		return reject(m, InvalidZone)
	}

	var moving klondike.Card

	switch kind {
	case MoveDraw:
		if len(b.Stock) > 0 {
			return nil
		}
		if len(b.Waste) == 0 {
			return reject(m, EmptySourceSelection)
		}
		if !rules.canRecycle(recycles) {
			return reject(m, StockEmptyNoRecycleAllowed)
		}
		return nil

	case MoveWasteToTableau, MoveWasteToFoundation:
		card, ok := top(b.Waste)
		if !ok {
			return reject(m, EmptySourceSelection)
		}
		if m.Count != 1 {
			return reject(m, InvalidSuffixRange)
		}
		moving = card

	case MoveTableauToTableau, MoveTableauToFoundation:
		col := b.Tableau[m.From.Index]
		if len(col) == 0 {
			return reject(m, EmptySourceSelection)
		}
		if m.Count < 1 || m.Count > faceUpRun(col) {
			return reject(m, InvalidSuffixRange)
		}
		run := col[len(col)-m.Count:]
		if !isBuildSequence(run) {
			return reject(m, InvalidSuffixRange)
		}
		if m.To == m.From {
			return reject(m, DestinationNotEligible)
		}
		moving = run[0]
	}

	switch m.To.Kind {
	case ZoneFoundation:
		if m.Count != 1 {
			return reject(m, DestinationNotEligible)
		}
		if r := checkFoundation(b.Foundations[m.To.Index], m.To.Index, moving); r != nil {
			return reject(m, *r)
		}
	case ZoneTableau:
		if r := checkTableau(b.Tableau[m.To.Index], moving); r != nil {
			return reject(m, *r)
		}
	}

	return nil
}

func checkFoundation(pile []klondike.Card, index int, card klondike.Card) *Reason {
	if card.Suit() != klondike.Suits[index] {
		return reasonPtr(WrongSuit)
	}
	if int(card.Rank()) != len(pile)+1 {
		return reasonPtr(WrongRank)
	}
	return nil
}

func checkTableau(pile []klondike.Card, card klondike.Card) *Reason {
	dest, ok := top(pile)
	if !ok {
		if card.Rank() != klondike.King {
			return reasonPtr(WrongRank)
		}
		return nil
	}
	if !dest.FaceUp() {
		return reasonPtr(DestinationNotEligible)
	}
	if dest.Color() == card.Color() {
		return reasonPtr(WrongColorSequence)
	}
	if card.Rank()+1 != dest.Rank() {
		return reasonPtr(WrongRank)
	}
	return nil
}

func reasonPtr(r Reason) *Reason {
	return &r
}
