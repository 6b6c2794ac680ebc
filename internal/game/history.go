package game

// History is an append-only stack of applied deltas. Undo pops from the end.
type History struct {
	deltas []Delta
}

// Push records a delta after a successful mutation
func (h *History) Push(d Delta) {
	h.deltas = append(h.deltas, d)
}

// Pop removes and returns the most recent delta
func (h *History) Pop() (Delta, bool) {
	n := len(h.deltas)
	if n == 0 {
		return Delta{}, false
	}
	d := h.deltas[n-1]
	h.deltas = h.deltas[:n-1]
	return d, true
}

// Len returns the number of recorded deltas
func (h *History) Len() int {
	return len(h.deltas)
}

// Clear drops every delta
func (h *History) Clear() {
	h.deltas = h.deltas[:0]
}

// Moves returns the moves of the recorded deltas, oldest first
func (h *History) Moves() []Move {
	moves := make([]Move, len(h.deltas))
	for i, d := range h.deltas {
		moves[i] = d.Move
	}
	return moves
}
