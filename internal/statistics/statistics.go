package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/klondike/internal/game"
)

// GameResult is the outcome of one simulated game
type GameResult struct {
	Seed      int64        // deal seed, for replay
	Outcome   game.Outcome // final outcome when the player stopped
	Moves     int          // moves played
	Recycles  int          // stock recycles used
	Abandoned bool         // player gave up before a terminal outcome
}

// Statistics accumulates simulated game results
type Statistics struct {
	Games     int
	Won       int
	Stuck     int
	Abandoned int

	SumMoves  float64
	SumMoves2 float64 // sum of squares for variance
	Moves     []float64

	MaxRecycles int
}

// Add incorporates a game result
func (s *Statistics) Add(r GameResult) {
	s.Games++
	switch {
	case r.Outcome == game.Won:
		s.Won++
	case r.Outcome == game.Stuck:
		s.Stuck++
	case r.Abandoned:
		s.Abandoned++
	}

	moves := float64(r.Moves)
	s.SumMoves += moves
	s.SumMoves2 += moves * moves
	s.Moves = append(s.Moves, moves)
	s.MaxRecycles = max(s.MaxRecycles, r.Recycles)
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Games += other.Games
	s.Won += other.Won
	s.Stuck += other.Stuck
	s.Abandoned += other.Abandoned
	s.SumMoves += other.SumMoves
	s.SumMoves2 += other.SumMoves2
	s.Moves = append(s.Moves, other.Moves...)
	s.MaxRecycles = max(s.MaxRecycles, other.MaxRecycles)
}

// WinRate returns the fraction of games won
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Won) / float64(s.Games)
}

// WinRateInterval95 returns the Wilson score interval for the win rate
func (s *Statistics) WinRateInterval95() (float64, float64) {
	if s.Games == 0 {
		return 0, 0
	}
	const z = 1.96
	n := float64(s.Games)
	p := s.WinRate()
	denom := 1 + z*z/n
	centre := (p + z*z/(2*n)) / denom
	margin := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom
	return math.Max(0, centre-margin), math.Min(1, centre+margin)
}

// MeanMoves returns the mean number of moves per game
func (s *Statistics) MeanMoves() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumMoves / float64(s.Games)
}

// Variance returns the sample variance of moves per game
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.MeanMoves()
	return (s.SumMoves2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of moves per game
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median moves per game
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the moves per game at p (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Moves) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Moves)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the counters are consistent
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Moves) != s.Games {
		return fmt.Errorf("moves length (%d) does not match games count (%d)", len(s.Moves), s.Games)
	}
	if total := s.Won + s.Stuck + s.Abandoned; total != s.Games {
		return fmt.Errorf("outcomes total (%d) does not match games count (%d)", total, s.Games)
	}
	return nil
}
