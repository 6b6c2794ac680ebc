package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/klondike/internal/bot"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxMoves caps a single game so a wandering player cannot run forever
const DefaultMaxMoves = 2000

// Config holds configuration for running simulations
type Config struct {
	Games    int
	Bot      string
	Seed     int64
	Workers  int
	MaxMoves int
	Rules    game.Rules
	Logger   *log.Logger
}

// Simulator plays many seeded games with a bot and tallies the outcomes
type Simulator struct {
	config     Config
	logger     *log.Logger
	gameLogger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = min(runtime.NumCPU(), 8)
	}
	if config.MaxMoves <= 0 {
		config.MaxMoves = DefaultMaxMoves
	}
	if config.Bot == "" {
		config.Bot = "greedy"
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	// Per-game logs only surface when debugging
	gameLogger := logger.With()
	if gameLogger.GetLevel() > log.DebugLevel {
		gameLogger.SetLevel(max(gameLogger.GetLevel(), log.WarnLevel))
	}

	return &Simulator{
		config:     config,
		logger:     logger.WithPrefix("simulator"),
		gameLogger: gameLogger,
	}
}

// Run plays Games games, game i using deal seed Seed+i. Results do not
// depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	if _, err := bot.New(s.config.Bot, randutil.New(0)); err != nil {
		return nil, err
	}

	workers := min(s.config.Workers, s.config.Games)
	parts := make([]statistics.Statistics, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for i := w; i < s.config.Games; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := s.Play(s.config.Seed + int64(i))
				if err != nil {
					return err
				}
				parts[w].Add(result)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for i := range parts {
		stats.Merge(&parts[i])
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "games", stats.Games, "won", stats.Won, "bot", s.config.Bot)
	return stats, nil
}

// Play runs a single game on seed until it ends or the bot gives up
func (s *Simulator) Play(seed int64) (statistics.GameResult, error) {
	player, err := bot.New(s.config.Bot, randutil.New(seed))
	if err != nil {
		return statistics.GameResult{}, err
	}

	g := game.New(seed, game.WithRules(s.config.Rules), game.WithLogger(s.gameLogger))
	moves := 0
	for !g.Outcome().Terminal() && moves < s.config.MaxMoves {
		m, ok := player.Choose(g)
		if !ok {
			break
		}
		if _, err := g.Move(m); err != nil {
			return statistics.GameResult{}, fmt.Errorf("seed %d: bot played %v: %w", seed, m, err)
		}
		moves++
	}

	result := statistics.GameResult{
		Seed:      seed,
		Outcome:   g.Outcome(),
		Moves:     moves,
		Recycles:  g.Recycles(),
		Abandoned: !g.Outcome().Terminal(),
	}
	s.logger.Debug("Game finished", "seed", seed, "outcome", result.Outcome, "moves", moves)
	return result, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, botName string) {
	low, high := stats.WinRateInterval95()

	fmt.Fprintf(w, "\n=== RESULTS for %s bot ===\n", botName)
	fmt.Fprintf(w, "Games played: %d\n", stats.Games)
	fmt.Fprintf(w, "Won: %d (%.1f%%, 95%% CI [%.1f%%, %.1f%%])\n",
		stats.Won, stats.WinRate()*100, low*100, high*100)
	fmt.Fprintf(w, "Stuck: %d\n", stats.Stuck)
	fmt.Fprintf(w, "Abandoned: %d\n", stats.Abandoned)

	fmt.Fprintf(w, "\n=== MOVES ===\n")
	fmt.Fprintf(w, "Mean: %.1f  Median: %.1f  Std Dev: %.1f\n", stats.MeanMoves(), stats.Median(), stats.StdDev())
	fmt.Fprintf(w, "Percentiles: P5=%.0f, P25=%.0f, P75=%.0f, P95=%.0f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Most recycles in a game: %d\n", stats.MaxRecycles)
}
