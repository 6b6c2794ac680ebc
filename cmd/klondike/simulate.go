package main

import (
	"os"
	"time"

	"github.com/lox/klondike/cmd/klondike/shared"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/internal/simulator"
)

// SimulateCmd plays seeded games with a bot
type SimulateCmd struct {
	Games       int    `short:"n" default:"1000" help:"Number of games to play"`
	Seed        *int64 `short:"s" help:"First deal seed; game i uses seed+i (random when omitted)"`
	Bot         string `short:"b" enum:"greedy,random" default:"greedy" help:"Bot to play with (greedy, random)"`
	Workers     int    `short:"w" help:"Parallel workers (defaults to CPU count, max 8)"`
	MaxMoves    int    `default:"2000" help:"Move cap per game"`
	MaxRecycles *int   `help:"Stock recycle limit (overrides config)"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	cfg, logger, err := globals.load(os.Stderr)
	if err != nil {
		return err
	}
	r, err := rules(cfg, c.MaxRecycles)
	if err != nil {
		return err
	}

	seed := randutil.NewSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting simulation",
		"games", c.Games,
		"bot", c.Bot,
		"seed", seed,
		"max_recycles", limitString(r),
	)

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Games:    c.Games,
		Bot:      c.Bot,
		Seed:     seed,
		Workers:  c.Workers,
		MaxMoves: c.MaxMoves,
		Rules:    r,
		Logger:   logger,
	})
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats, c.Bot)
	logger.Info("Simulation finished", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
