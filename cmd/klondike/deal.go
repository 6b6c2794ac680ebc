package main

import (
	"os"

	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/randutil"
)

// DealCmd prints the opening layout for a seed
type DealCmd struct {
	Seed        *int64 `short:"s" help:"Deal seed (random when omitted)"`
	MaxRecycles *int   `help:"Stock recycle limit recorded in the output"`
	Format      string `short:"f" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
}

func (c *DealCmd) Run(globals *Globals) error {
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
	logger.Debug("Dealing", "seed", seed)

	g := game.New(seed, game.WithRules(r), game.WithLogger(logger))
	return writeSnapshot(os.Stdout, g.Snapshot(), c.Format)
}
