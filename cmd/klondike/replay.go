package main

import (
	"os"

	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/savefile"
)

// ReplayCmd loads a save file and prints where it ends up
type ReplayCmd struct {
	Path   string `arg:"" optional:"" help:"Save file to replay (defaults to the configured save file)"`
	Format string `short:"f" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
}

func (c *ReplayCmd) Run(globals *Globals) error {
	cfg, logger, err := globals.load(os.Stderr)
	if err != nil {
		return err
	}

	path := cfg.Play.SaveFile
	if c.Path != "" {
		path = c.Path
	}

	g, err := savefile.Load(path, game.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("Replayed save file", "path", path, "seed", g.Seed(), "moves", len(g.Moves()))
	return writeSnapshot(os.Stdout, g.Snapshot(), c.Format)
}
