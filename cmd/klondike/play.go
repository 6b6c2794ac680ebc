package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/internal/savefile"
	"github.com/lox/klondike/internal/tui"
	"github.com/muesli/termenv"
)

// PlayCmd runs the terminal client
type PlayCmd struct {
	Seed        *int64 `short:"s" help:"Deal seed (random when omitted)"`
	MaxRecycles *int   `help:"Limit passes through the stock (unlimited by default)"`
	SaveFile    string `help:"Save file for save/load (overrides config)"`
	Resume      bool   `short:"r" help:"Resume from the save file"`
	NoColor     bool   `help:"Disable colour output"`
	LogFile     string `help:"Write logs to this file"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	var logOut io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	cfg, logger, err := globals.load(logOut)
	if err != nil {
		return err
	}
	r, err := rules(cfg, c.MaxRecycles)
	if err != nil {
		return err
	}
	if c.NoColor || cfg.Play.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	saveFile := cfg.Play.SaveFile
	if c.SaveFile != "" {
		saveFile = c.SaveFile
	}

	opts := []game.Option{game.WithRules(r), game.WithLogger(logger)}
	var g *game.Game
	if c.Resume {
		if g, err = savefile.Load(saveFile, opts...); err != nil {
			return err
		}
	} else {
		seed := randutil.NewSeed()
		if c.Seed != nil {
			seed = *c.Seed
		}
		g = game.New(seed, opts...)
	}

	logger.Info("Starting game", "seed", g.Seed(), "save_file", saveFile)
	model := tui.New(g, tui.Config{SaveFile: saveFile, Options: opts}, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}

	final := model.Game()
	fmt.Printf("Game %d: %s after %d moves\n", final.Seed(), final.Outcome(), len(final.Moves()))
	return nil
}
