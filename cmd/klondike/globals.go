package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/lox/klondike/cmd/klondike/shared"
	"github.com/lox/klondike/internal/config"
	"github.com/lox/klondike/internal/game"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"klondike.hcl" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Debug    bool   `help:"Enable debug logging"`
}

// load reads the config file and builds a logger writing to w
func (g *Globals) load(w io.Writer) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	switch {
	case g.Debug:
		cfg.Logging.Level = "debug"
	case g.LogLevel != "":
		cfg.Logging.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, shared.SetupLogger(w, cfg.LogLevel()), nil
}

// rules applies a --max-recycles override to the configured rules
func rules(cfg *config.Config, maxRecycles *int) (game.Rules, error) {
	if maxRecycles == nil {
		return cfg.GameRules(), nil
	}
	if *maxRecycles < 0 {
		return game.Rules{}, fmt.Errorf("max recycles must not be negative, got %d", *maxRecycles)
	}
	return game.Limited(*maxRecycles), nil
}

func limitString(r game.Rules) string {
	if r.MaxRecycles == nil {
		return "unlimited"
	}
	return strconv.Itoa(*r.MaxRecycles)
}
