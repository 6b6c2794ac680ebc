package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/klondike/cmd/klondike/shared"
	"github.com/lox/klondike/internal/client"
)

// RemoteCmd plays a game on a server by following its hints
type RemoteCmd struct {
	Server      string        `short:"u" default:"http://localhost:8080" help:"Server URL"`
	Seed        *int64        `short:"s" help:"Deal seed (server picks when omitted)"`
	Session     string        `help:"Resume this session instead of dealing a new game"`
	MaxRecycles *int          `help:"Stock recycle limit for the new game"`
	MaxMoves    int           `default:"500" help:"Stop after this many moves"`
	Format      string        `short:"f" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
	Wait        time.Duration `default:"10s" help:"How long to wait for the server to report healthy"`
}

func (c *RemoteCmd) Run(globals *Globals) error {
	_, logger, err := globals.load(os.Stderr)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	waitCtx, waitCancel := context.WithTimeout(ctx, c.Wait)
	health, err := client.WaitForHealthy(waitCtx, c.Server)
	waitCancel()
	if err != nil {
		return fmt.Errorf("server %s not healthy: %w", c.Server, err)
	}
	logger.Debug("Server healthy", "sessions", health.Sessions)

	cl := client.NewClient(c.Server, logger)
	if err := cl.Connect(ctx); err != nil {
		return err
	}
	defer cl.Close()

	if c.Session != "" {
		_, err = cl.Resume(ctx, c.Session)
	} else {
		_, err = cl.NewGame(ctx, c.Seed, c.MaxRecycles)
	}
	if err != nil {
		return err
	}

	start := time.Now()
	snap, played, err := cl.Autoplay(ctx, c.MaxMoves)
	if err != nil {
		return err
	}
	logger.Info("Autoplay finished",
		"session", cl.SessionID(),
		"moves", played,
		"outcome", snap.Outcome,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return writeSnapshot(os.Stdout, snap, c.Format)
}
