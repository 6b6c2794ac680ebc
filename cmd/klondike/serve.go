package main

import (
	"context"
	"os"
	"time"

	"github.com/lox/klondike/cmd/klondike/shared"
	"github.com/lox/klondike/internal/server"
)

// ServeCmd runs the WebSocket server
type ServeCmd struct {
	Addr        string        `short:"a" help:"Server address, host:port (overrides config)"`
	IdleTimeout time.Duration `help:"Drop sessions idle this long (overrides config)"`
	MaxSessions int           `help:"Maximum live sessions (overrides config)"`
	MaxRecycles *int          `help:"Default stock recycle limit (overrides config)"`
	JSONLogs    bool          `name:"json-logs" help:"Emit logs as JSON"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, logger, err := globals.load(os.Stderr)
	if err != nil {
		return err
	}
	if c.JSONLogs {
		logger = shared.SetupStructuredLogger(os.Stderr, cfg.LogLevel())
	}
	r, err := rules(cfg, c.MaxRecycles)
	if err != nil {
		return err
	}

	addr := cfg.ServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}
	idle := cfg.IdleTimeout()
	if c.IdleTimeout > 0 {
		idle = c.IdleTimeout
	}
	maxSessions := cfg.Server.MaxSessions
	if c.MaxSessions > 0 {
		maxSessions = c.MaxSessions
	}

	s := server.NewServer(logger,
		server.WithRules(r),
		server.WithIdleTimeout(idle),
		server.WithMaxSessions(maxSessions),
	)

	logger.Info("Starting klondike server",
		"address", addr,
		"idle_timeout", idle,
		"max_sessions", maxSessions,
		"max_recycles", limitString(r),
	)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.ListenAndServe(addr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
