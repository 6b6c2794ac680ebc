package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/tui"
	"gopkg.in/yaml.v3"
)

// writeSnapshot prints snap as a text board, JSON or YAML
func writeSnapshot(w io.Writer, snap game.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()

	case "text":
		_, err := fmt.Fprintf(w, "%s\n\nGame %d  moves %d  recycles %d  %s\n",
			tui.RenderBoard(snap), snap.Seed, snap.Moves, snap.Recycles, snap.Outcome)
		return err

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
