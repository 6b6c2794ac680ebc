// Package savefile persists games as YAML: the deal seed, the ruleset and the
// applied moves. Loading replays the moves, so a save can never describe a
// board the rules could not reach.
package savefile

import (
	"fmt"
	"os"

	"github.com/lox/klondike/internal/fileutil"
	"github.com/lox/klondike/internal/game"
	"gopkg.in/yaml.v3"
)

// Version is the save format written by Encode.
const Version = 1

// File is the on-disk representation
type File struct {
	Version int        `yaml:"version"`
	Seed    int64      `yaml:"seed"`
	Rules   game.Rules `yaml:"rules"`
	Outcome string     `yaml:"outcome,omitempty"`
	Moves   []string   `yaml:"moves"`
}

// Encode serializes a game
func Encode(g *game.Game) ([]byte, error) {
	moves := g.Moves()
	f := File{
		Version: Version,
		Seed:    g.Seed(),
		Rules:   g.Rules(),
		Outcome: g.Outcome().String(),
		Moves:   make([]string, len(moves)),
	}
	for i, m := range moves {
		f.Moves[i] = m.String()
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	return data, nil
}

// Decode rebuilds a game by dealing the saved seed and replaying every move.
// Options are applied before the saved rules, which take precedence.
func Decode(data []byte, opts ...game.Option) (*game.Game, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse save: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("unsupported save version %d", f.Version)
	}

	g := game.New(f.Seed, append(opts, game.WithRules(f.Rules))...)
	for i, s := range f.Moves {
		m, err := game.ParseMove(s)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if _, err := g.Move(m); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, s, err)
		}
	}
	return g, nil
}

// Save writes the game to path atomically
func Save(path string, g *game.Game) error {
	data, err := Encode(g)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomicMkdir(path, data, 0o644)
}

// Load reads and replays a save file
func Load(path string, opts ...game.Option) (*game.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return Decode(data, opts...)
}
