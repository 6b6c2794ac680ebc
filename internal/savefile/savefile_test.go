package savefile

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/klondike/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// play applies the first legal non-draw move when one exists, else draws
func play(t *testing.T, g *game.Game, n int) {
	t.Helper()
	for range n {
		moves := g.LegalMoves()
		if len(moves) == 0 {
			return
		}
		m := moves[len(moves)-1]
		_, err := g.Move(m)
		require.NoError(t, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	g := game.New(1234, game.WithMaxRecycles(2), game.WithLogger(quietLogger()))
	play(t, g, 40)
	require.NotEmpty(t, g.Moves())

	path := filepath.Join(t.TempDir(), "saves", "game.yaml")
	require.NoError(t, Save(path, g))

	loaded, err := Load(path, game.WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, g.Snapshot(), loaded.Snapshot())
	assert.Equal(t, g.Moves(), loaded.Moves())
	require.NotNil(t, loaded.Rules().MaxRecycles)
	assert.Equal(t, 2, *loaded.Rules().MaxRecycles)
}

func TestEncodeFormat(t *testing.T) {
	t.Parallel()

	g := game.New(7, game.WithLogger(quietLogger()))
	_, err := g.Draw()
	require.NoError(t, err)

	data, err := Encode(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), "seed: 7")
	assert.Contains(t, string(data), "- draw")
	assert.Contains(t, string(data), "outcome: in_progress")
}

func TestDecodeRejectsIllegalMove(t *testing.T) {
	t.Parallel()

	data := []byte("version: 1\nseed: 7\nrules: {}\nmoves:\n  - t1 t1\n")
	_, err := Decode(data, game.WithLogger(quietLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrMoveRejected)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("version: 9\nseed: 1\n"))
	assert.ErrorContains(t, err, "unsupported save version")

	_, err = Decode([]byte("version: 1\nseed: 1\nmoves: [\"bogus move here now\"]\n"))
	assert.Error(t, err)

	_, err = Decode([]byte("[unclosed"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
