package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Zone
		wantErr bool
	}{
		{input: "stock", want: StockZone},
		{input: "s", want: StockZone},
		{input: "W", want: WasteZone},
		{input: "f", want: FoundationZone(AnyFoundation)},
		{input: "f1", want: FoundationZone(0)},
		{input: "f4", want: FoundationZone(3)},
		{input: "t1", want: TableauZone(0)},
		{input: "t7", want: TableauZone(6)},
		{input: "t8", wantErr: true},
		{input: "f0", wantErr: true},
		{input: "x2", wantErr: true},
		{input: "tx", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseZone(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZoneStringRoundTrip(t *testing.T) {
	t.Parallel()

	zones := []Zone{StockZone, WasteZone, FoundationZone(AnyFoundation)}
	for i := range NumFoundations {
		zones = append(zones, FoundationZone(i))
	}
	for i := range NumTableaus {
		zones = append(zones, TableauZone(i))
	}

	for _, z := range zones {
		parsed, err := ParseZone(z.String())
		require.NoError(t, err)
		assert.Equal(t, z, parsed)
	}
}

func TestParseMove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Move
		wantErr bool
	}{
		{input: "draw", want: Draw()},
		{input: "d", want: Draw()},
		{input: "w t3", want: WasteTo(TableauZone(2))},
		{input: "waste f", want: WasteTo(FoundationZone(AnyFoundation))},
		{input: "t2 f3", want: TableauTo(1, FoundationZone(2), 1)},
		{input: "T1 t4 3", want: TableauTo(0, TableauZone(3), 3)},
		{input: "t1 t4 0", wantErr: true},
		{input: "t1 t4 x", wantErr: true},
		{input: "t1", wantErr: true},
		{input: "", wantErr: true},
		{input: "t1 t2 3 4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMove(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoveString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "draw", Draw().String())
	assert.Equal(t, "waste t3", WasteTo(TableauZone(2)).String())
	assert.Equal(t, "t1 t4 3", TableauTo(0, TableauZone(3), 3).String())
	assert.Equal(t, "t5 f", TableauTo(4, FoundationZone(AnyFoundation), 1).String())
}

func TestMoveKind(t *testing.T) {
	t.Parallel()

	kind, ok := Draw().Kind()
	assert.True(t, ok)
	assert.Equal(t, MoveDraw, kind)

	kind, ok = TableauTo(0, FoundationZone(1), 1).Kind()
	assert.True(t, ok)
	assert.Equal(t, MoveTableauToFoundation, kind)

	_, ok = Move{From: WasteZone, To: StockZone}.Kind()
	assert.False(t, ok)
}

func TestMoveJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(TableauTo(2, TableauZone(5), 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"t3","to":"t6","count":2}`, string(data))

	var m Move
	require.NoError(t, json.Unmarshal([]byte(`{"from":"waste","to":"f","count":1}`), &m))
	assert.Equal(t, WasteTo(FoundationZone(AnyFoundation)), m)
}

func TestReasonText(t *testing.T) {
	t.Parallel()

	for r := WrongRank; r <= InvalidZone; r++ {
		text, err := r.MarshalText()
		require.NoError(t, err)
		var back Reason
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, r, back)
	}
	assert.Equal(t, "wrong_color_sequence", WrongColorSequence.String())
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	t.Parallel()

	g := New(21, WithLogger(quietLogger()), WithMaxRecycles(2))
	_, err := g.Draw()
	require.NoError(t, err)
	snap := g.Snapshot()

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snap, decoded)
	assert.True(t, decoded.Waste[0].Card.FaceUp())
	assert.False(t, decoded.Stock[0].Card.FaceUp())
}
