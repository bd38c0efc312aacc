package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-wbp/internal/cli"
	"github.com/RyanBlaney/sonido-wbp/music"
)

func TestParseProgression(t *testing.T) {
	seq, err := cli.ParseProgression(music.FourFour, "Dm7 G7", "Cmaj7")
	require.NoError(t, err)

	assert.Equal(t, 0, seq.StartBar())
	assert.Equal(t, 2, seq.BarCount())
	require.Equal(t, 3, seq.Len())

	expected := []struct {
		pos  music.Position
		name string
	}{
		{music.Position{Bar: 0, Beat: 0}, "Dm7"},
		{music.Position{Bar: 0, Beat: 2}, "G7"},
		{music.Position{Bar: 1, Beat: 0}, "Cmaj7"},
	}
	for i, e := range expected {
		slot := seq.Slot(i)
		assert.Equal(t, e.pos, slot.Position)
		assert.True(t, slot.Symbol.Equal(music.MustParseChordSymbol(e.name)), "slot %d is %s", i, slot.Symbol)
	}
}

func TestParseProgressionThreeFour(t *testing.T) {
	seq, err := cli.ParseProgression(music.ThreeFour, "C7 F7 G7")
	require.NoError(t, err)
	require.Equal(t, 3, seq.Len())
	assert.Equal(t, float32(1), seq.Slot(1).Position.Beat)
	assert.Equal(t, float32(2), seq.Slot(2).Position.Beat)
}

func TestParseProgressionErrors(t *testing.T) {
	tests := []struct {
		name string
		bars []string
	}{
		{"no bars", nil},
		{"blank bar", []string{"C7", "  "}},
		{"bad chord", []string{"C7", "Hmaj7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cli.ParseProgression(music.FourFour, tt.bars...)
			assert.Error(t, err)
		})
	}
}
