package wbp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/wbp"
)

func TestSourceID(t *testing.T) {
	assert.Equal(t, "blues#from=3#size=2", wbp.SourceID("blues", 3, 2))

	src := newSource(t, "blues", 3, wbp.StyleWalking, bars(t, "C7", "F7"), quarters(0, 36, 40, 43, 46, 41)...)
	assert.Equal(t, "blues#from=3#size=2", src.ID())
	assert.Equal(t, "blues", src.SessionID())
	assert.Equal(t, 3, src.SessionBarOffset())
	assert.Equal(t, 2, src.BarCount())
}

func TestNewSourceErrors(t *testing.T) {
	chords := bars(t, "C7")
	phrase := music.NewPhrase(quarters(0, 36, 40)...)
	late, err := music.NewChordSequence(2, 1, music.FourFour, at(2, 0, "C"))
	require.NoError(t, err)

	tests := []struct {
		name string
		p    wbp.SourceParams
	}{
		{"no session", wbp.SourceParams{Chords: chords, Phrase: phrase}},
		{"negative offset", wbp.SourceParams{SessionID: "s", SessionBarOffset: -1, Chords: chords, Phrase: phrase}},
		{"no chords", wbp.SourceParams{SessionID: "s", Phrase: phrase}},
		{"chords not at bar 0", wbp.SourceParams{SessionID: "s", Chords: late, Phrase: phrase}},
		{"empty phrase", wbp.SourceParams{SessionID: "s", Chords: chords, Phrase: music.NewPhrase()}},
		{"positive shift", wbp.SourceParams{SessionID: "s", Chords: chords, Phrase: phrase, FirstNoteBeatShift: 0.1}},
		{"shift too early", wbp.SourceParams{SessionID: "s", Chords: chords, Phrase: phrase, FirstNoteBeatShift: -0.5}},
		{"note past end", wbp.SourceParams{SessionID: "s", Chords: chords, Phrase: music.NewPhrase(quarters(3, 36, 40)...)}},
		{"too many bars", wbp.SourceParams{SessionID: "s", Chords: bars(t, "C", "C", "C", "C", "C"), Phrase: phrase}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wbp.NewSource(tt.p)
			assert.ErrorIs(t, err, wbp.ErrInvalidInput)
		})
	}
}

func TestSourceDerivedValues(t *testing.T) {
	src := newSource(t, "s", 0, wbp.StyleWalking, sequence(t, 1, at(0, 0, "C7"), at(0, 2, "F7")),
		music.NewNote(36, 1, 80, 0),
		music.NewNote(38, 0.5, 80, 1),
		music.NewNote(40, 0.3, 80, 1.5),
		music.NewNote(45, 1.5, 80, 2),
	)

	assert.Equal(t, 36, src.FirstNote().Pitch)
	assert.Equal(t, 45, src.LastNote().Pitch)
	assert.Equal(t, "C7", src.FirstChord().Name())
	assert.Equal(t, "F7", src.LastChord().Name())
	assert.True(t, src.StartsOnChordBass())
	assert.True(t, src.EndsOnChordTone(), "A is the third of F7")

	stats := src.Stats()
	assert.Equal(t, [4]int{1, 1, 1, 1}, stats.DurationCounts)
	assert.Equal(t, 36, stats.LowestPitch)
	assert.Equal(t, 45, stats.HighestPitch)
	assert.InDelta(t, 39.75, stats.AveragePitch, 1e-9)
	assert.InDelta(t, 2.5714, stats.StartSlope, 1e-3)
	assert.Greater(t, stats.EndSlope, 0.0)
	assert.Equal(t, stats, src.Stats())
}

func TestSourceEndsOnChordTone(t *testing.T) {
	src := newSource(t, "s", 0, wbp.StyleWalking, bars(t, "C"), quarters(0, 38, 40, 43, 44)...)
	assert.False(t, src.StartsOnChordBass())
	assert.False(t, src.EndsOnChordTone(), "Ab is not in C major")

	slash := newSource(t, "s", 0, wbp.StyleWalking, bars(t, "C/Bb"), quarters(0, 46, 43, 40, 46)...)
	assert.True(t, slash.StartsOnChordBass())
	assert.True(t, slash.EndsOnChordTone(), "the bass note counts")
}
