package wbp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/wbp"
)

func TestArePhrasesEquivalent(t *testing.T) {
	ref := music.NewPhrase(quarters(0, 36, 40, 43, 46)...)

	tests := []struct {
		name          string
		other         *music.Phrase
		checkDuration bool
		want          bool
	}{
		{"same", ref, true, true},
		{"transposed", ref.Transposed(7), true, true},
		{"shifted", ref.Shifted(1), false, true},
		{"onset within window", music.NewPhrase(music.NewNote(36, 0.9, 80, 0), music.NewNote(40, 0.9, 80, 1.1), music.NewNote(43, 0.9, 80, 2), music.NewNote(46, 0.9, 80, 3)), false, true},
		{"onset too far", music.NewPhrase(music.NewNote(36, 0.9, 80, 0), music.NewNote(40, 0.9, 80, 1.5), music.NewNote(43, 0.9, 80, 2), music.NewNote(46, 0.9, 80, 3)), false, false},
		{"other interval", music.NewPhrase(quarters(0, 36, 40, 43, 45)...), false, false},
		{"other count", music.NewPhrase(quarters(0, 36, 40, 43)...), false, false},
		{"duration ignored", ref.Map(func(n music.Note) music.Note { return n.WithDuration(0.5) }), false, true},
		{"duration checked", ref.Map(func(n music.Note) music.Note { return n.WithDuration(0.5) }), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wbp.ArePhrasesEquivalent(ref, tt.other, tt.checkDuration))
			assert.Equal(t, tt.want, wbp.ArePhrasesEquivalent(tt.other, ref, tt.checkDuration), "symmetric")
		})
	}

	assert.True(t, wbp.ArePhrasesEquivalent(music.NewPhrase(), music.NewPhrase(), true))
}

func TestHarmonicCompatibility(t *testing.T) {
	dominant := newSource(t, "s", 0, wbp.StyleWalking, bars(t, "C7"), quarters(0, 36, 40, 43, 46)...)
	triad := newSource(t, "s", 1, wbp.StyleWalking, bars(t, "C"), quarters(0, 36, 40, 43, 45)...)

	tests := []struct {
		name   string
		src    *wbp.Source
		target *music.ChordSequence
		want   int
	}{
		{"same chord", dominant, bars(t, "C7"), wbp.CompatibilityFull},
		{"transposed chord", dominant, bars(t, "F7"), wbp.CompatibilityFull},
		{"seventh clash", dominant, bars(t, "Fmaj7"), wbp.CompatibilityNone},
		{"seventh missing in target", dominant, bars(t, "F"), wbp.CompatibilityNone},
		{"third clash", dominant, bars(t, "Fm7"), wbp.CompatibilityNone},
		{"triad over seventh chord", triad, bars(t, "Eb7"), wbp.CompatibilityPartial},
		{"triad over sixth chord", triad, bars(t, "G6"), wbp.CompatibilityPartial},
		{"triad over minor", triad, bars(t, "Am"), wbp.CompatibilityNone},
		{"profile mismatch", dominant, bars(t, "C7", "F7"), wbp.CompatibilityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wbp.HarmonicCompatibility(tt.src, tt.target))
		})
	}
}

func TestHarmonicCompatibilityTwoChords(t *testing.T) {
	src := newSource(t, "s", 0, wbp.StyleWalking, sequence(t, 1, at(0, 0, "Dm7"), at(0, 2, "G7")), quarters(0, 38, 41, 43, 47)...)

	assert.Equal(t, wbp.CompatibilityFull, wbp.HarmonicCompatibility(src, sequence(t, 1, at(0, 0, "Am7"), at(0, 2, "D7"))))
	assert.Equal(t, wbp.CompatibilityNone, wbp.HarmonicCompatibility(src, sequence(t, 1, at(0, 0, "Am7"), at(0, 2, "Dm7"))))
	assert.Equal(t, wbp.CompatibilityNone, wbp.HarmonicCompatibility(src, sequence(t, 1, at(0, 0, "Am7"), at(0, 3, "D7"))))
}
