package music_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-wbp/music"
)

func TestParseChordSymbol(t *testing.T) {
	tests := []struct {
		in   string
		root int
		bass int
		typ  *music.ChordType
		name string
	}{
		{"C", 0, 0, music.Major, "C"},
		{"Cm7", 0, 0, music.Minor7, "Cm7"},
		{"Ebmaj7", 3, 3, music.Major7, "Ebmaj7"},
		{"F#7b9", 6, 6, music.Seventh9b, "Gb7b9"},
		{"Bbmaj7/D", 10, 2, music.Major7, "Bbmaj7/D"},
		{"Bø", 11, 11, music.HalfDim7, "Bm7b5"},
		{"G-7", 7, 7, music.Minor7, "Gm7"},
		{" A7sus4 ", 9, 9, music.Sus47, "A7sus"},
		{"Cbmaj7", 11, 11, music.Major7, "Bmaj7"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cs, err := music.ParseChordSymbol(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.root, cs.Root)
			assert.Equal(t, tt.bass, cs.Bass)
			assert.Same(t, tt.typ, cs.Type)
			assert.Equal(t, tt.name, cs.Name())
		})
	}
}

func TestParseChordSymbolErrors(t *testing.T) {
	for _, in := range []string{"", "H7", "Cxyz", "C7/", "C7/Q", "C7/Gm"} {
		_, err := music.ParseChordSymbol(in)
		assert.Error(t, err, in)
	}

	assert.Panics(t, func() { music.MustParseChordSymbol("nope") })
}

func TestChordTypeDegrees(t *testing.T) {
	assert.True(t, music.Dominant7.IsChordTone(10))
	assert.True(t, music.Dominant7.IsChordTone(-2), "intervals are taken modulo 12")
	assert.False(t, music.Dominant7.IsChordTone(11))

	assert.Equal(t, []int{2}, music.Dominant9.Extensions())
	assert.Equal(t, []int{2, 9}, music.Dominant13.Extensions())
	assert.Empty(t, music.Minor7.Extensions())

	assert.Equal(t, music.NoDegree, music.Major.Seventh())
	assert.Equal(t, 9, music.Dim7.Seventh())
}

func TestChordTypeParents(t *testing.T) {
	// every parent chain ends on a base triad whose degrees are included in the child
	for _, ct := range music.AllChordTypes() {
		for p := ct.Parent; p != nil; p = p.Parent {
			for _, d := range p.Degrees {
				assert.True(t, ct.IsChordTone(d), "%s parent %s degree %d", ct, p, d)
			}
		}
	}

	assert.True(t, music.Major.IsBase())
	assert.Same(t, music.Dominant7, music.Dominant13.Parent.Parent)
}

func TestChordSymbol(t *testing.T) {
	c7 := music.MustParseChordSymbol("C7")

	assert.True(t, c7.IsChordTone(4))
	assert.True(t, c7.IsChordTone(10))
	assert.False(t, c7.IsChordTone(2))

	f7 := c7.Transposed(5)
	assert.Equal(t, "F7", f7.Name())
	assert.True(t, f7.Equal(music.MustParseChordSymbol("F7")))
	assert.Equal(t, "B7", c7.Transposed(-1).Name())

	assert.Equal(t, "C", c7.WithType(music.Major).Name())
	assert.False(t, c7.Equal(music.MustParseChordSymbol("C7/E")))
}
