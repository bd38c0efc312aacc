package wbp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/wbp"
)

func at(bar int, beat float32, name string) music.ChordSlot {
	return music.ChordSlot{
		Position: music.Position{Bar: bar, Beat: beat},
		Symbol:   music.MustParseChordSymbol(name),
	}
}

// bars builds a chord sequence with one chord per bar
func bars(t *testing.T, names ...string) *music.ChordSequence {
	t.Helper()
	slots := make([]music.ChordSlot, len(names))
	for i, n := range names {
		slots[i] = at(i, 0, n)
	}
	seq, err := music.NewChordSequence(0, len(names), music.FourFour, slots...)
	require.NoError(t, err)
	return seq
}

func sequence(t *testing.T, barCount int, slots ...music.ChordSlot) *music.ChordSequence {
	t.Helper()
	seq, err := music.NewChordSequence(0, barCount, music.FourFour, slots...)
	require.NoError(t, err)
	return seq
}

// quarters returns one 0.9 beat note per beat from start
func quarters(start float32, pitches ...int) []music.Note {
	notes := make([]music.Note, len(pitches))
	for i, p := range pitches {
		notes[i] = music.NewNote(p, 0.9, 80, start+float32(i))
	}
	return notes
}

func newSource(t *testing.T, sessionID string, offset int, style wbp.BassStyle, chords *music.ChordSequence, notes ...music.Note) *wbp.Source {
	t.Helper()
	src, err := wbp.NewSource(wbp.SourceParams{
		SessionID:        sessionID,
		SessionBarOffset: offset,
		Style:            style,
		Chords:           chords,
		Phrase:           music.NewPhrase(notes...),
	})
	require.NoError(t, err)
	return src
}

func newSession(t *testing.T, id string, tags []string, chords *music.ChordSequence, target *music.Note, notes ...music.Note) *wbp.Session {
	t.Helper()
	s, err := wbp.NewSession(id, tags, wbp.BassStyleFromTags(tags), chords, music.NewPhrase(notes...), target)
	require.NoError(t, err)
	return s
}

func ids(sources []*wbp.Source) []string {
	res := make([]string, len(sources))
	for i, s := range sources {
		res[i] = s.ID()
	}
	return res
}
