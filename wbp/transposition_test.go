package wbp_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/wbp"
)

func phrase(pitches ...int) *music.Phrase {
	return music.NewPhrase(quarters(0, pitches...)...)
}

func TestScoreTransposition(t *testing.T) {
	tests := []struct {
		name   string
		phrase *music.Phrase
		src    int
		dest   int
		want   wbp.Transposition
	}{
		{"identity", phrase(36, 40, 43, 45), 0, 12, wbp.Transposition{Score: 100, Semitones: 0}},
		{"up stays in range", phrase(36, 40, 43, 45), 0, 2, wbp.Transposition{Score: 95, Semitones: 2}},
		{"down avoids outside notes", phrase(48, 52, 55, 57), 0, 10, wbp.Transposition{Score: 70, Semitones: -2}},
		{"tie goes up", phrase(40), 0, 6, wbp.Transposition{Score: 89, Semitones: 6}},
		{"outside note caps score", phrase(36, 38, 40, 41, 43, 70), 0, 1, wbp.Transposition{Score: wbp.OutsideScoreCap, Semitones: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wbp.ScoreTransposition(tt.phrase, tt.src, tt.dest))
		})
	}
}

func TestScoreTranspositionBounds(t *testing.T) {
	phrases := []*music.Phrase{
		phrase(28, 31, 33, 35),
		phrase(36, 40, 43, 46, 48, 52, 55, 58),
		phrase(60, 64, 67, 70),
		phrase(20, 90),
	}
	for _, p := range phrases {
		for dest := range 12 {
			tr := wbp.ScoreTransposition(p, 0, dest)
			assert.GreaterOrEqual(t, tr.Score, 0)
			assert.LessOrEqual(t, tr.Score, 100)
			assert.Greater(t, tr.Semitones, -12)
			assert.Less(t, tr.Semitones, 12)
			assert.Equal(t, dest, music.PitchClass(tr.Semitones), "transposition lands on dest root")

			if n := p.Transposed(tr.Semitones).Notes(); dest != 0 && !allInRange(n, wbp.ExtendedPitchRange) {
				assert.LessOrEqual(t, tr.Score, wbp.OutsideScoreCap)
			}
		}
	}
}

func allInRange(notes []music.Note, r wbp.PitchRange) bool {
	for _, n := range notes {
		if !r.Contains(n.Pitch) {
			return false
		}
	}
	return true
}

func TestSourceTranspositionCache(t *testing.T) {
	src := newSource(t, "s", 0, wbp.StyleWalking, bars(t, "C7"), quarters(0, 36, 40, 43, 46)...)

	first := src.TranspositionFor(music.NewNote(50, 1, 80, 0))
	assert.Equal(t, wbp.ScoreTransposition(src.Phrase(), 0, 2), first)
	assert.Equal(t, first, src.TranspositionFor(music.NewNote(38, 1, 80, 0)), "cached per pitch class")
	assert.Equal(t, first.Score, src.TransposabilityScore(music.NewNote(62, 1, 80, 0)))
	assert.Equal(t, first.Semitones, src.RequiredTransposition(music.NewNote(26, 1, 80, 0)))

	assert.Equal(t, wbp.Transposition{Score: 100}, src.TranspositionFor(music.NewNote(48, 1, 80, 0)))

	var wg sync.WaitGroup
	results := make([]wbp.Transposition, 12)
	for pc := range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[pc] = src.TranspositionFor(music.NewNote(36+pc, 1, 80, 0))
		}()
	}
	wg.Wait()
	for pc := range 12 {
		assert.Equal(t, wbp.ScoreTransposition(src.Phrase(), 0, pc), results[pc])
	}
}

func TestSourceTranspositionInvalidRoot(t *testing.T) {
	rec := logging.NewRecordingLogger()
	prev := logging.GetGlobalLogger()
	logging.SetGlobalLogger(rec)
	defer logging.SetGlobalLogger(prev)

	src := newSource(t, "s", 0, wbp.StyleWalking, bars(t, "C7"), quarters(0, 36, 40, 43, 46)...)

	assert.Equal(t, wbp.Transposition{}, src.TranspositionFor(music.NewNote(-3, 1, 80, 0)))
	assert.Zero(t, src.TransposabilityScore(music.NewNote(200, 1, 80, 0)))
	assert.Zero(t, src.RequiredTransposition(music.NewNote(200, 1, 80, 0)))

	warns := rec.EntriesAt(logging.WarnLevel)
	require.NotEmpty(t, warns)
	assert.Equal(t, "wbp_source", warns[0].Fields["component"])
	assert.Empty(t, rec.EntriesAt(logging.ErrorLevel))
}
