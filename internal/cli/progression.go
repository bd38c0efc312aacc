package cli

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-wbp/music"
)

// ParseProgression builds a chord sequence starting at bar 0 from one string
// per bar. The chords of a bar are separated by spaces and evenly spread
// over it, e.g. ParseProgression(FourFour, "Dm7 G7", "Cmaj7").
func ParseProgression(ts music.TimeSignature, bars ...string) (*music.ChordSequence, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("empty chord progression")
	}

	bpb := ts.BeatsPerBar()
	var slots []music.ChordSlot
	for bar, text := range bars {
		names := strings.Fields(text)
		if len(names) == 0 {
			return nil, fmt.Errorf("bar %d has no chord", bar+1)
		}
		step := bpb / float32(len(names))
		for i, name := range names {
			cs, err := music.ParseChordSymbol(name)
			if err != nil {
				return nil, fmt.Errorf("bar %d: %w", bar+1, err)
			}
			slots = append(slots, music.ChordSlot{
				Position: music.Position{Bar: bar, Beat: float32(i) * step},
				Symbol:   cs,
			})
		}
	}
	return music.NewChordSequence(0, len(bars), ts, slots...)
}
