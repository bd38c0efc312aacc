package wbp

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-wbp/music"
)

// MaxBarCount is the largest phrase size in bars
const MaxBarCount = 4

// RootProfile is the harmonic shape of a chord sequence: the chord onsets in
// beats and the ascending intervals between successive chord roots. It ignores
// the absolute root pitch and the chord types, so two sequences with the same
// profile can be played with the same transposed phrase.
type RootProfile struct {
	barCount           int
	onsetBeats         []float32
	ascendingIntervals []uint8
	key                string
}

// RootProfileOf computes the root profile of a 1 to 4 bar chord sequence
func RootProfileOf(seq *music.ChordSequence) (RootProfile, error) {
	if seq == nil || seq.IsEmpty() {
		return RootProfile{}, fmt.Errorf("%w: empty chord sequence", ErrInvalidInput)
	}
	if seq.BarCount() > MaxBarCount {
		return RootProfile{}, fmt.Errorf("%w: chord sequence spans %d bars, max is %d", ErrInvalidInput, seq.BarCount(), MaxBarCount)
	}

	slots := seq.Slots()
	onsets := make([]float32, len(slots))
	intervals := make([]uint8, 0, len(slots)-1)
	for i, s := range slots {
		onsets[i] = seq.PositionInBeats(s.Position)
		if i > 0 {
			intervals = append(intervals, uint8(music.AscendingInterval(slots[i-1].Symbol.Root, s.Symbol.Root)))
		}
	}

	return newRootProfile(seq.BarCount(), onsets, intervals), nil
}

func newRootProfile(barCount int, onsets []float32, intervals []uint8) RootProfile {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(barCount))
	sb.WriteByte('|')
	for i, o := range onsets {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(o), 'g', -1, 32))
	}
	sb.WriteByte('|')
	for i, iv := range intervals {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(iv)))
	}
	return RootProfile{barCount: barCount, onsetBeats: onsets, ascendingIntervals: intervals, key: sb.String()}
}

// BarCount returns the size in bars of the profiled sequence
func (p RootProfile) BarCount() int { return p.barCount }

// OnsetBeats returns the chord onsets in beats, relative to the sequence start
func (p RootProfile) OnsetBeats() []float32 { return slices.Clone(p.onsetBeats) }

// AscendingIntervals returns the root intervals between successive chords (0..11)
func (p RootProfile) AscendingIntervals() []uint8 { return slices.Clone(p.ascendingIntervals) }

// IsZero reports whether p is the zero value
func (p RootProfile) IsZero() bool { return p.key == "" }

// Equal compares bar count, onsets and intervals. Onsets come from quantized
// chord positions, exact float comparison is fine.
func (p RootProfile) Equal(o RootProfile) bool {
	return p.key == o.key
}

// Key returns a string usable as map key, equal keys iff equal profiles
func (p RootProfile) Key() string { return p.key }

func (p RootProfile) String() string {
	return "RootProfile(" + p.key + ")"
}
