package music

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidChordSequence is returned when chord slots do not fit the sequence bar range
var ErrInvalidChordSequence = errors.New("invalid chord sequence")

// ChordSlot is a chord symbol at a position
type ChordSlot struct {
	Position Position
	Symbol   ChordSymbol
}

// ChordSequence is an immutable ordered list of chord slots covering the bar
// range [StartBar, StartBar+BarCount-1]. A non-empty sequence always has a
// slot at the start of its first bar.
type ChordSequence struct {
	startBar int
	barCount int
	ts       TimeSignature
	slots    []ChordSlot
}

// NewChordSequence validates and sorts the slots
func NewChordSequence(startBar, barCount int, ts TimeSignature, slots ...ChordSlot) (*ChordSequence, error) {
	if startBar < 0 || barCount < 1 {
		return nil, fmt.Errorf("%w: bad bar range start=%d size=%d", ErrInvalidChordSequence, startBar, barCount)
	}

	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b ChordSlot) int {
		switch {
		case a.Position.Before(b.Position):
			return -1
		case b.Position.Before(a.Position):
			return 1
		default:
			return 0
		}
	})

	bpb := ts.BeatsPerBar()
	for i, s := range sorted {
		if s.Position.Bar < startBar || s.Position.Bar >= startBar+barCount || s.Position.Beat < 0 || s.Position.Beat >= bpb {
			return nil, fmt.Errorf("%w: slot %s %s out of range", ErrInvalidChordSequence, s.Position, s.Symbol)
		}
		if s.Symbol.Type == nil {
			return nil, fmt.Errorf("%w: slot %s has no chord type", ErrInvalidChordSequence, s.Position)
		}
		if i > 0 && sorted[i-1].Position == s.Position {
			return nil, fmt.Errorf("%w: two chords at %s", ErrInvalidChordSequence, s.Position)
		}
	}

	if len(sorted) > 0 && (sorted[0].Position != Position{Bar: startBar}) {
		return nil, fmt.Errorf("%w: no chord at start of bar %d", ErrInvalidChordSequence, startBar)
	}

	return &ChordSequence{startBar: startBar, barCount: barCount, ts: ts, slots: sorted}, nil
}

// StartBar returns the first bar of the range
func (cs *ChordSequence) StartBar() int { return cs.startBar }

// BarCount returns the number of bars covered
func (cs *ChordSequence) BarCount() int { return cs.barCount }

// TimeSignature returns the time signature of every bar
func (cs *ChordSequence) TimeSignature() TimeSignature { return cs.ts }

// Len returns the number of chord slots
func (cs *ChordSequence) Len() int { return len(cs.slots) }

// IsEmpty reports whether the sequence has no chord
func (cs *ChordSequence) IsEmpty() bool { return len(cs.slots) == 0 }

// Slots returns a copy of the chord slots
func (cs *ChordSequence) Slots() []ChordSlot { return slices.Clone(cs.slots) }

// Slot returns the i-th chord slot
func (cs *ChordSequence) Slot(i int) ChordSlot { return cs.slots[i] }

// First returns the first chord slot
func (cs *ChordSequence) First() (ChordSlot, bool) {
	if len(cs.slots) == 0 {
		return ChordSlot{}, false
	}
	return cs.slots[0], true
}

// Last returns the last chord slot
func (cs *ChordSequence) Last() (ChordSlot, bool) {
	if len(cs.slots) == 0 {
		return ChordSlot{}, false
	}
	return cs.slots[len(cs.slots)-1], true
}

// BeatLength returns the total length in beats
func (cs *ChordSequence) BeatLength() float32 {
	return float32(cs.barCount) * cs.ts.BeatsPerBar()
}

// PositionInBeats converts pos to a beat offset relative to the start of the first bar
func (cs *ChordSequence) PositionInBeats(pos Position) float32 {
	return float32(pos.Bar-cs.startBar)*cs.ts.BeatsPerBar() + pos.Beat
}

// SlotRange returns the beat range [from, to) during which the i-th slot is active
func (cs *ChordSequence) SlotRange(i int) (float32, float32) {
	from := cs.PositionInBeats(cs.slots[i].Position)
	to := cs.BeatLength()
	if i+1 < len(cs.slots) {
		to = cs.PositionInBeats(cs.slots[i+1].Position)
	}
	return from, to
}

// ActiveSlotIndex returns the index of the chord slot active at beat (relative to
// the start of the sequence), -1 if none.
func (cs *ChordSequence) ActiveSlotIndex(beat float32) int {
	res := -1
	for i, s := range cs.slots {
		if cs.PositionInBeats(s.Position) > beat {
			break
		}
		res = i
	}
	return res
}

// Subsequence returns the chord slots within [fromBar, fromBar+size-1]. When no
// chord starts exactly at fromBar, the chord active at that point is copied there.
func (cs *ChordSequence) Subsequence(fromBar, size int) (*ChordSequence, error) {
	if fromBar < cs.startBar || size < 1 || fromBar+size > cs.startBar+cs.barCount {
		return nil, fmt.Errorf("%w: subsequence [%d,+%d] outside [%d,+%d]", ErrInvalidChordSequence, fromBar, size, cs.startBar, cs.barCount)
	}

	var slots []ChordSlot
	var carried *ChordSlot
	for _, s := range cs.slots {
		switch {
		case s.Position.Bar < fromBar:
			c := s
			carried = &c
		case s.Position.Bar < fromBar+size:
			slots = append(slots, s)
		}
	}

	if carried != nil && (len(slots) == 0 || slots[0].Position != Position{Bar: fromBar}) {
		slots = append([]ChordSlot{{Position: Position{Bar: fromBar}, Symbol: carried.Symbol}}, slots...)
	}

	return NewChordSequence(fromBar, size, cs.ts, slots...)
}

// WithStartBar returns the same chords moved so that the sequence starts at bar
func (cs *ChordSequence) WithStartBar(bar int) *ChordSequence {
	delta := bar - cs.startBar
	slots := make([]ChordSlot, len(cs.slots))
	for i, s := range cs.slots {
		slots[i] = ChordSlot{Position: Position{Bar: s.Position.Bar + delta, Beat: s.Position.Beat}, Symbol: s.Symbol}
	}
	return &ChordSequence{startBar: bar, barCount: cs.barCount, ts: cs.ts, slots: slots}
}

// MapSymbols returns a new sequence where each symbol is replaced by f(i, symbol)
func (cs *ChordSequence) MapSymbols(f func(i int, c ChordSymbol) ChordSymbol) *ChordSequence {
	slots := make([]ChordSlot, len(cs.slots))
	for i, s := range cs.slots {
		slots[i] = ChordSlot{Position: s.Position, Symbol: f(i, s.Symbol)}
	}
	return &ChordSequence{startBar: cs.startBar, barCount: cs.barCount, ts: cs.ts, slots: slots}
}

// Transposed returns a copy with every chord moved by semitones
func (cs *ChordSequence) Transposed(semitones int) *ChordSequence {
	return cs.MapSymbols(func(_ int, c ChordSymbol) ChordSymbol {
		return c.Transposed(semitones)
	})
}

// WithoutRepeats removes chord slots identical to the preceding one
func (cs *ChordSequence) WithoutRepeats() *ChordSequence {
	slots := make([]ChordSlot, 0, len(cs.slots))
	for _, s := range cs.slots {
		if len(slots) > 0 && slots[len(slots)-1].Symbol.Equal(s.Symbol) {
			continue
		}
		slots = append(slots, s)
	}
	return &ChordSequence{startBar: cs.startBar, barCount: cs.barCount, ts: cs.ts, slots: slots}
}

func (cs *ChordSequence) String() string {
	parts := make([]string, len(cs.slots))
	for i, s := range cs.slots {
		parts[i] = s.Symbol.Name() + s.Position.String()
	}
	return fmt.Sprintf("<%d+%d> %s", cs.startBar, cs.barCount, strings.Join(parts, " "))
}
