package music

import (
	"slices"
	"strings"
)

// Phrase is an immutable list of notes ordered by position then pitch.
// All transformations return a new Phrase.
type Phrase struct {
	notes []Note
}

// NewPhrase creates a phrase from notes in any order
func NewPhrase(notes ...Note) *Phrase {
	sorted := slices.Clone(notes)
	sortNotes(sorted)
	return &Phrase{notes: sorted}
}

func sortNotes(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		default:
			return a.Pitch - b.Pitch
		}
	})
}

// Notes returns a copy of the notes
func (p *Phrase) Notes() []Note {
	return slices.Clone(p.notes)
}

func (p *Phrase) Len() int {
	return len(p.notes)
}

func (p *Phrase) IsEmpty() bool {
	return len(p.notes) == 0
}

// At returns the i-th note
func (p *Phrase) At(i int) Note {
	return p.notes[i]
}

// First returns the first note, false if phrase is empty
func (p *Phrase) First() (Note, bool) {
	if len(p.notes) == 0 {
		return Note{}, false
	}
	return p.notes[0], true
}

// Last returns the last note, false if phrase is empty
func (p *Phrase) Last() (Note, bool) {
	if len(p.notes) == 0 {
		return Note{}, false
	}
	return p.notes[len(p.notes)-1], true
}

// Slice returns the notes starting in [from, to). If cutLeft is true, notes
// which start before from and are still sounding at from are kept, truncated
// so that they start at from.
func (p *Phrase) Slice(from, to float32, cutLeft bool) *Phrase {
	res := make([]Note, 0, len(p.notes))
	for _, n := range p.notes {
		switch {
		case n.Position >= from && n.Position < to:
			res = append(res, n)
		case cutLeft && n.Position < from && n.End() > from:
			res = append(res, n.MovedTo(from).WithDuration(n.End()-from))
		}
	}
	sortNotes(res)
	return &Phrase{notes: res}
}

// Shifted returns a copy with all positions moved by delta beats
func (p *Phrase) Shifted(delta float32) *Phrase {
	return p.Map(func(n Note) Note {
		return n.MovedTo(n.Position + delta)
	})
}

// Transposed returns a copy with all pitches moved by semitones
func (p *Phrase) Transposed(semitones int) *Phrase {
	if semitones == 0 {
		return p
	}
	return p.Map(func(n Note) Note {
		return n.Transposed(semitones)
	})
}

// Map returns a new phrase made of f applied to each note
func (p *Phrase) Map(f func(Note) Note) *Phrase {
	res := make([]Note, len(p.notes))
	for i, n := range p.notes {
		res[i] = f(n)
	}
	sortNotes(res)
	return &Phrase{notes: res}
}

// Filter returns a new phrase with the notes for which keep returns true
func (p *Phrase) Filter(keep func(Note) bool) *Phrase {
	res := make([]Note, 0, len(p.notes))
	for _, n := range p.notes {
		if keep(n) {
			res = append(res, n)
		}
	}
	return &Phrase{notes: res}
}

// Pitches returns the pitches as float64 values, handy for statistics
func (p *Phrase) Pitches() []float64 {
	res := make([]float64, len(p.notes))
	for i, n := range p.notes {
		res[i] = float64(n.Pitch)
	}
	return res
}

// Velocities returns the velocities as float64 values
func (p *Phrase) Velocities() []float64 {
	res := make([]float64, len(p.notes))
	for i, n := range p.notes {
		res[i] = float64(n.Velocity)
	}
	return res
}

func (p *Phrase) String() string {
	parts := make([]string, len(p.notes))
	for i, n := range p.notes {
		parts[i] = n.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
