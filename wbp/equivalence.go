package wbp

import (
	"github.com/RyanBlaney/sonido-wbp/music"
)

// ArePhrasesEquivalent reports whether two phrases are musically redundant:
// same note count and, note by note, same pitch interval from the first note
// and same onset offset from the first note (within music.NonQuantizedWindow).
// Durations are compared with the same tolerance when checkDuration is true.
func ArePhrasesEquivalent(a, b *music.Phrase, checkDuration bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.IsEmpty() {
		return true
	}

	a0, b0 := a.At(0), b.At(0)
	for i := range a.Len() {
		na, nb := a.At(i), b.At(i)
		if na.Pitch-a0.Pitch != nb.Pitch-b0.Pitch {
			return false
		}
		if !withinWindow(na.Position-a0.Position, nb.Position-b0.Position) {
			return false
		}
		if checkDuration && !withinWindow(na.Duration, nb.Duration) {
			return false
		}
	}
	return true
}

func withinWindow(x, y float32) bool {
	d := x - y
	return d <= music.NonQuantizedWindow && d >= -music.NonQuantizedWindow
}

// Harmonic compatibility scores
const (
	CompatibilityNone    = 0
	CompatibilityPartial = 50
	CompatibilityFull    = 100
)

// HarmonicCompatibility scores how well src can be played over target once
// transposed to target's first chord root, in [0, 100]. 0 means the adapted
// phrase would clash with target. target must have the same RootProfile as src.
func HarmonicCompatibility(src *Source, target *music.ChordSequence) int {
	profile, err := RootProfileOf(target)
	if err != nil || !profile.Equal(src.RootProfile()) {
		return CompatibilityNone
	}

	targetFirst, _ := target.First()
	transpose := music.AscendingInterval(src.FirstChord().Root, targetFirst.Symbol.Root)
	srcChords := src.Chords().Transposed(transpose)

	score := CompatibilityFull
	for i := range srcChords.Len() {
		sc := srcChords.Slot(i).Symbol
		tc := target.Slot(i).Symbol
		score = min(score, chordTypeCompatibility(sc.Type, tc.Type))
		if score == CompatibilityNone {
			return score
		}
	}

	// Trial adaptation: notes which are chord tones of the source chord must
	// remain chord tones of the target chord
	phrase := src.Phrase().Transposed(transpose)
	for _, n := range phrase.Notes() {
		idx := srcChords.ActiveSlotIndex(n.Position)
		if idx < 0 {
			continue
		}
		sc := srcChords.Slot(idx).Symbol
		tc := target.Slot(idx).Symbol
		pc := n.RelativePitch()
		if sc.IsChordTone(pc) && !tc.IsChordTone(pc) && pc != tc.Bass {
			return CompatibilityNone
		}
	}

	return score
}

// chordTypeCompatibility checks that the degrees used by a source chord type
// do not conflict with the target chord type
func chordTypeCompatibility(src, target *music.ChordType) int {
	if src == target {
		return CompatibilityFull
	}
	if src.Third() != target.Third() || src.Fifth() != target.Fifth() {
		return CompatibilityNone
	}
	if src.Seventh() != music.NoDegree && src.Seventh() != target.Seventh() {
		return CompatibilityNone
	}
	for _, ext := range src.Extensions() {
		if !target.IsChordTone(ext) {
			return CompatibilityNone
		}
	}
	return CompatibilityPartial
}
