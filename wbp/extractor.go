package wbp

import (
	"math"

	"github.com/RyanBlaney/sonido-wbp/algorithms/common"
	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/wbp/config"
)

// Heuristics used to repair an extracted phrase
const (
	// a phrase whose average pitch is above this is considered one octave too high
	highAveragePitch = 55
	// shortest duration kept for the last note once cut at the window end
	minLastNoteDuration float32 = 0.05
)

// Extractor cuts a Session into every valid 1 to 4 bar phrase
type Extractor struct {
	config *config.ExtractionConfig
	logger logging.Logger
}

// NewExtractor creates an extractor, nil config means default config
func NewExtractor(cfg *config.ExtractionConfig) *Extractor {
	if cfg == nil {
		cfg = config.DefaultExtractionConfig()
	}
	return &Extractor{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "wbp_extractor",
		}),
	}
}

// Extract returns the phrases of session for all window sizes of the config.
// Windows which would cut a note in the middle are skipped, as are empty ones.
// disallowNonRootStartNote rejects phrases whose first note is not the bass of
// the first chord, disallowNonChordToneLastNote rejects phrases whose last note
// is neither a chord tone nor the bass of the last chord.
func (e *Extractor) Extract(session *Session, disallowNonRootStartNote, disallowNonChordToneLastNote bool) []*Source {
	logger := e.logger.WithFields(logging.Fields{
		"function": "Extract",
		"session":  session.ID(),
	})

	barCount := session.BarCount()
	crossing := crossingBars(session)
	minSize := max(1, e.config.MinBarSize)
	maxSize := min(MaxBarCount, e.config.MaxBarSize)

	var res []*Source
	for size := minSize; size <= maxSize; size++ {
		for bar := 0; bar+size <= barCount; bar++ {
			if crossing[bar] || crossing[bar+size] {
				continue
			}

			src, reason := e.extractWindow(session, bar, size, disallowNonRootStartNote, disallowNonChordToneLastNote)
			if src == nil {
				logger.Debug("Window rejected", logging.Fields{
					"bar":    bar,
					"size":   size,
					"reason": reason,
				})
				continue
			}
			res = append(res, src)
		}
	}

	logger.Debug("Session extracted", logging.Fields{
		"bars":    barCount,
		"sources": len(res),
	})

	return res
}

// crossingBars returns the bars whose start is crossed by a note, using
// music.NonQuantizedWindow as tolerance on both sides of the boundary
func crossingBars(session *Session) map[int]bool {
	bpb := session.Chords().TimeSignature().BeatsPerBar()
	w := music.NonQuantizedWindow
	res := make(map[int]bool)

	for _, n := range session.Phrase().Notes() {
		firstBar := int(math.Floor(float64((n.Position + w) / bpb)))
		for bar := max(1, firstBar+1); bar < session.BarCount(); bar++ {
			boundary := float32(bar) * bpb
			if n.End() <= boundary+w {
				break
			}
			if n.Position < boundary-w {
				res[bar] = true
			}
		}
	}
	return res
}

func (e *Extractor) extractWindow(session *Session, bar, size int, disallowNonRootStartNote, disallowNonChordToneLastNote bool) (*Source, string) {
	w := music.NonQuantizedWindow
	bpb := session.Chords().TimeSignature().BeatsPerBar()
	start := float32(bar) * bpb
	end := start + float32(size)*bpb
	length := end - start

	phrase := session.Phrase().Slice(start-w, end-w, true).Shifted(-start)
	phrase = removeGhostNotes(phrase)
	if phrase.IsEmpty() {
		return nil, "no notes"
	}

	phrase, shift := alignFirstNote(phrase)
	phrase = fixLastNoteDuration(phrase, length)

	octave := 0
	if isAbnormallyHigh(phrase) {
		octave = -12
		phrase = phrase.Transposed(octave)
	}
	phrase = normalizeVelocities(phrase, e.config.VelocityTarget, e.config.VelocitySigma)

	chords, err := session.Chords().Subsequence(bar, size)
	if err != nil {
		return nil, err.Error()
	}
	chords = chords.WithStartBar(0)

	var target *music.Note
	if !session.HasTag(TagNoTargetNote) {
		next, ok := session.TargetNote()
		if bar+size < session.BarCount() {
			next, ok = session.Phrase().Slice(end-w, end+bpb-w, false).First()
		}
		if ok {
			t := next.Transposed(octave).MovedTo(next.Position - start)
			target = &t
		}
	}

	firstChord, _ := chords.First()
	lastChord, _ := chords.Last()
	firstNote, _ := phrase.First()
	lastNote, _ := phrase.Last()
	if disallowNonRootStartNote && firstNote.RelativePitch() != firstChord.Symbol.Bass {
		return nil, "first note is not the chord bass"
	}
	if disallowNonChordToneLastNote && !isChordToneOrBass(lastChord.Symbol, lastNote.RelativePitch()) {
		return nil, "last note is not a chord tone"
	}

	chords = simplifyChords(chords, phrase)

	src, err := NewSource(SourceParams{
		SessionID:          session.ID(),
		SessionBarOffset:   bar,
		Style:              session.Style(),
		Chords:             chords,
		Phrase:             phrase,
		FirstNoteBeatShift: shift,
		TargetNote:         target,
		Tags:               session.Tags(),
	})
	if err != nil {
		return nil, err.Error()
	}
	return src, ""
}

// removeGhostNotes drops the short leftovers of notes cut at the window start
func removeGhostNotes(phrase *music.Phrase) *music.Phrase {
	w := music.NonQuantizedWindow
	return phrase.Filter(func(n music.Note) bool {
		return !(n.Position < 0 && n.End() <= w)
	})
}

// alignFirstNote moves notes played slightly ahead of the window start to
// position 0 and returns the beat shift of the first one, in [-window, 0]
func alignFirstNote(phrase *music.Phrase) (*music.Phrase, float32) {
	first, _ := phrase.First()
	if first.Position >= 0 {
		return phrase, 0
	}
	shift := max(first.Position, -music.NonQuantizedWindow)
	return phrase.Map(func(n music.Note) music.Note {
		if n.Position < 0 {
			return n.MovedTo(0)
		}
		return n
	}), shift
}

// fixLastNoteDuration makes sure the last note ends within the window
func fixLastNoteDuration(phrase *music.Phrase, length float32) *music.Phrase {
	last, _ := phrase.Last()
	if last.End() <= length {
		return phrase
	}
	notes := phrase.Notes()
	notes[len(notes)-1] = last.WithDuration(max(length-last.Position, minLastNoteDuration))
	return music.NewPhrase(notes...)
}

// isAbnormallyHigh reports whether the phrase sounds one octave too high and can
// be moved down without leaving the bass range
func isAbnormallyHigh(phrase *music.Phrase) bool {
	pitches := phrase.Pitches()
	lo, _ := common.MinMax(pitches)
	return common.Mean(pitches) > highAveragePitch && int(lo)-12 >= GoodPitchRange.Min
}

// normalizeVelocities pulls the mean velocity toward target, the further away
// the stronger the pull
func normalizeVelocities(phrase *music.Phrase, target, sigma float64) *music.Phrase {
	if target <= 0 {
		return phrase
	}
	mean := common.Mean(phrase.Velocities())
	delta := int(math.Round((target - mean) * common.GaussianPull(mean, target, sigma)))
	if delta == 0 {
		return phrase
	}
	return phrase.Map(func(n music.Note) music.Note {
		return n.WithVelocity(int(common.Clamp(float64(n.Velocity+delta), 1, 127)))
	})
}

// simplifyChords replaces each chord type by its least specific parent which
// is still consistent with the notes played over it, then merges repeated chords
func simplifyChords(chords *music.ChordSequence, phrase *music.Phrase) *music.ChordSequence {
	return chords.MapSymbols(func(i int, c music.ChordSymbol) music.ChordSymbol {
		from, to := chords.SlotRange(i)
		notes := phrase.Slice(from, to, false).Notes()

		ct := c.Type
		for ct.Parent != nil && !usesDegreesOutside(notes, c.Root, ct, ct.Parent) {
			ct = ct.Parent
		}
		return c.WithType(ct)
	}).WithoutRepeats()
}

// usesDegreesOutside reports whether a note plays a degree of ct missing from parent
func usesDegreesOutside(notes []music.Note, root int, ct, parent *music.ChordType) bool {
	for _, n := range notes {
		interval := music.AscendingInterval(root, n.RelativePitch())
		if ct.IsChordTone(interval) && !parent.IsChordTone(interval) {
			return true
		}
	}
	return false
}
