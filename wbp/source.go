package wbp

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/RyanBlaney/sonido-wbp/algorithms/common"
	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/music"
)

// SourceParams holds the base data of a Source
type SourceParams struct {
	SessionID          string
	SessionBarOffset   int
	Style              BassStyle
	Chords             *music.ChordSequence
	Phrase             *music.Phrase
	FirstNoteBeatShift float32
	TargetNote         *music.Note
	Tags               []string
}

// Source is a short (1 to 4 bars) walking bass phrase over a chord sequence,
// extracted from a Session. Chords and phrase start at bar 0.
//
// A Source is immutable. Derived values are computed lazily and memoized;
// they are pure functions of the base fields, so concurrent first calls at
// worst compute the same value twice.
type Source struct {
	id                 string
	sessionID          string
	sessionBarOffset   int
	style              BassStyle
	chords             *music.ChordSequence
	phrase             *music.Phrase
	firstNoteBeatShift float32
	targetNote         *music.Note
	tags               []string
	profile            RootProfile

	stats           func() PhraseStats
	startsOnBass    func() bool
	endsOnChordTone func() bool
	transpositions  [12]atomic.Pointer[Transposition]
	logger          logging.Logger
}

// SourceID builds the id of the phrase extracted from a session
func SourceID(sessionID string, barOffset, barCount int) string {
	return fmt.Sprintf("%s#from=%d#size=%d", sessionID, barOffset, barCount)
}

// NewSource validates the parameters and creates a Source
func NewSource(p SourceParams) (*Source, error) {
	switch {
	case p.SessionID == "":
		return nil, fmt.Errorf("%w: empty session id", ErrInvalidInput)
	case p.SessionBarOffset < 0:
		return nil, fmt.Errorf("%w: negative session bar offset %d", ErrInvalidInput, p.SessionBarOffset)
	case p.Chords == nil || p.Chords.StartBar() != 0:
		return nil, fmt.Errorf("%w: chord sequence must start at bar 0", ErrInvalidInput)
	case p.Phrase == nil || p.Phrase.IsEmpty():
		return nil, fmt.Errorf("%w: empty phrase", ErrInvalidInput)
	case p.FirstNoteBeatShift > 0 || p.FirstNoteBeatShift < -music.NonQuantizedWindow:
		return nil, fmt.Errorf("%w: first note beat shift %g outside [-%g, 0]", ErrInvalidInput, p.FirstNoteBeatShift, music.NonQuantizedWindow)
	}

	profile, err := RootProfileOf(p.Chords)
	if err != nil {
		return nil, err
	}

	first, _ := p.Phrase.First()
	last, _ := p.Phrase.Last()
	if first.Position < 0 || last.Position >= p.Chords.BeatLength() {
		return nil, fmt.Errorf("%w: phrase notes outside [0, %g)", ErrInvalidInput, p.Chords.BeatLength())
	}

	id := SourceID(p.SessionID, p.SessionBarOffset, p.Chords.BarCount())

	var target *music.Note
	if p.TargetNote != nil {
		n := *p.TargetNote
		target = &n
	}

	s := &Source{
		id:                 id,
		sessionID:          p.SessionID,
		sessionBarOffset:   p.SessionBarOffset,
		style:              p.Style,
		chords:             p.Chords,
		phrase:             p.Phrase,
		firstNoteBeatShift: p.FirstNoteBeatShift,
		targetNote:         target,
		tags:               slices.Clone(p.Tags),
		profile:            profile,
		logger: logging.WithFields(logging.Fields{
			"component": "wbp_source",
			"source_id": id,
		}),
	}
	s.stats = sync.OnceValue(s.computeStats)
	s.startsOnBass = sync.OnceValue(s.computeStartsOnBass)
	s.endsOnChordTone = sync.OnceValue(s.computeEndsOnChordTone)

	return s, nil
}

func (s *Source) ID() string                         { return s.id }
func (s *Source) SessionID() string                  { return s.sessionID }
func (s *Source) SessionBarOffset() int              { return s.sessionBarOffset }
func (s *Source) Style() BassStyle                   { return s.style }
func (s *Source) Chords() *music.ChordSequence       { return s.chords }
func (s *Source) Phrase() *music.Phrase              { return s.phrase }
func (s *Source) FirstNoteBeatShift() float32        { return s.firstNoteBeatShift }
func (s *Source) Tags() []string                     { return slices.Clone(s.tags) }
func (s *Source) BarCount() int                      { return s.chords.BarCount() }
func (s *Source) RootProfile() RootProfile           { return s.profile }
func (s *Source) TimeSignature() music.TimeSignature { return s.chords.TimeSignature() }

// TargetNote returns the note played right after the phrase in the session, if any
func (s *Source) TargetNote() (music.Note, bool) {
	if s.targetNote == nil {
		return music.Note{}, false
	}
	return *s.targetNote, true
}

// SameIdentity reports whether both sources have the same id. Sources are
// identified by id only, whatever their content.
func (s *Source) SameIdentity(o *Source) bool {
	return s != nil && o != nil && s.id == o.id
}

func (s *Source) FirstNote() music.Note {
	n, _ := s.phrase.First()
	return n
}

func (s *Source) LastNote() music.Note {
	n, _ := s.phrase.Last()
	return n
}

func (s *Source) FirstChord() music.ChordSymbol {
	c, _ := s.chords.First()
	return c.Symbol
}

func (s *Source) LastChord() music.ChordSymbol {
	c, _ := s.chords.Last()
	return c.Symbol
}

// StartsOnChordBass reports whether the first note is the bass note of the first chord
func (s *Source) StartsOnChordBass() bool {
	return s.startsOnBass()
}

// EndsOnChordTone reports whether the last note is a chord tone (or the bass) of the last chord
func (s *Source) EndsOnChordTone() bool {
	return s.endsOnChordTone()
}

// Stats returns the phrase statistics
func (s *Source) Stats() PhraseStats {
	return s.stats()
}

func (s *Source) computeStartsOnBass() bool {
	return s.FirstNote().RelativePitch() == s.FirstChord().Bass
}

func (s *Source) computeEndsOnChordTone() bool {
	return isChordToneOrBass(s.LastChord(), s.LastNote().RelativePitch())
}

func isChordToneOrBass(c music.ChordSymbol, pc int) bool {
	return c.IsChordTone(pc) || c.Bass == pc
}

func (s *Source) String() string {
	return fmt.Sprintf("Source[%s %s %s]", s.id, s.style, s.chords)
}

// Duration buckets of PhraseStats.DurationCounts
const (
	DurationTriplet = iota // up to a third of a beat
	DurationEighth         // up to half a beat
	DurationQuarter        // up to one beat
	DurationLong           // more than one beat
)

// PhraseStats summarizes the shape of a phrase
type PhraseStats struct {
	// Pitch slope (semitones per beat) over the first/last slopeNotes notes
	StartSlope float64
	EndSlope   float64

	// Note counts per duration bucket
	DurationCounts [4]int

	AveragePitch float64
	LowestPitch  int
	HighestPitch int
}

const slopeNotes = 3

func (s *Source) computeStats() PhraseStats {
	notes := s.phrase.Notes()
	pitches := s.phrase.Pitches()
	lo, hi := common.MinMax(pitches)

	stats := PhraseStats{
		StartSlope:   pitchSlope(notes[:min(slopeNotes, len(notes))]),
		EndSlope:     pitchSlope(notes[max(0, len(notes)-slopeNotes):]),
		AveragePitch: common.Mean(pitches),
		LowestPitch:  int(lo),
		HighestPitch: int(hi),
	}

	for _, n := range notes {
		switch {
		case n.Duration <= 1.0/3+0.01:
			stats.DurationCounts[DurationTriplet]++
		case n.Duration <= 0.5:
			stats.DurationCounts[DurationEighth]++
		case n.Duration <= 1:
			stats.DurationCounts[DurationQuarter]++
		default:
			stats.DurationCounts[DurationLong]++
		}
	}

	return stats
}

func pitchSlope(notes []music.Note) float64 {
	x := make([]float64, len(notes))
	y := make([]float64, len(notes))
	for i, n := range notes {
		x[i] = float64(n.Position)
		y[i] = float64(n.Pitch)
	}
	slope, _, _ := common.LinRegression(x, y)
	return slope
}
