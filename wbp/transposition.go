package wbp

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-wbp/algorithms/common"
	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/music"
)

// PitchRange is an inclusive range of MIDI pitches
type PitchRange struct {
	Min int
	Max int
}

func (r PitchRange) Contains(pitch int) bool {
	return pitch >= r.Min && pitch <= r.Max
}

var (
	// GoodPitchRange is the comfortable double bass range E1-E3
	GoodPitchRange = PitchRange{Min: 28, Max: 52}
	// ExtendedPitchRange is still playable but less idiomatic, E1-E4
	ExtendedPitchRange = PitchRange{Min: 28, Max: 64}
)

const (
	// IdealCentralPitch is the preferred average pitch of a phrase (E2)
	IdealCentralPitch = 40
	// maxCentralDistance caps the average pitch distance taken into account
	maxCentralDistance = 11
	// OutsideScoreCap is the best score when a note falls outside ExtendedPitchRange
	OutsideScoreCap = 49
	// IdentityScore is the score of a phrase used at its original root
	IdentityScore = 100
)

// Transposition is the outcome of scoring a Source for a destination root
type Transposition struct {
	Score     int // 0..100
	Semitones int // transposition to apply to the phrase
}

// pitchBandCounts classifies the notes of a transposed phrase
type pitchBandCounts struct {
	good         int
	extended     int // in ExtendedPitchRange but not in GoodPitchRange
	outside      int
	averagePitch float64
}

func countPitchBands(phrase *music.Phrase, semitones int) pitchBandCounts {
	var c pitchBandCounts
	pitches := phrase.Pitches()
	for i, p := range pitches {
		pitch := int(p) + semitones
		pitches[i] = float64(pitch)
		switch {
		case GoodPitchRange.Contains(pitch):
			c.good++
		case ExtendedPitchRange.Contains(pitch):
			c.extended++
		default:
			c.outside++
		}
	}
	c.averagePitch = common.Mean(pitches)
	return c
}

func (c pitchBandCounts) centralDistance() float64 {
	return math.Abs(c.averagePitch - IdealCentralPitch)
}

// ScoreTransposition computes the best transposition of phrase from srcRoot to
// destRoot (pitch classes) and its 0-100 suitability score.
func ScoreTransposition(phrase *music.Phrase, srcRoot, destRoot int) Transposition {
	if music.PitchClass(srcRoot) == music.PitchClass(destRoot) {
		return Transposition{Score: IdentityScore, Semitones: 0}
	}
	if phrase.IsEmpty() {
		return Transposition{}
	}

	up := music.AscendingInterval(srcRoot, destRoot)
	down := up - 12
	upCounts := countPitchBands(phrase, up)
	downCounts := countPitchBands(phrase, down)

	semitones, best := up, upCounts
	switch {
	case downCounts.outside != upCounts.outside:
		if downCounts.outside < upCounts.outside {
			semitones, best = down, downCounts
		}
	case downCounts.extended != upCounts.extended:
		if downCounts.extended < upCounts.extended {
			semitones, best = down, downCounts
		}
	case downCounts.centralDistance() < upCounts.centralDistance():
		semitones, best = down, downCounts
	}

	return Transposition{Score: blendScore(best), Semitones: semitones}
}

// blendScore weights: 60% good vs outside notes, 20% good vs extended notes,
// 20% closeness of the average pitch to IdealCentralPitch
func blendScore(c pitchBandCounts) int {
	goodOutside := 1.0
	if c.good+c.outside > 0 {
		goodOutside = float64(c.good) / float64(c.good+c.outside)
	}
	goodExtended := 0.0
	if c.good+c.extended > 0 {
		goodExtended = float64(c.good) / float64(c.good+c.extended)
	}
	closeness := 1 - math.Min(c.centralDistance(), maxCentralDistance)/maxCentralDistance

	score := int(math.Round(60*goodOutside + 20*goodExtended + 20*closeness))
	score = int(common.Clamp(float64(score), 0, 100))
	if c.outside > 0 {
		score = min(score, OutsideScoreCap)
	}
	return score
}

// TranspositionFor returns the score and the transposition needed to play the
// phrase on destRoot, computed once per destination pitch class.
// An invalid destRoot pitch gives a zero Transposition.
func (s *Source) TranspositionFor(destRoot music.Note) Transposition {
	if !destRoot.IsValid() {
		s.logger.Warn("Invalid destination root", logging.Fields{
			"pitch": destRoot.Pitch,
		})
		return Transposition{}
	}

	pc := destRoot.RelativePitch()
	if t := s.transpositions[pc].Load(); t != nil {
		return *t
	}

	t := ScoreTransposition(s.phrase, s.FirstChord().Root, pc)
	s.transpositions[pc].Store(&t)
	return t
}

// TransposabilityScore returns the 0-100 score of the phrase transposed to destRoot
func (s *Source) TransposabilityScore(destRoot music.Note) int {
	return s.TranspositionFor(destRoot).Score
}

// RequiredTransposition returns the semitones to apply to the phrase to play it
// on destRoot. The score is computed and cached if needed.
func (s *Source) RequiredTransposition(destRoot music.Note) int {
	if !destRoot.IsValid() {
		return 0
	}

	s.TranspositionFor(destRoot)

	t := s.transpositions[destRoot.RelativePitch()].Load()
	if t == nil {
		s.logger.Error(fmt.Errorf("%w: no cached transposition", ErrInternalConsistency), "Transposition missing after computation", logging.Fields{
			"dest_root": destRoot.RelativePitch(),
		})
		return 0
	}
	return t.Semitones
}
