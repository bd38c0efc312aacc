package music

import (
	"fmt"
	"strings"
)

// NonQuantizedWindow is the timing tolerance in beats applied to recorded
// (non-quantized) notes when comparing positions against beat or bar boundaries.
const NonQuantizedWindow float32 = 0.15

// Pitch limits of a MIDI note
const (
	MinPitch = 0
	MaxPitch = 127
)

var pitchClassNames = []string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Note is a timed note event. Position is expressed in beats.
type Note struct {
	Pitch    int     `json:"pitch" yaml:"pitch"`
	Duration float32 `json:"duration" yaml:"duration"`
	Velocity int     `json:"velocity" yaml:"velocity"`
	Position float32 `json:"position" yaml:"position"`
}

// NewNote creates a note event
func NewNote(pitch int, duration float32, velocity int, position float32) Note {
	return Note{Pitch: pitch, Duration: duration, Velocity: velocity, Position: position}
}

// RelativePitch returns the pitch class of the note (0=C, 1=Db, ..., 11=B)
func (n Note) RelativePitch() int {
	return PitchClass(n.Pitch)
}

// End returns the position in beats where the note stops sounding
func (n Note) End() float32 {
	return n.Position + n.Duration
}

// IsValid reports whether the pitch is a valid MIDI pitch
func (n Note) IsValid() bool {
	return n.Pitch >= MinPitch && n.Pitch <= MaxPitch
}

// Transposed returns a copy of the note shifted by semitones
func (n Note) Transposed(semitones int) Note {
	n.Pitch += semitones
	return n
}

// MovedTo returns a copy of the note at another position
func (n Note) MovedTo(position float32) Note {
	n.Position = position
	return n
}

// WithDuration returns a copy of the note with another duration
func (n Note) WithDuration(duration float32) Note {
	n.Duration = duration
	return n
}

// WithVelocity returns a copy of the note with another velocity
func (n Note) WithVelocity(velocity int) Note {
	n.Velocity = velocity
	return n
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d[%.2f,%.2f,v%d]", PitchClassName(n.Pitch), n.Pitch/12-1, n.Position, n.Duration, n.Velocity)
}

// PitchClass normalizes any pitch, including negative ones, into 0..11
func PitchClass(pitch int) int {
	return ((pitch % 12) + 12) % 12
}

// AscendingInterval returns the smallest non-negative ascending semitone
// distance from pitch class from to pitch class to (0..11)
func AscendingInterval(from, to int) int {
	return PitchClass(to - from)
}

// PitchClassName returns the name of the pitch class of pitch, using flats
func PitchClassName(pitch int) string {
	return pitchClassNames[PitchClass(pitch)]
}

// ParsePitchClass parses a leading note name ("C", "F#", "Bb") and returns the
// pitch class plus the unparsed remainder of the string.
func ParsePitchClass(s string) (int, string, error) {
	if s == "" {
		return 0, "", fmt.Errorf("empty note name")
	}

	var pc int
	switch strings.ToUpper(s[:1]) {
	case "C":
		pc = 0
	case "D":
		pc = 2
	case "E":
		pc = 4
	case "F":
		pc = 5
	case "G":
		pc = 7
	case "A":
		pc = 9
	case "B":
		pc = 11
	default:
		return 0, "", fmt.Errorf("invalid note name: %q", s)
	}

	rest := s[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case '#':
			pc++
		case 'b':
			pc--
		default:
			return PitchClass(pc), rest, nil
		}
		rest = rest[1:]
	}

	return PitchClass(pc), rest, nil
}
