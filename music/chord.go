package music

import (
	"fmt"
	"slices"
	"strings"
)

// NoDegree marks an absent seventh
const NoDegree = -1

// ChordType describes the quality of a chord independently of its root.
// Chord types are shared singletons: compare them with ==.
type ChordType struct {
	Name    string
	Degrees []int // semitone intervals from the root, root included
	Parent  *ChordType

	third   int
	fifth   int
	seventh int
}

// IsChordTone reports whether interval (semitones above root) belongs to the chord
func (ct *ChordType) IsChordTone(interval int) bool {
	return slices.Contains(ct.Degrees, PitchClass(interval))
}

// Third returns the third interval (3 or 4), 5 for sus chords
func (ct *ChordType) Third() int { return ct.third }

// Fifth returns the fifth interval (6, 7 or 8)
func (ct *ChordType) Fifth() int { return ct.fifth }

// Seventh returns the seventh interval (9 for 6/dim7, 10, 11) or NoDegree
func (ct *ChordType) Seventh() int { return ct.seventh }

// Extensions returns the degrees which are not root, third, fifth or seventh
func (ct *ChordType) Extensions() []int {
	var res []int
	for _, d := range ct.Degrees {
		if d != 0 && d != ct.third && d != ct.fifth && d != ct.seventh {
			res = append(res, d)
		}
	}
	return res
}

// IsBase reports whether the chord type has no less specific parent
func (ct *ChordType) IsBase() bool {
	return ct.Parent == nil
}

func (ct *ChordType) String() string {
	if ct.Name == "" {
		return "maj"
	}
	return ct.Name
}

func newChordType(name string, parent *ChordType, third, fifth, seventh int, extensions ...int) *ChordType {
	degrees := []int{0, third, fifth}
	if seventh != NoDegree {
		degrees = append(degrees, seventh)
	}
	degrees = append(degrees, extensions...)
	return &ChordType{
		Name:    name,
		Degrees: degrees,
		Parent:  parent,
		third:   third,
		fifth:   fifth,
		seventh: seventh,
	}
}

var (
	Major      = newChordType("", nil, 4, 7, NoDegree)
	Major6     = newChordType("6", Major, 4, 7, 9)
	Major7     = newChordType("maj7", Major, 4, 7, 11)
	Major9     = newChordType("maj9", Major7, 4, 7, 11, 2)
	Minor      = newChordType("m", nil, 3, 7, NoDegree)
	Minor6     = newChordType("m6", Minor, 3, 7, 9)
	Minor7     = newChordType("m7", Minor, 3, 7, 10)
	Minor9     = newChordType("m9", Minor7, 3, 7, 10, 2)
	MinorMaj7  = newChordType("mM7", Minor, 3, 7, 11)
	Dominant7  = newChordType("7", Major, 4, 7, 10)
	Dominant9  = newChordType("9", Dominant7, 4, 7, 10, 2)
	Dominant13 = newChordType("13", Dominant9, 4, 7, 10, 2, 9)
	Seventh9b  = newChordType("7b9", Dominant7, 4, 7, 10, 1)
	Seventh9s  = newChordType("7#9", Dominant7, 4, 7, 10, 3)
	Augmented  = newChordType("aug", nil, 4, 8, NoDegree)
	Augmented7 = newChordType("7#5", Augmented, 4, 8, 10)
	Diminished = newChordType("dim", nil, 3, 6, NoDegree)
	Dim7       = newChordType("dim7", Diminished, 3, 6, 9)
	HalfDim7   = newChordType("m7b5", Diminished, 3, 6, 10)
	Sus4       = newChordType("sus", nil, 5, 7, NoDegree)
	Sus47      = newChordType("7sus", Sus4, 5, 7, 10)
)

var chordTypes = []*ChordType{
	Major, Major6, Major7, Major9,
	Minor, Minor6, Minor7, Minor9, MinorMaj7,
	Dominant7, Dominant9, Dominant13, Seventh9b, Seventh9s,
	Augmented, Augmented7,
	Diminished, Dim7, HalfDim7,
	Sus4, Sus47,
}

// chord name aliases accepted by the parser
var chordTypeAliases = map[string]string{
	"maj":     "",
	"M":       "",
	"M7":      "maj7",
	"Maj7":    "maj7",
	"min":     "m",
	"-":       "m",
	"min7":    "m7",
	"-7":      "m7",
	"min6":    "m6",
	"ø":       "m7b5",
	"o":       "dim",
	"o7":      "dim7",
	"+":       "aug",
	"sus4":    "sus",
	"7sus4":   "7sus",
	"m(maj7)": "mM7",
}

// ChordTypeByName returns the chord type registered under name or an alias
func ChordTypeByName(name string) (*ChordType, bool) {
	if alias, ok := chordTypeAliases[name]; ok {
		name = alias
	}
	for _, ct := range chordTypes {
		if ct.Name == name {
			return ct, true
		}
	}
	return nil, false
}

// AllChordTypes returns all registered chord types
func AllChordTypes() []*ChordType {
	return slices.Clone(chordTypes)
}

// ChordSymbol is a chord root, a chord type and a bass note.
// Root and Bass are pitch classes.
type ChordSymbol struct {
	Root int
	Bass int
	Type *ChordType
}

// NewChordSymbol creates a chord symbol whose bass is the root
func NewChordSymbol(root int, ct *ChordType) ChordSymbol {
	return ChordSymbol{Root: PitchClass(root), Bass: PitchClass(root), Type: ct}
}

// NewSlashChordSymbol creates a chord symbol with a distinct bass note
func NewSlashChordSymbol(root int, ct *ChordType, bass int) ChordSymbol {
	return ChordSymbol{Root: PitchClass(root), Bass: PitchClass(bass), Type: ct}
}

// IsChordTone reports whether the pitch class pc is a chord tone
func (c ChordSymbol) IsChordTone(pc int) bool {
	return c.Type.IsChordTone(pc - c.Root)
}

// Transposed returns the chord symbol moved by semitones
func (c ChordSymbol) Transposed(semitones int) ChordSymbol {
	return ChordSymbol{Root: PitchClass(c.Root + semitones), Bass: PitchClass(c.Bass + semitones), Type: c.Type}
}

// WithType returns a copy with another chord type
func (c ChordSymbol) WithType(ct *ChordType) ChordSymbol {
	c.Type = ct
	return c
}

// Equal reports whether both symbols have same root, bass and type
func (c ChordSymbol) Equal(o ChordSymbol) bool {
	return c.Root == o.Root && c.Bass == o.Bass && c.Type == o.Type
}

// Name returns the chord symbol name, e.g. "Cm7" or "F/A"
func (c ChordSymbol) Name() string {
	name := pitchClassNames[c.Root] + c.Type.Name
	if c.Bass != c.Root {
		name += "/" + pitchClassNames[c.Bass]
	}
	return name
}

func (c ChordSymbol) String() string {
	return c.Name()
}

// ParseChordSymbol parses chord names such as "C", "Ebm7", "F#7b9", "Bbmaj7/D"
func ParseChordSymbol(s string) (ChordSymbol, error) {
	s = strings.TrimSpace(s)
	base, bassName, hasBass := strings.Cut(s, "/")

	root, rest, err := ParsePitchClass(base)
	if err != nil {
		return ChordSymbol{}, fmt.Errorf("invalid chord root: %w", err)
	}

	ct, ok := ChordTypeByName(rest)
	if !ok {
		return ChordSymbol{}, fmt.Errorf("unknown chord type %q in %q", rest, s)
	}

	bass := root
	if hasBass {
		b, trailing, err := ParsePitchClass(bassName)
		if err != nil || trailing != "" {
			return ChordSymbol{}, fmt.Errorf("invalid bass note in %q", s)
		}
		bass = b
	}

	return NewSlashChordSymbol(root, ct, bass), nil
}

// MustParseChordSymbol is like ParseChordSymbol but panics on error
func MustParseChordSymbol(s string) ChordSymbol {
	c, err := ParseChordSymbol(s)
	if err != nil {
		panic(err)
	}
	return c
}
