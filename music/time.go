package music

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSignature of a bar
type TimeSignature struct {
	Upper int `json:"upper" yaml:"upper"`
	Lower int `json:"lower" yaml:"lower"`
}

var (
	FourFour  = TimeSignature{Upper: 4, Lower: 4}
	ThreeFour = TimeSignature{Upper: 3, Lower: 4}
)

// BeatsPerBar returns the number of quarter-note beats in one bar
func (ts TimeSignature) BeatsPerBar() float32 {
	if ts.Lower == 0 {
		return float32(ts.Upper)
	}
	return float32(ts.Upper) * 4 / float32(ts.Lower)
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Upper, ts.Lower)
}

// ParseTimeSignature parses strings like "4/4" or "3/4"
func ParseTimeSignature(s string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return TimeSignature{}, fmt.Errorf("invalid time signature: %q", s)
	}
	upper, err := strconv.Atoi(parts[0])
	if err != nil || upper <= 0 {
		return TimeSignature{}, fmt.Errorf("invalid time signature: %q", s)
	}
	lower, err := strconv.Atoi(parts[1])
	if err != nil || (lower != 2 && lower != 4 && lower != 8) {
		return TimeSignature{}, fmt.Errorf("invalid time signature: %q", s)
	}
	return TimeSignature{Upper: upper, Lower: lower}, nil
}

// Position is a bar/beat location in a song
type Position struct {
	Bar  int     `json:"bar" yaml:"bar"`
	Beat float32 `json:"beat" yaml:"beat"`
}

// Before reports whether p is strictly before o
func (p Position) Before(o Position) bool {
	if p.Bar != o.Bar {
		return p.Bar < o.Bar
	}
	return p.Beat < o.Beat
}

func (p Position) String() string {
	return fmt.Sprintf("[%d:%g]", p.Bar, p.Beat)
}
