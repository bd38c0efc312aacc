package recording

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/RyanBlaney/sonido-wbp/music"
)

// Session boundary markers
const (
	SessionEndMarker = "_END"
	sessionPrefix    = "_"
	tagPrefix        = "#"
)

// ErrMalformedSession reports bad session boundaries or content in a recording
var ErrMalformedSession = errors.New("malformed session")

// SessionData is the raw content of one recorded session, moved to start at bar 0
type SessionData struct {
	Name     string
	Tags     []string
	StartBar int // bar of the session in the recording
	Chords   *music.ChordSequence
	Phrase   *music.Phrase
	// TargetNote is the first note of the bar following the session, positioned
	// relative to the session start. nil if none.
	TargetNote *music.Note
}

type openSession struct {
	name  string
	start float32
	tags  []string
}

// SplitSessions cuts a recording into its sessions. A malformed session is
// reported in the returned errors and skipped, the others are still returned.
func SplitSessions(rec *Recording) ([]SessionData, []error) {
	markers := slices.Clone(rec.Markers)
	slices.SortStableFunc(markers, func(a, b Marker) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		default:
			return 0
		}
	})

	var (
		res  []SessionData
		errs []error
		cur  *openSession
	)

	for _, m := range markers {
		text := strings.TrimSpace(m.Text)
		switch {
		case text == SessionEndMarker:
			if cur == nil {
				errs = append(errs, fmt.Errorf("%w: %s: %s at beat %g without open session", ErrMalformedSession, rec.Name, SessionEndMarker, m.Position))
				continue
			}
			data, err := buildSession(rec, cur, m.Position)
			if err != nil {
				errs = append(errs, err)
			} else {
				res = append(res, data)
			}
			cur = nil

		case strings.HasPrefix(text, tagPrefix):
			if cur != nil {
				if tag := strings.ToLower(strings.TrimPrefix(text, tagPrefix)); tag != "" {
					cur.tags = append(cur.tags, tag)
				}
			}

		case strings.HasPrefix(text, sessionPrefix):
			if cur != nil {
				errs = append(errs, fmt.Errorf("%w: %s: session %s not closed before %s", ErrMalformedSession, rec.Name, cur.name, text))
			}
			cur = &openSession{name: strings.TrimPrefix(text, sessionPrefix), start: m.Position}
		}
	}

	if cur != nil {
		errs = append(errs, fmt.Errorf("%w: %s: session %s never closed", ErrMalformedSession, rec.Name, cur.name))
	}

	return res, errs
}

// barIndex returns the bar starting at beat, false if beat is not a bar start
func barIndex(beat, beatsPerBar float32) (int, bool) {
	bar := math.Round(float64(beat / beatsPerBar))
	return int(bar), math.Abs(float64(beat)-bar*float64(beatsPerBar)) <= float64(music.NonQuantizedWindow)
}

func buildSession(rec *Recording, s *openSession, end float32) (SessionData, error) {
	bpb := rec.TimeSignature.BeatsPerBar()
	fail := func(format string, args ...any) (SessionData, error) {
		return SessionData{}, fmt.Errorf("%w: %s: session %s: %s", ErrMalformedSession, rec.Name, s.name, fmt.Sprintf(format, args...))
	}

	if s.name == "" {
		return fail("empty session name")
	}
	startBar, ok := barIndex(s.start, bpb)
	if !ok {
		return fail("start beat %g is not a bar start", s.start)
	}
	endBar, ok := barIndex(end, bpb)
	if !ok {
		return fail("end beat %g is not a bar start", end)
	}
	if endBar <= startBar {
		return fail("no bars")
	}

	startBeat := float32(startBar) * bpb
	endBeat := float32(endBar) * bpb
	w := music.NonQuantizedWindow

	var (
		slots   []music.ChordSlot
		carried *music.ChordSlot
	)
	for _, ce := range rec.Chords {
		if ce.Position >= endBeat {
			continue
		}
		cs, err := music.ParseChordSymbol(ce.Symbol)
		if err != nil {
			if ce.Position >= startBeat {
				return fail("%v", err)
			}
			continue
		}
		rel := ce.Position - startBeat
		if rel < 0 {
			if carried == nil || ce.Position >= carried.Position.Beat {
				carried = &music.ChordSlot{Position: music.Position{Beat: ce.Position}, Symbol: cs}
			}
			continue
		}
		bar := int(rel / bpb)
		slots = append(slots, music.ChordSlot{
			Position: music.Position{Bar: bar, Beat: rel - float32(bar)*bpb},
			Symbol:   cs,
		})
	}

	hasStartChord := slices.ContainsFunc(slots, func(cs music.ChordSlot) bool {
		return cs.Position == music.Position{}
	})
	if !hasStartChord {
		if carried == nil {
			return fail("no chord at session start")
		}
		slots = append(slots, music.ChordSlot{Symbol: carried.Symbol})
	}

	chords, err := music.NewChordSequence(0, endBar-startBar, rec.TimeSignature, slots...)
	if err != nil {
		return fail("%v", err)
	}

	phrase := rec.Notes.Slice(startBeat-w, endBeat-w, false).Shifted(-startBeat).Map(func(n music.Note) music.Note {
		if n.Position < 0 {
			return n.MovedTo(0)
		}
		return n
	})
	if phrase.IsEmpty() {
		return fail("no notes")
	}

	var target *music.Note
	if next, ok := rec.Notes.Slice(endBeat-w, endBeat+bpb-w, false).First(); ok {
		n := next.MovedTo(max(next.Position-startBeat, endBeat-startBeat))
		target = &n
	}

	return SessionData{
		Name:       s.name,
		Tags:       s.tags,
		StartBar:   startBar,
		Chords:     chords,
		Phrase:     phrase,
		TargetNote: target,
	}, nil
}
