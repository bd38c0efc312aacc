package wbp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RyanBlaney/sonido-wbp/music"
)

// Session tags with a special meaning
const (
	// TagNoTargetNote disables target notes for the phrases of a session
	TagNoTargetNote = "notn"
	// TagTwoFeel marks a session played in 2-feel
	TagTwoFeel = "2feel"
)

// BassStyle is the playing style of a phrase
type BassStyle int

const (
	StyleWalking BassStyle = iota
	StyleTwoFeel
)

func (s BassStyle) String() string {
	switch s {
	case StyleWalking:
		return "walking"
	case StyleTwoFeel:
		return "2feel"
	default:
		return "unknown"
	}
}

// ParseBassStyle parses "walking" or "2feel"
func ParseBassStyle(s string) (BassStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walking", "":
		return StyleWalking, nil
	case "2feel", "twofeel", "two-feel":
		return StyleTwoFeel, nil
	default:
		return StyleWalking, fmt.Errorf("%w: unknown bass style %q", ErrInvalidInput, s)
	}
}

// AllBassStyles returns every bass style
func AllBassStyles() []BassStyle {
	return []BassStyle{StyleWalking, StyleTwoFeel}
}

// BassStyleFromTags returns StyleTwoFeel when tags contain TagTwoFeel
func BassStyleFromTags(tags []string) BassStyle {
	if slices.Contains(tags, TagTwoFeel) {
		return StyleTwoFeel
	}
	return StyleWalking
}

// Session is a long recorded bass performance over a chord sequence. Both the
// chord sequence and the phrase start at bar 0. Immutable.
type Session struct {
	id         string
	tags       []string
	style      BassStyle
	chords     *music.ChordSequence
	phrase     *music.Phrase
	targetNote *music.Note
}

// NewSession validates and creates a session. targetNote may be nil.
func NewSession(id string, tags []string, style BassStyle, chords *music.ChordSequence, phrase *music.Phrase, targetNote *music.Note) (*Session, error) {
	switch {
	case id == "":
		return nil, fmt.Errorf("%w: session id is empty", ErrInvalidInput)
	case chords == nil || chords.IsEmpty():
		return nil, fmt.Errorf("%w: session %s has no chords", ErrInvalidInput, id)
	case chords.StartBar() != 0:
		return nil, fmt.Errorf("%w: session %s chords start at bar %d", ErrInvalidInput, id, chords.StartBar())
	case phrase == nil || phrase.IsEmpty():
		return nil, fmt.Errorf("%w: session %s has no notes", ErrInvalidInput, id)
	}

	first, _ := phrase.First()
	if first.Position < 0 {
		return nil, fmt.Errorf("%w: session %s phrase starts at %g", ErrInvalidInput, id, first.Position)
	}

	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(normalized, t) {
			normalized = append(normalized, t)
		}
	}
	slices.Sort(normalized)

	var target *music.Note
	if targetNote != nil {
		n := *targetNote
		target = &n
	}

	return &Session{
		id:         id,
		tags:       normalized,
		style:      style,
		chords:     chords,
		phrase:     phrase,
		targetNote: target,
	}, nil
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Tags() []string               { return slices.Clone(s.tags) }
func (s *Session) Style() BassStyle             { return s.style }
func (s *Session) Chords() *music.ChordSequence { return s.chords }
func (s *Session) Phrase() *music.Phrase        { return s.phrase }
func (s *Session) BarCount() int                { return s.chords.BarCount() }

// TargetNote returns the note played right after the session, if known.
// Its position is relative to the session start.
func (s *Session) TargetNote() (music.Note, bool) {
	if s.targetNote == nil {
		return music.Note{}, false
	}
	return *s.targetNote, true
}

// HasTag reports whether the session carries tag
func (s *Session) HasTag(tag string) bool {
	return slices.Contains(s.tags, tag)
}

func (s *Session) String() string {
	return fmt.Sprintf("Session[%s %s bars=%d notes=%d]", s.id, s.style, s.BarCount(), s.phrase.Len())
}
