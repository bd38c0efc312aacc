package recording

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/music"
	"gopkg.in/yaml.v3"
)

// Marker is a text event of a recording, positioned in beats from the recording start.
// "_Name" opens a session, "_END" closes it, "#tag" tags the open session.
type Marker struct {
	Position float32 `json:"position" yaml:"position"`
	Text     string  `json:"text" yaml:"text"`
}

// ChordEvent is a chord symbol marker, positioned in beats from the recording start
type ChordEvent struct {
	Position float32 `json:"position" yaml:"position"`
	Symbol   string  `json:"symbol" yaml:"symbol"`
}

// Recording is a decoded, bar-aligned and quantized bass performance
type Recording struct {
	Name          string
	TimeSignature music.TimeSignature
	Notes         *music.Phrase
	Markers       []Marker
	Chords        []ChordEvent
}

// document is the YAML layout of a recording resource
type document struct {
	Name          string       `yaml:"name"`
	TimeSignature string       `yaml:"time_signature"`
	Markers       []Marker     `yaml:"markers"`
	Chords        []ChordEvent `yaml:"chords"`
	Notes         []music.Note `yaml:"notes"`
}

// Decode reads a YAML recording. name is used when the document has no name.
func Decode(r io.Reader, name string) (*Recording, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording %s: %w", name, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML recording %s: %w", name, err)
	}

	if doc.Name == "" {
		doc.Name = name
	}

	ts := music.FourFour
	if doc.TimeSignature != "" {
		ts, err = music.ParseTimeSignature(doc.TimeSignature)
		if err != nil {
			return nil, fmt.Errorf("recording %s: %w", doc.Name, err)
		}
	}

	for _, n := range doc.Notes {
		if !n.IsValid() || n.Duration <= 0 || n.Position < 0 {
			return nil, fmt.Errorf("recording %s: invalid note %s", doc.Name, n)
		}
	}

	logging.Debug("Recording decoded", logging.Fields{
		"component": "recording_decoder",
		"name":      doc.Name,
		"notes":     len(doc.Notes),
		"markers":   len(doc.Markers),
		"chords":    len(doc.Chords),
	})

	return &Recording{
		Name:          doc.Name,
		TimeSignature: ts,
		Notes:         music.NewPhrase(doc.Notes...),
		Markers:       doc.Markers,
		Chords:        doc.Chords,
	}, nil
}

// DecodeFile reads a YAML recording file
func DecodeFile(path string) (*Recording, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	return Decode(file, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}
