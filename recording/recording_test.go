package recording_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/recording"
)

const demo = `
name: demo
time_signature: "4/4"
markers:
  - {position: 0, text: "_first"}
  - {position: 0, text: "#Blues"}
  - {position: 8, text: "_END"}
  - {position: 12, text: "_second"}
  - {position: 12, text: "#2feel"}
  - {position: 16, text: "_END"}
chords:
  - {position: 0, symbol: "C7"}
  - {position: 4, symbol: "F7"}
  - {position: 10, symbol: "G7"}
notes:
  - {pitch: 36, position: 0, duration: 0.9, velocity: 80}
  - {pitch: 40, position: 1, duration: 0.9, velocity: 80}
  - {pitch: 43, position: 2, duration: 0.9, velocity: 80}
  - {pitch: 46, position: 3, duration: 0.9, velocity: 80}
  - {pitch: 41, position: 4, duration: 0.9, velocity: 80}
  - {pitch: 45, position: 5, duration: 0.9, velocity: 80}
  - {pitch: 48, position: 6, duration: 0.9, velocity: 80}
  - {pitch: 39, position: 7, duration: 0.9, velocity: 80}
  - {pitch: 36, position: 8, duration: 0.9, velocity: 70}
  - {pitch: 43, position: 11.9, duration: 1.9, velocity: 80}
  - {pitch: 38, position: 14, duration: 1.9, velocity: 80}
`

func TestDecode(t *testing.T) {
	rec, err := recording.Decode(strings.NewReader(demo), "fallback")
	require.NoError(t, err)

	assert.Equal(t, "demo", rec.Name)
	assert.Equal(t, music.FourFour, rec.TimeSignature)
	assert.Equal(t, 11, rec.Notes.Len())
	assert.Len(t, rec.Markers, 6)
	assert.Equal(t, recording.ChordEvent{Position: 10, Symbol: "G7"}, rec.Chords[2])
	assert.Equal(t, music.NewNote(43, 1.9, 80, 11.9), rec.Notes.At(9))
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"yaml":           "name: [unclosed",
		"time signature": "time_signature: \"4/3\"",
		"pitch":          "notes:\n  - {pitch: 200, position: 0, duration: 1, velocity: 80}",
		"duration":       "notes:\n  - {pitch: 36, position: 0, duration: 0, velocity: 80}",
		"position":       "notes:\n  - {pitch: 36, position: -2, duration: 1, velocity: 80}",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := recording.Decode(strings.NewReader(doc), name)
			assert.Error(t, err)
		})
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notes:\n  - {pitch: 36, position: 0, duration: 1, velocity: 80}\n"), 0o644))

	rec, err := recording.DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "standards", rec.Name, "name defaults to the file name")
	assert.Equal(t, music.FourFour, rec.TimeSignature)

	_, err = recording.DecodeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
