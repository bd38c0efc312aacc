package corpus_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-wbp/corpus"
	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/recording"
	"github.com/RyanBlaney/sonido-wbp/wbp"
)

const good = `
markers:
  - {position: 0, text: "_cf"}
  - {position: 0, text: "#notn"}
  - {position: 8, text: "_END"}
  - {position: 8, text: "_broken"}
chords:
  - {position: 0, symbol: "C7"}
  - {position: 4, symbol: "F7"}
notes:
  - {pitch: 36, position: 0, duration: 0.9, velocity: 80}
  - {pitch: 40, position: 1, duration: 0.9, velocity: 80}
  - {pitch: 43, position: 2, duration: 0.9, velocity: 80}
  - {pitch: 46, position: 3, duration: 0.9, velocity: 80}
  - {pitch: 41, position: 4, duration: 0.9, velocity: 80}
  - {pitch: 45, position: 5, duration: 0.9, velocity: 80}
  - {pitch: 48, position: 6, duration: 0.9, velocity: 80}
  - {pitch: 39, position: 7, duration: 0.9, velocity: 80}
  - {pitch: 36, position: 8, duration: 0.9, velocity: 80}
`

const duplicate = `
markers:
  - {position: 0, text: "_cf"}
  - {position: 4, text: "_END"}
chords:
  - {position: 0, symbol: "D7"}
notes:
  - {pitch: 38, position: 0, duration: 0.9, velocity: 80}
`

func TestLoadBundled(t *testing.T) {
	db := wbp.NewDatabase()
	report, err := corpus.LoadBundled(db, nil)
	require.NoError(t, err)

	assert.Empty(t, report.Errors)
	assert.Equal(t, 3, report.Recordings)
	assert.Equal(t, 13, report.Sessions)
	assert.Positive(t, report.Added)
	assert.Equal(t, report.Candidates, report.Added+report.Redundant)
	assert.Equal(t, report.Added, db.Size())
	require.NoError(t, db.CheckCoherence())

	for _, src := range db.GetBySession("ballad_2feel") {
		assert.Equal(t, wbp.StyleTwoFeel, src.Style(), src.ID())
	}
	assert.NotEmpty(t, db.GetBySession("ballad_2feel"))

	autumn := db.GetBySession("autumn_cadence")
	require.NotEmpty(t, autumn)
	for _, src := range autumn {
		_, ok := src.TargetNote()
		assert.False(t, ok, src.ID())
	}

	for _, src := range db.GetAll(0) {
		assert.True(t, src.StartsOnChordBass(), src.ID())
		assert.LessOrEqual(t, src.BarCount(), wbp.MaxBarCount)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"rec/a.yaml":   {Data: []byte(good)},
		"rec/b.yaml":   {Data: []byte(duplicate)},
		"rec/c.yaml":   {Data: []byte("notes: [oops")},
		"rec/skip.txt": {Data: []byte("ignored")},
	}

	rec := logging.NewRecordingLogger()
	db := wbp.NewDatabase()
	loader := corpus.NewLoader(db, nil)
	loader.SetLogger(rec)

	report, err := loader.LoadFS(fsys, "rec/*.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Recordings)
	assert.Equal(t, 1, report.Sessions)
	assert.Equal(t, 3, report.Candidates)
	assert.Equal(t, 3, report.Added)
	require.Len(t, report.Errors, 3)
	assert.ErrorIs(t, report.Errors[0], recording.ErrMalformedSession, "_broken never closed")
	assert.ErrorIs(t, report.Errors[1], corpus.ErrDuplicateSession)
	assert.Len(t, rec.EntriesAt(logging.ErrorLevel), 3)

	for _, src := range db.GetBySession("cf") {
		_, ok := src.TargetNote()
		assert.False(t, ok, "notn session")
	}

	_, err = loader.LoadFS(fsys, "[")
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(path, []byte(good), 0o644))

	db := wbp.NewDatabase()
	loader := corpus.NewLoader(db, nil)
	loader.SetLogger(&logging.NoOpLogger{})

	report := loader.LoadFiles(path, filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, report.Recordings)
	assert.Equal(t, 1, report.Sessions)
	assert.Len(t, report.Errors, 2)
	assert.Equal(t, 3, db.Size())
}

func TestNewSession(t *testing.T) {
	rec, err := recording.Decode(stringsReader(good), "good")
	require.NoError(t, err)
	data, _ := recording.SplitSessions(rec)
	require.Len(t, data, 1)

	s, err := corpus.NewSession(data[0])
	require.NoError(t, err)
	assert.Equal(t, "cf", s.ID())
	assert.Equal(t, wbp.StyleWalking, s.Style())
	_, ok := s.TargetNote()
	assert.False(t, ok)

	data[0].Tags = []string{"2feel"}
	s, err = corpus.NewSession(data[0])
	require.NoError(t, err)
	assert.Equal(t, wbp.StyleTwoFeel, s.Style())
	_, ok = s.TargetNote()
	assert.True(t, ok)
}

func TestBundledFS(t *testing.T) {
	names, err := fs.Glob(corpus.Bundled(), corpus.BundledPattern)
	require.NoError(t, err)
	assert.Equal(t, []string{"resources/blues.yaml", "resources/cadences.yaml", "resources/standards.yaml"}, names)
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
