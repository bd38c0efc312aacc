package corpus

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/recording"
	"github.com/RyanBlaney/sonido-wbp/wbp"
	"github.com/RyanBlaney/sonido-wbp/wbp/config"
)

//go:embed resources/*.yaml
var bundled embed.FS

// BundledPattern matches the recordings shipped with the package
const BundledPattern = "resources/*.yaml"

// ErrDuplicateSession is reported when two sessions share the same name
var ErrDuplicateSession = errors.New("duplicate session")

// LoadReport summarizes a corpus load
type LoadReport struct {
	Recordings int     `json:"recordings"`
	Sessions   int     `json:"sessions"`
	Candidates int     `json:"candidates"`
	Added      int     `json:"added"`
	Redundant  int     `json:"redundant"`
	Errors     []error `json:"-"`
}

// Merge adds the counters and errors of o to r
func (r *LoadReport) Merge(o *LoadReport) {
	r.Recordings += o.Recordings
	r.Sessions += o.Sessions
	r.Candidates += o.Candidates
	r.Added += o.Added
	r.Redundant += o.Redundant
	r.Errors = append(r.Errors, o.Errors...)
}

// Loader turns recordings into sessions, extracts their phrases and adds them to a Database.
// A Loader is not safe for concurrent use, the Database it fills is.
type Loader struct {
	db        *wbp.Database
	extractor *wbp.Extractor
	config    *config.ExtractionConfig
	sessions  map[string]bool
	logger    logging.Logger
}

// NewLoader creates a loader filling db. nil config means default config.
func NewLoader(db *wbp.Database, cfg *config.ExtractionConfig) *Loader {
	if cfg == nil {
		cfg = config.DefaultExtractionConfig()
	}
	return &Loader{
		db:        db,
		extractor: wbp.NewExtractor(cfg),
		config:    cfg,
		sessions:  make(map[string]bool),
		logger: logging.WithFields(logging.Fields{
			"component": "corpus_loader",
		}),
	}
}

// SetLogger replaces the logger of the loader
func (l *Loader) SetLogger(logger logging.Logger) {
	l.logger = logger
}

// LoadRecording splits rec into sessions and loads each of them. Errors are
// collected in the report, a bad session never stops the others.
func (l *Loader) LoadRecording(rec *recording.Recording) *LoadReport {
	logger := l.logger.WithFields(logging.Fields{
		"function":  "LoadRecording",
		"recording": rec.Name,
	})

	report := &LoadReport{Recordings: 1}
	data, errs := recording.SplitSessions(rec)
	for _, err := range errs {
		logger.Error(err, "Skipping malformed session")
	}
	report.Errors = append(report.Errors, errs...)

	for _, sd := range data {
		if err := l.loadSession(sd, report); err != nil {
			logger.Error(err, "Skipping session", logging.Fields{
				"session": sd.Name,
			})
			report.Errors = append(report.Errors, err)
		}
	}

	logger.Info("Recording loaded", logging.Fields{
		"sessions":   report.Sessions,
		"candidates": report.Candidates,
		"added":      report.Added,
		"redundant":  report.Redundant,
		"errors":     len(report.Errors),
	})

	return report
}

func (l *Loader) loadSession(sd recording.SessionData, report *LoadReport) error {
	if l.sessions[sd.Name] {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, sd.Name)
	}

	session, err := NewSession(sd)
	if err != nil {
		return err
	}
	l.sessions[sd.Name] = true
	report.Sessions++

	for _, src := range l.extractor.Extract(session, l.config.DisallowNonRootStartNote, l.config.DisallowNonChordToneLastNote) {
		report.Candidates++
		if l.db.Add(src) {
			report.Added++
		} else {
			report.Redundant++
		}
	}
	return nil
}

// NewSession converts decoded session data into a wbp session. The style is
// taken from the tags and the target note is dropped for "notn" sessions.
func NewSession(sd recording.SessionData) (*wbp.Session, error) {
	target := sd.TargetNote
	if slices.Contains(sd.Tags, wbp.TagNoTargetNote) {
		target = nil
	}
	return wbp.NewSession(sd.Name, sd.Tags, wbp.BassStyleFromTags(sd.Tags), sd.Chords, sd.Phrase, target)
}

// LoadFiles decodes and loads YAML recording files. A file which cannot be
// decoded is reported and skipped.
func (l *Loader) LoadFiles(paths ...string) *LoadReport {
	report := &LoadReport{}
	for _, p := range paths {
		rec, err := recording.DecodeFile(p)
		if err != nil {
			l.logger.Error(err, "Skipping recording file", logging.Fields{
				"path": p,
			})
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Merge(l.LoadRecording(rec))
	}
	return report
}

// LoadFS loads the recordings of fsys matching pattern, in name order
func (l *Loader) LoadFS(fsys fs.FS, pattern string) (*LoadReport, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("bad corpus pattern %q: %w", pattern, err)
	}
	slices.Sort(names)

	report := &LoadReport{}
	for _, name := range names {
		rec, err := decodeFS(fsys, name)
		if err != nil {
			l.logger.Error(err, "Skipping recording file", logging.Fields{
				"path": name,
			})
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Merge(l.LoadRecording(rec))
	}
	return report, nil
}

func decodeFS(fsys fs.FS, name string) (*recording.Recording, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	base := path.Base(name)
	return recording.Decode(file, base[:len(base)-len(path.Ext(base))])
}

// LoadBundled loads the recordings embedded in the package into db
func LoadBundled(db *wbp.Database, cfg *config.ExtractionConfig) (*LoadReport, error) {
	return NewLoader(db, cfg).LoadFS(bundled, BundledPattern)
}

// Bundled returns the embedded recordings file system
func Bundled() fs.FS {
	return bundled
}
