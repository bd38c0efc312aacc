package wbp

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-wbp/logging"
	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/wbp/config"
)

var errCoverageGap = errors.New("harmonic coverage gap")

// FindingKind identifies a ConsistencyChecker check
type FindingKind string

const (
	FindingSingleChordCoverage FindingKind = "single_chord_coverage"
	FindingTwoChordCoverage    FindingKind = "two_chord_coverage"
	FindingCloseOnsets         FindingKind = "close_onsets"
	FindingShortNote           FindingKind = "short_note"
)

// Finding is one problem detected by the ConsistencyChecker
type Finding struct {
	Kind        FindingKind
	Level       logging.Level
	Description string
	Matches     int    // coverage checks: number of matching phrases
	SourceID    string // artifact checks: offending phrase
}

// ConsistencyReport lists the findings of a ConsistencyChecker run
type ConsistencyReport struct {
	Style              BassStyle
	SingleChordChecked int
	TwoChordChecked    int
	PhrasesScanned     int
	Findings           []Finding
}

// Count returns the number of findings of a kind
func (r *ConsistencyReport) Count(kind FindingKind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// ConsistencyChecker audits a Database: harmonic coverage gaps and suspicious
// notes left by extraction. It only reports, nothing is corrected.
type ConsistencyChecker struct {
	db     *Database
	config *config.ConsistencyConfig
	style  BassStyle
	logger logging.Logger
}

// NewConsistencyChecker creates a checker, nil config means default config
func NewConsistencyChecker(db *Database, cfg *config.ConsistencyConfig) (*ConsistencyChecker, error) {
	if cfg == nil {
		cfg = config.DefaultConsistencyConfig()
	}
	style, err := ParseBassStyle(cfg.Style)
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.TwoChordQualities {
		if _, ok := music.ChordTypeByName(name); !ok {
			return nil, fmt.Errorf("%w: unknown chord type %q", ErrInvalidInput, name)
		}
	}
	return &ConsistencyChecker{
		db:     db,
		config: cfg,
		style:  style,
		logger: logging.WithFields(logging.Fields{
			"component": "wbp_consistency",
			"style":     style.String(),
		}),
	}, nil
}

// SetLogger replaces the checker logger
func (c *ConsistencyChecker) SetLogger(logger logging.Logger) {
	c.logger = logger
}

// Run performs all checks
func (c *ConsistencyChecker) Run() *ConsistencyReport {
	report := &ConsistencyReport{Style: c.style}
	c.CheckSingleChordCoverage(report)
	c.CheckTwoChordCoverage(report)
	c.CheckNoteArtifacts(report)

	c.logger.Info("Consistency check completed", logging.Fields{
		"findings":      len(report.Findings),
		"single_chords": report.SingleChordChecked,
		"two_chords":    report.TwoChordChecked,
		"phrases":       report.PhrasesScanned,
	})
	return report
}

// CountMatches returns the number of stored phrases of the checker style
// which can be played over seq
func (c *ConsistencyChecker) CountMatches(seq *music.ChordSequence) int {
	profile, err := RootProfileOf(seq)
	if err != nil {
		return 0
	}
	n := 0
	for _, src := range c.db.GetByStyleAndProfile(c.style, profile) {
		if HarmonicCompatibility(src, seq) > CompatibilityNone {
			n++
		}
	}
	return n
}

// CheckSingleChordCoverage checks that every base chord type, alone in a bar,
// is matched by at least two 1-bar phrases. A single match leaves no fallback.
// Phrases over a base chord are also partial matches for its descendants.
func (c *ConsistencyChecker) CheckSingleChordCoverage(report *ConsistencyReport) {
	for _, ct := range music.AllChordTypes() {
		if !ct.IsBase() {
			continue
		}
		cs := music.NewChordSymbol(0, ct)
		seq, err := music.NewChordSequence(0, 1, music.FourFour, music.ChordSlot{Symbol: cs})
		if err != nil {
			c.logger.Error(err, "Can't build test chord sequence")
			continue
		}
		report.SingleChordChecked++
		c.reportCoverage(report, FindingSingleChordCoverage, seq, c.CountMatches(seq))
	}
}

// CheckTwoChordCoverage checks every two-chords-per-bar combination of the
// configured chord qualities, for all 12 intervals between the two roots
func (c *ConsistencyChecker) CheckTwoChordCoverage(report *ConsistencyReport) {
	half := music.FourFour.BeatsPerBar() / 2
	for _, n1 := range c.config.TwoChordQualities {
		ct1, _ := music.ChordTypeByName(n1)
		for _, n2 := range c.config.TwoChordQualities {
			ct2, _ := music.ChordTypeByName(n2)
			for root := range 12 {
				cs1 := music.NewChordSymbol(0, ct1)
				cs2 := music.NewChordSymbol(root, ct2)
				if cs1.Equal(cs2) {
					continue
				}
				seq, err := music.NewChordSequence(0, 1, music.FourFour,
					music.ChordSlot{Symbol: cs1},
					music.ChordSlot{Position: music.Position{Beat: half}, Symbol: cs2})
				if err != nil {
					c.logger.Error(err, "Can't build test chord sequence")
					continue
				}
				report.TwoChordChecked++
				c.reportCoverage(report, FindingTwoChordCoverage, seq, c.CountMatches(seq))
			}
		}
	}
}

func (c *ConsistencyChecker) reportCoverage(report *ConsistencyReport, kind FindingKind, seq *music.ChordSequence, matches int) {
	if matches > 1 {
		return
	}
	desc := fmt.Sprintf("%s: %d matching phrase(s)", seq, matches)
	report.Findings = append(report.Findings, Finding{
		Kind:        kind,
		Level:       logging.ErrorLevel,
		Description: desc,
		Matches:     matches,
	})
	c.logger.Error(errCoverageGap, "Insufficient phrase coverage", logging.Fields{
		"check":   string(kind),
		"chords":  seq.String(),
		"matches": matches,
	})
}

// CheckNoteArtifacts scans the 1-bar phrases of every style for consecutive
// notes too close to each other and for very short notes, usually extraction artifacts
func (c *ConsistencyChecker) CheckNoteArtifacts(report *ConsistencyReport) {
	for _, src := range c.db.GetAll(1) {
		report.PhrasesScanned++
		notes := src.Phrase().Notes()
		for i, n := range notes {
			if i > 0 {
				if gap := n.Position - notes[i-1].Position; gap < c.config.MinOnsetGap {
					c.reportArtifact(report, FindingCloseOnsets, src, fmt.Sprintf("onsets %.3f beat apart at %.2f", gap, n.Position))
				}
			}
			if n.Duration < c.config.MinNoteDuration {
				c.reportArtifact(report, FindingShortNote, src, fmt.Sprintf("note %s lasts %.3f beat", n, n.Duration))
			}
		}
	}
}

func (c *ConsistencyChecker) reportArtifact(report *ConsistencyReport, kind FindingKind, src *Source, desc string) {
	report.Findings = append(report.Findings, Finding{
		Kind:        kind,
		Level:       logging.WarnLevel,
		Description: desc,
		SourceID:    src.ID(),
	})
	c.logger.Warn("Suspicious phrase note", logging.Fields{
		"check":     string(kind),
		"source_id": src.ID(),
		"detail":    desc,
	})
}
