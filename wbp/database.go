package wbp

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/RyanBlaney/sonido-wbp/logging"
)

type styleProfileKey struct {
	style   BassStyle
	profile string
}

// Database stores the Sources indexed by id, by session and by (style, RootProfile).
//
// All methods are safe for concurrent use. The three indices are only changed
// by Add and Remove, under a single lock, so that every Source is always
// present in exactly one bucket of each index.
type Database struct {
	mu             sync.RWMutex
	byID           map[string]*Source
	bySession      map[string][]*Source
	byStyleProfile map[styleProfileKey][]*Source
	logger         logging.Logger
}

// NewDatabase creates an empty database
func NewDatabase() *Database {
	return &Database{
		byID:           make(map[string]*Source),
		bySession:      make(map[string][]*Source),
		byStyleProfile: make(map[styleProfileKey][]*Source),
		logger: logging.WithFields(logging.Fields{
			"component": "wbp_database",
		}),
	}
}

// SetLogger replaces the database logger
func (db *Database) SetLogger(logger logging.Logger) {
	db.mu.Lock()
	db.logger = logger
	db.mu.Unlock()
}

func keyOf(src *Source) styleProfileKey {
	return styleProfileKey{style: src.Style(), profile: src.RootProfile().Key()}
}

// Add inserts src and returns true. It returns false when an equivalent Source
// is already stored for the same style and RootProfile: same phrase intervals
// and a strictly positive harmonic compatibility.
//
// Add panics with an error wrapping ErrDuplicateIdentity when a different,
// non-equivalent Source with the same id is already stored.
func (db *Database) Add(src *Source) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := keyOf(src)
	if redundant := db.findEquivalent(key, src); redundant != nil {
		db.logger.Debug("Redundant source skipped", logging.Fields{
			"source_id":   src.ID(),
			"existing_id": redundant.ID(),
		})
		return false
	}

	if existing, ok := db.byID[src.ID()]; ok {
		err := fmt.Errorf("%w: %s", ErrDuplicateIdentity, src.ID())
		db.logger.Error(err, "Source id already used by another phrase", logging.Fields{
			"new":      src.String(),
			"existing": existing.String(),
		})
		panic(err)
	}

	db.byID[src.ID()] = src
	db.bySession[src.SessionID()] = append(db.bySession[src.SessionID()], src)
	db.byStyleProfile[key] = append(db.byStyleProfile[key], src)
	return true
}

func (db *Database) findEquivalent(key styleProfileKey, src *Source) *Source {
	for _, existing := range db.byStyleProfile[key] {
		if ArePhrasesEquivalent(existing.Phrase(), src.Phrase(), false) &&
			HarmonicCompatibility(existing, src.Chords()) > CompatibilityNone {
			return existing
		}
	}
	return nil
}

// Remove removes the Source with the id of src. Returns false if not present.
func (db *Database) Remove(src *Source) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.byID[src.ID()]
	if !ok {
		return false
	}

	key := keyOf(stored)
	sessionBucket, okSession := removeFromBucket(db.bySession[stored.SessionID()], stored)
	profileBucket, okProfile := removeFromBucket(db.byStyleProfile[key], stored)
	if !okSession || !okProfile {
		err := fmt.Errorf("%w: source %s missing from index (session=%t profile=%t)", ErrInternalConsistency, stored.ID(), okSession, okProfile)
		db.logger.Error(err, "Database indices out of sync")
		panic(err)
	}

	delete(db.byID, stored.ID())
	setBucket(db.bySession, stored.SessionID(), sessionBucket)
	setBucket(db.byStyleProfile, key, profileBucket)
	return true
}

func removeFromBucket(bucket []*Source, src *Source) ([]*Source, bool) {
	i := slices.IndexFunc(bucket, src.SameIdentity)
	if i < 0 {
		return bucket, false
	}
	return slices.Delete(slices.Clone(bucket), i, i+1), true
}

func setBucket[K comparable](m map[K][]*Source, key K, bucket []*Source) {
	if len(bucket) == 0 {
		delete(m, key)
		return
	}
	m[key] = bucket
}

// GetByID returns the Source with the given id
func (db *Database) GetByID(id string) (*Source, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	src, ok := db.byID[id]
	return src, ok
}

// GetBySession returns the Sources extracted from a session
func (db *Database) GetBySession(sessionID string) []*Source {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.bySession[sessionID])
}

// GetByStyleAndProfile returns the Sources of a style whose chord sequence has
// the given RootProfile. The returned slice is a snapshot owned by the caller.
func (db *Database) GetByStyleAndProfile(style BassStyle, profile RootProfile) []*Source {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.byStyleProfile[styleProfileKey{style: style, profile: profile.Key()}])
}

// GetAll returns all Sources sorted by id. barCount 0 means any size, no styles means all styles.
// This is a full scan meant for diagnostics.
func (db *Database) GetAll(barCount int, styles ...BassStyle) []*Source {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var res []*Source
	for _, src := range db.byID {
		if barCount > 0 && src.BarCount() != barCount {
			continue
		}
		if len(styles) > 0 && !slices.Contains(styles, src.Style()) {
			continue
		}
		res = append(res, src)
	}
	slices.SortFunc(res, func(a, b *Source) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return res
}

// Size returns the number of stored Sources
func (db *Database) Size() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.byID)
}

// DatabaseStats counts the stored Sources
type DatabaseStats struct {
	Total    int
	Sessions int
	Profiles int
	// BySize[i] counts the Sources of i bars, index 0 unused
	BySize  [MaxBarCount + 1]int
	ByStyle map[BassStyle]int
}

// Stats returns counters over the whole database
func (db *Database) Stats() DatabaseStats {
	db.mu.RLock()
	defer db.mu.RUnlock()

	stats := DatabaseStats{
		Total:    len(db.byID),
		Sessions: len(db.bySession),
		Profiles: len(db.byStyleProfile),
		ByStyle:  make(map[BassStyle]int),
	}
	for _, src := range db.byID {
		stats.BySize[src.BarCount()]++
		stats.ByStyle[src.Style()]++
	}
	return stats
}

// CheckCoherence verifies that every stored Source is in exactly one bucket of
// each index and that no index holds an unknown Source.
func (db *Database) CheckCoherence() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	sessionCount := make(map[string]int)
	for sessionID, bucket := range db.bySession {
		for _, src := range bucket {
			if src.SessionID() != sessionID {
				return fmt.Errorf("%w: %s in session bucket %s", ErrInternalConsistency, src.ID(), sessionID)
			}
			sessionCount[src.ID()]++
		}
	}

	profileCount := make(map[string]int)
	for key, bucket := range db.byStyleProfile {
		for _, src := range bucket {
			if keyOf(src) != key {
				return fmt.Errorf("%w: %s in profile bucket %v", ErrInternalConsistency, src.ID(), key)
			}
			profileCount[src.ID()]++
		}
	}

	for id, src := range db.byID {
		if src.ID() != id {
			return fmt.Errorf("%w: %s stored under id %s", ErrInternalConsistency, src.ID(), id)
		}
		if sessionCount[id] != 1 || profileCount[id] != 1 {
			return fmt.Errorf("%w: %s found in %d session and %d profile buckets", ErrInternalConsistency, id, sessionCount[id], profileCount[id])
		}
	}

	if len(sessionCount) != len(db.byID) || len(profileCount) != len(db.byID) {
		return fmt.Errorf("%w: orphan index entries", ErrInternalConsistency)
	}
	return nil
}
