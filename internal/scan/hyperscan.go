package scan

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/flier/gohs/hyperscan"
	"github.com/nbdfinder/engine/internal/registry"
)

// compiledEntry caches a Hyperscan block database keyed by the content
// hash of its pattern set, so the same compiled database is reused
// across chunks and worker invocations within a run.
type compiledEntry struct {
	db         hyperscan.BlockDatabase
	patterns   []*registry.Pattern
	goPatterns []*regexp.Regexp // stage-2 boundary extraction, one per entry
}

// HyperscanSubstrate implements Substrate with a two-stage pipeline: a
// compiled Hyperscan database finds candidate (pattern, end-offset) pairs
// in one linear pass, and a cached Go regexp recovers the exact match span
// (Hyperscan without SOM_LEFTMOST does not report a reliable start).
type HyperscanSubstrate struct {
	mu    sync.Mutex
	cache map[string]*compiledEntry
}

// NewHyperscanSubstrate creates an empty compile cache.
func NewHyperscanSubstrate() *HyperscanSubstrate {
	return &HyperscanSubstrate{cache: make(map[string]*compiledEntry)}
}

func cacheKey(patterns []*registry.Pattern) string {
	h := sha1.New()
	for _, p := range patterns {
		h.Write([]byte(p.Regex))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *HyperscanSubstrate) compile(patterns []*registry.Pattern) (*compiledEntry, error) {
	key := cacheKey(patterns)

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return entry, nil
	}
	s.mu.Unlock()

	hsPatterns := make([]*hyperscan.Pattern, 0, len(patterns))
	goPatterns := make([]*regexp.Regexp, 0, len(patterns))
	usable := make([]*registry.Pattern, 0, len(patterns))

	for i, p := range patterns {
		// A pattern that fails to compile is demoted, never aborts the run.
		processed := stripExtendedMode(p.Regex)
		goRe, err := regexp.Compile("(?s)" + processed)
		if err != nil {
			continue
		}
		hp := hyperscan.NewPattern(processed, hyperscan.DotAll|hyperscan.MultiLine)
		hp.Id = len(usable)
		hsPatterns = append(hsPatterns, hp)
		goPatterns = append(goPatterns, goRe)
		usable = append(usable, patterns[i])
	}

	if len(hsPatterns) == 0 {
		entry := &compiledEntry{}
		s.mu.Lock()
		s.cache[key] = entry
		s.mu.Unlock()
		return entry, nil
	}

	db, err := hyperscan.NewBlockDatabase(hsPatterns...)
	if err != nil {
		return nil, fmt.Errorf("compiling hyperscan database: %w", err)
	}

	entry := &compiledEntry{db: db, patterns: usable, goPatterns: goPatterns}
	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()
	return entry, nil
}

// Scan runs the compiled database against content and resolves exact
// match boundaries via stage 2.
func (s *HyperscanSubstrate) Scan(content []byte, patterns []*registry.Pattern) ([]Hit, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	entry, err := s.compile(patterns)
	if err != nil {
		return nil, err
	}
	if entry.db == nil {
		return nil, nil
	}

	scratch, err := hyperscan.NewScratch(entry.db)
	if err != nil {
		return nil, fmt.Errorf("allocating hyperscan scratch: %w", err)
	}
	defer scratch.Free()

	// key "patternIdx:end" -> smallest start seen, keeping one best
	// match per endpoint.
	type rawMatch struct {
		patternIdx int
		start, end int
	}
	best := make(map[string]rawMatch)

	onMatch := func(id uint, from, to uint64, flags uint, context interface{}) error {
		idx := int(id)
		if idx >= len(entry.patterns) {
			return nil
		}
		key := fmt.Sprintf("%d:%d", idx, to)
		cur := rawMatch{patternIdx: idx, start: int(from), end: int(to)}
		if existing, ok := best[key]; !ok || cur.start < existing.start {
			best[key] = cur
		}
		return nil
	}

	if err := entry.db.Scan(content, scratch, onMatch, nil); err != nil {
		return nil, fmt.Errorf("hyperscan scan: %w", err)
	}

	var hits []Hit
	for _, raw := range best {
		re := entry.goPatterns[raw.patternIdx]
		start, end, ok := resolveBounds(content, re, raw.start, raw.end)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Pattern: entry.patterns[raw.patternIdx], Start: start, End: end})
	}
	// The match callback fires in scan order but the per-endpoint dedup
	// map does not preserve it; re-running the same input must yield the
	// same hit order.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Start != hits[j].Start {
			return hits[i].Start < hits[j].Start
		}
		if hits[i].End != hits[j].End {
			return hits[i].End < hits[j].End
		}
		return hits[i].Pattern.MotifID < hits[j].Pattern.MotifID
	})
	return hits, nil
}

// resolveBounds recovers the actual match span. When Hyperscan reports a
// non-zero start, the Go regexp is run on [start, end) and its first
// match is used; otherwise (or when that finds nothing) we search
// backward from end for the Go regexp match that terminates there.
func resolveBounds(content []byte, re *regexp.Regexp, start, end int) (int, int, bool) {
	if start > 0 {
		region := content[start:end]
		if loc := re.FindIndex(region); loc != nil {
			return start + loc[0], start + loc[1], true
		}
	}
	windowStart := end - 4096
	if windowStart < 0 {
		windowStart = 0
	}
	window := content[windowStart:end]
	locs := re.FindAllIndex(window, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		if windowStart+locs[i][1] == end {
			return windowStart + locs[i][0], end, true
		}
	}
	return 0, 0, false
}

// Close closes every compiled database in the cache and empties it,
// returning the first close error.
func (s *HyperscanSubstrate) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, e := range s.cache {
		if e.db != nil {
			if err := e.db.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	s.cache = make(map[string]*compiledEntry)
	return firstErr
}

// stripExtendedMode removes (?x) free-spacing mode, which Hyperscan does
// not support.
func stripExtendedMode(pattern string) string {
	if !strings.Contains(pattern, "(?x)") {
		return pattern
	}
	return strings.ReplaceAll(pattern, "(?x)", "")
}
