package scan

import (
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/nbdfinder/engine/internal/registry"
)

// FallbackSubstrate runs unsafe (backreference-bearing) patterns through
// a standard backtracking regex engine, emitting the same Hit shape as
// HyperscanSubstrate. Each pattern carries a match timeout so a
// pathological input cannot stall a chunk indefinitely.
type FallbackSubstrate struct {
	mu      sync.Mutex
	cache   map[string]*regexp2.Regexp
	Timeout time.Duration
}

// NewFallbackSubstrate creates a fallback engine with the given per-match
// timeout (5s default).
func NewFallbackSubstrate(timeout time.Duration) *FallbackSubstrate {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FallbackSubstrate{cache: make(map[string]*regexp2.Regexp), Timeout: timeout}
}

func (s *FallbackSubstrate) compile(pattern string) (*regexp2.Regexp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if re, ok := s.cache[pattern]; ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compiling fallback pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = s.Timeout
	s.cache[pattern] = re
	return re, nil
}

// Scan runs every fallback pattern against content in turn. Scan never
// aborts on one pattern's compile failure or timeout; the run continues
// with the remaining patterns.
func (s *FallbackSubstrate) Scan(content []byte, patterns []*registry.Pattern) ([]Hit, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	text := string(content)
	var hits []Hit
	for _, p := range patterns {
		re, err := s.compile(p.Regex)
		if err != nil {
			continue
		}
		m, err := re.FindStringMatch(text)
		if err != nil {
			continue // timeout or internal error: demote silently
		}
		for m != nil {
			hits = append(hits, Hit{Pattern: p, Start: m.Index, End: m.Index + m.Length})
			m, err = re.FindNextMatch(m)
			if err != nil {
				break
			}
		}
	}
	return hits, nil
}

// Close releases no resources; the regexp2 cache is process-lifetime.
func (s *FallbackSubstrate) Close() error { return nil }
