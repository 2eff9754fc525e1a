// Package scan implements the scan substrate: a multi-pattern DFA-like
// database compiled from the scan-safe half of the pattern registry,
// plus a backtracking fallback for patterns that need backreferences.
// Both engines run side by side on every chunk; the fallback path is
// load-bearing for STR detection, not an alternative build.
package scan

import "github.com/nbdfinder/engine/internal/registry"

// Hit is one (pattern, span) match emitted by either engine, in
// chunk-local 0-based half-open coordinates.
type Hit struct {
	Pattern *registry.Pattern
	Start   int
	End     int
}

// Substrate scans a single chunk in one pass against a fixed pattern set.
type Substrate interface {
	Scan(content []byte, patterns []*registry.Pattern) ([]Hit, error)
	Close() error
}
