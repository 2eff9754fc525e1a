package scan

import (
	"time"

	"github.com/nbdfinder/engine/internal/registry"
	"github.com/nbdfinder/engine/internal/types"
)

// Engine is the full scan substrate: it splits a pattern set by its
// precomputed ScanSafe flag and dispatches each half to the matching
// backend, merging the results before returning to the caller.
type Engine struct {
	safe     *HyperscanSubstrate
	fallback *FallbackSubstrate
}

// NewEngine creates an Engine. fallbackTimeoutSec is the per-match budget
// forwarded to the FallbackSubstrate; zero selects its default.
func NewEngine(fallbackTimeoutSec int) *Engine {
	return &Engine{
		safe:     NewHyperscanSubstrate(),
		fallback: NewFallbackSubstrate(time.Duration(fallbackTimeoutSec) * time.Second),
	}
}

// Scan runs both engines over content against the given registry and
// returns the merged hit set.
func (e *Engine) Scan(content []byte, reg *registry.Registry) ([]Hit, error) {
	var hits []Hit
	if len(reg.Safe) > 0 {
		safeHits, err := e.safe.Scan(content, reg.Safe)
		if err != nil {
			return nil, err
		}
		hits = append(hits, safeHits...)
	}
	if len(reg.Fallback) > 0 {
		fallbackHits, err := e.fallback.Scan(content, reg.Fallback)
		if err != nil {
			return nil, err
		}
		hits = append(hits, fallbackHits...)
	}
	return hits, nil
}

// ScanClass is a convenience wrapper that scans only the patterns tagged
// with one class.
func (e *Engine) ScanClass(content []byte, reg *registry.Registry, class types.ClassID) ([]Hit, error) {
	patterns := reg.ForClass(class)
	var safe, fallback []*registry.Pattern
	for _, p := range patterns {
		if p.ScanSafe {
			safe = append(safe, p)
		} else {
			fallback = append(fallback, p)
		}
	}
	var hits []Hit
	if len(safe) > 0 {
		h, err := e.safe.Scan(content, safe)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h...)
	}
	if len(fallback) > 0 {
		h, err := e.fallback.Scan(content, fallback)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h...)
	}
	return hits, nil
}

// Close releases both backends' compiled resources.
func (e *Engine) Close() error {
	if err := e.safe.Close(); err != nil {
		return err
	}
	return e.fallback.Close()
}
