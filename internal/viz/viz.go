// Package viz streams candidates into the fixed-size visualization
// aggregate: O(classes^2 + bins) memory regardless of motif count, so a
// genome-scale run never needs to hold every candidate to produce a
// density/cooccurrence summary.
package viz

import (
	"github.com/nbdfinder/engine/internal/types"
)

// Accumulator wraps a VisualizationSummary with the running state needed
// to bucket candidates as they stream past, one chunk-worth of
// candidates per batch, never all at once.
type Accumulator struct {
	summary *types.VisualizationSummary
}

func New(bins int, maxLength, seqLength int64) *Accumulator {
	return &Accumulator{summary: types.NewVisualizationSummary(bins, maxLength, seqLength)}
}

// Add folds one candidate into the per-motif aggregates: class/subclass
// tallies, a density bin keyed by genomic position, and a length bin
// keyed by motif length (capped at MaxLength). Co-occurrence is a batch
// property, not a per-motif one; AddBatch maintains it.
func (a *Accumulator) Add(c *types.Candidate) {
	s := a.summary
	s.ClassCounts[c.ClassName]++
	if c.Subclass != "" {
		s.SubclassCounts[c.Subclass]++
	}

	if s.SeqLength > 0 && s.Bins > 0 {
		bin := int((c.Start - 1) * int64(s.Bins) / s.SeqLength)
		if bin >= s.Bins {
			bin = s.Bins - 1
		}
		if bin < 0 {
			bin = 0
		}
		s.DensityBins[bin]++
	}

	if s.MaxLength > 0 && s.Bins > 0 {
		length := c.Length
		if length > s.MaxLength {
			length = s.MaxLength
		}
		bin := int((length - 1) * int64(s.Bins) / s.MaxLength)
		if bin >= s.Bins {
			bin = s.Bins - 1
		}
		if bin < 0 {
			bin = 0
		}
		s.LengthBins[bin]++
	}
}

// AddBatch incorporates one batch of candidates, typically one chunk's
// spilled results during the merge pass. Per-motif stats go through Add;
// the co-occurrence matrix is then incremented once, symmetrically, for
// every unordered pair of distinct classes present in this batch,
// regardless of whether any two motifs touch positionally.
func (a *Accumulator) AddBatch(cands []*types.Candidate) {
	if len(cands) == 0 {
		return
	}
	inBatch := make(map[string]bool)
	for _, c := range cands {
		a.Add(c)
		inBatch[c.ClassName] = true
	}

	s := a.summary
	for ca := range inBatch {
		for cb := range inBatch {
			if ca == cb {
				continue
			}
			if _, ok := s.Cooccurrence[ca]; !ok {
				s.Cooccurrence[ca] = make(map[string]int64)
			}
			s.Cooccurrence[ca][cb]++
		}
	}
}

func (a *Accumulator) Summary() *types.VisualizationSummary { return a.summary }
