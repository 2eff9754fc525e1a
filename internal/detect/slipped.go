package detect

import (
	"fmt"

	"github.com/nbdfinder/engine/internal/types"
)

// SlippedDNADetector finds short tandem repeat candidates
// via the fallback (backreference) registry patterns, scored by length
// ratio.
type SlippedDNADetector struct {
	env *Env
}

func (d *SlippedDNADetector) ClassID() types.ClassID { return types.ClassSlippedDNA }

func (d *SlippedDNADetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	if !d.env.Prefilter.MayMatch(chunk.Bytes, types.ClassSlippedDNA) {
		return nil, nil
	}
	hits, err := d.env.Engine.ScanClass(chunk.Bytes, d.env.Registry, types.ClassSlippedDNA)
	if err != nil {
		return nil, fmt.Errorf("slipped scan: %w", err)
	}
	out := make([]*types.Candidate, 0, len(hits))
	for i, h := range hits {
		motifID := fmt.Sprintf("%s.%d", h.Pattern.MotifID, i)
		c := newCandidate(chunk, types.ClassSlippedDNA, h.Pattern.Subclass, motifID, h.Pattern.Name, h.Start, h.End)
		out = append(out, c)
	}
	return out, nil
}

func (d *SlippedDNADetector) Score(cands []*types.Candidate) error {
	for _, c := range cands {
		c.RawScore = float64(c.Length) / 100.0
		c.ScoringMethod = "STR_length_ratio"
	}
	return nil
}
