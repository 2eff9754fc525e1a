package detect

import (
	"fmt"

	"github.com/nbdfinder/engine/internal/types"
)

// RLoopDetector finds R-loop forming sequence (RLFS)
// candidates from the registry's G-rich patterns, filtered and scored by
// G-fraction and G-run density.
type RLoopDetector struct {
	env *Env
}

func (d *RLoopDetector) ClassID() types.ClassID { return types.ClassRLoop }

func (d *RLoopDetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	if !d.env.Prefilter.MayMatch(chunk.Bytes, types.ClassRLoop) {
		return nil, nil
	}
	hits, err := d.env.Engine.ScanClass(chunk.Bytes, d.env.Registry, types.ClassRLoop)
	if err != nil {
		return nil, fmt.Errorf("rloop scan: %w", err)
	}
	out := make([]*types.Candidate, 0, len(hits))
	for i, h := range hits {
		if gFraction(chunk.Bytes[h.Start:h.End]) < 0.60 {
			continue
		}
		motifID := fmt.Sprintf("%s.%d", h.Pattern.MotifID, i)
		c := newCandidate(chunk, types.ClassRLoop, h.Pattern.Subclass, motifID, h.Pattern.Name, h.Start, h.End)
		out = append(out, c)
	}
	return out, nil
}

// gFraction is the fraction of G bases only (as distinct from GCContent's
// G+C fraction), the quantity the RLFS retention filter tests.
func gFraction(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	g := 0
	for _, c := range b {
		if c == 'G' {
			g++
		}
	}
	return float64(g) / float64(len(b))
}

// RLoopScore is the G fraction plus bonuses for G-quadruplet and
// G-triplet run density, clipped to [0,1].
func RLoopScore(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	percG := gFraction(b)
	score := percG + 0.1*float64(countOverlapping(b, "GGGG")) + 0.05*float64(countOverlapping(b, "GGG"))
	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

func (d *RLoopDetector) Score(cands []*types.Candidate) error {
	for _, c := range cands {
		c.RawScore = RLoopScore(c.MatchedSeq)
		c.ScoringMethod = "RLFS_g_density"
	}
	return nil
}
