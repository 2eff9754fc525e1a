package detect

import (
	"fmt"

	"github.com/nbdfinder/engine/internal/types"
)

// G4Detector generates candidates from the registry's
// G-quadruplex pattern family, scored with G4Hunter.
type G4Detector struct {
	env *Env
}

func (d *G4Detector) ClassID() types.ClassID { return types.ClassGQuadruplex }

func (d *G4Detector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	if !d.env.Prefilter.MayMatch(chunk.Bytes, types.ClassGQuadruplex) {
		return nil, nil
	}
	hits, err := d.env.Engine.ScanClass(chunk.Bytes, d.env.Registry, types.ClassGQuadruplex)
	if err != nil {
		return nil, fmt.Errorf("g4 scan: %w", err)
	}
	out := make([]*types.Candidate, 0, len(hits))
	for i, h := range hits {
		motifID := fmt.Sprintf("%s.%d", h.Pattern.MotifID, i)
		c := newCandidate(chunk, types.ClassGQuadruplex, h.Pattern.Subclass, motifID, h.Pattern.Name, h.Start, h.End)
		out = append(out, c)
	}
	return out, nil
}

// G4HunterScore implements the G4Hunter formula: each base
// in a run contributes according to run length (capped at 4), with sign
// by base identity; the candidate's score is the mean over its length.
func G4HunterScore(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	vals := g4HunterPerBase(b)
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// g4HunterPerBase computes the per-base contribution array shared by the
// G4 and i-motif scorers (the i-motif scorer sign-flips and re-derives
// from the C-strand).
func g4HunterPerBase(b []byte) []float64 {
	vals := make([]float64, len(b))
	i := 0
	for i < len(b) {
		switch b[i] {
		case 'G':
			j := i
			for j < len(b) && b[j] == 'G' {
				j++
			}
			runLen := j - i
			contrib := float64(runLen)
			if contrib > 4 {
				contrib = 4
			}
			for k := i; k < j; k++ {
				vals[k] = contrib
			}
			i = j
		case 'C':
			j := i
			for j < len(b) && b[j] == 'C' {
				j++
			}
			runLen := j - i
			contrib := float64(runLen)
			if contrib > 4 {
				contrib = 4
			}
			for k := i; k < j; k++ {
				vals[k] = -contrib
			}
			i = j
		default:
			vals[i] = 0
			i++
		}
	}
	return vals
}

func (d *G4Detector) Score(cands []*types.Candidate) error {
	for _, c := range cands {
		c.RawScore = G4HunterScore(c.MatchedSeq)
		c.ScoringMethod = "G4Hunter"
	}
	return nil
}
