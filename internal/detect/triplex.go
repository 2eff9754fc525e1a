package detect

import (
	"fmt"

	"github.com/nbdfinder/engine/internal/seq"
	"github.com/nbdfinder/engine/internal/types"
)

// TriplexDetector finds homopurine/homopyrimidine tract
// candidates from the registry, scored by purine/pyrimidine fraction with
// a length bonus saturating at 30bp.
type TriplexDetector struct {
	env *Env
}

func (d *TriplexDetector) ClassID() types.ClassID { return types.ClassTriplex }

func (d *TriplexDetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	if !d.env.Prefilter.MayMatch(chunk.Bytes, types.ClassTriplex) {
		return nil, nil
	}
	hits, err := d.env.Engine.ScanClass(chunk.Bytes, d.env.Registry, types.ClassTriplex)
	if err != nil {
		return nil, fmt.Errorf("triplex scan: %w", err)
	}
	out := make([]*types.Candidate, 0, len(hits))
	for i, h := range hits {
		motifID := fmt.Sprintf("%s.%d", h.Pattern.MotifID, i)
		c := newCandidate(chunk, types.ClassTriplex, h.Pattern.Subclass, motifID, h.Pattern.Name, h.Start, h.End)
		out = append(out, c)
	}
	return out, nil
}

// TriplexScore is max(purine_fraction, pyrimidine_fraction)
// multiplied by a length factor that grows linearly to 1.0 at 30bp and
// saturates beyond it.
func TriplexScore(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	purity := seq.PurineFraction(b)
	pyrimidy := seq.PyrimidineFraction(b)
	base := purity
	if pyrimidy > base {
		base = pyrimidy
	}
	lengthBonus := float64(len(b)) / 30.0
	if lengthBonus > 1.0 {
		lengthBonus = 1.0
	}
	return base * lengthBonus
}

func (d *TriplexDetector) Score(cands []*types.Candidate) error {
	for _, c := range cands {
		c.RawScore = TriplexScore(c.MatchedSeq)
		c.ScoringMethod = "triplex_purine_purity"
	}
	return nil
}
