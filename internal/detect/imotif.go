package detect

import (
	"fmt"

	"github.com/nbdfinder/engine/internal/types"
)

// IMotifDetector finds C-run regex candidates, scored with a
// sign-flipped G4Hunter adapted to the C-strand, augmented by a CCC-minus-
// GGG run-count term normalized by length.
type IMotifDetector struct {
	env *Env
}

func (d *IMotifDetector) ClassID() types.ClassID { return types.ClassIMotif }

func (d *IMotifDetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	if !d.env.Prefilter.MayMatch(chunk.Bytes, types.ClassIMotif) {
		return nil, nil
	}
	hits, err := d.env.Engine.ScanClass(chunk.Bytes, d.env.Registry, types.ClassIMotif)
	if err != nil {
		return nil, fmt.Errorf("imotif scan: %w", err)
	}
	out := make([]*types.Candidate, 0, len(hits))
	for i, h := range hits {
		motifID := fmt.Sprintf("%s.%d", h.Pattern.MotifID, i)
		c := newCandidate(chunk, types.ClassIMotif, h.Pattern.Subclass, motifID, h.Pattern.Name, h.Start, h.End)
		out = append(out, c)
	}
	return out, nil
}

// countOverlapping counts (possibly overlapping) occurrences of sub in b,
// used by the CCC/GGG run-count augmentation and other k-mer counts.
func countOverlapping(b []byte, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(b); i++ {
		if string(b[i:i+len(sub)]) == sub {
			count++
		}
	}
	return count
}

func (d *IMotifDetector) Score(cands []*types.Candidate) error {
	for _, c := range cands {
		// Adapted G4Hunter on the C-strand, sign-flipped so C-rich
		// sequence scores positive for i-motif purposes.
		base := -G4HunterScore(c.MatchedSeq)
		cccCount := countOverlapping(c.MatchedSeq, "CCC")
		gggCount := countOverlapping(c.MatchedSeq, "GGG")
		runTerm := 0.0
		if len(c.MatchedSeq) > 0 {
			runTerm = float64(cccCount-gggCount) / float64(len(c.MatchedSeq))
		}
		c.RawScore = base + runTerm
		c.ScoringMethod = "iM_G4Hunter_adapted"
	}
	return nil
}
