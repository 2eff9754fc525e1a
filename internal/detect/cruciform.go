package detect

import (
	"bytes"
	"strconv"

	"github.com/nbdfinder/engine/internal/seq"
	"github.com/nbdfinder/engine/internal/types"
)

// CruciformDetector finds inverted repeats algorithmically rather than
// through the pattern registry: a regex backreference can only assert two
// substrings are identical, but a cruciform arm pair must satisfy
// right_arm == reverse_complement(left_arm), which backreferences cannot
// express. The detector instead scans candidate (arm_length, loop_length)
// windows directly and checks reverse-complement equality.
type CruciformDetector struct {
	minArm, maxArm   int
	minLoop, maxLoop int
}

func NewCruciformDetector() *CruciformDetector {
	return &CruciformDetector{minArm: 6, maxArm: 20, minLoop: 0, maxLoop: 10}
}

func (d *CruciformDetector) ClassID() types.ClassID { return types.ClassCruciform }

func (d *CruciformDetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	b := chunk.Bytes
	n := len(b)
	var out []*types.Candidate
	idx := 0
	claimed := make([]bool, n+1)

	for arm := d.maxArm; arm >= d.minArm; arm-- {
		for loop := d.minLoop; loop <= d.maxLoop; loop++ {
			span := 2*arm + loop
			for start := 0; start+span <= n; start++ {
				if claimed[start] {
					continue
				}
				left := b[start : start+arm]
				// N complements to N, so an ambiguous arm would trivially
				// "pair" with itself; N scores as a mismatch everywhere.
				if bytes.IndexByte(left, 'N') >= 0 {
					continue
				}
				rightStart := start + arm + loop
				right := b[rightStart : rightStart+arm]
				rc := seq.ReverseComplement(right)
				if !bytes.Equal(left, rc) {
					continue
				}
				end := start + span
				overlap := false
				for p := start; p < end; p++ {
					if claimed[p] {
						overlap = true
						break
					}
				}
				if overlap {
					continue
				}
				for p := start; p < end; p++ {
					claimed[p] = true
				}
				c := newCandidate(chunk, types.ClassCruciform, "", "cruciform."+strconv.Itoa(idx), "IR_revcomp_scan", start, end)
				c.RawScore = float64(c.Length) / 100.0
				c.ScoringMethod = "cruciform_length_ratio"
				out = append(out, c)
				idx++
			}
		}
	}
	return out, nil
}

func (d *CruciformDetector) Score(cands []*types.Candidate) error {
	return nil
}
