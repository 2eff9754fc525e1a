package detect

import (
	"math"
	"strconv"

	"github.com/nbdfinder/engine/internal/types"
)

// CurvedDNADetector finds maximal A-tracts (length 3-9),
// paired when either the gap between them or their start-to-start period
// is in [7,13] (approximating the ~10.5bp helical repeat), scored by how
// closely consecutive tract phasing matches the 10bp period.
type CurvedDNADetector struct {
	minTract, maxTract int
	minGap, maxGap     int
	idealPeriod        float64
}

func NewCurvedDNADetector() *CurvedDNADetector {
	return &CurvedDNADetector{minTract: 3, maxTract: 9, minGap: 7, maxGap: 13, idealPeriod: 10.0}
}

func (d *CurvedDNADetector) ClassID() types.ClassID { return types.ClassCurvedDNA }

type aTract struct {
	start, end int
}

func (d *CurvedDNADetector) findTracts(b []byte) []aTract {
	var tracts []aTract
	i := 0
	for i < len(b) {
		if b[i] != 'A' {
			i++
			continue
		}
		j := i
		for j < len(b) && b[j] == 'A' {
			j++
		}
		length := j - i
		if length >= d.minTract {
			capped := length
			if capped > d.maxTract {
				capped = d.maxTract
			}
			tracts = append(tracts, aTract{start: i, end: i + capped})
		}
		i = j
	}
	return tracts
}

func (d *CurvedDNADetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	tracts := d.findTracts(chunk.Bytes)
	var out []*types.Candidate
	idx := 0
	used := make([]bool, len(tracts))

	for i := 0; i < len(tracts); i++ {
		if used[i] {
			continue
		}
		group := []aTract{tracts[i]}
		last := tracts[i]
		for j := i + 1; j < len(tracts); j++ {
			if used[j] {
				continue
			}
			// A tract pairs with its predecessor when either the
			// inter-tract gap or the start-to-start period lands in the
			// helical-turn window: short tracts phase by gap, long
			// tracts by period.
			gap := tracts[j].start - last.end
			period := tracts[j].start - last.start
			if period > d.maxGap && gap > d.maxGap {
				break
			}
			if (gap < d.minGap || gap > d.maxGap) && (period < d.minGap || period > d.maxGap) {
				continue
			}
			group = append(group, tracts[j])
			used[j] = true
			last = tracts[j]
		}
		if len(group) < 2 {
			continue
		}
		used[i] = true
		start := group[0].start
		end := group[len(group)-1].end
		score := d.phasingScore(group)
		c := newCandidate(chunk, types.ClassCurvedDNA, "", "curved."+strconv.Itoa(idx), "A_phased_repeat", start, end)
		c.RawScore = score
		c.ScoringMethod = "curvature_phasing"
		out = append(out, c)
		idx++
	}
	return out, nil
}

// phasingScore rewards periods close to the ideal 10bp helical repeat and
// penalizes deviation, averaged across consecutive tract centers. Tracts
// of 7bp or more bend the helix hardest, so their count multiplies the
// fidelity term; arrays of shorter tracts keep the bare fidelity score.
func (d *CurvedDNADetector) phasingScore(group []aTract) float64 {
	if len(group) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(group); i++ {
		prevCenter := float64(group[i-1].start+group[i-1].end) / 2.0
		curCenter := float64(group[i].start+group[i].end) / 2.0
		period := curCenter - prevCenter
		deviation := math.Abs(period - d.idealPeriod)
		fidelity := 1.0 - deviation/d.idealPeriod
		if fidelity < 0 {
			fidelity = 0
		}
		total += fidelity
	}
	fidelity := total / float64(len(group)-1)
	longTracts := 0
	for _, tr := range group {
		if tr.end-tr.start >= 7 {
			longTracts++
		}
	}
	if longTracts > 0 {
		return float64(longTracts) * fidelity
	}
	return fidelity
}

func (d *CurvedDNADetector) Score(cands []*types.Candidate) error {
	return nil
}
