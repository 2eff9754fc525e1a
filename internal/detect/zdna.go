package detect

import (
	"math"
	"strconv"

	"github.com/nbdfinder/engine/internal/types"
)

// ZDNAConfig holds the Z-DNA transition-weight and Kadane parameters.
type ZDNAConfig struct {
	WeightGC        float64
	WeightGT        float64
	WeightAC        float64
	WeightAT        float64
	ATTaper         []float64
	MismatchBase    float64 // p
	MismatchDelta   float64 // delta, linear mode
	MismatchExpBase float64 // exponential mode base
	ExponentialMode bool
	MismatchCap     float64
	CadenceReward   float64
	OpenThreshold   float64
	DropThreshold   float64
}

// DefaultZDNAConfig carries the published transition weights: GC=3.0,
// GT=AC=2.0, cadence_reward=0.2, and the AT taper [3.0,1.5,0.7,...].
func DefaultZDNAConfig() ZDNAConfig {
	taper := make([]float64, 8)
	taper[0] = 3.0
	for i := 1; i < len(taper); i++ {
		taper[i] = taper[i-1] * 0.5
	}
	taper[2] = 0.7
	return ZDNAConfig{
		WeightGC:        3.0,
		WeightGT:        2.0,
		WeightAC:        2.0,
		WeightAT:        1.0,
		ATTaper:         taper,
		MismatchBase:    5.0,
		MismatchDelta:   2.0,
		MismatchExpBase: 1.5,
		ExponentialMode: false,
		MismatchCap:     32000,
		CadenceReward:   0.2,
		OpenThreshold:   5.0,
		DropThreshold:   10.0,
	}
}

// ZDNADetector runs a Kadane-derived multi-region scan over
// a per-transition weight array, algorithmic (no registry patterns).
type ZDNADetector struct {
	cfg ZDNAConfig
}

func NewZDNADetector() *ZDNADetector { return &ZDNADetector{cfg: DefaultZDNAConfig()} }

func (d *ZDNADetector) ClassID() types.ClassID { return types.ClassZDNA }

// transitionScores computes the per-adjacent-pair weight array (length
// len(b)-1).
func (d *ZDNADetector) transitionScores(b []byte) []float64 {
	n := len(b)
	if n < 2 {
		return nil
	}
	scores := make([]float64, n-1)
	atRun := 0
	mismatchRun := 0
	for i := 0; i < n-1; i++ {
		pair := [2]byte{b[i], b[i+1]}
		switch pair {
		case [2]byte{'G', 'C'}, [2]byte{'C', 'G'}:
			scores[i] = d.cfg.WeightGC + d.cfg.CadenceReward
			atRun = 0
			mismatchRun = 0
		case [2]byte{'G', 'T'}, [2]byte{'T', 'G'}:
			scores[i] = d.cfg.WeightGT + d.cfg.CadenceReward
			atRun = 0
			mismatchRun = 0
		case [2]byte{'A', 'C'}, [2]byte{'C', 'A'}:
			scores[i] = d.cfg.WeightAC + d.cfg.CadenceReward
			atRun = 0
			mismatchRun = 0
		case [2]byte{'A', 'T'}, [2]byte{'T', 'A'}:
			bonus := 0.0
			if atRun < len(d.cfg.ATTaper) {
				bonus = d.cfg.ATTaper[atRun]
			}
			scores[i] = d.cfg.WeightAT + bonus + d.cfg.CadenceReward
			atRun++
			mismatchRun = 0
		default:
			mismatchRun++
			var penalty float64
			if d.cfg.ExponentialMode {
				penalty = math.Pow(d.cfg.MismatchExpBase, float64(mismatchRun))
			} else {
				penalty = d.cfg.MismatchBase + d.cfg.MismatchDelta*float64(mismatchRun-1)
			}
			if penalty > d.cfg.MismatchCap {
				penalty = d.cfg.MismatchCap
			}
			scores[i] = -penalty
			atRun = 0
		}
	}
	return scores
}

type kadaneRegion struct {
	startBase, endBase int // 0-based inclusive, base coordinates
	score              float64
}

// extractRegions runs the modified Kadane scan: track (current_sum,
// peak_sum, region_start), open a region when the running sum crosses
// the threshold, and close on either of two independent conditions
// (running sum negative, or peak-to-current drop past drop_threshold),
// so multiple local maxima are emitted rather than one global maximum.
func (d *ZDNADetector) extractRegions(transitions []float64) []kadaneRegion {
	var regions []kadaneRegion
	if len(transitions) == 0 {
		return regions
	}

	inRegion := false
	currentSum := 0.0
	peakSum := 0.0
	pendingStart := 0

	flush := func(endIdx int) {
		regions = append(regions, kadaneRegion{
			startBase: pendingStart,
			endBase:   endIdx + 1,
			score:     peakSum,
		})
	}

	for i := 0; i < len(transitions); i++ {
		if !inRegion {
			currentSum += transitions[i]
			if currentSum < 0 {
				currentSum = 0
				pendingStart = i + 1
				continue
			}
			if currentSum >= d.cfg.OpenThreshold {
				inRegion = true
				peakSum = currentSum
			}
			continue
		}

		currentSum += transitions[i]
		if currentSum > peakSum {
			peakSum = currentSum
		}
		closed := false
		if currentSum < 0 {
			closed = true
		}
		if peakSum-currentSum >= d.cfg.DropThreshold {
			closed = true
		}
		if closed {
			flush(i)
			inRegion = false
			currentSum = 0
			pendingStart = i + 1
		}
	}
	if inRegion {
		flush(len(transitions) - 1)
	}
	return regions
}

func (d *ZDNADetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	transitions := d.transitionScores(chunk.Bytes)
	regions := d.extractRegions(transitions)
	out := make([]*types.Candidate, 0, len(regions))
	for i, r := range regions {
		end := r.endBase + 1 // convert inclusive 0-based to half-open
		c := newCandidate(chunk, types.ClassZDNA, "", "zdna."+strconv.Itoa(i), "Z_DNA_Kadane", r.startBase, end)
		c.RawScore = r.score
		c.Subclass = classifyZSubclass(c.MatchedSeq)
		c.ScoringMethod = "Z_DNA_Kadane"
		out = append(out, c)
	}
	return out, nil
}

// classifyZSubclass assigns the Z-DNA subclass: eGZ when the
// CGG-trinucleotide count (excluding the CG dinucleotide each CGG already
// contains) exceeds the remaining CG-dinucleotide count, otherwise Z-DNA.
func classifyZSubclass(b []byte) string {
	cgg := countOverlapping(b, "CGG")
	cgTotal := countOverlapping(b, "CG")
	cgExclusive := cgTotal - cgg
	if cgg > cgExclusive {
		return "eGZ"
	}
	return "Z-DNA"
}

func (d *ZDNADetector) Score(cands []*types.Candidate) error {
	// The Kadane peak sum is inseparable from region extraction, so the
	// score is already set by Detect.
	return nil
}
