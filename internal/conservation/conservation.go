// Package conservation implements single-sequence shuffling controls:
// for each motif class observed in a sequence, shuffle the sequence N
// times preserving base composition, rerun that class's detector on
// every shuffle, and compare the real candidate count against the
// shuffled population.
package conservation

import (
	"math"
	"math/rand"
	"sort"

	"github.com/nbdfinder/engine/internal/detect"
	"github.com/nbdfinder/engine/internal/types"
)

// minAnalyzableLength is the floor below which shuffling statistics are
// unreliable; shorter sequences get neutral metrics instead of a real
// analysis.
const minAnalyzableLength = 50

// epsilon smooths the log2 enrichment ratio against zero counts:
// log2((observed+eps)/(mean_shuffled+eps)).
const epsilon = 0.5

// shuffleCountFor picks an adaptive shuffle count: more shuffles for
// short sequences, where a single run is noisier, fewer for long ones,
// where every shuffle re-runs every detector.
func shuffleCountFor(seqLen int) int {
	switch {
	case seqLen < 100:
		return 100
	case seqLen < 500:
		return 50
	case seqLen < 1000:
		return 30
	default:
		return 20
	}
}

// shuffleSequence returns a composition-preserving permutation of seq,
// seeded deterministically so a conservation run is reproducible.
func shuffleSequence(seq []byte, seed int64) []byte {
	out := append([]byte(nil), seq...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Analyze computes per-class shuffling-control conservation metrics for
// one sequence. cands is the resolved primary candidate set already
// detected on the real sequence; detectors is the same detector set used
// to produce it, reused here against each shuffle so the counts are
// directly comparable.
func Analyze(sequenceName, contig string, seqBytes []byte, cands []*types.Candidate, detectors []detect.Detector) []*types.ConservationResult {
	observed := make(map[string]int)
	classOf := make(map[string]types.ClassID)
	for _, c := range cands {
		observed[c.ClassName]++
		classOf[c.ClassName] = c.ClassID
	}
	if len(observed) == 0 {
		return nil
	}

	classNames := make([]string, 0, len(observed))
	for name := range observed {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	if len(seqBytes) < minAnalyzableLength {
		out := make([]*types.ConservationResult, 0, len(classNames))
		for _, name := range classNames {
			out = append(out, &types.ConservationResult{
				SequenceName:      sequenceName,
				ClassName:         name,
				ObservedCount:     observed[name],
				MeanShuffledCount: 1.0,
				Score:             0.0,
				PValue:            1.0,
				Class:             "neutral",
				Note:              "sequence too short for reliable conservation analysis",
			})
		}
		return out
	}

	detectorFor := make(map[types.ClassID]detect.Detector, len(detectors))
	for _, d := range detectors {
		detectorFor[d.ClassID()] = d
	}

	n := shuffleCountFor(len(seqBytes))
	shuffledCounts := make(map[string][]int, len(classNames))
	for i := 0; i < n; i++ {
		shuffled := shuffleSequence(seqBytes, int64(i))
		chunk := &types.Chunk{
			SequenceName: sequenceName,
			Contig:       contig,
			Bytes:        shuffled,
			GlobalStart:  0,
			GlobalEnd:    int64(len(shuffled)),
			CoreEnd:      int64(len(shuffled)),
		}
		for _, name := range classNames {
			d, ok := detectorFor[classOf[name]]
			count := 0
			if ok {
				if shuffledCands, err := d.Detect(chunk); err == nil {
					count = len(shuffledCands)
				}
			}
			shuffledCounts[name] = append(shuffledCounts[name], count)
		}
	}

	out := make([]*types.ConservationResult, 0, len(classNames))
	for _, name := range classNames {
		counts := shuffledCounts[name]
		obs := observed[name]
		meanShuffled := meanInt(counts)
		score := math.Log2((float64(obs) + epsilon) / (meanShuffled + epsilon))
		pValue := permutationPValue(counts, obs)
		out = append(out, &types.ConservationResult{
			SequenceName:      sequenceName,
			ClassName:         name,
			ObservedCount:     obs,
			MeanShuffledCount: math.Round(meanShuffled*100) / 100,
			Score:             score,
			PValue:            pValue,
			Class:             classify(score, pValue),
		})
	}
	return out
}

func meanInt(v []int) float64 {
	if len(v) == 0 {
		return 0
	}
	s := 0
	for _, x := range v {
		s += x
	}
	return float64(s) / float64(len(v))
}

// permutationPValue is the fraction of shuffled counts at or above the
// observed count.
func permutationPValue(shuffledCounts []int, observed int) float64 {
	if len(shuffledCounts) == 0 {
		return 1.0
	}
	ge := 0
	for _, c := range shuffledCounts {
		if c >= observed {
			ge++
		}
	}
	return float64(ge) / float64(len(shuffledCounts))
}

// classify labels a class's conservation from the permutation test:
// significantly more candidates than chance is enriched, significantly
// fewer is depleted.
func classify(score, pValue float64) string {
	switch {
	case pValue < 0.05 && score > 0:
		return "enriched"
	case pValue < 0.05 && score < 0:
		return "depleted"
	default:
		return "not_significant"
	}
}
