package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbdfinder/engine/internal/types"
)

func cand(class types.ClassID, start, end int64, rawScore float64) *types.Candidate {
	return &types.Candidate{
		SequenceName:   "seq1",
		ClassID:        class,
		ClassName:      class.Name(),
		Start:          start,
		End:            end,
		Length:         end - start + 1,
		RawScore:       rawScore,
		OverlapClasses: make(map[string]bool),
	}
}

func TestResolve_SameClassHighestScoreWins(t *testing.T) {
	a := cand(types.ClassGQuadruplex, 1, 20, 0.4)
	b := cand(types.ClassGQuadruplex, 10, 30, 0.9)
	out := Resolve([]*types.Candidate{a, b}, DefaultConfig())
	if assert.Len(t, out, 1) {
		assert.Equal(t, 0.9, out[0].RawScore)
		// The discarded sibling was same-class; the survivor must not
		// carry its own class name in overlap_classes.
		assert.Empty(t, out[0].OverlapClassNames())
	}
}

func TestResolve_HighestScoreTieBreaksByLengthThenStart(t *testing.T) {
	a := cand(types.ClassGQuadruplex, 1, 20, 0.5)
	b := cand(types.ClassGQuadruplex, 5, 30, 0.5) // same score, longer
	out := Resolve([]*types.Candidate{a, b}, DefaultConfig())
	if assert.Len(t, out, 1) {
		assert.Equal(t, int64(5), out[0].Start)
	}
}

func TestResolve_CrossClassOverlapAnnotatedNotRemoved(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SameClassOnly = true
	a := cand(types.ClassGQuadruplex, 1, 20, 0.4)
	b := cand(types.ClassZDNA, 10, 30, 0.9)
	out := Resolve([]*types.Candidate{a, b}, cfg)
	assert.Len(t, out, 2)
	for _, c := range out {
		assert.Len(t, c.OverlapClassNames(), 1)
	}
}

func TestResolve_KeepAllReturnsEverythingButStillStamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = KeepAll
	a := cand(types.ClassGQuadruplex, 1, 20, 0.4)
	b := cand(types.ClassZDNA, 10, 30, 0.9)
	out := Resolve([]*types.Candidate{a, b}, cfg)
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"z_dna"}, out[0].OverlapClassNames())
	assert.Equal(t, []string{"g_quadruplex"}, out[1].OverlapClassNames())
}

func TestResolve_SameClassOverlapNeverStamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = KeepAll
	a := cand(types.ClassGQuadruplex, 1, 20, 0.4)
	b := cand(types.ClassGQuadruplex, 10, 30, 0.9)
	out := Resolve([]*types.Candidate{a, b}, cfg)
	assert.Len(t, out, 2)
	for _, c := range out {
		assert.Empty(t, c.OverlapClassNames())
	}
}

func TestResolve_LongestMotifStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = LongestMotif
	a := cand(types.ClassGQuadruplex, 1, 50, 0.9)   // shorter, higher score
	b := cand(types.ClassGQuadruplex, 10, 100, 0.1) // longer, lower score
	out := Resolve([]*types.Candidate{a, b}, cfg)
	if assert.Len(t, out, 1) {
		assert.Equal(t, int64(91), out[0].Length)
	}
}

func TestResolve_ScientificPriorityStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = ScientificPriority
	cfg.SameClassOnly = false
	g4 := cand(types.ClassGQuadruplex, 1, 20, 0.1)
	slipped := cand(types.ClassSlippedDNA, 5, 25, 0.99)
	out := Resolve([]*types.Candidate{g4, slipped}, cfg)
	if assert.Len(t, out, 1) {
		assert.Equal(t, types.ClassGQuadruplex, out[0].ClassID)
	}
}

func TestResolve_MergeCompatibleFusesCloseSpans(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = MergeCompatible
	cfg.MergeThreshold = 0.80
	a := cand(types.ClassGQuadruplex, 1, 20, 0.5)
	b := cand(types.ClassGQuadruplex, 22, 40, 0.7) // small gap, same class
	out := Resolve([]*types.Candidate{a, b}, cfg)
	if assert.Len(t, out, 1) {
		assert.Equal(t, int64(1), out[0].Start)
		assert.Equal(t, int64(40), out[0].End)
	}
}

func TestResolve_NoOverlapKeepsBoth(t *testing.T) {
	a := cand(types.ClassGQuadruplex, 1, 10, 0.5)
	b := cand(types.ClassGQuadruplex, 100, 110, 0.5)
	out := Resolve([]*types.Candidate{a, b}, DefaultConfig())
	assert.Len(t, out, 2)
}

func TestResolve_EmptyInput(t *testing.T) {
	out := Resolve(nil, DefaultConfig())
	assert.Empty(t, out)
}
