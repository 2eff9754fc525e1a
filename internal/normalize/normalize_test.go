package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbdfinder/engine/internal/types"
)

func scored(class types.ClassID, raw float64) *types.Candidate {
	return &types.Candidate{ClassID: class, RawScore: raw}
}

func TestApply_MinMaxSpansZeroToOne(t *testing.T) {
	cands := []*types.Candidate{
		scored(types.ClassGQuadruplex, 0.2),
		scored(types.ClassGQuadruplex, 0.6),
		scored(types.ClassGQuadruplex, 1.0),
	}
	Apply(cands, MinMax)
	assert.Equal(t, 0.0, cands[0].NormalizedScore)
	assert.InDelta(t, 0.5, cands[1].NormalizedScore, 1e-9)
	assert.Equal(t, 1.0, cands[2].NormalizedScore)
}

func TestApply_MinMaxConstantGroupGetsOne(t *testing.T) {
	cands := []*types.Candidate{
		scored(types.ClassZDNA, 3.0),
		scored(types.ClassZDNA, 3.0),
	}
	Apply(cands, MinMax)
	for _, c := range cands {
		assert.Equal(t, 1.0, c.NormalizedScore)
	}
}

func TestApply_ClassesNormalizeIndependently(t *testing.T) {
	cands := []*types.Candidate{
		scored(types.ClassGQuadruplex, 10),
		scored(types.ClassGQuadruplex, 20),
		scored(types.ClassZDNA, 1000),
		scored(types.ClassZDNA, 2000),
	}
	Apply(cands, MinMax)
	assert.Equal(t, 0.0, cands[0].NormalizedScore)
	assert.Equal(t, 1.0, cands[1].NormalizedScore)
	assert.Equal(t, 0.0, cands[2].NormalizedScore)
	assert.Equal(t, 1.0, cands[3].NormalizedScore)
}

func TestApply_ZScoreBoundedZeroToOne(t *testing.T) {
	cands := []*types.Candidate{
		scored(types.ClassTriplex, 1),
		scored(types.ClassTriplex, 2),
		scored(types.ClassTriplex, 3),
		scored(types.ClassTriplex, 100),
	}
	Apply(cands, ZScore)
	for _, c := range cands {
		assert.GreaterOrEqual(t, c.NormalizedScore, 0.0)
		assert.LessOrEqual(t, c.NormalizedScore, 1.0)
	}
}

func TestApply_ZScoreConstantGroupGetsOne(t *testing.T) {
	cands := []*types.Candidate{
		scored(types.ClassRLoop, 5.0),
		scored(types.ClassRLoop, 5.0),
		scored(types.ClassRLoop, 5.0),
	}
	Apply(cands, ZScore)
	for _, c := range cands {
		assert.Equal(t, 1.0, c.NormalizedScore)
	}
}
