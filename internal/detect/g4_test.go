package detect

import (
	"testing"

	"github.com/nbdfinder/engine/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestG4HunterScore_CanonicalG4(t *testing.T) {
	score := G4HunterScore([]byte("GGGTTAGGGTTAGGGTTAGGG"))
	assert.Greater(t, score, 0.5)
}

func TestG4HunterScore_CStrandIsNegative(t *testing.T) {
	score := G4HunterScore([]byte("CCCTTACCCTTACCCTTACCC"))
	assert.Less(t, score, -0.5)
}

func TestG4HunterScore_Empty(t *testing.T) {
	assert.Equal(t, 0.0, G4HunterScore(nil))
}

func TestIMotifScore_CRichSign(t *testing.T) {
	d := &IMotifDetector{}
	cands := []*types.Candidate{{MatchedSeq: []byte("CCCTTACCCTTACCCTTACCC")}}
	err := d.Score(cands)
	assert.NoError(t, err)
	assert.Equal(t, "iM_G4Hunter_adapted", cands[0].ScoringMethod)
	assert.Greater(t, cands[0].RawScore, 0.5)
}

func TestCountOverlapping(t *testing.T) {
	assert.Equal(t, 4, countOverlapping([]byte("GGGGG"), "GG"))
	assert.Equal(t, 0, countOverlapping([]byte("AAAA"), "GG"))
}
