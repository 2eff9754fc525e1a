package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCruciformDetector_PalindromicArms(t *testing.T) {
	d := NewCruciformDetector()
	// left arm GGGGGG, loop of 4, right arm = revcomp(left) = CCCCCC
	seq := "GGGGGG" + "AAAA" + "CCCCCC"
	chunk := testChunk(seq)
	cands, err := d.Detect(chunk)
	assert.NoError(t, err)
	if assert.NotEmpty(t, cands) {
		assert.Equal(t, int64(1), cands[0].Start)
		assert.Equal(t, int64(len(seq)), cands[0].End)
		assert.Equal(t, "cruciform_length_ratio", cands[0].ScoringMethod)
	}
}

func TestCruciformDetector_AmbiguousArmsNeverPair(t *testing.T) {
	d := NewCruciformDetector()
	chunk := testChunk(strings.Repeat("N", 40))
	cands, err := d.Detect(chunk)
	assert.NoError(t, err)
	assert.Empty(t, cands)
}

func TestCruciformDetector_NoInvertedRepeat(t *testing.T) {
	d := NewCruciformDetector()
	chunk := testChunk("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	cands, err := d.Detect(chunk)
	assert.NoError(t, err)
	assert.Empty(t, cands)
}
