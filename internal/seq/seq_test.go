package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_LowercaseAndAmbiguity(t *testing.T) {
	got, invalid := Normalize([]byte("acgtRYKn"))
	assert.Equal(t, "ACGTNNNN", string(got))
	assert.Equal(t, 3, invalid) // R, Y, K; lowercase n is valid
}

func TestNormalize_CleanSequenceCountsZero(t *testing.T) {
	got, invalid := Normalize([]byte("ACGTN"))
	assert.Equal(t, "ACGTN", string(got))
	assert.Zero(t, invalid)
}

func TestReverseComplement(t *testing.T) {
	got := ReverseComplement([]byte("GGGTTTAAA"))
	assert.Equal(t, "TTTAAACCC", string(got))
}

func TestGCContent(t *testing.T) {
	assert.InDelta(t, 0.5, GCContent([]byte("ATGC")), 1e-9)
	assert.Equal(t, 0.0, GCContent([]byte{}))
}

func TestOnlyN(t *testing.T) {
	assert.True(t, OnlyN([]byte("NNNN")))
	assert.True(t, OnlyN([]byte{}))
	assert.False(t, OnlyN([]byte("NNAN")))
}

func TestPurinePyrimidineFraction(t *testing.T) {
	assert.InDelta(t, 1.0, PurineFraction([]byte("AGAGAG")), 1e-9)
	assert.InDelta(t, 1.0, PyrimidineFraction([]byte("CTCTCT")), 1e-9)
	assert.InDelta(t, 0.5, PurineFraction([]byte("AGCT")), 1e-9)
}
