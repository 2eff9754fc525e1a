package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZDNADetector_AlternatingCG(t *testing.T) {
	d := NewZDNADetector()
	chunk := testChunk("CGCGCGCGCGCGCGCGCGCG")
	cands, err := d.Detect(chunk)
	assert.NoError(t, err)
	if assert.NotEmpty(t, cands) {
		assert.GreaterOrEqual(t, cands[0].RawScore, 5.0)
		assert.Equal(t, "Z-DNA", cands[0].Subclass)
	}
}

func TestZDNADetector_EGZSubclass(t *testing.T) {
	d := NewZDNADetector()
	chunk := testChunk("CGGCGGCGGCGGCGGCGG")
	cands, err := d.Detect(chunk)
	assert.NoError(t, err)
	if assert.NotEmpty(t, cands) {
		assert.Equal(t, "eGZ", cands[0].Subclass)
	}
}

func TestZDNADetector_NoSignal(t *testing.T) {
	d := NewZDNADetector()
	chunk := testChunk("AAAAAAAAAAAAAAAAAAAA")
	cands, err := d.Detect(chunk)
	assert.NoError(t, err)
	assert.Empty(t, cands)
}

func TestClassifyZSubclass(t *testing.T) {
	assert.Equal(t, "eGZ", classifyZSubclass([]byte("CGGCGGCGGCGG")))
	assert.Equal(t, "Z-DNA", classifyZSubclass([]byte("CGCGCGCGCGCG")))
}

func TestExtractRegions_MultipleLocalMaxima(t *testing.T) {
	d := NewZDNADetector()
	transitions := []float64{6, 2, -20, 6, 3}
	regions := d.extractRegions(transitions)
	assert.Len(t, regions, 2)
}
