package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbdfinder/engine/internal/registry"
	"github.com/nbdfinder/engine/internal/types"
)

func strPattern(id, regex string) *registry.Pattern {
	return &registry.Pattern{
		ClassID:  types.ClassSlippedDNA,
		MotifID:  id,
		Regex:    regex,
		ScanSafe: registry.IsScanSafe(regex),
	}
}

func TestFallbackSubstrate_BackreferencePattern(t *testing.T) {
	s := NewFallbackSubstrate(0)
	defer s.Close()

	p := strPattern("slipped.tri", `([ACGT]{3})\1{4,}`)
	require.False(t, p.ScanSafe)

	content := []byte("TTTT" + strings.Repeat("CAG", 8) + "TTTT")
	hits, err := s.Scan(content, []*registry.Pattern{p})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 4, hits[0].Start)
	assert.Equal(t, 4+24, hits[0].End)
	assert.Equal(t, "slipped.tri", hits[0].Pattern.MotifID)
}

func TestFallbackSubstrate_MultipleMatches(t *testing.T) {
	s := NewFallbackSubstrate(0)
	defer s.Close()

	p := strPattern("slipped.mono", `([ACGT])\1{7,}`)
	content := []byte("AAAAAAAAAA" + "CGCGCG" + "TTTTTTTTTT")
	hits, err := s.Scan(content, []*registry.Pattern{p})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestFallbackSubstrate_BadPatternDemotedSilently(t *testing.T) {
	s := NewFallbackSubstrate(0)
	defer s.Close()

	good := strPattern("slipped.mono", `([ACGT])\1{7,}`)
	bad := strPattern("broken", `([ACGT]`)
	hits, err := s.Scan([]byte("GGGGGGGGGG"), []*registry.Pattern{bad, good})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFallbackSubstrate_NoPatterns(t *testing.T) {
	s := NewFallbackSubstrate(0)
	defer s.Close()
	hits, err := s.Scan([]byte("ACGT"), nil)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}
