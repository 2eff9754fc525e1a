package post

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbdfinder/engine/internal/types"
)

func TestHybrid_EmitsOnlyForOverlappingCandidates(t *testing.T) {
	a := &types.Candidate{
		SequenceName: "seq1", ClassName: "g_quadruplex", Start: 1, End: 20, Length: 20,
		OverlapClasses: map[string]bool{"z_dna": true},
	}
	b := &types.Candidate{
		SequenceName: "seq1", ClassName: "triplex", Start: 100, End: 120, Length: 21,
		OverlapClasses: map[string]bool{},
	}
	out := Hybrid([]*types.Candidate{a, b})
	if assert.Len(t, out, 1) {
		h := out[0]
		assert.Equal(t, types.ClassHybrid, h.ClassID)
		assert.Equal(t, "g_quadruplex", h.Subclass)
		assert.Equal(t, a.Start, h.Start)
		assert.Equal(t, a.End, h.End)
		assert.InDelta(t, 0.1, h.RawScore, 1e-9)
	}
}

func TestHybrid_ScoreClippedAtOne(t *testing.T) {
	overlaps := map[string]bool{}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		overlaps[n] = true
	}
	c := &types.Candidate{SequenceName: "seq1", ClassName: "g_quadruplex", Start: 1, End: 10, Length: 10, OverlapClasses: overlaps}
	out := Hybrid([]*types.Candidate{c})
	if assert.Len(t, out, 1) {
		assert.Equal(t, 1.0, out[0].NormalizedScore)
	}
}

func TestCluster_RequiresThreeCandidatesTwoClasses(t *testing.T) {
	cands := []*types.Candidate{
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassGQuadruplex, Start: 10, End: 20, Length: 11},
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassZDNA, Start: 30, End: 40, Length: 11},
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassTriplex, Start: 50, End: 60, Length: 11},
	}
	out := Cluster(cands, ClusterConfig{WindowWidth: 1000})
	if assert.Len(t, out, 1) {
		assert.Equal(t, types.ClassCluster, out[0].ClassID)
		assert.Equal(t, int64(10), out[0].Start)
	}
}

func TestCluster_SingleClassNeverClusters(t *testing.T) {
	cands := []*types.Candidate{
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassGQuadruplex, Start: 10, End: 20, Length: 11},
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassGQuadruplex, Start: 30, End: 40, Length: 11},
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassGQuadruplex, Start: 50, End: 60, Length: 11},
	}
	out := Cluster(cands, ClusterConfig{WindowWidth: 1000})
	assert.Empty(t, out)
}

func TestCluster_TooFewCandidatesInWindow(t *testing.T) {
	cands := []*types.Candidate{
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassGQuadruplex, Start: 10, End: 20, Length: 11},
		{SequenceName: "seq1", Contig: "seq1", ClassID: types.ClassZDNA, Start: 30, End: 40, Length: 11},
	}
	out := Cluster(cands, ClusterConfig{WindowWidth: 1000})
	assert.Empty(t, out)
}
