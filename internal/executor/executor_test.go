package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbdfinder/engine/internal/detect"
	"github.com/nbdfinder/engine/internal/spill"
	"github.com/nbdfinder/engine/internal/types"
)

// stubDetector emits one fixed-position candidate per chunk at a
// configurable 0-based offset into the chunk, converted to global 1-based
// coordinates the way real detectors do.
type stubDetector struct {
	offset int64
	panics bool
}

func (d *stubDetector) ClassID() types.ClassID { return types.ClassGQuadruplex }

func (d *stubDetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	if d.panics {
		panic("stub detector failure")
	}
	if d.offset >= int64(len(chunk.Bytes)) {
		return nil, nil
	}
	start1 := chunk.GlobalStart + d.offset + 1
	return []*types.Candidate{{
		SequenceName:   chunk.SequenceName,
		ClassID:        types.ClassGQuadruplex,
		ClassName:      "g_quadruplex",
		Start:          start1,
		End:            start1,
		Length:         1,
		MatchedSeq:     chunk.Bytes[d.offset : d.offset+1],
		OverlapClasses: map[string]bool{},
	}}, nil
}

func (d *stubDetector) Score(cands []*types.Candidate) error {
	for _, c := range cands {
		c.RawScore = 1.0
	}
	return nil
}

func chunkAt(index int, globalStart, coreEnd, globalEnd int64) *types.Chunk {
	return &types.Chunk{
		SequenceName: "seq1",
		Bytes:        make([]byte, globalEnd-globalStart),
		GlobalStart:  globalStart,
		GlobalEnd:    globalEnd,
		CoreEnd:      coreEnd,
		Index:        index,
	}
}

func TestRun_SpillsOwnedCandidates(t *testing.T) {
	p, err := New([]detect.Detector{&stubDetector{offset: 0}}, Options{SpillDir: t.TempDir()})
	require.NoError(t, err)

	metas, err := p.Run(context.Background(), []*types.Chunk{chunkAt(0, 0, 100, 120)})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	require.NoError(t, metas[0].Err)
	assert.Equal(t, 1, metas[0].MotifCount)

	cands, err := spill.Read(metas[0].FilePath)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, int64(1), cands[0].Start)
}

func TestRun_OverlapTailCandidateNotOwned(t *testing.T) {
	// The candidate starts at offset 110, past core_end=100: the chunk's
	// overlap tail rediscovery must be discarded, since the next chunk
	// owns that position.
	p, err := New([]detect.Detector{&stubDetector{offset: 110}}, Options{SpillDir: t.TempDir()})
	require.NoError(t, err)

	metas, err := p.Run(context.Background(), []*types.Chunk{chunkAt(0, 0, 100, 120)})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	require.NoError(t, metas[0].Err)
	assert.Equal(t, 0, metas[0].MotifCount)
}

func TestRun_PanicReportedViaChunkMeta(t *testing.T) {
	p, err := New([]detect.Detector{&stubDetector{panics: true}}, Options{SpillDir: t.TempDir()})
	require.NoError(t, err)

	metas, err := p.Run(context.Background(), []*types.Chunk{chunkAt(0, 0, 100, 120)})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Error(t, metas[0].Err)
}

func TestRunSequential_SpillsCandidateInGlobalCoordinates(t *testing.T) {
	p, err := New([]detect.Detector{&stubDetector{offset: 5}}, Options{SpillDir: t.TempDir()})
	require.NoError(t, err)

	meta := p.RunSequential(chunkAt(3, 300, 400, 420))
	require.NoError(t, meta.Err)
	assert.Equal(t, 3, meta.ChunkIndex)
	assert.Equal(t, 1, meta.MotifCount)

	cands, err := spill.Read(meta.FilePath)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, int64(306), cands[0].Start)
}
