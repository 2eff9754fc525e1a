package detect

import "github.com/nbdfinder/engine/internal/types"

// testChunk builds a single-chunk window covering the whole sequence, as
// the chunker would for any input shorter than one chunk size.
func testChunk(seq string) *types.Chunk {
	b := []byte(seq)
	return &types.Chunk{
		SequenceName: "test_seq",
		Contig:       "test_seq description",
		Bytes:        b,
		GlobalStart:  0,
		GlobalEnd:    int64(len(b)),
		CoreEnd:      int64(len(b)),
		Index:        0,
	}
}
