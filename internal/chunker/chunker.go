// Package chunker splits a sequence into overlapping windows for
// independent, parallelizable detection. Windows carry a fixed byte
// overlap tail so a motif straddling a boundary is fully visible to the
// chunk that owns its start.
package chunker

import (
	"github.com/nbdfinder/engine/internal/types"
)

// Config configures sequence chunking.
type Config struct {
	ChunkSize int // core bytes owned by a chunk before the overlap tail
	Overlap   int // bytes of lookahead appended past core_end
}

// DefaultConfig uses a 2000bp overlap, enough to
// contain the longest single motif class (G-quadruplex/triplex windows).
func DefaultConfig() Config {
	return Config{
		ChunkSize: 100_000,
		Overlap:   2000,
	}
}

// Split divides data into chunks of at most cfg.ChunkSize core bytes,
// each carrying an additional cfg.Overlap bytes of lookahead so a motif
// straddling a boundary is still fully visible to whichever chunk owns
// its start position. CoreEnd marks the boundary used by the dedup
// invariant start < core_end: a candidate is owned by this
// chunk only if its start falls before CoreEnd.
func Split(sequenceName, contig string, data []byte) []*types.Chunk {
	return SplitWithConfig(sequenceName, contig, data, DefaultConfig())
}

func SplitWithConfig(sequenceName, contig string, data []byte, cfg Config) []*types.Chunk {
	n := len(data)
	if n == 0 {
		return nil
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}

	var chunks []*types.Chunk
	index := 0
	for coreStart := 0; coreStart < n; coreStart += cfg.ChunkSize {
		coreEnd := coreStart + cfg.ChunkSize
		if coreEnd > n {
			coreEnd = n
		}
		tailEnd := coreEnd + cfg.Overlap
		if tailEnd > n {
			tailEnd = n
		}
		chunks = append(chunks, &types.Chunk{
			SequenceName: sequenceName,
			Contig:       contig,
			Bytes:        data[coreStart:tailEnd],
			GlobalStart:  int64(coreStart),
			GlobalEnd:    int64(tailEnd),
			CoreEnd:      int64(coreEnd),
			Index:        index,
		})
		index++
	}
	return chunks
}

// Strategy names the execution mode selected by sequence length: below
// SingleThreadedMax the chunks are scanned one at a time by a single
// worker, below ParallelMax they are scanned by a worker pool, and at or
// above that they are again scanned one at a time to bound peak memory.
// Every strategy splits the sequence at the configured chunk size and
// spills each chunk's candidates to disk; a short sequence is not
// scanned as one unchunked block.
type Strategy int

const (
	StrategySingleThreaded Strategy = iota
	StrategyParallel
	StrategySequentialStreaming
)

const (
	SingleThreadedMax = 100_000
	ParallelMax       = 5_000_000
)

func SelectStrategy(sequenceLength int) Strategy {
	switch {
	case sequenceLength < SingleThreadedMax:
		return StrategySingleThreaded
	case sequenceLength < ParallelMax:
		return StrategyParallel
	default:
		return StrategySequentialStreaming
	}
}
