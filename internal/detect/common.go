package detect

import (
	"github.com/nbdfinder/engine/internal/seq"
	"github.com/nbdfinder/engine/internal/types"
)

// newCandidate builds a Candidate from a chunk-local 0-based half-open
// span. This is the only place 0-based internal offsets become the
// 1-based inclusive coordinates every downstream stage sees.
func newCandidate(chunk *types.Chunk, class types.ClassID, subclass, motifID, patternName string, localStart, localEnd int) *types.Candidate {
	globalStart := chunk.GlobalStart + int64(localStart)
	globalEnd := chunk.GlobalStart + int64(localEnd) // half-open end == inclusive end in 1-based terms after +1 on start
	matched := append([]byte(nil), chunk.Bytes[localStart:localEnd]...)
	start1 := globalStart + 1
	end1 := globalEnd
	return &types.Candidate{
		SequenceName:   chunk.SequenceName,
		Contig:         chunk.Contig,
		ClassID:        class,
		ClassName:      class.Name(),
		Subclass:       subclass,
		MotifID:        motifID,
		PatternName:    patternName,
		Start:          start1,
		End:            end1,
		Length:         end1 - start1 + 1,
		MatchedSeq:     matched,
		GCContent:      seq.GCContent(matched),
		OverlapClasses: make(map[string]bool),
	}
}
