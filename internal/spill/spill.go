// Package spill writes and reads the per-chunk candidate files workers
// use instead of passing candidate payloads across a process boundary.
// The on-disk format is an internal CSV dialect, not the user-facing
// output format in internal/output.
package spill

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/nbdfinder/engine/internal/types"
)

var header = []string{
	"sequence_name", "contig", "class_id", "class_name", "subclass", "motif_id",
	"start", "end", "length", "matched_seq", "pattern_name",
	"raw_score", "normalized_score", "scoring_method", "gc_content",
}

// Write serializes cands to path as CSV. Overlap classes are recomputed
// after merge and are intentionally not persisted here.
func Write(path string, cands []*types.Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("spill: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("spill: write header: %w", err)
	}
	for _, c := range cands {
		row := []string{
			c.SequenceName,
			c.Contig,
			strconv.FormatInt(int64(c.ClassID), 10),
			c.ClassName,
			c.Subclass,
			c.MotifID,
			strconv.FormatInt(c.Start, 10),
			strconv.FormatInt(c.End, 10),
			strconv.FormatInt(c.Length, 10),
			string(c.MatchedSeq),
			c.PatternName,
			strconv.FormatFloat(c.RawScore, 'g', -1, 64),
			strconv.FormatFloat(c.NormalizedScore, 'g', -1, 64),
			c.ScoringMethod,
			strconv.FormatFloat(c.GCContent, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("spill: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Read parses a file written by Write back into Candidates.
func Read(path string) ([]*types.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spill: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("spill: read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]*types.Candidate, 0, len(rows)-1)
	for _, row := range rows[1:] {
		classID, _ := strconv.ParseInt(row[2], 10, 64)
		start, _ := strconv.ParseInt(row[6], 10, 64)
		end, _ := strconv.ParseInt(row[7], 10, 64)
		length, _ := strconv.ParseInt(row[8], 10, 64)
		rawScore, _ := strconv.ParseFloat(row[11], 64)
		normScore, _ := strconv.ParseFloat(row[12], 64)
		gc, _ := strconv.ParseFloat(row[14], 64)
		out = append(out, &types.Candidate{
			SequenceName:    row[0],
			Contig:          row[1],
			ClassID:         types.ClassID(classID),
			ClassName:       row[3],
			Subclass:        row[4],
			MotifID:         row[5],
			Start:           start,
			End:             end,
			Length:          length,
			MatchedSeq:      []byte(row[9]),
			PatternName:     row[10],
			RawScore:        rawScore,
			NormalizedScore: normScore,
			ScoringMethod:   row[13],
			GCContent:       gc,
			OverlapClasses:  make(map[string]bool),
		})
	}
	return out, nil
}
