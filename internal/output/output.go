// Package output serializes the final candidate set into the four wire
// formats: CSV, GFF3, BED, and bedGraph (the density track derived from
// the visualization accumulator, not the candidates directly).
package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nbdfinder/engine/internal/types"
)

// classRGB is the fixed BED itemRgb palette, one triplet per class name.
var classRGB = map[string]string{
	"g_quadruplex": "31,119,180",
	"i_motif":      "255,127,14",
	"z_dna":        "44,160,44",
	"a_philic":     "214,39,40",
	"triplex":      "148,103,189",
	"r_loop":       "140,86,75",
	"cruciform":    "227,119,194",
	"curved_dna":   "127,127,127",
	"slipped_dna":  "188,189,34",
	"hybrid":       "23,190,207",
	"cluster":      "0,0,0",
}

func rgbFor(className string) string {
	if c, ok := classRGB[className]; ok {
		return c
	}
	return "0,0,0"
}

// WriteCSV emits the canonical column set and order.
func WriteCSV(w io.Writer, cands []*types.Candidate) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	header := []string{
		"S.No", "Sequence_Name", "Chromosome/Contig", "Class", "Subclass", "Motif_ID",
		"Start", "End", "Length", "Normalized_Score", "Actual_Score", "Scoring_Method",
		"GC_Content", "Sequence", "Overlap_Classes",
	}
	if _, err := fmt.Fprintln(bw, strings.Join(header, ",")); err != nil {
		return err
	}

	for i, c := range cands {
		overlap := c.OverlapClassNames()
		sort.Strings(overlap)
		row := []string{
			fmt.Sprintf("%d", i+1),
			csvField(c.SequenceName),
			csvField(c.Contig),
			csvField(c.ClassName),
			csvField(c.Subclass),
			csvField(c.MotifID),
			fmt.Sprintf("%d", c.Start),
			fmt.Sprintf("%d", c.End),
			fmt.Sprintf("%d", c.Length),
			fmt.Sprintf("%.6f", c.NormalizedScore),
			fmt.Sprintf("%.6f", c.RawScore),
			csvField(c.ScoringMethod),
			fmt.Sprintf("%.6f", c.GCContent),
			csvField(string(c.MatchedSeq)),
			csvField(strings.Join(overlap, ",")),
		}
		if _, err := fmt.Fprintln(bw, strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// csvField quotes a field only when it contains a delimiter or quote
// character, matching Go's encoding/csv minimal-quoting behavior so
// repeated export round-trips produce byte-identical output.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// WriteGFF3 emits one feature line per candidate.
func WriteGFF3(w io.Writer, cands []*types.Candidate) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	if _, err := fmt.Fprintln(bw, "##gff-version 3"); err != nil {
		return err
	}
	for i, c := range cands {
		attrs := fmt.Sprintf("ID=motif_%d;Class=%s;Subclass=%s;Score=%.6f;Method=%s",
			i+1, c.ClassName, c.Subclass, c.NormalizedScore, c.ScoringMethod)
		line := strings.Join([]string{
			c.SequenceName, "NBDFinder", "motif",
			fmt.Sprintf("%d", c.Start), fmt.Sprintf("%d", c.End),
			fmt.Sprintf("%.6f", c.NormalizedScore), ".", ".", attrs,
		}, "\t")
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteBED emits 0-based BED6+3 rows with a class-palette itemRgb.
func WriteBED(w io.Writer, cands []*types.Candidate) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	for i, c := range cands {
		start0 := c.Start - 1
		score := int(c.NormalizedScore * 1000)
		line := strings.Join([]string{
			c.SequenceName,
			fmt.Sprintf("%d", start0),
			fmt.Sprintf("%d", c.End),
			fmt.Sprintf("motif_%d", i+1),
			fmt.Sprintf("%d", score),
			"+",
			fmt.Sprintf("%d", start0),
			fmt.Sprintf("%d", c.End),
			rgbFor(c.ClassName),
		}, "\t")
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteConservationCSV emits one row per class's shuffling-control
// conservation metrics, grouped by sequence.
func WriteConservationCSV(w io.Writer, results []*types.ConservationResult) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	header := []string{
		"Sequence_Name", "Class", "Observed_Count", "Mean_Shuffled_Count",
		"Conservation_Score", "Conservation_P_Value", "Conservation_Class", "Note",
	}
	if _, err := fmt.Fprintln(bw, strings.Join(header, ",")); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			csvField(r.SequenceName),
			csvField(r.ClassName),
			fmt.Sprintf("%d", r.ObservedCount),
			fmt.Sprintf("%.2f", r.MeanShuffledCount),
			fmt.Sprintf("%.6f", r.Score),
			fmt.Sprintf("%.6f", r.PValue),
			csvField(r.Class),
			csvField(r.Note),
		}
		if _, err := fmt.Fprintln(bw, strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteBedGraph emits a density track built from the visualization
// accumulator's density bins, one row per non-zero window.
func WriteBedGraph(w io.Writer, seqName string, seqLength int64, summary *types.VisualizationSummary) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	if _, err := fmt.Fprintln(bw, "track type=bedGraph"); err != nil {
		return err
	}
	if summary == nil || summary.Bins == 0 || seqLength == 0 {
		return bw.Flush()
	}
	windowSize := seqLength / int64(summary.Bins)
	if windowSize == 0 {
		windowSize = 1
	}
	for i, count := range summary.DensityBins {
		if count == 0 {
			continue
		}
		start := int64(i) * windowSize
		end := start + windowSize
		if i == summary.Bins-1 || end > seqLength {
			end = seqLength
		}
		line := strings.Join([]string{
			seqName,
			fmt.Sprintf("%d", start),
			fmt.Sprintf("%d", end),
			fmt.Sprintf("%d", count),
		}, "\t")
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
