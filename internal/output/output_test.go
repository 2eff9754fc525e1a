package output

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbdfinder/engine/internal/types"
)

func sampleCandidate() *types.Candidate {
	return &types.Candidate{
		SequenceName:    "chr1",
		Contig:          "chr1 test",
		ClassID:         types.ClassGQuadruplex,
		ClassName:       "g_quadruplex",
		Subclass:        "canonical",
		MotifID:         "g4.0",
		Start:           10,
		End:             30,
		Length:          21,
		MatchedSeq:      []byte("GGGTTAGGGTTAGGGTTAGGG"),
		NormalizedScore: 0.8,
		RawScore:        1.2,
		ScoringMethod:   "G4Hunter",
		GCContent:       0.57,
		OverlapClasses:  map[string]bool{"z_dna": true},
	}
}

func TestWriteCSV_HeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []*types.Candidate{sampleCandidate()})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "S.No,Sequence_Name,Chromosome/Contig,Class,Subclass,Motif_ID,Start,End,Length,Normalized_Score,Actual_Score,Scoring_Method,GC_Content,Sequence,Overlap_Classes", lines[0])
	assert.Contains(t, lines[1], "1,chr1,chr1 test,g_quadruplex,canonical,g4.0,10,30,21,")
	assert.Contains(t, lines[1], "z_dna")
}

func TestCSVField_QuotesOnlyWhenNeeded(t *testing.T) {
	assert.Equal(t, "plain", csvField("plain"))
	assert.Equal(t, `"has,comma"`, csvField("has,comma"))
	assert.Equal(t, `"has""quote"`, csvField(`has"quote`))
}

func TestWriteGFF3_HeaderAndAttributes(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGFF3(&buf, []*types.Candidate{sampleCandidate()})
	assert.NoError(t, err)

	scanner := bufio.NewScanner(&buf)
	assert.True(t, scanner.Scan())
	assert.Equal(t, "##gff-version 3", scanner.Text())
	assert.True(t, scanner.Scan())
	line := scanner.Text()
	assert.Contains(t, line, "chr1\tNBDFinder\tmotif\t10\t30")
	assert.Contains(t, line, "ID=motif_1;Class=g_quadruplex;Subclass=canonical")
}

func TestWriteBED_ZeroBasedStartAndRGB(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBED(&buf, []*types.Candidate{sampleCandidate()})
	assert.NoError(t, err)

	fields := strings.Split(strings.TrimRight(buf.String(), "\n"), "\t")
	assert.Equal(t, "chr1", fields[0])
	assert.Equal(t, "9", fields[1]) // 0-based start = Start-1
	assert.Equal(t, "30", fields[2])
	assert.Equal(t, "800", fields[4]) // score * 1000
	assert.Equal(t, "31,119,180", fields[8])
}

func TestRgbFor_UnknownClassFallsBackToBlack(t *testing.T) {
	assert.Equal(t, "0,0,0", rgbFor("not_a_class"))
}

func TestWriteBedGraph_HeaderAndNonZeroRows(t *testing.T) {
	summary := types.NewVisualizationSummary(5, 100, 1000)
	summary.DensityBins[0] = 3
	summary.DensityBins[4] = 1

	var buf bytes.Buffer
	err := WriteBedGraph(&buf, "chr1", 1000, summary)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "track type=bedGraph", lines[0])
	assert.Len(t, lines, 3) // header + 2 non-zero bins
}

func TestWriteBedGraph_NilSummaryStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBedGraph(&buf, "chr1", 1000, nil)
	assert.NoError(t, err)
	assert.Equal(t, "track type=bedGraph\n", buf.String())
}
