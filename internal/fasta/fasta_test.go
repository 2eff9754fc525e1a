package fasta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadAll_SingleRecord(t *testing.T) {
	input := ">chr1 test chromosome\nACGTacgt\nNNNN\n"
	recs, err := ReadAll(strings.NewReader(input))
	assert.NoError(t, err)
	if assert.Len(t, recs, 1) {
		assert.Equal(t, "chr1", recs[0].Name)
		assert.Equal(t, "chr1 test chromosome", recs[0].Contig)
		assert.Equal(t, "ACGTACGTNNNN", string(recs[0].Sequence))
	}
}

func TestReadAll_MultipleRecords(t *testing.T) {
	input := ">seq1\nACGT\n>seq2 description here\nTTTT\n"
	recs, err := ReadAll(strings.NewReader(input))
	assert.NoError(t, err)
	if assert.Len(t, recs, 2) {
		assert.Equal(t, "seq1", recs[0].Name)
		assert.Equal(t, "ACGT", string(recs[0].Sequence))
		assert.Equal(t, "seq2", recs[1].Name)
		assert.Equal(t, "TTTT", string(recs[1].Sequence))
	}
}

func TestReadAll_SequenceBeforeHeaderErrors(t *testing.T) {
	_, err := ReadAll(strings.NewReader("ACGT\n>seq1\nACGT\n"))
	assert.Error(t, err)
}

func TestReadAll_EmptyInput(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadAll_AmbiguityCodesFoldToN(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(">seq1\nACRYKMSWBDHVN\n"))
	assert.NoError(t, err)
	if assert.Len(t, recs, 1) {
		assert.Equal(t, "ACNNNNNNNNNNN", string(recs[0].Sequence))
		assert.Equal(t, 10, recs[0].InvalidBases) // trailing N is valid
	}
}

func TestReadAll_CleanRecordHasNoInvalidBases(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(">seq1\nACGTN\n"))
	assert.NoError(t, err)
	if assert.Len(t, recs, 1) {
		assert.Zero(t, recs[0].InvalidBases)
	}
}
