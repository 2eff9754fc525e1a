// Package fasta reads FASTA-formatted sequence input, normalizing each
// record to the uppercase {A,C,G,T,N} alphabet the detectors expect
// while preserving each record's declared name.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nbdfinder/engine/internal/seq"
)

// Record is one named sequence from a FASTA file.
type Record struct {
	Name     string // text following '>' up to the first whitespace
	Contig   string // full header line, minus the leading '>'
	Sequence []byte // normalized bases

	// InvalidBases counts the bytes outside {A,C,G,T,N} that Normalize
	// folded to N; callers warn when it is non-zero.
	InvalidBases int
}

// ReadAll parses every record from r. Lines are stripped of surrounding
// whitespace; any IUPAC ambiguity code or other non-ACGT byte is folded
// to 'N' by seq.Normalize, preserving position and length.
func ReadAll(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<30)

	var records []Record
	var cur *Record
	var buf strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Sequence, cur.InvalidBases = seq.Normalize([]byte(buf.String()))
		records = append(records, *cur)
		buf.Reset()
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			header := line[1:]
			name := header
			if idx := strings.IndexAny(header, " \t"); idx >= 0 {
				name = header[:idx]
			}
			cur = &Record{Name: name, Contig: header}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("fasta: sequence data before header at line %d", lineNo)
		}
		buf.WriteString(line)
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fasta: scan: %w", err)
	}
	return records, nil
}
