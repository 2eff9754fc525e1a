// Package seq provides byte-level operations on the nucleotide alphabet
// {A,C,G,T,N} used throughout the detection pipeline.
package seq

import "strings"

// Normalize upper-cases a sequence and maps any byte outside {A,C,G,T,N}
// to 'N': invalid bases are treated as N rather than rejected. The second
// return value counts the bytes that were folded this way, so callers can
// warn about dirty input.
func Normalize(b []byte) ([]byte, int) {
	out := make([]byte, len(b))
	invalid := 0
	for i, c := range b {
		switch c {
		case 'a':
			out[i] = 'A'
		case 'c':
			out[i] = 'C'
		case 'g':
			out[i] = 'G'
		case 't':
			out[i] = 'T'
		case 'n':
			out[i] = 'N'
		case 'A', 'C', 'G', 'T', 'N':
			out[i] = c
		default:
			out[i] = 'N'
			invalid++
		}
	}
	return out, invalid
}

var complement = [256]byte{}

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	complement['A'] = 'T'
	complement['T'] = 'A'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['N'] = 'N'
}

// ReverseComplement returns the reverse complement of a normalized sequence.
func ReverseComplement(b []byte) []byte {
	out := make([]byte, len(b))
	n := len(b)
	for i, c := range b {
		out[n-1-i] = complement[c]
	}
	return out
}

// GCContent returns the fraction of G/C bases in [0,1]. N bases are counted
// in the denominator but never the numerator, matching their "always a
// mismatch" treatment elsewhere in the scoring algorithms.
func GCContent(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	gc := 0
	for _, c := range b {
		if c == 'G' || c == 'C' {
			gc++
		}
	}
	return float64(gc) / float64(len(b))
}

// OnlyN reports whether a sequence is empty or consists solely of N
// bases; such sequences yield empty results for every class.
func OnlyN(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return strings.Count(string(b), "N") == len(b)
}

// PurineFraction returns the fraction of A/G bases.
func PurineFraction(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, c := range b {
		if c == 'A' || c == 'G' {
			n++
		}
	}
	return float64(n) / float64(len(b))
}

// PyrimidineFraction returns the fraction of C/T bases.
func PyrimidineFraction(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, c := range b {
		if c == 'C' || c == 'T' {
			n++
		}
	}
	return float64(n) / float64(len(b))
}
