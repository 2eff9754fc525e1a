// Package prefilter implements a cheap Aho-Corasick keyword gate in
// front of the regex-driven detectors. The keywords are short literal
// runs each motif class requires at minimum (e.g. g_quadruplex needs a
// GGG somewhere), so a chunk that contains none of a class's keywords
// can skip that class's regex patterns entirely.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/nbdfinder/engine/internal/types"
)

// ClassKeywords are the literal substrings that must appear at least once
// for a class's patterns to have any chance of matching. Classes with an
// empty keyword list (algorithmic detectors with no registry patterns)
// are always checked.
var ClassKeywords = map[types.ClassID][]string{
	types.ClassGQuadruplex: {"GGG"},
	types.ClassIMotif:      {"CCC"},
	types.ClassTriplex:     {"AAAAAAAAAAAAAAA", "CCCCCCCCCCCCCCC", "GGGGGGGGGGGGGGG", "TTTTTTTTTTTTTTT"},
	types.ClassRLoop:       {"GGG", "GGGG"},
	types.ClassSlippedDNA:  {"AA", "CC", "GG", "TT"},
}

// Prefilter maps each class to an Aho-Corasick matcher over its keyword
// set; classes without keywords are always "present".
type Prefilter struct {
	matchers map[types.ClassID]*ahocorasick.Matcher
	keywords map[types.ClassID][]string
}

// New builds a Prefilter from ClassKeywords.
func New() *Prefilter {
	pf := &Prefilter{
		matchers: make(map[types.ClassID]*ahocorasick.Matcher),
		keywords: make(map[types.ClassID][]string),
	}
	for class, kws := range ClassKeywords {
		if len(kws) == 0 {
			continue
		}
		pf.keywords[class] = kws
		pf.matchers[class] = ahocorasick.NewStringMatcher(kws)
	}
	return pf
}

// MayMatch reports whether a chunk could possibly contain a motif of the
// given class. Classes without a registered keyword set always return
// true (algorithmic detectors: Z-DNA, A-philic, cruciform, curved DNA).
func (pf *Prefilter) MayMatch(content []byte, class types.ClassID) bool {
	matcher, ok := pf.matchers[class]
	if !ok {
		return true
	}
	hits := matcher.Match(content)
	return len(hits) > 0
}

// ActiveClasses filters a candidate class list down to those the
// prefilter believes may match this chunk.
func (pf *Prefilter) ActiveClasses(content []byte, classes []types.ClassID) []types.ClassID {
	out := make([]types.ClassID, 0, len(classes))
	for _, c := range classes {
		if pf.MayMatch(content, c) {
			out = append(out, c)
		}
	}
	return out
}
