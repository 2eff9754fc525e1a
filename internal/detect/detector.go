// Package detect implements the per-class motif detectors. Each detector
// is one variant behind a shared interface, built by a central factory
// that maps class names to variants.
package detect

import (
	"fmt"

	"github.com/nbdfinder/engine/internal/prefilter"
	"github.com/nbdfinder/engine/internal/registry"
	"github.com/nbdfinder/engine/internal/scan"
	"github.com/nbdfinder/engine/internal/types"
)

// Detector is the shared capability set every motif class implements:
// detect positions candidates (subclass assigned), score fills in the
// raw score. The pattern-driven detectors leave the score unset in
// detect; the algorithmic ones (Z-DNA, A-philic, cruciform, curved DNA)
// set it in detect, and their score step changes nothing. Detectors are
// side-effect free and may run on any chunk independently.
type Detector interface {
	ClassID() types.ClassID
	Detect(chunk *types.Chunk) ([]*types.Candidate, error)
	Score(cands []*types.Candidate) error
}

// Env bundles the shared, run-scoped dependencies every pattern-driven
// detector needs: the compiled scan engine, the pattern registry, and the
// keyword prefilter. Algorithmic detectors (Z-DNA, A-philic, cruciform,
// curved DNA) ignore reg/prefilter since they generate candidates
// directly rather than consuming registry hits.
type Env struct {
	Engine    *scan.Engine
	Registry  *registry.Registry
	Prefilter *prefilter.Prefilter
}

// Factory builds the nine primary detectors. Hybrid and cluster are
// derived in post-processing from the primary candidate set, never at
// chunk scan time. classNames restricts the set to the given class_name
// values; a nil/empty slice selects every primary class.
func Factory(env *Env, classNames []string) ([]Detector, error) {
	want := make(map[types.ClassID]bool)
	if len(classNames) == 0 {
		for _, c := range types.AllPrimaryClasses {
			want[c] = true
		}
	} else {
		for _, name := range classNames {
			c, ok := types.ClassByName(name)
			if !ok {
				return nil, fmt.Errorf("unknown class name %q", name)
			}
			want[c] = true
		}
	}

	var out []Detector
	for _, c := range types.AllPrimaryClasses {
		if !want[c] {
			continue
		}
		switch c {
		case types.ClassGQuadruplex:
			out = append(out, &G4Detector{env: env})
		case types.ClassIMotif:
			out = append(out, &IMotifDetector{env: env})
		case types.ClassZDNA:
			out = append(out, NewZDNADetector())
		case types.ClassAPhilic:
			out = append(out, NewAPhilicDetector())
		case types.ClassTriplex:
			out = append(out, &TriplexDetector{env: env})
		case types.ClassRLoop:
			out = append(out, &RLoopDetector{env: env})
		case types.ClassCruciform:
			out = append(out, NewCruciformDetector())
		case types.ClassCurvedDNA:
			out = append(out, NewCurvedDNADetector())
		case types.ClassSlippedDNA:
			out = append(out, &SlippedDNADetector{env: env})
		}
	}
	return out, nil
}
