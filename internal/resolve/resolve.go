// Package resolve implements overlap resolution across the merged
// candidate set: once every chunk's survivors are combined,
// overlapping candidates are reduced to a final set under one of five
// strategies.
package resolve

import (
	"sort"

	"github.com/nbdfinder/engine/internal/types"
)

// Strategy selects how overlapping candidates are resolved.
type Strategy string

const (
	HighestScore       Strategy = "highest_score"
	LongestMotif       Strategy = "longest_motif"
	ScientificPriority Strategy = "scientific_priority"
	MergeCompatible    Strategy = "merge_compatible"
	KeepAll            Strategy = "keep_all"
)

// Config configures overlap resolution.
type Config struct {
	Strategy       Strategy
	SameClassOnly  bool
	MinOverlapPct  float64 // fraction in [0,1]; below this, candidates are not considered overlapping
	MergeThreshold float64 // fraction gap, used by MergeCompatible to decide whether to fuse spans
}

// DefaultConfig selects highest_score
// resolution, restricted to same-class conflicts, a 10% overlap floor
// before two candidates are considered in conflict, and an 80% gap
// threshold for MERGE_COMPATIBLE fusion.
func DefaultConfig() Config {
	return Config{
		Strategy:       HighestScore,
		SameClassOnly:  true,
		MinOverlapPct:  0.10,
		MergeThreshold: 0.80,
	}
}

var scientificRank = func() map[types.ClassID]int {
	m := make(map[types.ClassID]int)
	for i, c := range types.ScientificPriority {
		m[c] = i
	}
	return m
}()

// Resolve sorts candidates by genomic position and applies cfg.Strategy
// to each cluster of mutually overlapping candidates. It also stamps
// OverlapClasses on every surviving candidate with the class names of
// every other-class candidate it overlapped, independent of which
// strategy is used.
func Resolve(cands []*types.Candidate, cfg Config) []*types.Candidate {
	if len(cands) == 0 {
		return cands
	}
	sorted := append([]*types.Candidate(nil), cands...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SequenceName != sorted[j].SequenceName {
			return sorted[i].SequenceName < sorted[j].SequenceName
		}
		return sorted[i].Start < sorted[j].Start
	})

	stampOverlaps(sorted, cfg)

	if cfg.Strategy == KeepAll {
		return sorted
	}

	clusters := cluster(sorted, cfg)
	var out []*types.Candidate
	for _, cl := range clusters {
		out = append(out, resolveCluster(cl, cfg)...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SequenceName != out[j].SequenceName {
			return out[i].SequenceName < out[j].SequenceName
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		if out[i].ClassID != out[j].ClassID {
			return out[i].ClassID < out[j].ClassID
		}
		return out[i].End < out[j].End
	})
	return out
}

func overlaps(a, b *types.Candidate, cfg Config) bool {
	if a.SequenceName != b.SequenceName {
		return false
	}
	if cfg.SameClassOnly && a.ClassID != b.ClassID {
		return false
	}
	if !a.Overlaps(b) {
		return false
	}
	if cfg.MinOverlapPct > 0 && a.OverlapFraction(b) < cfg.MinOverlapPct {
		return false
	}
	return true
}

// inConflict is the predicate clustering groups candidates by: either a
// real overlap (the general case), or, under MERGE_COMPATIBLE, two
// same-class candidates close enough that mergeCompatible would fuse
// them. Without this, MERGE_COMPATIBLE's gap-bridging logic would never
// run, since non-overlapping candidates never land in the same cluster.
func inConflict(a, b *types.Candidate, cfg Config) bool {
	if overlaps(a, b, cfg) {
		return true
	}
	if cfg.Strategy != MergeCompatible {
		return false
	}
	if a.SequenceName != b.SequenceName || a.ClassID != b.ClassID {
		return false
	}
	lo, hi := a, b
	if hi.Start < lo.Start {
		lo, hi = hi, lo
	}
	gap := hi.Start - lo.End
	if gap <= 0 {
		return false // already covered by overlaps() above
	}
	shorter := lo.Length
	if hi.Length < shorter {
		shorter = hi.Length
	}
	return float64(gap) <= cfg.MergeThreshold*float64(shorter)
}

// stampOverlaps records, for every candidate, the set of class names of
// other classes it overlaps, independent of resolution strategy:
// overlap_classes is descriptive metadata, not a resolution input.
// Same-class pairs are never stamped; a candidate's own class name must
// not appear in its overlap set.
func stampOverlaps(sorted []*types.Candidate, cfg Config) {
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Start > sorted[i].End {
				break
			}
			if sorted[i].SequenceName != sorted[j].SequenceName {
				continue
			}
			if sorted[i].ClassName == sorted[j].ClassName {
				continue
			}
			if !sorted[i].Overlaps(sorted[j]) {
				continue
			}
			sorted[i].OverlapClasses[sorted[j].ClassName] = true
			sorted[j].OverlapClasses[sorted[i].ClassName] = true
		}
	}
}

// reachEnd is how far past c.End the sweep must keep looking before it can
// rule out a MERGE_COMPATIBLE fusion with c: the gap-bridging test in
// inConflict can admit a neighbor starting up to merge_threshold*c.Length
// past c.End.
func reachEnd(c *types.Candidate, cfg Config) int64 {
	if cfg.Strategy != MergeCompatible {
		return c.End
	}
	return c.End + int64(cfg.MergeThreshold*float64(c.Length)) + 1
}

// cluster groups mutually overlapping (or, under MERGE_COMPATIBLE,
// gap-adjacent) candidates using a sweep over the position-sorted slice;
// candidates are transitively joined when any pair within the running
// group conflicts under cfg.
func cluster(sorted []*types.Candidate, cfg Config) [][]*types.Candidate {
	var clusters [][]*types.Candidate
	used := make([]bool, len(sorted))

	for i := range sorted {
		if used[i] {
			continue
		}
		group := []*types.Candidate{sorted[i]}
		used[i] = true
		maxEnd := reachEnd(sorted[i], cfg)
		for j := i + 1; j < len(sorted); j++ {
			if used[j] {
				continue
			}
			if sorted[j].Start > maxEnd {
				break
			}
			joined := false
			for _, g := range group {
				if inConflict(g, sorted[j], cfg) {
					joined = true
					break
				}
			}
			if !joined {
				continue
			}
			group = append(group, sorted[j])
			used[j] = true
			if r := reachEnd(sorted[j], cfg); r > maxEnd {
				maxEnd = r
			}
		}
		clusters = append(clusters, group)
	}
	return clusters
}

func resolveCluster(group []*types.Candidate, cfg Config) []*types.Candidate {
	if len(group) == 1 {
		return group
	}
	switch cfg.Strategy {
	case LongestMotif:
		return []*types.Candidate{pickBy(group, func(c *types.Candidate) float64 { return float64(c.Length) })}
	case ScientificPriority:
		best := group[0]
		for _, c := range group[1:] {
			switch {
			case scientificRank[c.ClassID] < scientificRank[best.ClassID]:
				best = c
			case scientificRank[c.ClassID] == scientificRank[best.ClassID] && c.RawScore > best.RawScore:
				best = c
			}
		}
		return []*types.Candidate{best}
	case MergeCompatible:
		return mergeCompatible(group, cfg)
	case HighestScore:
		fallthrough
	default:
		return []*types.Candidate{pickBy(group, func(c *types.Candidate) float64 { return c.RawScore })}
	}
}

// pickBy keeps the cluster head under a (key desc, length desc, start
// asc) ordering. Resolution runs before normalization, so keys are
// raw-score-derived, never NormalizedScore.
func pickBy(group []*types.Candidate, key func(*types.Candidate) float64) *types.Candidate {
	best := group[0]
	bestVal := key(best)
	for _, c := range group[1:] {
		v := key(c)
		switch {
		case v > bestVal:
			best, bestVal = c, v
		case v == bestVal && c.Length > best.Length:
			best = c
		case v == bestVal && c.Length == best.Length && c.Start < best.Start:
			best = c
		}
	}
	return best
}

// mergeCompatible fuses candidates of the same class whose gap is within
// cfg.MergeThreshold of the shorter candidate's length, keeping distinct
// classes as separate survivors.
func mergeCompatible(group []*types.Candidate, cfg Config) []*types.Candidate {
	byClass := make(map[types.ClassID][]*types.Candidate)
	for _, c := range group {
		byClass[c.ClassID] = append(byClass[c.ClassID], c)
	}
	var out []*types.Candidate
	for _, members := range byClass {
		sort.Slice(members, func(i, j int) bool { return members[i].Start < members[j].Start })
		cur := members[0]
		for _, next := range members[1:] {
			gap := next.Start - cur.End
			shorter := cur.Length
			if next.Length < shorter {
				shorter = next.Length
			}
			if float64(gap) <= cfg.MergeThreshold*float64(shorter) {
				cur = mergeTwo(cur, next)
				continue
			}
			out = append(out, cur)
			cur = next
		}
		out = append(out, cur)
	}
	return out
}

func mergeTwo(a, b *types.Candidate) *types.Candidate {
	merged := *a
	if b.End > merged.End {
		merged.End = b.End
	}
	merged.Length = merged.End - merged.Start + 1
	if a.Subclass != b.Subclass && b.Subclass != "" {
		merged.Subclass = "merged_" + a.Subclass + "_" + b.Subclass
	}
	if b.RawScore > a.RawScore {
		merged.RawScore = b.RawScore
		merged.ScoringMethod = b.ScoringMethod
	}
	merged.OverlapClasses = make(map[string]bool)
	for k := range a.OverlapClasses {
		merged.OverlapClasses[k] = true
	}
	for k := range b.OverlapClasses {
		merged.OverlapClasses[k] = true
	}
	return &merged
}
