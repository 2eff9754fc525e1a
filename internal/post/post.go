// Package post derives the two classes that are not chunk-level
// detectors: Hybrid and Cluster both operate on the already-resolved
// primary candidate set.
package post

import (
	"fmt"
	"sort"

	"github.com/nbdfinder/engine/internal/types"
)

// Hybrid derives the hybrid class: for every primary candidate with at least
// one overlapping candidate from a different class, emit a hybrid
// record over the same interval with overlap_classes populated and
// score = |overlap_classes| / 10.
func Hybrid(primary []*types.Candidate) []*types.Candidate {
	var out []*types.Candidate
	for i, c := range primary {
		if len(c.OverlapClasses) == 0 {
			continue
		}
		h := &types.Candidate{
			SequenceName:   c.SequenceName,
			Contig:         c.Contig,
			ClassID:        types.ClassHybrid,
			ClassName:      types.ClassHybrid.Name(),
			Subclass:       c.ClassName,
			MotifID:        fmt.Sprintf("hybrid.%d", i),
			Start:          c.Start,
			End:            c.End,
			Length:         c.Length,
			MatchedSeq:     append([]byte(nil), c.MatchedSeq...),
			PatternName:    "derived_hybrid",
			GCContent:      c.GCContent,
			ScoringMethod:  "hybrid_overlap_count",
			OverlapClasses: copyOverlapSet(c.OverlapClasses),
		}
		h.RawScore = float64(len(h.OverlapClasses)) / 10.0
		h.NormalizedScore = h.RawScore
		if h.NormalizedScore > 1.0 {
			h.NormalizedScore = 1.0
		}
		out = append(out, h)
	}
	return out
}

func copyOverlapSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ClusterConfig configures the sliding-window cluster derivation.
type ClusterConfig struct {
	WindowWidth int64 // default 1000bp
}

func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{WindowWidth: 1000}
}

// Cluster derives the cluster class: slide a window of cfg.WindowWidth over
// each sequence's primary candidates, emit a cluster wherever a window
// holds >= 3 candidates from >= 2 distinct classes, then merge
// overlapping clusters keeping the longest.
func Cluster(primary []*types.Candidate, cfg ClusterConfig) []*types.Candidate {
	bySeq := make(map[string][]*types.Candidate)
	for _, c := range primary {
		bySeq[c.SequenceName] = append(bySeq[c.SequenceName], c)
	}

	seqNames := make([]string, 0, len(bySeq))
	for name := range bySeq {
		seqNames = append(seqNames, name)
	}
	sort.Strings(seqNames)

	var out []*types.Candidate
	for _, seqName := range seqNames {
		cands := bySeq[seqName]
		sort.Slice(cands, func(i, j int) bool { return cands[i].Start < cands[j].Start })
		windows := slideWindows(cands, cfg.WindowWidth)
		merged := mergeWindows(windows)
		for i, win := range merged {
			c := &types.Candidate{
				SequenceName:  seqName,
				Contig:        win.members[0].Contig,
				ClassID:       types.ClassCluster,
				ClassName:     types.ClassCluster.Name(),
				Subclass:      "",
				MotifID:       fmt.Sprintf("cluster.%d", i),
				Start:         win.start,
				End:           win.end,
				Length:        win.end - win.start + 1,
				PatternName:   "derived_cluster",
				ScoringMethod: "cluster_density",
			}
			densityPerKb := float64(len(win.members)) / (float64(c.Length) / 1000.0)
			lengthTerm := float64(c.Length) / 5000.0
			if lengthTerm > 1.0 {
				lengthTerm = 1.0
			}
			c.RawScore = 0.7*densityPerKb + 0.3*lengthTerm
			c.NormalizedScore = c.RawScore
			if c.NormalizedScore > 1.0 {
				c.NormalizedScore = 1.0
			}
			out = append(out, c)
		}
	}
	return out
}

type window struct {
	start, end int64
	members    []*types.Candidate
}

// slideWindows emits one window candidate per primary-candidate start
// position (the window anchored there), keeping only windows that
// satisfy the >=3 candidates / >=2 classes rule.
func slideWindows(sorted []*types.Candidate, width int64) []window {
	var windows []window
	for i, anchor := range sorted {
		winStart := anchor.Start
		winEnd := winStart + width - 1
		var members []*types.Candidate
		classes := make(map[types.ClassID]bool)
		for j := i; j < len(sorted) && sorted[j].Start <= winEnd; j++ {
			members = append(members, sorted[j])
			classes[sorted[j].ClassID] = true
		}
		if len(members) >= 3 && len(classes) >= 2 {
			last := members[len(members)-1]
			end := last.End
			if end > winEnd {
				end = winEnd
			}
			windows = append(windows, window{start: winStart, end: end, members: members})
		}
	}
	return windows
}

// mergeWindows collapses overlapping windows, keeping the longest.
func mergeWindows(windows []window) []window {
	if len(windows) == 0 {
		return nil
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].start < windows[j].start })
	var merged []window
	cur := windows[0]
	for _, w := range windows[1:] {
		if w.start <= cur.end {
			if w.end-w.start > cur.end-cur.start {
				longer := w
				if cur.end > longer.end {
					longer.end = cur.end
				}
				cur = longer
			} else if w.end > cur.end {
				cur.end = w.end
			}
			cur.members = append(cur.members, w.members...)
			continue
		}
		merged = append(merged, cur)
		cur = w
	}
	merged = append(merged, cur)
	return merged
}
