// Package normalize rescales raw detector scores into [0,1] per class,
// either by class-scoped min-max (the default) or by
// z-score then min-max rescale of the z-scores, using gonum's stat
// package for the mean/stddev pass.
package normalize

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/nbdfinder/engine/internal/types"
)

// Method selects the normalization formula.
type Method string

const (
	MinMax Method = "minmax"
	ZScore Method = "zscore"
)

// Apply rescales RawScore into NormalizedScore in place, grouped by
// ClassID, so every class independently spans [0,1] after normalization.
func Apply(cands []*types.Candidate, method Method) {
	byClass := make(map[types.ClassID][]*types.Candidate)
	for _, c := range cands {
		byClass[c.ClassID] = append(byClass[c.ClassID], c)
	}
	for _, group := range byClass {
		switch method {
		case ZScore:
			applyZScore(group)
		default:
			applyMinMax(group)
		}
	}
}

func applyMinMax(group []*types.Candidate) {
	if len(group) == 0 {
		return
	}
	lo, hi := group[0].RawScore, group[0].RawScore
	for _, c := range group {
		if c.RawScore < lo {
			lo = c.RawScore
		}
		if c.RawScore > hi {
			hi = c.RawScore
		}
	}
	span := hi - lo
	for _, c := range group {
		if span == 0 {
			c.NormalizedScore = 1.0
			continue
		}
		c.NormalizedScore = (c.RawScore - lo) / span
	}
}

// applyZScore standardizes raw scores with gonum's stat.MeanStdDev, then
// min-max rescales the z-scores so the class still spans exactly [0,1].
func applyZScore(group []*types.Candidate) {
	if len(group) == 0 {
		return
	}
	raw := make([]float64, len(group))
	for i, c := range group {
		raw[i] = c.RawScore
	}
	mean, std := stat.MeanStdDev(raw, nil)
	if std == 0 || math.IsNaN(std) {
		for _, c := range group {
			c.NormalizedScore = 1.0
		}
		return
	}
	z := make([]float64, len(group))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, c := range group {
		z[i] = (c.RawScore - mean) / std
		if z[i] < lo {
			lo = z[i]
		}
		if z[i] > hi {
			hi = z[i]
		}
	}
	span := hi - lo
	for i, c := range group {
		if span == 0 {
			c.NormalizedScore = 1.0
			continue
		}
		c.NormalizedScore = (z[i] - lo) / span
	}
}
