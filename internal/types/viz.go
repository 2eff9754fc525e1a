package types

// VisualizationSummary is a fixed-size aggregate independent of motif
// count. Bins is the bin count; the cooccurrence matrix is indexed
// by class name pairs discovered at construction/run time, bounded by the
// 11 known classes.
type VisualizationSummary struct {
	Bins           int
	MaxLength      int64
	SeqLength      int64
	ClassCounts    map[string]int64
	SubclassCounts map[string]int64
	DensityBins    []int64
	LengthBins     []int64
	Cooccurrence   map[string]map[string]int64
}

// NewVisualizationSummary allocates a summary sized for a sequence of the
// given total length.
func NewVisualizationSummary(bins int, maxLength, seqLength int64) *VisualizationSummary {
	return &VisualizationSummary{
		Bins:           bins,
		MaxLength:      maxLength,
		SeqLength:      seqLength,
		ClassCounts:    make(map[string]int64),
		SubclassCounts: make(map[string]int64),
		DensityBins:    make([]int64, bins),
		LengthBins:     make([]int64, bins),
		Cooccurrence:   make(map[string]map[string]int64),
	}
}
