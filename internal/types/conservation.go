package types

// ConservationResult is the per-class shuffling-control conservation
// summary for one sequence. It compares how often a class's detector
// fires on the real sequence
// against how often it fires on composition-preserving shuffles of the
// same sequence.
type ConservationResult struct {
	SequenceName string
	ClassName    string

	ObservedCount     int
	MeanShuffledCount float64

	Score  float64 // log2((observed+eps)/(mean_shuffled+eps))
	PValue float64 // fraction of shuffled counts >= observed
	Class  string  // enriched | depleted | not_significant | neutral

	Note string // set only on the "too short to analyze" neutral path
}
