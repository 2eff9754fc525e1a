package detect

import (
	"math"
	"strconv"

	"github.com/nbdfinder/engine/internal/types"
)

// baseCode/tetraIndex map a run of {A,C,G,T} to a base-4 index, the same
// encoding used to build tetraLog2/triLog2 below.
func baseCode(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return -1
	}
}

func tetraIndex(b []byte) (int, bool) {
	idx := 0
	for _, c := range b {
		code := baseCode(c)
		if code < 0 {
			return 0, false
		}
		idx = idx*4 + code
	}
	return idx, true
}

// tetraTable and triTable hold the published tetranucleotide/trinucleotide
// log2(observed/expected) propensity values for A-philic DNA. Keys not present
// default to 0.0 (they don't occur for these closed 256/64-entry tables,
// since every {A,C,G,T}^4 / {A,C,G,T}^3 word is listed, but the .get(...,
// 0.0) fallback is preserved below for any non-ACGT input).
var tetraTable = map[string]float64{
	"CCCC": 4.389556283101704,
	"GGGG": 4.389556283101704,
	"TGGG": 4.167163861765255,
	"GGGC": 3.9041294559314617,
	"CCCG": 3.9041294559314617,
	"GCCC": 3.9041294559314617,
	"CCCT": 3.582201361044099,
	"GTGC": 3.582201361044099,
	"AGGG": 3.582201361044099,
	"TCCC": 3.167163861765255,
	"CCCA": 3.167163861044099,
	"CCTA": 2.582201361044099,
	"TAGG": 2.582201361044099,
	"CTCC": 2.582201361044099,
	"CGGG": 2.3191669552103056,
	"GAGG": 2.1671638617652556,
	"GGGT": 2.1671638617652556,
	"GCAC": 1.9972388603229432,
	"CCAC": 1.9041294559314614,
	"CCGG": 1.8817616429030073,
	"GGCC": 1.7077322431279585,
	"CCTC": 1.5822013610440995,
	"TCCT": 1.5822013610440995,
	"GACC": 1.5822013610440993,
	"CTGT": 1.5822013610440993,
	"CTCA": 1.5822013610440993,
	"CCGC": 1.5822013610440993,
	"TGCC": 1.5822013610440993,
	"TAAG": 1.5822013610440993,
	"TACC": 1.3191669552103056,
	"TCGG": 1.1671638617652556,
	"CTAG": 1.0967745338738575,
	"GTGG": 1.0967745338738575,
	"GTCC": 0.9972388603229432,
	"CACG": 0.9972388603229432,
	"GGTC": 0.9972388603229432,
	"GGTA": 0.9041294559314615,
	"GTAC": 0.8452357668778931,
	"TACG": 0.8452357668778931,
	"GGGA": 0.8452357668778931,
	"ACGC": 0.7748464389864953,
	"GCGG": 0.7748464389864953,
	"CGGC": 0.7342044544891495,
	"CGGT": 0.7077322431279583,
	"ACGT": 0.7077322431279583,
	"CGTA": 0.5822013610440996,
	"TCTC": 0.5822013610440996,
	"CCGA": 0.5822013610440996,
	"GCCG": 0.5822013610440994,
	"ACCG": 0.5822013610440994,
	"TCCA": 0.5822013610440991,
	"CAGT": 0.5822013610440991,
	"TCCG": 0.5822013610440991,
	"CACA": 0.5822013610440991,
	"TCAG": 0.5822013610440991,
	"CACT": 0.5822013610440991,
	"TCAA": 0.5822013610440991,
	"GGTG": 0.5822013610440991,
	"GTAA": 0.5822013610440991,
	"GGAG": 0.5822013610440991,
	"TTGA": 0.5822013610440991,
	"GGCT": 0.5822013610440991,
	"GCAG": 0.5822013610440991,
	"TTAC": 0.5822013610440991,
	"TGTT": 0.5822013610440991,
	"ACAG": 0.5822013610440991,
	"TGTG": 0.5822013610440991,
	"ACCC": 0.5822013610440991,
	"ATCC": 0.5822013610440991,
	"CTTA": 0.5822013610440991,
	"ACTC": 0.5822013610440991,
	"AGCC": 0.5822013610440991,
	"AGTC": 0.5822013610440991,
	"AGTG": 0.5822013610440991,
	"ATAC": 0.5822013610440991,
	"CGTG": 0.41227635960178693,
	"TGCG": 0.3598089397076514,
	"GCGC": 0.3598089397076514,
	"GTAT": 0.26027326615673674,
	"GTCT": 0.26027326615673674,
	"GTGT": 0.26027326615673674,
	"GCCT": 0.26027326615673674,
	"TACA": 0.26027326615673674,
	"GGCA": 0.26027326615673674,
	"AGGC": 0.26027326615673674,
	"CACC": 0.26027326615673674,
	"ACAC": 0.26027326615673674,
	"TCTG": 0.26027326615673674,
	"TGAC": 0.26027326615673674,
	"CGCA": 0.1671638617652555,
	"GCGT": 0.09677453387385747,
	"CATG": 0.09677453387385747,
	"CAGA": -0.00276114,
	"ACTG": -0.00276114,
	"ATCA": -0.00276114,
	"TGCA": -0.00276114,
	"TGTA": -0.00276114,
	"CTAC": -0.00276114,
	"TGGC": -0.00276114,
	"GGTT": -0.00276114,
	"TTTA": -0.00276114,
	"AGTA": -0.00276114,
	"TAAA": -0.00276114,
	"GTTG": -0.00276114,
	"AGGA": -0.00276114,
	"CTGC": -0.00276114,
	"TGTC": -0.00276114,
	"TCAC": -0.00276114,
	"GATC": -0.00276114,
	"AACC": -0.00276114,
	"ATGG": -0.00276114,
	"ACCT": -0.00276114,
	"AGGT": -0.00276114,
	"TACT": -0.00276114,
	"TTAG": -0.00276114,
	"TGAA": -0.00276114,
	"AAGT": -0.00276114,
	"TAGT": -0.00276114,
	"AACT": -0.00276114,
	"TATT": -0.00276114,
	"GGAC": -0.00276114,
	"CAAC": -0.00276114,
	"ATGC": -0.154764233,
	"CCAT": -0.225153561,
	"CGCC": -0.225153561,
	"GTTC": -0.417798639,
	"AAGC": -0.417798639,
	"CTGA": -0.417798639,
	"AATC": -0.417798639,
	"AATA": -0.417798639,
	"CGAC": -0.417798639,
	"AAGG": -0.417798639,
	"CCTT": -0.417798639,
	"ACGA": -0.417798639,
	"TTCA": -0.417798639,
	"GCTC": -0.417798639,
	"AACA": -0.417798639,
	"GGCG": -0.417798639,
	"TCAT": -0.417798639,
	"GGAT": -0.417798639,
	"ATGT": -0.417798639,
	"ACCA": -0.417798639,
	"ATGA": -0.417798639,
	"CTTT": -0.417798639,
	"AGCA": -0.417798639,
	"CTAT": -0.417798639,
	"GTCG": -0.417798639,
	"GACA": -0.417798639,
	"TGAG": -0.417798639,
	"AGAC": -0.417798639,
	"TGGT": -0.417798639,
	"ACTT": -0.417798639,
	"ATAA": -0.417798639,
	"GAGC": -0.417798639,
	"AGTT": -0.417798639,
	"TAAC": -0.417798639,
	"TGAT": -0.417798639,
	"TGCT": -0.417798639,
	"GCAT": -0.533275856,
	"CCGT": -0.58772364,
	"TTGG": -0.739726734,
	"TTAT": -0.739726734,
	"TCGC": -0.739726734,
	"TAGA": -0.739726734,
	"CTTG": -0.739726734,
	"TTGT": -0.739726734,
	"GCTT": -0.739726734,
	"AGCG": -0.739726734,
	"AAAG": -0.739726734,
	"ACAT": -0.739726734,
	"CAGC": -0.739726734,
	"GAAC": -0.739726734,
	"CATC": -0.739726734,
	"CATT": -0.739726734,
	"GAGT": -0.739726734,
	"CGGA": -0.739726734,
	"ATCT": -0.739726734,
	"CCTG": -0.739726734,
	"ACTA": -0.739726734,
	"AGAT": -1.00276114,
	"AATG": -1.00276114,
	"CTAA": -1.00276114,
	"CGAG": -1.00276114,
	"CCAG": -1.00276114,
	"CTCT": -1.00276114,
	"CATA": -1.00276114,
	"CAAG": -1.00276114,
	"CTCG": -1.00276114,
	"TCGT": -1.00276114,
	"TTGC": -1.00276114,
	"AGAG": -1.00276114,
	"GATT": -1.00276114,
	"GATG": -1.00276114,
	"ATAG": -1.00276114,
	"GACT": -1.00276114,
	"GTGA": -1.00276114,
	"GTTA": -1.00276114,
	"TTCT": -1.00276114,
	"CGCG": -1.080763652,
	"ATCG": -1.118238357,
	"TATA": -1.118238357,
	"TTTG": -1.225153561,
	"TTCC": -1.225153561,
	"ACGG": -1.225153561,
	"AGCT": -1.225153561,
	"GCCA": -1.225153561,
	"ACAA": -1.225153561,
	"TCTT": -1.225153561,
	"CAGG": -1.225153561,
	"TCTA": -1.225153561,
	"AAGA": -1.225153561,
	"CGAT": -1.225153561,
	"GTAG": -1.225153561,
	"TATG": -1.225153561,
	"GTCA": -1.225153561,
	"CGCT": -1.225153561,
	"AGAA": -1.225153561,
	"CTGG": -1.225153561,
	"TTTC": -1.417798639,
	"ATTA": -1.417798639,
	"CCAA": -1.417798639,
	"TATC": -1.417798639,
	"GAAG": -1.417798639,
	"GACG": -1.417798639,
	"GAGA": -1.417798639,
	"GCTG": -1.417798639,
	"TGGA": -1.417798639,
	"TTAA": -1.58772364,
	"GTTT": -1.58772364,
	"CTTC": -1.58772364,
	"GATA": -1.58772364,
	"GCTA": -1.58772364,
	"TTCG": -1.739726734,
	"GAAA": -1.739726734,
	"TCGA": -1.739726734,
	"CAAT": -1.739726734,
	"TAGC": -1.739726734,
	"AAAC": -1.739726734,
	"TAAT": -1.877230258,
	"CGTC": -1.877230258,
	"ATTT": -2.00276114,
	"CGAA": -2.00276114,
	"ATTG": -2.00276114,
	"AACG": -2.00276114,
	"GCAA": -2.00276114,
	"AAAT": -2.118238357,
	"CAAA": -2.118238357,
	"GCGA": -2.118238357,
	"ATTC": -2.225153561,
	"GAAT": -2.324689235,
	"CGTT": -2.324689235,
	"GGAA": -2.324689235,
	"AAAA": -2.417798639,
	"ATAT": -2.417798639,
	"TTTT": -2.50526148,
	"AATT": -3.50526148,
}

var triTable = map[string]float64{
	"CCC": 4.781079142726248,
	"GGG": 3.9737242206686436,
	"CAC": 1.6656019253063112,
	"GCC": 1.557077468528142,
	"GGC": 1.557077468528142,
	"CCG": 1.4526082019721132,
	"GTG": 1.2505644260274673,
	"ACC": 1.2326425180302052,
	"CCT": 1.1737488289766367,
	"GGT": 1.1546400060289317,
	"CGG": 1.0806394245851554,
	"AGG": 1.080639424585155,
	"TAC": 0.9811037510342406,
	"TCC": 0.8582470032487074,
	"GTA": 0.7810791427262473,
	"CTC": 0.5952125974149134,
	"TGC": 0.5660662517553969,
	"CCA": 0.303031845921603,
	"GTC": 0.2732845025275512,
	"TGG": 0.1875546285016671,
	"CTA": 0.1420399692492986,
	"TAG": 0.08063942458515531,
	"ACG": 0.04111106039851759,
	"GCA": 0.030013351515187126,
	"GAC": 0.010250096693757146,
	"GCG": -0.023697235,
	"CGT": -0.074638801,
	"CGC": -0.141752997,
	"CAT": -0.551628791,
	"TCT": -0.563216765,
	"ATG": -0.597432481,
	"TGT": -0.619800294,
	"GAG": -0.65632617,
	"CAG": -0.726715497,
	"TGA": -0.726715497,
	"GGA": -0.873556886,
	"ATC": -0.919360575,
	"ACA": -1.006823417,
	"CTG": -1.089285577,
	"GAT": -1.24128867,
	"AGT": -1.24128867,
	"ACT": -1.378792194,
	"TCA": -1.504323076,
	"TCG": -1.54385144,
	"CGA": -1.619800294,
	"TAT": -1.726715497,
	"ATA": -1.777341571,
	"TTA": -2.006823417,
	"AAG": -2.006823417,
	"TAA": -2.089285577,
	"CTT": -2.167288089,
	"AGC": -2.24128867,
	"AGA": -2.311677998,
	"AAC": -2.378792194,
	"GTT": -2.378792194,
	"TTG": -2.504323076,
	"GCT": -2.504323076,
	"CAA": -2.777341571,
	"TTC": -2.919360575,
	"GAA": -3.128813941,
	"TTT": -3.204762794,
	"AAA": -3.311677998,
	"ATT": -3.411213672,
	"AAT": -3.473949427,
}

// tetraLog2 and triLog2 are tetraTable/triTable flattened into base-4
// indexed arrays for O(1) lookup during scoring.
var tetraLog2 [256]float64
var triLog2 [64]float64

func init() {
	for word, v := range tetraTable {
		if idx, ok := tetraIndex([]byte(word)); ok {
			tetraLog2[idx] = v
		}
	}
	for word, v := range triTable {
		if idx, ok := tetraIndex([]byte(word)); ok {
			triLog2[idx] = v
		}
	}
}

// APhilicDetector combines tetra/tri-nucleotide log-odds step
// scores, nucleation-seed detection, and a best-subarray-containing-interval
// extension around each seed.
type APhilicDetector struct {
	nucleationNeed int // consecutive positive tetra steps required to seed
	triWindowLen   int // width of the tri-sum window checked at each seed
	minLength      int // minimum accepted motif length in nt
}

func NewAPhilicDetector() *APhilicDetector {
	return &APhilicDetector{nucleationNeed: 7, triWindowLen: 3, minLength: 10}
}

func (d *APhilicDetector) ClassID() types.ClassID { return types.ClassAPhilic }

// stepScores builds the tetra-only, tri-only, and combined step-score
// arrays over b. tetra[i] and tri[i] both start at position i (tri is
// "aligned at the same start as tetra", not offset by the one-base
// difference in k-mer width); step[i] = 0.7*tetra[i] + 0.3*tri[i]. tetra
// has length len(b)-3, tri has length len(b)-2, step has length len(b)-3
// (the combined array is only defined where a tetra step exists).
func (d *APhilicDetector) stepScores(b []byte) (tetra, tri, step []float64) {
	n := len(b)
	if n < 4 {
		return nil, nil, nil
	}
	tetra = make([]float64, n-3)
	for i := range tetra {
		if idx, ok := tetraIndex(b[i : i+4]); ok {
			tetra[i] = tetraLog2[idx]
		}
	}
	tri = make([]float64, n-2)
	for i := range tri {
		if idx, ok := tetraIndex(b[i : i+3]); ok {
			tri[i] = triLog2[idx]
		}
	}
	const w4, w3 = 0.7, 0.3
	step = make([]float64, n-3)
	for i := range step {
		step[i] = w4*tetra[i] + w3*tri[i]
	}
	return tetra, tri, step
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func stddev(v []float64, m float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range v {
		d := x - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(v)))
}

// nucThresholdAuto computes the auto nucleation threshold from the
// population of all 64 trinucleotide table values (not from the sequence
// being scanned): mean*3 + factor*std*sqrt(3), the sum a 3-wide tri-window
// needs to clear.
func nucThresholdAuto(factor float64) float64 {
	vals := make([]float64, 0, 64)
	for _, v := range triTable {
		vals = append(vals, v)
	}
	m := mean(vals)
	s := stddev(vals, m)
	return m*3.0 + factor*s*math.Sqrt(3.0)
}

// tetraSeeds finds every tetra-step index j such that all nucleationNeed
// consecutive tetra-only scores starting at j are positive: every one
// of them, not a majority.
func (d *APhilicDetector) tetraSeeds(tetra []float64) []int {
	var starts []int
	n := len(tetra)
	for j := 0; j+d.nucleationNeed <= n; j++ {
		allPositive := true
		for k := 0; k < d.nucleationNeed; k++ {
			if tetra[j+k] <= 0 {
				allPositive = false
				break
			}
		}
		if allPositive {
			starts = append(starts, j)
		}
	}
	return starts
}

// triWindowSumOK reports whether any triWindowLen-wide consecutive window
// of tri-only scores, starting within the 10nt span anchored at ntStart,
// sums to at least threshold.
func (d *APhilicDetector) triWindowSumOK(tri []float64, ntStart int, threshold float64) bool {
	maxTriIndex := len(tri) - 1
	end := ntStart + 8
	if end > maxTriIndex+1 {
		end = maxTriIndex + 1
	}
	if end-ntStart < d.triWindowLen {
		return false
	}
	for a := ntStart; a+d.triWindowLen <= end; a++ {
		s := 0.0
		for k := 0; k < d.triWindowLen; k++ {
			s += tri[a+k]
		}
		if s >= threshold {
			return true
		}
	}
	return false
}

// bestSubarrayContainingInterval finds the subarray of step maximizing sum
// while containing the inclusive index range [a, b], via prefix-min/max
// bookkeeping. Returns inclusive bounds (L, R) and the sum.
func bestSubarrayContainingInterval(step []float64, a, b int) (L, R int, sum float64) {
	n := len(step)
	if n == 0 {
		return 0, 0, 0
	}
	prefix := make([]float64, n+1)
	for i, v := range step {
		prefix[i+1] = prefix[i] + v
	}

	minPrefIdx := make([]int, n+1)
	minVal, minIdx := prefix[0], 0
	for i := 0; i <= n; i++ {
		if prefix[i] < minVal {
			minVal, minIdx = prefix[i], i
		}
		minPrefIdx[i] = minIdx
	}

	maxPrefIdx := make([]int, n+1)
	maxVal, maxIdx := prefix[n], n
	for i := n; i >= 0; i-- {
		if prefix[i] > maxVal {
			maxVal, maxIdx = prefix[i], i
		}
		maxPrefIdx[i] = maxIdx
	}

	lIdx := minPrefIdx[a]
	rp1Idx := n
	if b+1 <= n {
		rp1Idx = maxPrefIdx[b+1]
	}
	bestSum := prefix[rp1Idx] - prefix[lIdx]
	return lIdx, rp1Idx - 1, bestSum
}

type aphilicRegion struct {
	startNT, endNT int // inclusive nt coordinates, chunk-local 0-based
	score          float64
	meanStep       float64
}

// selectNonOverlapping greedily keeps regions by descending score,
// skipping any that overlaps an already-chosen region.
func selectNonOverlapping(regions []aphilicRegion) []aphilicRegion {
	sorted := append([]aphilicRegion(nil), regions...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].score > sorted[j-1].score; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	type span struct{ a, b int }
	var occupied []span
	var chosen []aphilicRegion
	for _, r := range sorted {
		bad := false
		for _, o := range occupied {
			if !(r.endNT < o.a || r.startNT > o.b) {
				bad = true
				break
			}
		}
		if !bad {
			chosen = append(chosen, r)
			occupied = append(occupied, span{r.startNT, r.endNT})
		}
	}
	for i := 1; i < len(chosen); i++ {
		for j := i; j > 0 && chosen[j].startNT < chosen[j-1].startNT; j-- {
			chosen[j], chosen[j-1] = chosen[j-1], chosen[j]
		}
	}
	return chosen
}

func (d *APhilicDetector) Detect(chunk *types.Chunk) ([]*types.Candidate, error) {
	tetra, tri, step := d.stepScores(chunk.Bytes)
	if len(step) == 0 {
		return nil, nil
	}

	tetraStarts := d.tetraSeeds(tetra)
	threshold := nucThresholdAuto(1.0)

	var seeds [][2]int // inclusive tetra-step interval [a, b]
	for _, j := range tetraStarts {
		if d.triWindowSumOK(tri, j, threshold) {
			seeds = append(seeds, [2]int{j, j + d.nucleationNeed - 1})
		}
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	var regions []aphilicRegion
	for _, seed := range seeds {
		lStep, rStep, bestSum := bestSubarrayContainingInterval(step, seed[0], seed[1])
		startNT := lStep
		endNT := rStep + 3 // a tetra step covers 4 nt
		nNT := endNT - startNT + 1
		nSteps := rStep - lStep + 1
		meanStep := bestSum / float64(max(1, nSteps))
		if nNT >= d.minLength && meanStep > 0 {
			regions = append(regions, aphilicRegion{startNT: startNT, endNT: endNT, score: bestSum, meanStep: meanStep})
		}
	}
	selected := selectNonOverlapping(regions)

	var out []*types.Candidate
	for i, r := range selected {
		c := newCandidate(chunk, types.ClassAPhilic, "", "aphilic."+strconv.Itoa(i), "A_philic_nucleation", r.startNT, r.endNT+1)
		c.RawScore = r.score
		c.ScoringMethod = "A_philic_enhanced_nucleation_extension"
		out = append(out, c)
	}
	return out, nil
}

func (d *APhilicDetector) Score(cands []*types.Candidate) error {
	return nil
}
