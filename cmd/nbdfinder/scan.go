package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nbdfinder/engine/internal/fasta"
	"github.com/nbdfinder/engine/internal/logx"
	"github.com/nbdfinder/engine/internal/normalize"
	"github.com/nbdfinder/engine/internal/output"
	"github.com/nbdfinder/engine/internal/pipeline"
	"github.com/nbdfinder/engine/internal/post"
	"github.com/nbdfinder/engine/internal/resolve"
	"github.com/nbdfinder/engine/internal/store"
	"github.com/nbdfinder/engine/internal/types"
)

var (
	scanFastaPath string
	scanOutPrefix string
	scanWorkers   int
	scanChunkSize int
	scanClasses   string
	scanLogLevel  string
	scanKeepTemp  bool
	scanNoColor   bool

	scanResolutionStrategy string
	scanMinOverlapPercent  float64
	scanMergeThreshold     float64
	scanSameClassOnly      bool

	scanNormalizeMethod string
	scanBins            int
	scanMaxLengthBin    int64
	scanClusterWidth    int64
	scanNoStore         bool
	scanConservation    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan FASTA sequences for non-B DNA motifs",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFastaPath, "fasta", "", "input FASTA file (required)")
	scanCmd.Flags().StringVar(&scanOutPrefix, "out", "nbdfinder", "output file prefix")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 2, "worker count override")
	scanCmd.Flags().IntVar(&scanChunkSize, "chunk-size", 50_000, "chunk size in bases")
	scanCmd.Flags().StringVar(&scanClasses, "classes", "", "comma-separated subset of the 11 class names (default: all)")
	scanCmd.Flags().StringVar(&scanLogLevel, "log-level", "INFO", "DEBUG|INFO|WARNING|ERROR")
	scanCmd.Flags().BoolVar(&scanKeepTemp, "keep-temp", false, "keep per-chunk spill files after merge")
	scanCmd.Flags().BoolVar(&scanNoColor, "no-color", false, "disable colored summary output")

	scanCmd.Flags().StringVar(&scanResolutionStrategy, "resolution-strategy", "highest_score",
		"highest_score|longest_motif|scientific_priority|merge_compatible|keep_all")
	scanCmd.Flags().Float64Var(&scanMinOverlapPercent, "min-overlap-percent", 0.10, "minimum overlap fraction to consider two candidates in conflict")
	scanCmd.Flags().Float64Var(&scanMergeThreshold, "merge-threshold", 0.80, "overlap fraction above which merge_compatible fuses two records")
	scanCmd.Flags().BoolVar(&scanSameClassOnly, "same-class-only", true, "only resolve overlaps within the same class")

	scanCmd.Flags().StringVar(&scanNormalizeMethod, "normalize-method", "min-max", "min-max|z-score")
	scanCmd.Flags().IntVar(&scanBins, "bins", 100, "visualization density/length bin count")
	scanCmd.Flags().Int64Var(&scanMaxLengthBin, "max-length-bin", 10_000, "visualization length-bin saturation point")
	scanCmd.Flags().Int64Var(&scanClusterWidth, "cluster-width", 1000, "sliding window width for cluster derivation")
	scanCmd.Flags().BoolVar(&scanNoStore, "no-store", false, "skip writing the persisted SQLite run database (<out>.db)")
	scanCmd.Flags().BoolVar(&scanConservation, "conservation", false, "run single-sequence shuffling-control conservation analysis (writes <out>.conservation.csv)")

	scanCmd.MarkFlagRequired("fasta")
}

func runScan(cmd *cobra.Command, args []string) error {
	level := logx.ParseLevel(scanLogLevel)
	logger := logx.New(os.Stderr, level)

	f, err := os.Open(scanFastaPath)
	if err != nil {
		return &InputError{Err: fmt.Errorf("opening fasta file: %w", err)}
	}
	defer f.Close()

	records, err := fasta.ReadAll(f)
	if err != nil {
		return &InputError{Err: fmt.Errorf("parsing fasta: %w", err)}
	}
	if len(records) == 0 {
		return &InputError{Err: fmt.Errorf("fasta file %q contains no records", scanFastaPath)}
	}
	for _, rec := range records {
		if rec.InvalidBases > 0 {
			logger.Warning("sequence %s: %d invalid base(s) treated as N", rec.Name, rec.InvalidBases)
		}
	}

	cfg := pipeline.DefaultConfig()
	cfg.Workers = scanWorkers
	cfg.ChunkSize = scanChunkSize
	cfg.LogLevel = level
	cfg.KeepTemp = scanKeepTemp
	if scanClasses != "" {
		cfg.Classes = strings.Split(scanClasses, ",")
		for _, name := range cfg.Classes {
			if _, ok := types.ClassByName(name); !ok {
				return &InputError{Err: fmt.Errorf("unknown class name %q", name)}
			}
		}
	}

	strategy, err := parseStrategy(scanResolutionStrategy)
	if err != nil {
		return &InputError{Err: err}
	}
	cfg.Resolve = resolve.Config{
		Strategy:       strategy,
		SameClassOnly:  scanSameClassOnly,
		MinOverlapPct:  scanMinOverlapPercent,
		MergeThreshold: scanMergeThreshold,
	}
	if scanNormalizeMethod == "z-score" {
		cfg.Norm = normalize.ZScore
	} else {
		cfg.Norm = normalize.MinMax
	}
	cfg.VizBins = scanBins
	cfg.VizMaxLength = scanMaxLengthBin
	cfg.Cluster = post.ClusterConfig{WindowWidth: scanClusterWidth}
	cfg.Conservation = scanConservation

	p, err := pipeline.New(cfg)
	if err != nil {
		return &RuntimeError{Err: err}
	}
	defer p.Close()

	start := time.Now()
	var all []*types.Candidate
	var incomplete bool
	var incompleteChunks []int
	var totalBytes int64

	type seqViz struct {
		name    string
		length  int64
		summary *types.VisualizationSummary
	}
	var vizzes []seqViz
	var conservationResults []*types.ConservationResult

	for _, rec := range records {
		result, err := p.Run(context.Background(), rec.Name, rec.Contig, rec.Sequence)
		if err != nil {
			return &RuntimeError{Err: fmt.Errorf("scanning %s: %w", rec.Name, err)}
		}
		all = append(all, result.Candidates...)
		totalBytes += int64(len(rec.Sequence))
		vizzes = append(vizzes, seqViz{name: rec.Name, length: int64(len(rec.Sequence)), summary: result.Visualization})
		conservationResults = append(conservationResults, result.Conservation...)
		if result.Incomplete {
			incomplete = true
			incompleteChunks = append(incompleteChunks, result.IncompleteChunks...)
		}
	}

	if err := writeOutputs(scanOutPrefix, all); err != nil {
		return &RuntimeError{Err: fmt.Errorf("writing outputs: %w", err)}
	}

	if scanConservation {
		consPath := scanOutPrefix + ".conservation.csv"
		consFile, err := os.Create(consPath)
		if err != nil {
			return &RuntimeError{Err: fmt.Errorf("create %s: %w", consPath, err)}
		}
		err = output.WriteConservationCSV(consFile, conservationResults)
		cerr := consFile.Close()
		if err != nil {
			return &RuntimeError{Err: fmt.Errorf("write %s: %w", consPath, err)}
		}
		if cerr != nil {
			return &RuntimeError{Err: fmt.Errorf("close %s: %w", consPath, cerr)}
		}
	}

	if !scanNoStore {
		dbPath := scanOutPrefix + ".db"
		db, err := store.Open(dbPath)
		if err != nil {
			return &RuntimeError{Err: fmt.Errorf("opening run database: %w", err)}
		}
		_, err = db.AddAll(all)
		closeErr := db.Close()
		if err != nil {
			return &RuntimeError{Err: fmt.Errorf("persisting run database: %w", err)}
		}
		if closeErr != nil {
			return &RuntimeError{Err: fmt.Errorf("closing run database: %w", closeErr)}
		}
	}

	bgPath := scanOutPrefix + ".bedgraph"
	bgFile, err := os.Create(bgPath)
	if err != nil {
		return &RuntimeError{Err: fmt.Errorf("create %s: %w", bgPath, err)}
	}
	for _, v := range vizzes {
		if err := output.WriteBedGraph(bgFile, v.name, v.length, v.summary); err != nil {
			bgFile.Close()
			return &RuntimeError{Err: fmt.Errorf("write %s: %w", bgPath, err)}
		}
	}
	if err := bgFile.Close(); err != nil {
		return &RuntimeError{Err: fmt.Errorf("close %s: %w", bgPath, err)}
	}

	elapsed := time.Since(start)
	printSummary(cmd, len(records), len(all), totalBytes, elapsed, incomplete, incompleteChunks)
	return nil
}

func parseStrategy(s string) (resolve.Strategy, error) {
	switch resolve.Strategy(s) {
	case resolve.HighestScore, resolve.LongestMotif, resolve.ScientificPriority, resolve.MergeCompatible, resolve.KeepAll:
		return resolve.Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown resolution strategy %q", s)
	}
}

func writeOutputs(prefix string, cands []*types.Candidate) error {
	writers := []struct {
		ext string
		fn  func(f *os.File) error
	}{
		{"csv", func(f *os.File) error { return output.WriteCSV(f, cands) }},
		{"gff3", func(f *os.File) error { return output.WriteGFF3(f, cands) }},
		{"bed", func(f *os.File) error { return output.WriteBED(f, cands) }},
	}
	for _, w := range writers {
		path := prefix + "." + w.ext
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		err = w.fn(f)
		cerr := f.Close()
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if cerr != nil {
			return fmt.Errorf("close %s: %w", path, cerr)
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, seqCount, motifCount int, totalBytes int64, elapsed time.Duration, incomplete bool, incompleteChunks []int) {
	out := cmd.OutOrStdout()
	useColor := !scanNoColor && term.IsTerminal(int(os.Stdout.Fd()))
	bold := color.New(color.Bold).SprintFunc()
	if !useColor {
		bold = fmt.Sprint
	}

	fmt.Fprintf(out, "%s %d sequences, %s, %d motifs in %s\n",
		bold("nbdfinder:"), seqCount, humanize.Bytes(uint64(totalBytes)), motifCount, elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "output: %s.{csv,gff3,bed,bedgraph}\n", filepath.Clean(scanOutPrefix))
	if scanConservation {
		fmt.Fprintf(out, "output: %s.conservation.csv\n", filepath.Clean(scanOutPrefix))
	}

	if incomplete {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d chunk(s) incomplete: %v\n", len(incompleteChunks), incompleteChunks)
	}
}
