package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nbdfinder/engine/internal/store"
	"github.com/nbdfinder/engine/internal/types"
)

var reportNoColor bool

// reportCmd reads candidates back out of a persisted run database and
// prints a human-readable summary, rather than re-running detection.
var reportCmd = &cobra.Command{
	Use:   "report <run.db>",
	Short: "Summarize a persisted run database",
	Long:  "Read candidates back out of a run database (written by scan) and print a per-class summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportNoColor, "no-color", false, "disable colored output")
}

type reportStyles struct {
	heading *color.Color
	class   *color.Color
	count   *color.Color
}

func newReportStyles(enabled bool) *reportStyles {
	s := &reportStyles{
		heading: color.New(color.Bold, color.FgHiWhite),
		class:   color.New(color.Bold, color.FgHiBlue),
		count:   color.New(color.FgHiGreen),
	}
	if !enabled {
		s.heading.DisableColor()
		s.class.DisableColor()
		s.count.DisableColor()
	}
	return s
}

func runReport(cmd *cobra.Command, args []string) error {
	dbPath := args[0]
	if _, err := os.Stat(dbPath); err != nil {
		return &InputError{Err: fmt.Errorf("datastore not found: %s", dbPath)}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return &RuntimeError{Err: fmt.Errorf("opening datastore: %w", err)}
	}
	defer db.Close()

	cands, err := db.All()
	if err != nil {
		return &RuntimeError{Err: fmt.Errorf("reading candidates: %w", err)}
	}

	type classStat struct {
		count    int
		meanNorm float64
		bySeq    map[string]int
	}
	byClass := make(map[string]*classStat)
	for _, c := range cands {
		st, ok := byClass[c.ClassName]
		if !ok {
			st = &classStat{bySeq: make(map[string]int)}
			byClass[c.ClassName] = st
		}
		st.count++
		st.meanNorm += c.NormalizedScore
		st.bySeq[c.SequenceName]++
	}

	var names []string
	for name := range byClass {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return byClass[names[i]].count > byClass[names[j]].count })

	out := cmd.OutOrStdout()
	useColor := !reportNoColor && term.IsTerminal(int(os.Stdout.Fd()))
	styles := newReportStyles(useColor)

	styles.heading.Fprintf(out, "%s\n", dbPath)
	fmt.Fprintf(out, "%d candidates across %d sequences, %d classes\n\n",
		len(cands), countSequences(cands), len(names))

	fmt.Fprintf(out, "%-16s %8s %8s %8s\n", "CLASS", "COUNT", "SEQS", "MEAN_SCORE")
	for _, name := range names {
		st := byClass[name]
		mean := 0.0
		if st.count > 0 {
			mean = st.meanNorm / float64(st.count)
		}
		styles.class.Fprintf(out, "%-16s", name)
		fmt.Fprintf(out, " %8s %8d %8.4f\n", styles.count.Sprintf("%d", st.count), len(st.bySeq), mean)
	}
	return nil
}

func countSequences(cands []*types.Candidate) int {
	seen := make(map[string]bool)
	for _, c := range cands {
		seen[c.SequenceName] = true
	}
	return len(seen)
}
