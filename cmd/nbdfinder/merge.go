package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbdfinder/engine/internal/store"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge <run1.db> <run2.db> [run3.db...]",
	Short: "Merge multiple run databases into one deduplicated table",
	Long: `Merge combines the persisted SQLite run databases from several
nbdfinder scan invocations into a single database. Candidates are
deduplicated by structural ID (sequence, class, span, and matched
sequence), so scanning overlapping input twice never double-counts a
motif in the merged output.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.db", "output database path")
}

func runMerge(cmd *cobra.Command, args []string) error {
	stats, err := store.Merge(store.MergeConfig{
		SourcePaths: args,
		DestPath:    mergeOutput,
	})
	if err != nil {
		return &RuntimeError{Err: fmt.Errorf("merge failed: %w", err)}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Merge complete:\n")
	fmt.Fprintf(out, "  Sources processed: %d\n", stats.SourcesProcessed)
	fmt.Fprintf(out, "  Candidates merged: %d\n", stats.CandidatesMerged)
	fmt.Fprintf(out, "Output: %s\n", mergeOutput)
	return nil
}
