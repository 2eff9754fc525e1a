package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	verbose bool
)

// InputError marks an error that should exit 1: bad FASTA, unreadable
// file, unknown class name, invalid flag value.
type InputError struct{ Err error }

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// RuntimeError marks an error that should exit 2: a failure during the
// scan itself rather than while validating the request.
type RuntimeError struct{ Err error }

func (e *RuntimeError) Error() string { return e.Err.Error() }
func (e *RuntimeError) Unwrap() error { return e.Err }

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return 1
	}
	return 2
}

var rootCmd = &cobra.Command{
	Use:   "nbdfinder",
	Short: "Detect non-B DNA motifs in FASTA sequences",
	Long: `nbdfinder scans FASTA sequences for G-quadruplex, i-motif, Z-DNA, A-philic,
triplex, R-loop, cruciform, curved DNA, slipped DNA, hybrid, and cluster
motifs, scores and deduplicates overlapping candidates, and exports the
result as CSV, GFF3, BED, or bedGraph.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
