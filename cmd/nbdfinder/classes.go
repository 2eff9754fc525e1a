package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbdfinder/engine/internal/registry"
	"github.com/nbdfinder/engine/internal/types"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the motif classes and their registered pattern counts",
	Args:  cobra.NoArgs,
	RunE:  runClasses,
}

func runClasses(cmd *cobra.Command, args []string) error {
	reg, err := registry.Load()
	if err != nil {
		return &RuntimeError{Err: fmt.Errorf("loading pattern registry: %w", err)}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-16s %-24s %s\n", "CLASS_ID", "NAME", "PATTERNS")
	for _, c := range types.AllPrimaryClasses {
		patterns := reg.ForClass(c)
		fmt.Fprintf(out, "%-16d %-24s %d\n", int(c), c.Name(), len(patterns))
	}
	fmt.Fprintf(out, "%-16s %-24s %s\n", "-", types.ClassHybrid.Name(), "derived (post-processing)")
	fmt.Fprintf(out, "%-16s %-24s %s\n", "-", types.ClassCluster.Name(), "derived (post-processing)")
	return nil
}
