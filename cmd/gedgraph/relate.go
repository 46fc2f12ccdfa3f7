package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

func newRelateCmd(a *app) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "relate FILE XREF1 XREF2",
		Short: "Explain how two individuals are related",
		Long: `Print the closest common ancestors of two individuals, the
generations from each to them and the relationship path from the first
individual to the second.

Examples:
  gedgraph relate tree.ged I6 I9
  gedgraph relate tree.ged @I6@ @I9@ --compact`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			pair, err := individuals(doc, args[1], args[2])
			if err != nil {
				return err
			}
			from, to := pair[0], pair[1]

			common := gedcom.CommonAncestors(from, to)
			if len(common) == 0 {
				fmt.Fprintf(a.out, "%s and %s are not related\n", from.XRef(), to.XRef())
				return nil
			}

			fmt.Fprintln(a.out, "common ancestors:")
			for _, anc := range common {
				up, _ := from.DistanceToAncestor(anc)
				down, _ := to.DistanceToAncestor(anc)
				fmt.Fprintf(a.out, "  %s  (%d up, %d down)\n", label(anc), up, down)
			}

			steps, ok := from.PathToRelative(to, compact)
			if !ok {
				return nil
			}
			fmt.Fprintln(a.out, "path:")
			for _, st := range steps {
				fmt.Fprintf(a.out, "  %-8s %s\n", st.Relation, label(st.Individual))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "replace a parent then child step through the common ancestor with a sibling step")
	return cmd
}
