package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
	"github.com/dusk-indust/gedgraph/internal/graph"
)

const defaultLineageDepth = 10

func newAncestorsCmd(a *app) *cobra.Command {
	var (
		down  bool
		depth int
	)

	cmd := &cobra.Command{
		Use:   "ancestors SOURCE XREF",
		Short: "Print the ancestors or descendants of an individual",
		Long: `Walk the family graph from one individual, one generation at a
time. SOURCE is a GEDCOM file, a SQLite database (.db or .sqlite) written by
'export --format sqlite', or a directory holding a KuzuDB graph written by
'export --format kuzu'.

Each line is one reachable person with the chain leading to it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.sourceStore(ctx, args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			direction := graph.DirectionAncestors
			if down {
				direction = graph.DirectionDescendants
			}
			maxDepth := a.cfg.Depth(defaultLineageDepth)
			if cmd.Flags().Changed("depth") {
				maxDepth = depth
			}

			xref := gedcom.NormalizeXRef(args[1])
			start, err := store.GetPerson(ctx, xref)
			if err != nil {
				return err
			}
			if start == nil {
				return fmt.Errorf("individual %s: %w", xref, gedcom.ErrNotFound)
			}

			chains, err := store.GetLineage(ctx, xref, direction, maxDepth)
			if err != nil {
				return fmt.Errorf("get lineage: %w", err)
			}
			if len(chains) == 0 {
				fmt.Fprintf(a.out, "no %s found for %s\n", direction, xref)
				return nil
			}
			for _, chain := range chains {
				last := chain.Nodes[len(chain.Nodes)-1]
				person, err := store.GetPerson(ctx, last)
				if err != nil {
					return err
				}
				name := last
				if person != nil {
					name = person.FullName()
				}
				fmt.Fprintf(a.out, "%d  %-24s %s\n", chain.Depth, name, strings.Join(chain.Nodes, " > "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "list descendants instead of ancestors")
	cmd.Flags().IntVar(&depth, "depth", defaultLineageDepth, "maximum generations to walk")
	return cmd
}

// sourceStore returns a graph for source: an opened KuzuDB directory or
// SQLite database, or an in-memory graph built from a GEDCOM file.
func (a *app) sourceStore(ctx context.Context, source string) (graph.Store, error) {
	info, err := os.Stat(source)
	if err == nil && info.IsDir() {
		return openGraphStore(source)
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".db", ".sqlite":
		if err != nil {
			return nil, err
		}
		store, err := graph.NewSQLiteStore(source)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	doc, err := a.loadDocument(source)
	if err != nil {
		return nil, err
	}
	store := graph.NewMemStore()
	if _, err := graph.Build(ctx, store, doc); err != nil {
		store.Close()
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return store, nil
}
