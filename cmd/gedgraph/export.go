package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/export"
	"github.com/dusk-indust/gedgraph/internal/graph"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a file as JSON, a Mermaid diagram or a graph database",
		Long: `Export a parsed file.

Formats:
  json     individuals and families with their events
  mermaid  family diagram grouped by branch
  sqlite   family graph in a SQLite database file, written to --out or
           the graphPath config setting
  kuzu     persistent KuzuDB graph directory (cgo builds only), written to
           --out or the graphPath config setting`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case "json":
				return a.writeOutput(out, func(w io.Writer) error {
					name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
					data, err := json.MarshalIndent(export.ExportDocument(doc, name), "", "  ")
					if err != nil {
						return fmt.Errorf("marshal JSON: %w", err)
					}
					_, err = w.Write(append(data, '\n'))
					return err
				})

			case "mermaid":
				store := graph.NewMemStore()
				defer store.Close()
				if _, err := graph.Build(ctx, store, doc); err != nil {
					return fmt.Errorf("build graph: %w", err)
				}
				diagram, err := export.GenerateMermaid(ctx, store)
				if err != nil {
					return err
				}
				return a.writeOutput(out, func(w io.Writer) error {
					_, err := io.WriteString(w, diagram)
					return err
				})

			case "sqlite", "kuzu":
				path := out
				if path == "" {
					path = a.cfg.GraphPath
				}
				if path == "" {
					return fmt.Errorf("%s export needs --out or graphPath in gedgraph.yml", format)
				}
				create := createGraphStore
				if strings.EqualFold(format, "sqlite") {
					create = createSQLiteStore
				}
				store, err := create(path)
				if err != nil {
					return err
				}
				defer store.Close()
				stats, err := graph.Build(ctx, store, doc)
				if err != nil {
					return fmt.Errorf("build graph: %w", err)
				}
				fmt.Fprintf(a.out, "wrote %s: %d persons, %d families, %d branches, %d edges\n",
					path, stats.PersonCount, stats.FamilyCount, stats.BranchCount, stats.EdgeCount)
				return nil
			}
			return fmt.Errorf("unknown format %q: want json, mermaid, sqlite or kuzu", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, mermaid, sqlite or kuzu")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, database or graph directory (default: stdout)")
	return cmd
}

// writeOutput runs write against path, or against stdout when path is empty.
func (a *app) writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(a.out)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// createSQLiteStore replaces any database at path with an empty one.
func createSQLiteStore(path string) (graph.Store, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove old database: %w", err)
	}
	store, err := graph.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
