//go:build cgo

package main

import (
	"fmt"
	"os"

	"github.com/dusk-indust/gedgraph/internal/graph"
)

// openGraphStore opens a KuzuDB graph previously written by
// export --format kuzu.
func openGraphStore(path string) (graph.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no graph found at %s\nRun 'gedgraph export --format kuzu' first", path)
	}
	store, err := graph.NewKuzuFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	return store, nil
}

// createGraphStore replaces any graph at path with an empty one.
func createGraphStore(path string) (graph.Store, error) {
	// Remove old graph to avoid stale data.
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove %s: %w", path, err)
	}
	store, err := graph.NewKuzuFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}
	return store, nil
}
