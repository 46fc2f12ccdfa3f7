//go:build !cgo

package main

import (
	"errors"

	"github.com/dusk-indust/gedgraph/internal/graph"
)

var errNoKuzu = errors.New("KuzuDB graphs need a cgo build of gedgraph")

func openGraphStore(string) (graph.Store, error) { return nil, errNoKuzu }

func createGraphStore(string) (graph.Store, error) { return nil, errNoKuzu }
