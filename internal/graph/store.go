package graph

import (
	"context"
	"io"
)

// Store is the interface for the family graph backend.
// Implementations: KuzuStore (persistent, cgo), MemStore (in-process).
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddPerson(ctx context.Context, node PersonNode) error
	AddFamily(ctx context.Context, node FamilyNode) error
	AddBranch(ctx context.Context, node BranchNode) error
	AddEdge(ctx context.Context, edge Edge) error

	// Read operations. Lookups return nil without error when nothing matches.
	GetPerson(ctx context.Context, xref string) (*PersonNode, error)
	GetFamily(ctx context.Context, xref string) (*FamilyNode, error)
	QueryPersons(ctx context.Context, query string, limit int) ([]PersonNode, error)

	// Graph traversal.
	GetLineage(ctx context.Context, xref string, direction Direction, maxDepth int) ([]LineageChain, error)
	GetBranches(ctx context.Context) ([]BranchNode, error)
	GetAllEdges(ctx context.Context) ([]Edge, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}

// Direction controls lineage traversal direction.
type Direction string

const (
	DirectionAncestors   Direction = "ancestors"   // parents, grandparents, ...
	DirectionDescendants Direction = "descendants" // children, grandchildren, ...
)

// ParseDirection accepts "ancestors"/"up" and "descendants"/"down".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "ancestors", "up", "":
		return DirectionAncestors, true
	case "descendants", "down":
		return DirectionDescendants, true
	}
	return "", false
}
