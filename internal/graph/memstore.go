package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore holds the family graph in maps guarded by a RWMutex.
type MemStore struct {
	mu       sync.RWMutex
	persons  map[string]PersonNode
	families map[string]FamilyNode
	edges    []Edge
	branches []BranchNode
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		persons:  make(map[string]PersonNode),
		families: make(map[string]FamilyNode),
	}
}

// InitSchema does nothing; maps need no schema.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddPerson stores a person keyed by xref.
func (m *MemStore) AddPerson(_ context.Context, node PersonNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persons[node.XRef] = node
	return nil
}

// AddFamily stores a family keyed by xref.
func (m *MemStore) AddFamily(_ context.Context, node FamilyNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.families[node.XRef] = node
	return nil
}

// AddBranch appends a branch to the internal slice.
func (m *MemStore) AddBranch(_ context.Context, node BranchNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches = append(m.branches, node)
	return nil
}

// AddEdge records an edge. Insertion order is kept for GetAllEdges.
func (m *MemStore) AddEdge(_ context.Context, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
	return nil
}

// GetPerson returns the person with the given xref, or nil if not found.
func (m *MemStore) GetPerson(_ context.Context, xref string) (*PersonNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.persons[xref]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetFamily returns the family with the given xref, or nil if not found.
func (m *MemStore) GetFamily(_ context.Context, xref string) (*FamilyNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.families[xref]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// QueryPersons returns persons whose given name, surname or full name
// contains query (case-insensitive), ordered by xref, up to limit results.
// A limit <= 0 returns all matches.
func (m *MemStore) QueryPersons(_ context.Context, query string, limit int) ([]PersonNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lowerQuery := strings.ToLower(query)
	var results []PersonNode
	for _, p := range m.persons {
		if strings.Contains(strings.ToLower(p.FullName()), lowerQuery) {
			results = append(results, p)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].XRef < results[j].XRef })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetLineage performs a BFS from xref over parent or child links, up to
// maxDepth generations. It returns one LineageChain per reachable person.
func (m *MemStore) GetLineage(_ context.Context, xref string, direction Direction, maxDepth int) ([]LineageChain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if maxDepth <= 0 {
		return nil, nil
	}

	// BFS state: each entry tracks the path from xref to the current person.
	type bfsEntry struct {
		id   string
		path []string
	}

	visited := map[string]bool{xref: true}
	queue := []bfsEntry{{id: xref, path: []string{xref}}}
	var chains []LineageChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			for _, nb := range m.relatives(entry.id, direction) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				chains = append(chains, LineageChain{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{id: nb, path: newPath})
			}
		}
		queue = nextQueue
	}

	return chains, nil
}

// relatives returns persons one generation away from id: the spouses of the
// families id is a child in, or the children of the families id heads.
func (m *MemStore) relatives(id string, direction Direction) []string {
	from, to := EdgeKindChildIn, EdgeKindSpouseIn
	if direction == DirectionDescendants {
		from, to = EdgeKindSpouseIn, EdgeKindChildIn
	}

	var result []string
	for _, e := range m.edges {
		if e.Kind != from || e.SourceID != id {
			continue
		}
		for _, other := range m.edges {
			if other.Kind == to && other.TargetID == e.TargetID {
				result = append(result, other.SourceID)
			}
		}
	}
	return result
}

// GetBranches returns all stored branches.
func (m *MemStore) GetBranches(_ context.Context) ([]BranchNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BranchNode, len(m.branches))
	copy(out, m.branches)
	return out, nil
}

// GetAllEdges returns the edges in insertion order.
func (m *MemStore) GetAllEdges(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// Stats counts persons, families, branches and edges.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &GraphStats{
		PersonCount: len(m.persons),
		FamilyCount: len(m.families),
		BranchCount: len(m.branches),
		EdgeCount:   len(m.edges),
	}, nil
}

// Close does nothing.
func (m *MemStore) Close() error {
	return nil
}
