package graph

import (
	"context"
	"fmt"
	"sort"
)

// ComputeBranches finds connected components of the kinship graph and
// stores them as BranchNodes.
//
// Algorithm:
//  1. Build an undirected person-family adjacency list from CHILD_IN and
//     SPOUSE_IN edges.
//  2. Find connected components via BFS, visiting persons in input order.
//  3. For each component with >= 2 persons, name it after its most common
//     surname and store it with BELONGS edges for every member.
func ComputeBranches(ctx context.Context, store Store, persons []PersonNode) ([]BranchNode, error) {
	adj, err := buildAdjacency(ctx, store)
	if err != nil {
		return nil, err
	}

	byXRef := make(map[string]PersonNode, len(persons))
	for _, p := range persons {
		byXRef[p.XRef] = p
	}

	visited := make(map[string]bool, len(persons))
	used := make(map[string]int)
	var branches []BranchNode

	for _, p := range persons {
		if visited[p.XRef] {
			continue
		}
		members, families := bfsComponent(p.XRef, adj, byXRef, visited)
		if len(members) < 2 {
			continue
		}

		surname := dominantSurname(members, byXRef)
		branch := BranchNode{
			Name:        branchName(surname, used),
			Surname:     surname,
			FamilyCount: families,
			Members:     members,
		}
		if err := store.AddBranch(ctx, branch); err != nil {
			return nil, err
		}
		for _, member := range members {
			edge := Edge{SourceID: member, TargetID: branch.Name, Kind: EdgeKindBelongs}
			if err := store.AddEdge(ctx, edge); err != nil {
				return nil, err
			}
		}
		branches = append(branches, branch)
	}

	return branches, nil
}

// buildAdjacency links persons and families both ways, keeping edge order so
// that component membership is listed deterministically.
func buildAdjacency(ctx context.Context, store Store) (map[string][]string, error) {
	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return nil, err
	}
	adj := make(map[string][]string)
	for _, e := range edges {
		if e.Kind != EdgeKindChildIn && e.Kind != EdgeKindSpouseIn {
			continue
		}
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		adj[e.TargetID] = append(adj[e.TargetID], e.SourceID)
	}
	return adj, nil
}

// bfsComponent performs BFS from start and returns the persons reached plus
// the number of families passed through. Persons are marked visited.
func bfsComponent(start string, adj map[string][]string, persons map[string]PersonNode, visited map[string]bool) ([]string, int) {
	var members []string
	families := 0
	seen := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if _, ok := persons[node]; ok {
			members = append(members, node)
			visited[node] = true
		} else {
			families++
		}
		for _, neighbor := range adj[node] {
			if !seen[neighbor] {
				seen[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return members, families
}

// dominantSurname returns the most frequent non-empty surname, breaking ties
// alphabetically.
func dominantSurname(members []string, persons map[string]PersonNode) string {
	counts := make(map[string]int)
	for _, m := range members {
		if s := persons[m].Surname; s != "" {
			counts[s]++
		}
	}
	names := make([]string, 0, len(counts))
	for s := range counts {
		names = append(names, s)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// branchName makes branch names unique: Stone, Stone-2, Stone-3.
func branchName(surname string, used map[string]int) string {
	base := surname
	if base == "" {
		base = "unnamed"
	}
	used[base]++
	if n := used[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}
