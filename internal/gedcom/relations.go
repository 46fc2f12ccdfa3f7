package gedcom

import "slices"

// Relation tags a step of a relationship path with how its individual
// relates to the individual of the previous step.
type Relation string

const (
	RelationStart   Relation = "start"
	RelationParent  Relation = "parent"
	RelationChild   Relation = "child"
	RelationSibling Relation = "sibling"
)

// Step is one individual on a relationship path.
type Step struct {
	Individual *Individual
	Relation   Relation
}

// Unbounded disables the depth bound of DownPath.
const Unbounded = -1

// --- Frontier search ---

// generation is an insertion-ordered set of individuals.
type generation struct {
	order []*Individual
	set   map[*Individual]struct{}
}

func newGeneration(members ...*Individual) *generation {
	g := &generation{set: make(map[*Individual]struct{}, len(members))}
	for _, m := range members {
		g.add(m)
	}
	return g
}

func (g *generation) add(p *Individual) {
	if p == nil || g.has(p) {
		return
	}
	g.set[p] = struct{}{}
	g.order = append(g.order, p)
}

func (g *generation) has(p *Individual) bool {
	_, ok := g.set[p]
	return ok
}

func (g *generation) empty() bool {
	return len(g.order) == 0
}

// lineage is one side of an ancestor search: the current generation plus
// everyone seen in earlier ones.
type lineage struct {
	frontier *generation
	visited  map[*Individual]struct{}
}

func newLineage(start *Individual) *lineage {
	return &lineage{frontier: newGeneration(start), visited: make(map[*Individual]struct{})}
}

func (l *lineage) seen(p *Individual) bool {
	if _, ok := l.visited[p]; ok {
		return true
	}
	return l.frontier.has(p)
}

// advance folds the frontier into visited and moves to the parents of the
// frontier that were never seen before. Already seen individuals are never
// expanded again, so the search terminates on cyclic data.
func (l *lineage) advance() {
	for _, p := range l.frontier.order {
		l.visited[p] = struct{}{}
	}
	next := newGeneration()
	for _, p := range l.frontier.order {
		for _, parent := range p.Parents() {
			if _, ok := l.visited[parent]; !ok {
				next.add(parent)
			}
		}
	}
	l.frontier = next
}

// CommonAncestors returns the nearest common ancestors of a and b in
// discovery order. An ancestor counts as common when one side reaches it in
// the same generation as the other, or reaches someone the other side
// already passed. When a and b are the same individual the answer is every
// parent of a. An empty result means a and b are not related.
func CommonAncestors(a, b *Individual) []*Individual {
	if a == nil || b == nil {
		return nil
	}
	if a == b {
		return a.Parents()
	}

	mine, theirs := newLineage(a), newLineage(b)
	for !mine.frontier.empty() || !theirs.frontier.empty() {
		found := newGeneration()
		for _, p := range mine.frontier.order {
			if theirs.frontier.has(p) {
				found.add(p)
			}
		}
		if !found.empty() {
			return found.order
		}

		for _, p := range mine.frontier.order {
			if _, ok := theirs.visited[p]; ok {
				found.add(p)
			}
		}
		for _, p := range theirs.frontier.order {
			if _, ok := mine.visited[p]; ok {
				found.add(p)
			}
		}
		if !found.empty() {
			return found.order
		}

		mine.advance()
		theirs.advance()
	}
	return nil
}

// CommonAncestor returns the first nearest common ancestor of a and b.
func CommonAncestor(a, b *Individual) (*Individual, bool) {
	found := CommonAncestors(a, b)
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// DistanceToAncestor returns the number of generations between i and
// ancestor: 0 for i itself, 1 for a parent, 2 for a grandparent.
func (i *Individual) DistanceToAncestor(ancestor *Individual) (int, bool) {
	if ancestor == nil {
		return 0, false
	}
	side := newLineage(i)
	for distance := 0; !side.frontier.empty(); distance++ {
		if side.frontier.has(ancestor) {
			return distance, true
		}
		side.advance()
	}
	return 0, false
}

// --- Descent ---

// DownPath returns the individuals from ancestor down to descendant,
// both included, following Children. The path has at most maxDepth edges;
// pass Unbounded for no limit. The search is breadth first and never
// expands an individual twice, so the path returned is a shortest one.
func DownPath(ancestor, descendant *Individual, maxDepth int) ([]*Individual, bool) {
	if ancestor == nil || descendant == nil {
		return nil, false
	}
	if ancestor == descendant {
		return []*Individual{ancestor}, true
	}

	// prev maps each reached individual to the one it was first reached from.
	prev := map[*Individual]*Individual{ancestor: nil}
	frontier := []*Individual{ancestor}
	for depth := 0; len(frontier) > 0 && (maxDepth < 0 || depth < maxDepth); depth++ {
		var next []*Individual
		for _, p := range frontier {
			for _, c := range p.Children() {
				if _, seen := prev[c]; seen {
					continue
				}
				prev[c] = p
				if c == descendant {
					return backtrack(prev, c), true
				}
				next = append(next, c)
			}
		}
		frontier = next
	}
	return nil, false
}

// backtrack rebuilds the path ending at p from the predecessor map.
func backtrack(prev map[*Individual]*Individual, p *Individual) []*Individual {
	var path []*Individual
	for ; p != nil; p = prev[p] {
		path = append(path, p)
	}
	slices.Reverse(path)
	return path
}

// --- Relationship paths ---

// PathToRelative returns the path from i to relative through their nearest
// common ancestor: parent steps up to the ancestor, then child steps down.
// The first step is tagged RelationStart.
//
// With compact set, when the ancestor's two children on the path are
// siblings the ancestor is left out and the step onto relative's side is
// tagged RelationSibling.
func (i *Individual) PathToRelative(relative *Individual, compact bool) ([]Step, bool) {
	if relative == nil {
		return nil, false
	}
	if relative == i {
		return []Step{{Individual: i, Relation: RelationStart}}, true
	}

	ancestor, ok := CommonAncestor(i, relative)
	if !ok {
		return nil, false
	}
	up, ok := pathFromAncestor(ancestor, i)
	if !ok {
		return nil, false
	}
	down, ok := pathFromAncestor(ancestor, relative)
	if !ok {
		return nil, false
	}

	steps := make([]Step, 0, len(up)+len(down))
	steps = append(steps, Step{Individual: i, Relation: RelationStart})
	for k := len(up) - 2; k >= 0; k-- {
		steps = append(steps, Step{Individual: up[k], Relation: RelationParent})
	}

	rest := down[1:]
	if compact && len(up) > 1 && len(rest) > 0 {
		mine, theirs := up[1], rest[0]
		if mine.IsSibling(theirs) {
			steps[len(steps)-1] = Step{Individual: theirs, Relation: RelationSibling}
			rest = rest[1:]
		}
	}
	for _, p := range rest {
		steps = append(steps, Step{Individual: p, Relation: RelationChild})
	}
	return steps, true
}

// pathFromAncestor returns a shortest descent from ancestor to p.
func pathFromAncestor(ancestor, p *Individual) ([]*Individual, bool) {
	distance, ok := p.DistanceToAncestor(ancestor)
	if !ok {
		return nil, false
	}
	return DownPath(ancestor, p, distance)
}

// --- Predicates ---

// IsParent reports whether candidate is one of i's parents.
func (i *Individual) IsParent(candidate *Individual) bool {
	for _, p := range i.Parents() {
		if p == candidate {
			return true
		}
	}
	return false
}

// IsSibling reports whether i and candidate are different individuals that
// are children of at least one common family.
func (i *Individual) IsSibling(candidate *Individual) bool {
	if candidate == nil || candidate == i {
		return false
	}
	return len(i.MutualFamilies(candidate)) > 0
}

// IsAncestor reports whether i descends from candidate.
func (i *Individual) IsAncestor(candidate *Individual) bool {
	if candidate == nil || candidate == i {
		return false
	}
	_, ok := i.DistanceToAncestor(candidate)
	return ok
}

// IsRelative reports whether i and candidate share a common ancestor.
func (i *Individual) IsRelative(candidate *Individual) bool {
	_, ok := CommonAncestor(i, candidate)
	return ok
}
