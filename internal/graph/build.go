package graph

import (
	"context"
	"fmt"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

// Build mirrors a resolved document into store: one PersonNode per
// registered individual, one FamilyNode per registered family, CHILD_IN edges from each
// individual's parent families and SPOUSE_IN edges from each family's
// husband and wife. Branches are computed last.
func Build(ctx context.Context, store Store, doc *gedcom.Document) (*GraphStats, error) {
	if err := store.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	individuals, families := registered(doc)

	persons := make([]PersonNode, 0, len(individuals))
	for _, ind := range individuals {
		node := PersonFromIndividual(ind)
		if err := store.AddPerson(ctx, node); err != nil {
			return nil, fmt.Errorf("add person %s: %w", node.XRef, err)
		}
		persons = append(persons, node)
	}
	for _, fam := range families {
		node := FamilyFromFamily(fam)
		if err := store.AddFamily(ctx, node); err != nil {
			return nil, fmt.Errorf("add family %s: %w", node.XRef, err)
		}
	}

	for _, ind := range individuals {
		for _, fam := range ind.ParentFamilies() {
			if err := store.AddEdge(ctx, Edge{SourceID: ind.XRef(), TargetID: fam.XRef(), Kind: EdgeKindChildIn}); err != nil {
				return nil, fmt.Errorf("add edge %s: %w", ind.XRef(), err)
			}
		}
	}
	for _, fam := range families {
		for _, spouse := range fam.Parents() {
			if err := store.AddEdge(ctx, Edge{SourceID: spouse.XRef(), TargetID: fam.XRef(), Kind: EdgeKindSpouseIn}); err != nil {
				return nil, fmt.Errorf("add edge %s: %w", spouse.XRef(), err)
			}
		}
	}

	if _, err := ComputeBranches(ctx, store, persons); err != nil {
		return nil, fmt.Errorf("compute branches: %w", err)
	}
	return store.Stats(ctx)
}

// registered returns the individuals and families that own their xref in the
// document registry. Records without an xref, and records whose xref a later
// duplicate took over, are left out.
func registered(doc *gedcom.Document) ([]*gedcom.Individual, []*gedcom.Family) {
	var individuals []*gedcom.Individual
	for _, ind := range doc.Individuals() {
		if ind.XRef() == "" {
			continue
		}
		if owner, err := doc.Individual(ind.XRef()); err == nil && owner == ind {
			individuals = append(individuals, ind)
		}
	}
	var families []*gedcom.Family
	for _, fam := range doc.Families() {
		if fam.XRef() == "" {
			continue
		}
		if owner, err := doc.Family(fam.XRef()); err == nil && owner == fam {
			families = append(families, fam)
		}
	}
	return individuals, families
}

// PersonFromIndividual converts an individual into its graph node.
func PersonFromIndividual(ind *gedcom.Individual) PersonNode {
	given, surname := ind.Name()
	node := PersonNode{XRef: ind.XRef(), Given: given, Surname: surname, Sex: ind.Sex()}
	if year, ok := ind.BirthYear(); ok {
		node.BirthYear = year
	}
	if year, ok := ind.DeathYear(); ok {
		node.DeathYear = year
	}
	return node
}

// FamilyFromFamily converts a family into its graph node.
func FamilyFromFamily(fam *gedcom.Family) FamilyNode {
	node := FamilyNode{XRef: fam.XRef()}
	if h := fam.Husband(); h != nil {
		node.Husband = h.XRef()
	}
	if w := fam.Wife(); w != nil {
		node.Wife = w.XRef()
	}
	if m := fam.Marriage(); m != nil {
		if year, ok := m.Year(); ok {
			node.MarriageYear = year
		}
	}
	return node
}
