package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

func loadStone(t *testing.T) *gedcom.Document {
	t.Helper()
	doc, err := gedcom.ParseFile("../../testdata/fixtures/stone.ged")
	require.NoError(t, err)
	return doc
}

// buildStone mirrors the stone fixture into a fresh MemStore.
func buildStone(t *testing.T) *MemStore {
	t.Helper()
	s := NewMemStore()
	_, err := Build(context.Background(), s, loadStone(t))
	require.NoError(t, err)
	return s
}

func lastNodes(chains []LineageChain) []string {
	out := make([]string, len(chains))
	for i, c := range chains {
		out[i] = c.Nodes[len(c.Nodes)-1]
	}
	return out
}

func TestBuild_Stats(t *testing.T) {
	s := NewMemStore()
	stats, err := Build(context.Background(), s, loadStone(t))
	require.NoError(t, err)

	assert.Equal(t, 16, stats.PersonCount)
	assert.Equal(t, 6, stats.FamilyCount)
	assert.Equal(t, 1, stats.BranchCount)
	// 9 CHILD_IN + 11 SPOUSE_IN + 15 BELONGS
	assert.Equal(t, 35, stats.EdgeCount)
}

// duplicateXRefs redefines @I1@ and @F1@ and holds an individual with no
// xref. Only the last definition of each xref is registered.
const duplicateXRefs = `0 @I1@ INDI
1 NAME Old /Dup/
1 FAMS @F1@
0 @I2@ INDI
1 NAME Kid /Dup/
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 CHIL @I2@
0 @I1@ INDI
1 NAME New /Dup/
1 FAMS @F1@
0 INDI
1 NAME Nobody /Dup/
0 @F1@ FAM
1 HUSB @I1@
1 CHIL @I2@
`

func assertBuildsRegisteredOnly(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	doc, err := gedcom.ParseString(duplicateXRefs)
	require.NoError(t, err)

	stats, err := Build(ctx, s, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PersonCount)
	assert.Equal(t, 1, stats.FamilyCount)

	p, err := s.GetPerson(ctx, "@I1@")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "New", p.Given)

	chains, err := s.GetLineage(ctx, "@I2@", DirectionAncestors, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"@I1@"}, lastNodes(chains))
}

func TestBuild_SkipsUnregisteredRecords(t *testing.T) {
	assertBuildsRegisteredOnly(t, NewMemStore())
}

func TestBuild_Nodes(t *testing.T) {
	s := buildStone(t)
	ctx := context.Background()

	adam, err := s.GetPerson(ctx, "@I1@")
	require.NoError(t, err)
	require.NotNil(t, adam)
	assert.Equal(t, PersonNode{XRef: "@I1@", Given: "Adam", Surname: "Stone", Sex: "M", BirthYear: 1825, DeathYear: 1890}, *adam)

	f6, err := s.GetFamily(ctx, "@F6@")
	require.NoError(t, err)
	require.NotNil(t, f6)
	assert.Equal(t, FamilyNode{XRef: "@F6@", Husband: "@I16@"}, *f6)

	f1, err := s.GetFamily(ctx, "@F1@")
	require.NoError(t, err)
	assert.Equal(t, 1850, f1.MarriageYear)

	missing, err := s.GetPerson(ctx, "@NOPE@")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBuild_Branches(t *testing.T) {
	s := buildStone(t)
	branches, err := s.GetBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 1)

	assert.Equal(t, "Stone", branches[0].Name)
	assert.Equal(t, 6, branches[0].FamilyCount)
	assert.Len(t, branches[0].Members, 15)
	assert.NotContains(t, branches[0].Members, "@I12@")
}

func TestMemStore_Lineage(t *testing.T) {
	s := buildStone(t)
	ctx := context.Background()

	t.Run("ancestors", func(t *testing.T) {
		chains, err := s.GetLineage(ctx, "@I11@", DirectionAncestors, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"@I6@", "@I10@", "@I3@", "@I5@", "@I1@", "@I2@"}, lastNodes(chains))
		assert.Equal(t, []string{"@I11@", "@I6@", "@I3@", "@I1@"}, chains[4].Nodes)
		assert.Equal(t, 3, chains[4].Depth)
	})

	t.Run("depth bound", func(t *testing.T) {
		chains, err := s.GetLineage(ctx, "@I11@", DirectionAncestors, 2)
		require.NoError(t, err)
		assert.Len(t, chains, 4)

		none, err := s.GetLineage(ctx, "@I11@", DirectionAncestors, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("descendants", func(t *testing.T) {
		chains, err := s.GetLineage(ctx, "@I1@", DirectionDescendants, 10)
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"@I3@", "@I4@", "@I6@", "@I7@", "@I15@", "@I13@", "@I9@", "@I11@"},
			lastNodes(chains))
	})
}

func TestMemStore_QueryPersons(t *testing.T) {
	s := buildStone(t)
	ctx := context.Background()

	all, err := s.QueryPersons(ctx, "STONE", 0)
	require.NoError(t, err)
	assert.Len(t, all, 8)

	limited, err := s.QueryPersons(ctx, "stone", 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	full, err := s.QueryPersons(ctx, "adam stone", 0)
	require.NoError(t, err)
	require.Len(t, full, 1)
	assert.Equal(t, "@I1@", full[0].XRef)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("down")
	assert.True(t, ok)
	assert.Equal(t, DirectionDescendants, d)

	d, ok = ParseDirection("ancestors")
	assert.True(t, ok)
	assert.Equal(t, DirectionAncestors, d)

	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
