package graph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func buildStoneSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s := newSQLiteStore(t, ":memory:")
	_, err := Build(context.Background(), s, loadStone(t))
	require.NoError(t, err)
	return s
}

func TestSQLiteStore_Stats(t *testing.T) {
	s := newSQLiteStore(t, ":memory:")
	stats, err := Build(context.Background(), s, loadStone(t))
	require.NoError(t, err)
	assert.Equal(t, GraphStats{PersonCount: 16, FamilyCount: 6, BranchCount: 1, EdgeCount: 35}, *stats)
}

func TestSQLiteStore_InitSchemaTwice(t *testing.T) {
	s := newSQLiteStore(t, ":memory:")
	require.NoError(t, s.InitSchema(context.Background()))
	require.NoError(t, s.InitSchema(context.Background()))
}

func TestSQLiteStore_Nodes(t *testing.T) {
	s := buildStoneSQLite(t)
	ctx := context.Background()

	adam, err := s.GetPerson(ctx, "@I1@")
	require.NoError(t, err)
	require.NotNil(t, adam)
	assert.Equal(t, PersonNode{XRef: "@I1@", Given: "Adam", Surname: "Stone", Sex: "M", BirthYear: 1825, DeathYear: 1890}, *adam)

	f6, err := s.GetFamily(ctx, "@F6@")
	require.NoError(t, err)
	require.NotNil(t, f6)
	assert.Equal(t, FamilyNode{XRef: "@F6@", Husband: "@I16@"}, *f6)

	missing, err := s.GetPerson(ctx, "@NOPE@")
	require.NoError(t, err)
	assert.Nil(t, missing)

	noFamily, err := s.GetFamily(ctx, "@NOPE@")
	require.NoError(t, err)
	assert.Nil(t, noFamily)
}

// TestSQLiteStore_MatchesMemStore checks that both stores answer traversal
// and listing queries identically for the same document.
func TestSQLiteStore_MatchesMemStore(t *testing.T) {
	mem := buildStone(t)
	lite := buildStoneSQLite(t)
	ctx := context.Background()

	for _, xref := range []string{"@I1@", "@I6@", "@I11@", "@I15@", "@I12@"} {
		for _, dir := range []Direction{DirectionAncestors, DirectionDescendants} {
			want, err := mem.GetLineage(ctx, xref, dir, 10)
			require.NoError(t, err)
			got, err := lite.GetLineage(ctx, xref, dir, 10)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s %s", xref, dir)
		}
	}

	wantEdges, err := mem.GetAllEdges(ctx)
	require.NoError(t, err)
	gotEdges, err := lite.GetAllEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantEdges, gotEdges)

	wantBranches, err := mem.GetBranches(ctx)
	require.NoError(t, err)
	gotBranches, err := lite.GetBranches(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantBranches, gotBranches)

	for _, q := range []string{"STONE", "adam stone", "ree", "nobody"} {
		want, err := mem.QueryPersons(ctx, q, 0)
		require.NoError(t, err)
		got, err := lite.QueryPersons(ctx, q, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got, "query %q", q)
	}
}

func TestSQLiteStore_QueryLimit(t *testing.T) {
	s := buildStoneSQLite(t)
	got, err := s.QueryPersons(context.Background(), "stone", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// byte order: "@I11@" sorts before "@I1@"
	assert.Equal(t, []string{"@I11@", "@I13@", "@I15@"}, []string{got[0].XRef, got[1].XRef, got[2].XRef})
}

func TestSQLiteStore_UnknownEdgeKind(t *testing.T) {
	s := newSQLiteStore(t, ":memory:")
	require.NoError(t, s.InitSchema(context.Background()))
	err := s.AddEdge(context.Background(), Edge{SourceID: "@I1@", TargetID: "@F1@", Kind: "COUSIN_OF"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown edge kind")
}

func TestSQLiteStore_FileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stone.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = Build(ctx, s, loadStone(t))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := newSQLiteStore(t, path)
	stats, err := reopened.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, stats.PersonCount)

	chains, err := reopened.GetLineage(ctx, "@I11@", DirectionAncestors, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"@I6@", "@I10@", "@I3@", "@I5@", "@I1@", "@I2@"}, lastNodes(chains))
}

func TestSQLiteStore_DuplicateXRefs(t *testing.T) {
	assertBuildsRegisteredOnly(t, newSQLiteStore(t, ":memory:"))
}
