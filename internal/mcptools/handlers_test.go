package mcptools

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/gedgraph/internal/graph"
)

func fixtureAbsPath(t *testing.T, name string) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("..", "..", "testdata", "fixtures", name))
	require.NoError(t, err)
	return abs
}

// loadStone returns a service with stone.ged loaded and its handle.
func loadStone(t *testing.T) (*GenealogyService, string) {
	t.Helper()
	svc := NewGenealogyService(nil)
	t.Cleanup(func() { svc.Close() })

	_, out, err := svc.LoadGedcom(context.Background(), nil, LoadGedcomInput{Path: fixtureAbsPath(t, "stone.ged")})
	require.NoError(t, err)
	return svc, out.Handle
}

func xrefsOf(nodes []graph.PersonNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.XRef
	}
	return out
}

func TestGenealogyService_LoadGedcom(t *testing.T) {
	svc := NewGenealogyService(nil)
	defer svc.Close()
	ctx := context.Background()

	for _, fe := range []string{"", "lines", "grammar"} {
		t.Run("frontEnd="+fe, func(t *testing.T) {
			_, out, err := svc.LoadGedcom(ctx, nil, LoadGedcomInput{
				Path:     fixtureAbsPath(t, "stone.ged"),
				FrontEnd: fe,
			})
			require.NoError(t, err)
			assert.NotEmpty(t, out.Handle)
			assert.Equal(t, 16, out.Stats.PersonCount)
			assert.Equal(t, 6, out.Stats.FamilyCount)
			assert.Equal(t, 1, out.Stats.BranchCount)
		})
	}
}

func TestGenealogyService_LoadGedcom_Errors(t *testing.T) {
	svc := NewGenealogyService(nil)
	defer svc.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		input LoadGedcomInput
		want  string
	}{
		{"missing path", LoadGedcomInput{}, "path is required"},
		{"no such file", LoadGedcomInput{Path: fixtureAbsPath(t, "absent.ged")}, "absent.ged"},
		{"corrupt", LoadGedcomInput{Path: fixtureAbsPath(t, "corrupt.ged")}, "line 3"},
		{"bad front end", LoadGedcomInput{Path: fixtureAbsPath(t, "stone.ged"), FrontEnd: "yacc"}, "yacc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.LoadGedcom(ctx, nil, tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenealogyService_UnknownHandle(t *testing.T) {
	svc := NewGenealogyService(nil)
	ctx := context.Background()

	_, _, err := svc.FindIndividuals(ctx, nil, FindIndividualsInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handle is required")

	_, _, err = svc.FindIndividuals(ctx, nil, FindIndividualsInput{Handle: "not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid handle")

	_, _, err = svc.FindIndividuals(ctx, nil, FindIndividualsInput{Handle: "6f1c3f9e-2b7a-4d8e-9c0a-1b2c3d4e5f60"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document loaded")
}

func TestGenealogyService_UnloadGedcom(t *testing.T) {
	svc, handle := loadStone(t)
	ctx := context.Background()

	_, out, err := svc.UnloadGedcom(ctx, nil, UnloadGedcomInput{Handle: handle})
	require.NoError(t, err)
	assert.True(t, out.Removed)

	_, _, err = svc.GetIndividual(ctx, nil, GetIndividualInput{Handle: handle, XRef: "I1"})
	require.Error(t, err)
}

func TestGenealogyService_UnloadGedcomOnce(t *testing.T) {
	svc, handle := loadStone(t)
	ctx := context.Background()
	before := testutil.ToFloat64(loadedDocuments)

	var removed atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, out, err := svc.UnloadGedcom(ctx, nil, UnloadGedcomInput{Handle: handle}); err == nil && out.Removed {
				removed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), removed.Load(), "exactly one unload succeeds")
	assert.Equal(t, before-1, testutil.ToFloat64(loadedDocuments))

	_, _, err := svc.UnloadGedcom(ctx, nil, UnloadGedcomInput{Handle: handle})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document loaded")
}

func TestGenealogyService_FindIndividuals(t *testing.T) {
	svc, handle := loadStone(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input FindIndividualsInput
		want  []string
		total int
	}{
		{
			name:  "surname",
			input: FindIndividualsInput{Surname: "stone"},
			want:  []string{"@I1@", "@I3@", "@I4@", "@I6@", "@I7@", "@I11@", "@I13@", "@I15@"},
			total: 8,
		},
		{
			name:  "born between",
			input: FindIndividualsInput{Surname: "Stone", BornFrom: 1850, BornTo: 1880},
			want:  []string{"@I3@", "@I4@", "@I6@", "@I7@"},
			total: 4,
		},
		{
			name:  "born from only",
			input: FindIndividualsInput{BornFrom: 1900},
			want:  []string{"@I11@"},
			total: 1,
		},
		{
			name:  "living stones",
			input: FindIndividualsInput{Surname: "Stone", LivingOnly: true},
			want:  []string{"@I4@", "@I6@", "@I7@", "@I11@", "@I13@", "@I15@"},
			total: 6,
		},
		{
			name:  "limit keeps total",
			input: FindIndividualsInput{Surname: "Stone", Sex: "f", Limit: 2},
			want:  []string{"@I4@", "@I7@"},
			total: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Handle = handle
			_, out, err := svc.FindIndividuals(ctx, nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, xrefsOf(out.Individuals))
			assert.Equal(t, tt.total, out.Total)
		})
	}
}

func TestGenealogyService_GetIndividual(t *testing.T) {
	svc, handle := loadStone(t)
	ctx := context.Background()

	_, out, err := svc.GetIndividual(ctx, nil, GetIndividualInput{Handle: handle, XRef: "I3"})
	require.NoError(t, err)
	assert.Equal(t, "@I3@", out.Individual.XRef)
	assert.Equal(t, "Brian", out.Individual.Given)
	assert.Equal(t, []string{"@I1@", "@I2@"}, xrefsOf(out.Parents))
	assert.Equal(t, []string{"@I6@", "@I7@", "@I15@", "@I13@"}, xrefsOf(out.Children))

	_, _, err = svc.GetIndividual(ctx, nil, GetIndividualInput{Handle: handle})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xref is required")

	_, _, err = svc.GetIndividual(ctx, nil, GetIndividualInput{Handle: handle, XRef: "@I99@"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGenealogyService_Relationships(t *testing.T) {
	svc, handle := loadStone(t)
	ctx := context.Background()

	t.Run("common ancestors", func(t *testing.T) {
		_, out, err := svc.CommonAncestors(ctx, nil, PairInput{Handle: handle, From: "I6", To: "I9"})
		require.NoError(t, err)
		assert.Equal(t, []string{"@I1@", "@I2@"}, xrefsOf(out.Ancestors))
	})

	t.Run("compact path", func(t *testing.T) {
		_, out, err := svc.RelationshipPath(ctx, nil, RelationshipPathInput{Handle: handle, From: "I6", To: "I9", Compact: true})
		require.NoError(t, err)
		require.True(t, out.Related)
		var got []string
		for _, st := range out.Steps {
			got = append(got, st.XRef+" "+st.Relation)
		}
		assert.Equal(t, []string{"@I6@ start", "@I3@ parent", "@I4@ sibling", "@I9@ child"}, got)
		assert.Equal(t, "Edward Stone", out.Steps[0].Name)
	})

	t.Run("unrelated", func(t *testing.T) {
		_, out, err := svc.RelationshipPath(ctx, nil, RelationshipPathInput{Handle: handle, From: "I6", To: "I12"})
		require.NoError(t, err)
		assert.False(t, out.Related)
		assert.Empty(t, out.Steps)
	})

	t.Run("distance", func(t *testing.T) {
		_, out, err := svc.DistanceToAncestor(ctx, nil, PairInput{Handle: handle, From: "I11", To: "I1"})
		require.NoError(t, err)
		assert.True(t, out.Found)
		assert.Equal(t, 3, out.Distance)

		_, out, err = svc.DistanceToAncestor(ctx, nil, PairInput{Handle: handle, From: "I1", To: "I11"})
		require.NoError(t, err)
		assert.False(t, out.Found)
	})

	t.Run("missing individual", func(t *testing.T) {
		_, _, err := svc.CommonAncestors(ctx, nil, PairInput{Handle: handle, From: "I6"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "to is required")
	})
}

func TestGenealogyService_GetLineage(t *testing.T) {
	svc, handle := loadStone(t)
	ctx := context.Background()

	_, out, err := svc.GetLineage(ctx, nil, GetLineageInput{Handle: handle, XRef: "I11", MaxDepth: 2})
	require.NoError(t, err)
	require.Len(t, out.Chains, 4)
	assert.Equal(t, []string{"@I11@", "@I6@"}, out.Chains[0].Nodes)

	_, out, err = svc.GetLineage(ctx, nil, GetLineageInput{Handle: handle, XRef: "I4", Direction: "descendants"})
	require.NoError(t, err)
	require.Len(t, out.Chains, 1)
	assert.Equal(t, []string{"@I4@", "@I9@"}, out.Chains[0].Nodes)

	_, _, err = svc.GetLineage(ctx, nil, GetLineageInput{Handle: handle, XRef: "I4", Direction: "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown direction")
}
