package gedcom

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePath(name string) string {
	return "../../testdata/fixtures/" + name
}

func TestLoadFiles(t *testing.T) {
	paths := []string{fixturePath("stone.ged"), fixturePath("alltags.ged"), fixturePath("cycle.ged")}
	docs, err := LoadFiles(context.Background(), paths, 2)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Len(t, docs[0].Individuals(), 16)
	assert.Len(t, docs[1].Individuals(), 2)
	assert.Len(t, docs[2].Individuals(), 3)
}

func TestLoader_FirstErrorFails(t *testing.T) {
	var mu sync.Mutex
	var failed []string
	loader := NewLoader(1, func(ev LoadEvent) {
		if ev.Status != LoadFailed {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, ev.Path)
	})

	docs, err := loader.Load(context.Background(), []string{fixturePath("corrupt.ged"), fixturePath("stone.ged")})
	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, ErrStructureCorrupted)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, failed, fixturePath("corrupt.ged"))
}

func TestLoader_Progress(t *testing.T) {
	var mu sync.Mutex
	counts := make(map[LoadStatus]int)
	loader := NewLoader(0, func(ev LoadEvent) {
		mu.Lock()
		defer mu.Unlock()
		counts[ev.Status]++
	}, WithFrontEnd(FrontEndGrammar))

	_, err := loader.Load(context.Background(), []string{fixturePath("stone.ged"), fixturePath("braces.ged")})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, counts[LoadPending])
	assert.Equal(t, 2, counts[LoadParsing])
	assert.Equal(t, 2, counts[LoadDone])
	assert.Zero(t, counts[LoadFailed])
}

func TestLoadFiles_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadFiles(ctx, []string{fixturePath("stone.ged")}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
