package gedcom

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// readFixture reads a fixture relative to the project root. Tests run from
// internal/gedcom/, so the path is prefixed with ../../.
func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	require.NoError(t, err, "reading fixture %s", name)
	return string(data)
}

func parseFixture(t *testing.T, name string, opts ...Option) *Document {
	t.Helper()
	doc, err := ParseString(readFixture(t, name), opts...)
	require.NoError(t, err, "parsing fixture %s", name)
	return doc
}

// people resolves xrefs against doc, failing the test on a miss.
func people(t *testing.T, doc *Document, xrefs ...string) []*Individual {
	t.Helper()
	out := make([]*Individual, len(xrefs))
	for i, x := range xrefs {
		ind, err := doc.Individual(x)
		require.NoError(t, err)
		out[i] = ind
	}
	return out
}

func person(t *testing.T, doc *Document, xref string) *Individual {
	t.Helper()
	return people(t, doc, xref)[0]
}

func xrefsOf(list []*Individual) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.XRef()
	}
	return out
}
