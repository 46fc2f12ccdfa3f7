package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/gedgraph/internal/export"
	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

const stone = "../../testdata/fixtures/stone.ged"

// execute runs the root command with an empty config directory unless the
// caller passes its own --config-dir.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	if !containsFlag(args, "--config-dir") {
		args = append(args, "--config-dir", t.TempDir())
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", stone, "../../testdata/fixtures/cycle.ged", "--concurrency", "1")
	require.NoError(t, err)
	lines := nonEmptyLines(out)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "stone.ged:")
	assert.Contains(t, lines[0], "16 individuals, 6 families")
	assert.Contains(t, lines[1], "cycle.ged:")
}

func TestCheck_Corrupt(t *testing.T) {
	_, err := execute(t, "check", "../../testdata/fixtures/corrupt.ged")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gedcom.ErrStructureCorrupted))
	assert.Contains(t, err.Error(), "line 3")
}

func TestCheck_GrammarFrontEnd(t *testing.T) {
	out, err := execute(t, "check", stone, "--front-end", "grammar")
	require.NoError(t, err)
	assert.Contains(t, out, "16 individuals, 6 families")
}

func TestShow(t *testing.T) {
	out, err := execute(t, "show", stone, "I3")
	require.NoError(t, err)
	assert.Contains(t, out, "@I3@ Brian Stone (1852-1920)")
	assert.Contains(t, out, "parents:   @I1@ Adam Stone (1825-1890)")
	assert.Contains(t, out, "children:  @I13@ Lucy Stone")
	assert.Contains(t, out, "married:   1875")
}

func TestShow_JSON(t *testing.T) {
	out, err := execute(t, "show", stone, "@I5@", "--json")
	require.NoError(t, err)

	var ind export.IndividualExport
	require.NoError(t, json.Unmarshal([]byte(out), &ind))
	assert.Equal(t, "Dora", ind.Given)
	assert.Equal(t, "Hill", ind.Surname)
	assert.Equal(t, []string{"@F2@"}, ind.SpouseFamilies)
}

func TestShow_NotFound(t *testing.T) {
	_, err := execute(t, "show", stone, "I99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gedcom.ErrNotFound))
}

func TestRelate(t *testing.T) {
	out, err := execute(t, "relate", stone, "I6", "I9", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, "@I1@ Adam Stone (1825-1890)  (2 up, 2 down)")
	assert.Contains(t, out, "start    @I6@ Edward Stone (b. 1877)")
	assert.Contains(t, out, "sibling  @I4@ Clara Stone (b. 1855)")
	assert.Contains(t, out, "child    @I9@ Helen Reed (b. 1881)")
}

func TestRelate_NotRelated(t *testing.T) {
	out, err := execute(t, "relate", stone, "I6", "I12")
	require.NoError(t, err)
	assert.Equal(t, "@I6@ and @I12@ are not related\n", out)
}

func TestAncestors(t *testing.T) {
	out, err := execute(t, "ancestors", stone, "I11", "--depth", "2")
	require.NoError(t, err)
	lines := nonEmptyLines(out)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "@I11@ > @I6@")
	assert.Contains(t, lines[2], "@I11@ > @I6@ > @I3@")
	assert.True(t, strings.HasPrefix(lines[2], "2  Brian Stone"))
}

func TestAncestors_Down(t *testing.T) {
	out, err := execute(t, "ancestors", stone, "I4", "--down")
	require.NoError(t, err)
	assert.Contains(t, out, "@I4@ > @I9@")

	out, err = execute(t, "ancestors", stone, "I12")
	require.NoError(t, err)
	assert.Equal(t, "no ancestors found for @I12@\n", out)
}

func TestAncestors_DepthFromConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gedgraph.yml"), []byte("maxDepth: 1\n"), 0o644))

	out, err := execute(t, "ancestors", stone, "I11", "--config-dir", dir)
	require.NoError(t, err)
	assert.Len(t, nonEmptyLines(out), 2)
}

func TestAncestors_UnknownPerson(t *testing.T) {
	_, err := execute(t, "ancestors", stone, "I99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gedcom.ErrNotFound))
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"surname and birth range", []string{"--surname", "stone", "--born-from", "1850", "--born-to", "1880"}, []string{"@I3@", "@I4@", "@I6@", "@I7@"}},
		{"open range", []string{"--born-from", "1900"}, []string{"@I11@"}},
		{"deceased", []string{"--deceased"}, []string{"@I1@", "@I3@"}},
		{"any", []string{"--any", "--given", "karl", "--surname", "reed"}, []string{"@I8@", "@I9@", "@I12@"}},
		{"married", []string{"--married-from", "1890"}, []string{"@I6@", "@I10@"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"find", stone}, tt.args...)...)
			require.NoError(t, err)
			var got []string
			for _, line := range nonEmptyLines(out) {
				got = append(got, strings.Fields(line)[0])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_ExclusiveFlags(t *testing.T) {
	_, err := execute(t, "find", stone, "--living", "--deceased")
	require.Error(t, err)
}

func TestExport_JSON(t *testing.T) {
	out, err := execute(t, "export", stone)
	require.NoError(t, err)

	var doc export.DocumentExport
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "stone", doc.Name)
	assert.Len(t, doc.Individuals, 16)
	assert.Len(t, doc.Families, 6)
}

func TestExport_MermaidToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stone.mmd")
	out, err := execute(t, "export", stone, "-f", "mermaid", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "graph TD\n"))
	assert.Contains(t, string(data), "subgraph")
}

func TestExport_SQLiteThenAncestors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stone.db")
	out, err := execute(t, "export", stone, "--format", "sqlite", "--out", path)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+": 16 persons, 6 families, 1 branches, 35 edges\n", out)

	// A second export replaces the database rather than appending to it.
	_, err = execute(t, "export", stone, "-f", "sqlite", "-o", path)
	require.NoError(t, err)

	fromDB, err := execute(t, "ancestors", path, "I11", "--depth", "2")
	require.NoError(t, err)
	fromFile, err := execute(t, "ancestors", stone, "I11", "--depth", "2")
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromDB)

	_, err = execute(t, "ancestors", path, "I99")
	assert.True(t, errors.Is(err, gedcom.ErrNotFound))
}

func TestAncestors_MissingDatabase(t *testing.T) {
	_, err := execute(t, "ancestors", filepath.Join(t.TempDir(), "none.db"), "I1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExport_Errors(t *testing.T) {
	_, err := execute(t, "export", stone, "--format", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = execute(t, "export", stone, "--format", "kuzu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graphPath")

	_, err = execute(t, "export", stone, "--format", "sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite export needs")
}

func TestConfigErrors(t *testing.T) {
	_, err := execute(t, "check", stone, "--front-end", "yacc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yacc")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gedgraph.yml"), []byte("logLevel: loud\n"), 0o644))
	_, err = execute(t, "check", stone, "--config-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
