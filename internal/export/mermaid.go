package export

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/gedgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a graph store.
// Persons are grouped by branch; families are drawn as circles with spouse
// links into them and child arrows out of them.
func GenerateMermaid(ctx context.Context, store graph.Store) (string, error) {
	branches, err := store.GetBranches(ctx)
	if err != nil {
		return "", fmt.Errorf("get branches: %w", err)
	}

	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return "", fmt.Errorf("get edges: %w", err)
	}

	// Build node -> ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// Emit branch subgraphs.
	drawn := make(map[string]bool)
	for _, b := range branches {
		if len(b.Members) == 0 {
			continue
		}
		sorted := make([]string, len(b.Members))
		copy(sorted, b.Members)
		sort.Strings(sorted)

		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID(b.Name+"_branch"), b.Name))
		for _, member := range sorted {
			label, err := personLabel(ctx, store, member)
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(member), label))
			drawn[member] = true
		}
		sb.WriteString("  end\n")
	}

	// Emit family links. Families and persons outside any branch are
	// declared on first use.
	for _, e := range edges {
		var line string
		switch e.Kind {
		case graph.EdgeKindSpouseIn:
			line = fmt.Sprintf("  %s --- %s((\"%s\"))\n", getID(e.SourceID), getID(e.TargetID), escapeLabel(e.TargetID))
		case graph.EdgeKindChildIn:
			line = fmt.Sprintf("  %s((\"%s\")) --> %s\n", getID(e.TargetID), escapeLabel(e.TargetID), getID(e.SourceID))
		default:
			continue
		}
		if !drawn[e.SourceID] {
			label, err := personLabel(ctx, store, e.SourceID)
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(e.SourceID), label))
			drawn[e.SourceID] = true
		}
		sb.WriteString(line)
	}

	return sb.String(), nil
}

// personLabel renders "Name (birth-death)" for a person node.
func personLabel(ctx context.Context, store graph.Store, xref string) (string, error) {
	p, err := store.GetPerson(ctx, xref)
	if err != nil {
		return "", fmt.Errorf("get person %s: %w", xref, err)
	}
	if p == nil {
		return escapeLabel(xref), nil
	}
	label := p.FullName()
	if label == "" {
		label = xref
	}
	if p.BirthYear != 0 || p.DeathYear != 0 {
		label += " (" + yearOrBlank(p.BirthYear) + "-" + yearOrBlank(p.DeathYear) + ")"
	}
	return escapeLabel(label), nil
}

func yearOrBlank(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprint(year)
}

// escapeLabel replaces characters Mermaid treats as label delimiters.
func escapeLabel(s string) string {
	return strings.NewReplacer(`"`, "#quot;", "@", "").Replace(s)
}
