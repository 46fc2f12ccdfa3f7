package mcptools

import (
	"github.com/dusk-indust/gedgraph/internal/export"
	"github.com/dusk-indust/gedgraph/internal/graph"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// LoadGedcomInput is the input for the load_gedcom MCP tool.
type LoadGedcomInput struct {
	Path     string `json:"path" jsonschema:"the absolute path to the GEDCOM file to load"`
	FrontEnd string `json:"frontEnd,omitempty" jsonschema:"parser front end: lines (default) or grammar"`
}

// LoadGedcomOutput is the result of the load_gedcom MCP tool.
type LoadGedcomOutput struct {
	Handle string           `json:"handle"`
	Path   string           `json:"path"`
	Stats  graph.GraphStats `json:"stats"`
}

// UnloadGedcomInput is the input for the unload_gedcom MCP tool.
type UnloadGedcomInput struct {
	Handle string `json:"handle" jsonschema:"document handle returned by load_gedcom"`
}

// UnloadGedcomOutput is the result of the unload_gedcom MCP tool.
type UnloadGedcomOutput struct {
	Removed bool `json:"removed"`
}

// FindIndividualsInput is the input for the find_individuals MCP tool.
// Zero-valued fields do not filter.
type FindIndividualsInput struct {
	Handle     string `json:"handle" jsonschema:"document handle returned by load_gedcom"`
	Surname    string `json:"surname,omitempty" jsonschema:"case-insensitive surname substring"`
	Given      string `json:"given,omitempty" jsonschema:"case-insensitive given name substring"`
	BornFrom   int    `json:"bornFrom,omitempty" jsonschema:"earliest birth year"`
	BornTo     int    `json:"bornTo,omitempty" jsonschema:"latest birth year"`
	Sex        string `json:"sex,omitempty" jsonschema:"M, F or U"`
	LivingOnly bool   `json:"livingOnly,omitempty" jsonschema:"only individuals without a death event"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 50)"`
}

// FindIndividualsOutput is the result of the find_individuals MCP tool.
type FindIndividualsOutput struct {
	Individuals []graph.PersonNode `json:"individuals"`
	Total       int                `json:"total"`
}

// GetIndividualInput is the input for the get_individual MCP tool.
type GetIndividualInput struct {
	Handle string `json:"handle" jsonschema:"document handle returned by load_gedcom"`
	XRef   string `json:"xref" jsonschema:"cross-reference id, with or without @ signs"`
}

// GetIndividualOutput is the result of the get_individual MCP tool.
type GetIndividualOutput struct {
	Individual export.IndividualExport `json:"individual"`
	Parents    []graph.PersonNode      `json:"parents"`
	Children   []graph.PersonNode      `json:"children"`
}

// PairInput names two individuals of one document.
type PairInput struct {
	Handle string `json:"handle" jsonschema:"document handle returned by load_gedcom"`
	From   string `json:"from" jsonschema:"first individual xref"`
	To     string `json:"to" jsonschema:"second individual xref"`
}

// CommonAncestorsOutput is the result of the common_ancestors MCP tool.
type CommonAncestorsOutput struct {
	Ancestors []graph.PersonNode `json:"ancestors"`
}

// RelationshipPathInput is the input for the relationship_path MCP tool.
type RelationshipPathInput struct {
	Handle  string `json:"handle" jsonschema:"document handle returned by load_gedcom"`
	From    string `json:"from" jsonschema:"individual the path starts at"`
	To      string `json:"to" jsonschema:"individual the path ends at"`
	Compact bool   `json:"compact,omitempty" jsonschema:"collapse parent then child through a shared ancestor into a sibling step"`
}

// PathStep is one individual on a relationship path.
type PathStep struct {
	XRef     string `json:"xref"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// RelationshipPathOutput is the result of the relationship_path MCP tool.
type RelationshipPathOutput struct {
	Related bool       `json:"related"`
	Steps   []PathStep `json:"steps"`
}

// DistanceToAncestorOutput is the result of the distance_to_ancestor MCP
// tool. From is the descendant, To the ancestor.
type DistanceToAncestorOutput struct {
	Found    bool `json:"found"`
	Distance int  `json:"distance"`
}

// GetLineageInput is the input for the get_lineage MCP tool.
type GetLineageInput struct {
	Handle    string `json:"handle" jsonschema:"document handle returned by load_gedcom"`
	XRef      string `json:"xref" jsonschema:"starting individual xref"`
	Direction string `json:"direction,omitempty" jsonschema:"ancestors (default) or descendants"`
	MaxDepth  int    `json:"maxDepth,omitempty" jsonschema:"maximum generations to traverse"`
}

// GetLineageOutput is the result of the get_lineage MCP tool.
type GetLineageOutput struct {
	Chains []graph.LineageChain `json:"chains"`
}
