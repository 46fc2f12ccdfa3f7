package graph

// --- Enums ---

// NodeKind classifies nodes in the family graph.
type NodeKind string

const (
	NodeKindPerson NodeKind = "person"
	NodeKindFamily NodeKind = "family"
	NodeKindBranch NodeKind = "branch"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	EdgeKindChildIn  EdgeKind = "CHILD_IN"  // person -> family they were born into
	EdgeKindSpouseIn EdgeKind = "SPOUSE_IN" // person -> family they head
	EdgeKindBelongs  EdgeKind = "BELONGS"   // person -> branch
)

// --- Models ---

// PersonNode is an individual. Years are 0 when unknown.
type PersonNode struct {
	XRef      string `json:"xref"`
	Given     string `json:"given"`
	Surname   string `json:"surname"`
	Sex       string `json:"sex,omitempty"`
	BirthYear int    `json:"birthYear,omitempty"`
	DeathYear int    `json:"deathYear,omitempty"`
}

// FullName joins the given name and surname.
func (p PersonNode) FullName() string {
	switch {
	case p.Given == "":
		return p.Surname
	case p.Surname == "":
		return p.Given
	}
	return p.Given + " " + p.Surname
}

// FamilyNode is a family unit. Husband and Wife are person xrefs, empty when
// absent.
type FamilyNode struct {
	XRef         string `json:"xref"`
	Husband      string `json:"husband,omitempty"`
	Wife         string `json:"wife,omitempty"`
	MarriageYear int    `json:"marriageYear,omitempty"`
}

// BranchNode is a connected group of related persons, named after its most
// common surname.
type BranchNode struct {
	Name        string   `json:"name"`
	Surname     string   `json:"surname"`
	FamilyCount int      `json:"familyCount"`
	Members     []string `json:"members"` // person xrefs
}

// Edge represents a relationship between two nodes.
type Edge struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Kind     EdgeKind `json:"kind"`
}

// GraphStats summarizes a family graph.
type GraphStats struct {
	PersonCount int `json:"personCount"`
	FamilyCount int `json:"familyCount"`
	BranchCount int `json:"branchCount"`
	EdgeCount   int `json:"edgeCount"`
}

// LineageChain is an ordered sequence of person xrefs from the starting
// person to an ancestor or descendant.
type LineageChain struct {
	Nodes []string `json:"nodes"`
	Depth int      `json:"depth"`
}
