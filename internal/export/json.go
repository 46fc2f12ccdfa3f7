package export

import (
	"time"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

// DocumentExport is the top-level JSON export structure.
type DocumentExport struct {
	Name        string             `json:"name"`
	ExportedAt  string             `json:"exportedAt"`
	Individuals []IndividualExport `json:"individuals"`
	Families    []FamilyExport     `json:"families"`
}

// IndividualExport describes one person and the families they belong to.
type IndividualExport struct {
	XRef           string         `json:"xref"`
	Given          string         `json:"given,omitempty"`
	Surname        string         `json:"surname,omitempty"`
	Sex            string         `json:"sex,omitempty"`
	Birth          *gedcom.Event  `json:"birth,omitempty"`
	Death          *gedcom.Event  `json:"death,omitempty"`
	Events         []gedcom.Event `json:"events,omitempty"`
	ParentFamilies []string       `json:"parentFamilies,omitempty"`
	SpouseFamilies []string       `json:"spouseFamilies,omitempty"`
}

// FamilyExport describes one family unit.
type FamilyExport struct {
	XRef     string         `json:"xref"`
	Husband  string         `json:"husband,omitempty"`
	Wife     string         `json:"wife,omitempty"`
	Children []string       `json:"children,omitempty"`
	Marriage *gedcom.Event  `json:"marriage,omitempty"`
	Events   []gedcom.Event `json:"events,omitempty"`
}

// ExportDocument builds a DocumentExport from a resolved document. Only
// resolved references appear in the output.
func ExportDocument(doc *gedcom.Document, name string) *DocumentExport {
	export := &DocumentExport{
		Name:        name,
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Individuals: make([]IndividualExport, 0, len(doc.Individuals())),
		Families:    make([]FamilyExport, 0, len(doc.Families())),
	}

	for _, ind := range doc.Individuals() {
		export.Individuals = append(export.Individuals, ExportIndividual(ind))
	}

	for _, fam := range doc.Families() {
		fe := FamilyExport{
			XRef:     fam.XRef(),
			Children: individualRefs(fam.Children()),
			Marriage: fam.Marriage(),
			Events:   fam.OtherEvents(),
		}
		if h := fam.Husband(); h != nil {
			fe.Husband = h.XRef()
		}
		if w := fam.Wife(); w != nil {
			fe.Wife = w.XRef()
		}
		export.Families = append(export.Families, fe)
	}

	return export
}

// ExportIndividual flattens one individual.
func ExportIndividual(ind *gedcom.Individual) IndividualExport {
	given, surname := ind.Name()
	return IndividualExport{
		XRef:           ind.XRef(),
		Given:          given,
		Surname:        surname,
		Sex:            ind.Sex(),
		Birth:          ind.Birth(),
		Death:          ind.Death(),
		Events:         ind.OtherEvents(),
		ParentFamilies: familyRefs(ind.ParentFamilies()),
		SpouseFamilies: familyRefs(ind.Families()),
	}
}

func familyRefs(list []*gedcom.Family) []string {
	var out []string
	for _, f := range list {
		out = append(out, f.XRef())
	}
	return out
}

func individualRefs(list []*gedcom.Individual) []string {
	var out []string
	for _, ind := range list {
		out = append(out, ind.XRef())
	}
	return out
}
