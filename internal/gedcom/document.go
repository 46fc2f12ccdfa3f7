package gedcom

import (
	"fmt"
	"strings"
)

// Document is a parsed and resolved GEDCOM file. It is immutable once Parse
// returns and safe for concurrent readers.
type Document struct {
	root        *Line
	lines       []*Line
	records     []Record
	registry    map[string]Record
	individuals []*Individual
	families    []*Family
}

func newDocument() *Document {
	return &Document{
		root:     &Line{Level: -1},
		registry: make(map[string]Record),
	}
}

// add creates the line for raw beneath parent. Level-0 lines are classified
// and registered under their xref; a later record with the same xref
// replaces the earlier one in the registry.
func (d *Document) add(parent *Line, raw rawLine) *Line {
	line := &Line{Level: raw.level, XRef: raw.xref, Tag: raw.tag, Value: raw.value}
	parent.addChild(line)
	d.lines = append(d.lines, line)
	if raw.level != 0 {
		return line
	}

	rec := classify(line, d)
	d.records = append(d.records, rec)
	switch r := rec.(type) {
	case *Individual:
		d.individuals = append(d.individuals, r)
	case *Family:
		d.families = append(d.families, r)
	}
	if line.XRef != "" {
		d.registry[line.XRef] = rec
	}
	return line
}

// Root returns the synthetic level -1 line holding the level-0 lines.
func (d *Document) Root() *Line { return d.root }

// Lines returns every line in input order.
func (d *Document) Lines() []*Line { return d.lines }

// Records returns the level-0 records in input order.
func (d *Document) Records() []Record { return d.records }

// Individuals returns the INDI records in input order.
func (d *Document) Individuals() []*Individual { return d.individuals }

// Families returns the FAM records in input order.
func (d *Document) Families() []*Family { return d.families }

// Text renders the whole document back into input form.
func (d *Document) Text() string { return d.root.Text() }

// Record returns the record registered under xref. The surrounding @ signs
// may be omitted.
func (d *Document) Record(xref string) (Record, error) {
	rec, ok := d.registry[NormalizeXRef(xref)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", xref, ErrNotFound)
	}
	return rec, nil
}

// Individual returns the INDI record registered under xref.
func (d *Document) Individual(xref string) (*Individual, error) {
	if ind := d.individual(NormalizeXRef(xref)); ind != nil {
		return ind, nil
	}
	return nil, fmt.Errorf("individual %s: %w", xref, ErrNotFound)
}

// Family returns the FAM record registered under xref.
func (d *Document) Family(xref string) (*Family, error) {
	if fam := d.family(NormalizeXRef(xref)); fam != nil {
		return fam, nil
	}
	return nil, fmt.Errorf("family %s: %w", xref, ErrNotFound)
}

func (d *Document) individual(xref string) *Individual {
	ind, _ := d.registry[xref].(*Individual)
	return ind
}

func (d *Document) family(xref string) *Family {
	fam, _ := d.registry[xref].(*Family)
	return fam
}

func (d *Document) individualList(xrefs []string) []*Individual {
	out := make([]*Individual, 0, len(xrefs))
	for _, x := range xrefs {
		if ind := d.individual(x); ind != nil {
			out = append(out, ind)
		}
	}
	return out
}

func (d *Document) familyList(xrefs []string) []*Family {
	out := make([]*Family, 0, len(xrefs))
	for _, x := range xrefs {
		if fam := d.family(x); fam != nil {
			out = append(out, fam)
		}
	}
	return out
}

// NormalizeXRef wraps a bare id in @ signs: "I1" becomes "@I1@".
func NormalizeXRef(xref string) string {
	xref = strings.TrimSpace(xref)
	if xref == "" || strings.HasPrefix(xref, "@") {
		return xref
	}
	return "@" + xref + "@"
}
