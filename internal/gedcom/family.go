package gedcom

// Family is a FAM record linking up to two spouses with their children.
type Family struct {
	BasicRecord
	doc *Document

	husband   string
	wife      string
	children  []string
	marriages []Event
	others    []Event
}

var (
	_ Record      = (*Family)(nil)
	_ initializer = (*Family)(nil)
)

func (f *Family) init(r *resolver) {
	f.husband = r.individual(f, "HUSB")
	f.wife = r.individual(f, "WIFE")
	f.children = r.individuals(f, "CHIL")
	f.marriages = eventsFor(f.line, "MARR")
	f.others = eventsFor(f.line, FamilyEventTags...)
}

// Husband returns the husband, or nil.
func (f *Family) Husband() *Individual {
	return f.doc.individual(f.husband)
}

// Wife returns the wife, or nil.
func (f *Family) Wife() *Individual {
	return f.doc.individual(f.wife)
}

// Parents returns the husband and wife that are present, husband first.
func (f *Family) Parents() []*Individual {
	var out []*Individual
	if h := f.Husband(); h != nil {
		out = append(out, h)
	}
	if w := f.Wife(); w != nil {
		out = append(out, w)
	}
	return out
}

// Children returns the CHIL individuals in input order.
func (f *Family) Children() []*Individual {
	return f.doc.individualList(f.children)
}

// Married reports whether the family has a MARR event.
func (f *Family) Married() bool {
	return len(f.marriages) > 0
}

// Marriage returns the first marriage event, or nil.
func (f *Family) Marriage() *Event {
	return firstEvent(f.marriages)
}

func (f *Family) MarriageEvents() []Event { return f.marriages }

// OtherEvents returns the events tagged with one of FamilyEventTags.
func (f *Family) OtherEvents() []Event { return f.others }

// IsRelative reports whether candidate is related to either spouse.
func (f *Family) IsRelative(candidate *Individual) bool {
	for _, p := range f.Parents() {
		if p.IsRelative(candidate) {
			return true
		}
	}
	return false
}
