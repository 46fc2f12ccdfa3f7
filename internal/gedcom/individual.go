package gedcom

import "strings"

// Individual is an INDI record. Relational fields hold xrefs that the
// resolver verified point at families; accessors look them up in the
// owning document.
type Individual struct {
	BasicRecord
	doc *Document

	parentFamilies []string
	spouseFamilies []string
	births         []Event
	deaths         []Event
	others         []Event
}

var (
	_ Record      = (*Individual)(nil)
	_ initializer = (*Individual)(nil)
)

func (i *Individual) init(r *resolver) {
	i.parentFamilies = r.families(i, "FAMC")
	i.spouseFamilies = r.families(i, "FAMS")
	i.births = eventsFor(i.line, "BIRT")
	i.deaths = eventsFor(i.line, "DEAT")
	i.others = eventsFor(i.line, IndividualEventTags...)
}

// ParentFamilies returns the families in which i is a child. More than one
// is allowed (adoption, fostering).
func (i *Individual) ParentFamilies() []*Family {
	return i.doc.familyList(i.parentFamilies)
}

// Families returns the families in which i is a spouse.
func (i *Individual) Families() []*Family {
	return i.doc.familyList(i.spouseFamilies)
}

// Parents returns the husbands and wives of every parent family, in order,
// without duplicates.
func (i *Individual) Parents() []*Individual {
	var out []*Individual
	for _, f := range i.ParentFamilies() {
		for _, p := range f.Parents() {
			out = appendUnique(out, p)
		}
	}
	return out
}

// Fathers returns the husbands of the parent families.
func (i *Individual) Fathers() []*Individual {
	var out []*Individual
	for _, f := range i.ParentFamilies() {
		if h := f.Husband(); h != nil {
			out = appendUnique(out, h)
		}
	}
	return out
}

// Mothers returns the wives of the parent families.
func (i *Individual) Mothers() []*Individual {
	var out []*Individual
	for _, f := range i.ParentFamilies() {
		if w := f.Wife(); w != nil {
			out = appendUnique(out, w)
		}
	}
	return out
}

// Father returns the first father, or nil.
func (i *Individual) Father() *Individual {
	if fathers := i.Fathers(); len(fathers) > 0 {
		return fathers[0]
	}
	return nil
}

// Mother returns the first mother, or nil.
func (i *Individual) Mother() *Individual {
	if mothers := i.Mothers(); len(mothers) > 0 {
		return mothers[0]
	}
	return nil
}

// Children returns the children of every spouse family, without duplicates.
func (i *Individual) Children() []*Individual {
	var out []*Individual
	for _, f := range i.Families() {
		for _, c := range f.Children() {
			out = appendUnique(out, c)
		}
	}
	return out
}

// Name returns the given name and surname of the first NAME line. Both the
// "Given /Surname/" value form and GIVN/SURN children are understood.
func (i *Individual) Name() (given, surname string) {
	name := i.line.FirstChild("NAME")
	if name == nil {
		return "", ""
	}
	if name.Value != "" {
		given, rest, _ := strings.Cut(name.Value, "/")
		surname, _, _ = strings.Cut(rest, "/")
		return strings.TrimSpace(given), strings.TrimSpace(surname)
	}
	given, _ = name.ChildValue("GIVN")
	surname, _ = name.ChildValue("SURN")
	return given, surname
}

func (i *Individual) GivenName() string {
	given, _ := i.Name()
	return given
}

func (i *Individual) Surname() string {
	_, surname := i.Name()
	return surname
}

// FullName joins the given name and surname with a space.
func (i *Individual) FullName() string {
	given, surname := i.Name()
	return strings.TrimSpace(given + " " + surname)
}

// FathersName returns the given name of the first father, or "".
func (i *Individual) FathersName() string {
	if f := i.Father(); f != nil {
		return f.GivenName()
	}
	return ""
}

// Sex returns the SEX value, or "" when unrecorded.
func (i *Individual) Sex() string {
	sex, _ := i.line.ChildValue("SEX")
	return sex
}

func (i *Individual) BirthEvents() []Event { return i.births }
func (i *Individual) DeathEvents() []Event { return i.deaths }

// OtherEvents returns the events tagged with one of IndividualEventTags.
func (i *Individual) OtherEvents() []Event { return i.others }

// Birth returns the first birth event, or nil.
func (i *Individual) Birth() *Event {
	return firstEvent(i.births)
}

// Death returns the first death event, or nil.
func (i *Individual) Death() *Event {
	return firstEvent(i.deaths)
}

// BirthYear returns the year of the first birth event.
func (i *Individual) BirthYear() (int, bool) {
	if b := i.Birth(); b != nil {
		return b.Year()
	}
	return 0, false
}

// DeathYear returns the year of the first death event.
func (i *Individual) DeathYear() (int, bool) {
	if d := i.Death(); d != nil {
		return d.Year()
	}
	return 0, false
}

// Alive reports whether no death event is recorded.
func (i *Individual) Alive() bool {
	return len(i.deaths) == 0
}

func (i *Individual) Deceased() bool {
	return !i.Alive()
}

// Marriages returns the marriage events of every spouse family.
func (i *Individual) Marriages() []Event {
	var out []Event
	for _, f := range i.Families() {
		out = append(out, f.MarriageEvents()...)
	}
	return out
}

// MarriageYears returns the years of the marriages that carry a dated year.
func (i *Individual) MarriageYears() []int {
	var out []int
	for _, m := range i.Marriages() {
		if year, ok := m.Year(); ok {
			out = append(out, year)
		}
	}
	return out
}

// MutualFamilies returns the parent families i shares with other.
func (i *Individual) MutualFamilies(other *Individual) []*Family {
	if other == nil {
		return nil
	}
	var out []*Family
	for _, mine := range i.ParentFamilies() {
		for _, theirs := range other.ParentFamilies() {
			if mine == theirs {
				out = append(out, mine)
				break
			}
		}
	}
	return out
}

func firstEvent(events []Event) *Event {
	if len(events) == 0 {
		return nil
	}
	ev := events[0]
	return &ev
}

func appendUnique(list []*Individual, p *Individual) []*Individual {
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	return append(list, p)
}
