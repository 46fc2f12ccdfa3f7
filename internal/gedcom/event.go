package gedcom

import (
	"strconv"
	"strings"
)

// IndividualEventTags are the individual events other than birth and death.
var IndividualEventTags = []string{
	"ADOP", "BAPM", "BARM", "BASM", "BLES", "BURI", "CENS", "CHR", "CHRA",
	"CONF", "CREM", "EMIG", "FCOM", "GRAD", "IMMI", "NATU", "ORDN", "RETI",
	"PROB", "WILL", "EVEN",
}

// FamilyEventTags are the family events other than marriage.
var FamilyEventTags = []string{
	"ANUL", "CENS", "DIV", "DIVF", "ENGA", "MARB", "MARC", "MARL", "MARS", "EVEN",
}

// Event is a dated happening attached to a record, read from the TYPE, DATE
// and PLAC children of an event line.
type Event struct {
	Tag   string `json:"tag"`
	Type  string `json:"type,omitempty"`
	Date  string `json:"date,omitempty"`
	Place string `json:"place,omitempty"`

	line *Line
}

func newEvent(line *Line) Event {
	ev := Event{Tag: line.Tag, line: line}
	ev.Type, _ = line.ChildValue("TYPE")
	ev.Date, _ = line.ChildValue("DATE")
	ev.Place, _ = line.ChildValue("PLAC")
	return ev
}

// Line returns the event line the event was read from.
func (e Event) Line() *Line {
	return e.line
}

// DatePlace returns the date and place, empty when absent.
func (e Event) DatePlace() (date, place string) {
	return e.Date, e.Place
}

// Year returns the trailing year of the event date, as in "12 JUN 1850" or
// "ABT 1850". The last token must be exactly four digits, so "JUN 12" has
// no year.
func (e Event) Year() (int, bool) {
	fields := strings.Fields(e.Date)
	if len(fields) == 0 {
		return 0, false
	}
	last := fields[len(fields)-1]
	if len(last) != 4 {
		return 0, false
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(last)
	if err != nil {
		return 0, false
	}
	return year, true
}

func eventsFor(line *Line, tags ...string) []Event {
	var out []Event
	for _, c := range line.Children() {
		for _, tag := range tags {
			if c.Tag == tag {
				out = append(out, newEvent(c))
				break
			}
		}
	}
	return out
}
