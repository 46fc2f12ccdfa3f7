// Package match selects individuals by name, life events and marriages.
package match

import (
	"strings"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

// Predicate reports whether an individual satisfies a criterion.
type Predicate func(*gedcom.Individual) bool

// SurnameContains matches individuals whose surname contains s, ignoring case.
func SurnameContains(s string) Predicate {
	needle := strings.ToLower(s)
	return func(ind *gedcom.Individual) bool {
		return strings.Contains(strings.ToLower(ind.Surname()), needle)
	}
}

// GivenContains matches individuals whose given name contains s, ignoring case.
func GivenContains(s string) Predicate {
	needle := strings.ToLower(s)
	return func(ind *gedcom.Individual) bool {
		return strings.Contains(strings.ToLower(ind.GivenName()), needle)
	}
}

// BornIn matches a birth in year.
func BornIn(year int) Predicate {
	return BornBetween(year, year)
}

// BornBetween matches a birth year in [from, to].
func BornBetween(from, to int) Predicate {
	return func(ind *gedcom.Individual) bool {
		year, ok := ind.BirthYear()
		return ok && inRange(year, from, to)
	}
}

// DiedIn matches a death in year.
func DiedIn(year int) Predicate {
	return DiedBetween(year, year)
}

// DiedBetween matches a death year in [from, to].
func DiedBetween(from, to int) Predicate {
	return func(ind *gedcom.Individual) bool {
		year, ok := ind.DeathYear()
		return ok && inRange(year, from, to)
	}
}

// MarriedIn matches individuals with a marriage in year.
func MarriedIn(year int) Predicate {
	return MarriedBetween(year, year)
}

// MarriedBetween matches individuals with any marriage year in [from, to].
func MarriedBetween(from, to int) Predicate {
	return func(ind *gedcom.Individual) bool {
		for _, year := range ind.MarriageYears() {
			if inRange(year, from, to) {
				return true
			}
		}
		return false
	}
}

// Sex matches the SEX value exactly, ignoring case.
func Sex(sex string) Predicate {
	return func(ind *gedcom.Individual) bool {
		return strings.EqualFold(ind.Sex(), sex)
	}
}

// Alive matches individuals without a recorded death.
func Alive() Predicate {
	return (*gedcom.Individual).Alive
}

// All matches when every predicate matches. All() matches everyone.
func All(preds ...Predicate) Predicate {
	return func(ind *gedcom.Individual) bool {
		for _, p := range preds {
			if !p(ind) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one predicate matches.
func Any(preds ...Predicate) Predicate {
	return func(ind *gedcom.Individual) bool {
		for _, p := range preds {
			if p(ind) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(ind *gedcom.Individual) bool {
		return !p(ind)
	}
}

// Filter returns the individuals matching every predicate, in input order.
func Filter(list []*gedcom.Individual, preds ...Predicate) []*gedcom.Individual {
	match := All(preds...)
	var out []*gedcom.Individual
	for _, ind := range list {
		if match(ind) {
			out = append(out, ind)
		}
	}
	return out
}

func inRange(year, from, to int) bool {
	if from > to {
		from, to = to, from
	}
	return year >= from && year <= to
}
