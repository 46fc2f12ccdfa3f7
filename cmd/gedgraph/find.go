package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/match"
)

type findFlags struct {
	surname     string
	given       string
	sex         string
	living      bool
	deceased    bool
	matchAny    bool
	bornFrom    int
	bornTo      int
	diedFrom    int
	diedTo      int
	marriedFrom int
	marriedTo   int
}

func newFindCmd(a *app) *cobra.Command {
	var f findFlags

	cmd := &cobra.Command{
		Use:   "find FILE",
		Short: "List individuals matching name, sex and year filters",
		Long: `List individuals of a file that match every filter given, or
any of them with --any. Name filters are case-insensitive substrings; year
ranges are inclusive and may be open on one side.

Examples:
  gedgraph find tree.ged --surname stone --born-from 1850 --born-to 1880
  gedgraph find tree.ged --married-from 1900 --sex F`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}

			preds := f.predicates()
			combine := match.All
			if f.matchAny {
				combine = match.Any
			}
			found := doc.Individuals()
			if len(preds) > 0 {
				found = match.Filter(found, combine(preds...))
			}

			for _, ind := range found {
				fmt.Fprintln(a.out, label(ind))
			}
			a.logger.Info("find complete", "matches", len(found))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.surname, "surname", "", "surname substring")
	flags.StringVar(&f.given, "given", "", "given name substring")
	flags.StringVar(&f.sex, "sex", "", "M, F or U")
	flags.BoolVar(&f.living, "living", false, "only individuals without a death event")
	flags.BoolVar(&f.deceased, "deceased", false, "only individuals with a death event")
	flags.BoolVar(&f.matchAny, "any", false, "match any filter instead of all")
	flags.IntVar(&f.bornFrom, "born-from", 0, "earliest birth year")
	flags.IntVar(&f.bornTo, "born-to", 0, "latest birth year")
	flags.IntVar(&f.diedFrom, "died-from", 0, "earliest death year")
	flags.IntVar(&f.diedTo, "died-to", 0, "latest death year")
	flags.IntVar(&f.marriedFrom, "married-from", 0, "earliest marriage year")
	flags.IntVar(&f.marriedTo, "married-to", 0, "latest marriage year")
	cmd.MarkFlagsMutuallyExclusive("living", "deceased")
	return cmd
}

func (f findFlags) predicates() []match.Predicate {
	var preds []match.Predicate
	if f.surname != "" {
		preds = append(preds, match.SurnameContains(f.surname))
	}
	if f.given != "" {
		preds = append(preds, match.GivenContains(f.given))
	}
	if f.sex != "" {
		preds = append(preds, match.Sex(f.sex))
	}
	if f.living {
		preds = append(preds, match.Alive())
	}
	if f.deceased {
		preds = append(preds, match.Not(match.Alive()))
	}
	if p := yearRange(f.bornFrom, f.bornTo, match.BornBetween); p != nil {
		preds = append(preds, p)
	}
	if p := yearRange(f.diedFrom, f.diedTo, match.DiedBetween); p != nil {
		preds = append(preds, p)
	}
	if p := yearRange(f.marriedFrom, f.marriedTo, match.MarriedBetween); p != nil {
		preds = append(preds, p)
	}
	return preds
}

// yearRange builds a range predicate; a zero bound is open.
func yearRange(from, to int, between func(from, to int) match.Predicate) match.Predicate {
	switch {
	case from == 0 && to == 0:
		return nil
	case from == 0:
		from = math.MinInt
	case to == 0:
		to = math.MaxInt
	}
	return between(from, to)
}
