package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/export"
	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show FILE XREF",
		Short: "Print one individual with its events and close family",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			ind, err := doc.Individual(args[1])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(export.ExportIndividual(ind))
			}
			printIndividual(a.out, ind)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func printIndividual(w io.Writer, ind *gedcom.Individual) {
	fmt.Fprintln(w, label(ind))
	if sex := ind.Sex(); sex != "" {
		fmt.Fprintf(w, "  sex:       %s\n", sex)
	}
	printEvents(w, "born", ind.BirthEvents())
	printEvents(w, "died", ind.DeathEvents())
	for _, ev := range ind.OtherEvents() {
		printEvents(w, ev.Tag, []gedcom.Event{ev})
	}
	for _, fam := range ind.Families() {
		if m := fam.Marriage(); m != nil {
			printEvents(w, "married", []gedcom.Event{*m})
		}
	}
	printRelatives(w, "parents", ind.Parents())
	printRelatives(w, "children", ind.Children())
}

func printEvents(w io.Writer, name string, events []gedcom.Event) {
	for _, ev := range events {
		date, place := ev.DatePlace()
		line := date
		if place != "" {
			if line != "" {
				line += ", "
			}
			line += place
		}
		if ev.Type != "" {
			line = ev.Type + ": " + line
		}
		fmt.Fprintf(w, "  %-10s %s\n", name+":", line)
	}
}

func printRelatives(w io.Writer, name string, list []*gedcom.Individual) {
	for _, p := range list {
		fmt.Fprintf(w, "  %-10s %s\n", name+":", label(p))
	}
}
