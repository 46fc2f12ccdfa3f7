package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		concurrency int
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse files and print a record summary for each",
		Long: `Parse every file concurrently and print how many records,
individuals and families each holds. The first structural error stops the
run and is reported with its line number.

With --watch the files are checked again whenever they are saved. Errors
are then printed instead of ending the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			limit := a.cfg.LoadConcurrency
			if cmd.Flags().Changed("concurrency") {
				limit = concurrency
			}

			progress := func(ev gedcom.LoadEvent) {
				if ev.Err != nil {
					a.logger.Debug("load progress", "path", ev.Path, "status", string(ev.Status), "err", ev.Err)
					return
				}
				a.logger.Debug("load progress", "path", ev.Path, "status", string(ev.Status))
			}

			docs, err := gedcom.NewLoader(limit, progress, a.parseOptions()...).Load(cmd.Context(), paths)
			if err != nil {
				return err
			}
			for i, doc := range docs {
				a.printSummary(paths[i], doc)
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := newFileWatcher(paths, 0, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("watching files", "count", len(paths))
			return w.run(ctx, func(path string) {
				doc, err := a.loadDocument(path)
				if err != nil {
					fmt.Fprintf(a.out, "%s: %v\n", path, err)
					return
				}
				a.printSummary(path, doc)
			})
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum files parsed at once (0: no limit)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "check the files again each time they change")
	return cmd
}

func (a *app) printSummary(path string, doc *gedcom.Document) {
	fmt.Fprintf(a.out, "%s: %d records, %d individuals, %d families\n",
		path, len(doc.Records()), len(doc.Individuals()), len(doc.Families()))
}
