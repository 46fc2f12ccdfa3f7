package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/config"
	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

// app carries the state shared by every subcommand: global flags, the
// merged project config and the logger built from it.
type app struct {
	out    io.Writer
	errOut io.Writer

	configDir string
	frontEnd  string
	logLevel  string
	report    bool

	cfg    *config.ProjectConfig
	logger *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "gedgraph",
		Short: "Parse GEDCOM files and query family relationships",
		Long: `gedgraph parses GEDCOM genealogy files, resolves their
cross-references and answers relationship queries: common ancestors,
relationship paths, lineages and record searches.

Settings are read from gedgraph.yml in the config directory; flags
override them.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", ".", "directory holding gedgraph.yml")
	flags.StringVar(&a.frontEnd, "front-end", "", "parser front end: lines or grammar")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.report, "report-unresolved", false, "log cross-references that point nowhere")

	root.AddCommand(
		newCheckCmd(a),
		newShowCmd(a),
		newRelateCmd(a),
		newAncestorsCmd(a),
		newFindCmd(a),
		newExportCmd(a),
		newServeMCPCmd(a),
	)
	return root
}

// setup loads the project config and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("front-end") {
		cfg.FrontEnd = a.frontEnd
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("report-unresolved") {
		cfg.ReportUnresolved = a.report
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.Logger(a.errOut)
	return nil
}

func (a *app) parseOptions() []gedcom.Option {
	return a.cfg.ParseOptions(a.logger)
}

// loadDocument parses a single file with the configured options.
func (a *app) loadDocument(path string) (*gedcom.Document, error) {
	doc, err := gedcom.ParseFile(path, a.parseOptions()...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded document", "path", path, "individuals", len(doc.Individuals()))
	return doc, nil
}

// individuals looks up every xref in doc.
func individuals(doc *gedcom.Document, xrefs ...string) ([]*gedcom.Individual, error) {
	out := make([]*gedcom.Individual, 0, len(xrefs))
	for _, xref := range xrefs {
		ind, err := doc.Individual(xref)
		if err != nil {
			return nil, err
		}
		out = append(out, ind)
	}
	return out, nil
}

// label renders an individual as "@I1@ Adam Stone (1825-1890)".
func label(ind *gedcom.Individual) string {
	s := ind.XRef()
	if name := ind.FullName(); name != "" {
		s += " " + name
	}
	birth, hasBirth := ind.BirthYear()
	death, hasDeath := ind.DeathYear()
	switch {
	case hasBirth && hasDeath:
		s += fmt.Sprintf(" (%d-%d)", birth, death)
	case hasBirth:
		s += fmt.Sprintf(" (b. %d)", birth)
	case hasDeath:
		s += fmt.Sprintf(" (d. %d)", death)
	}
	return s
}
