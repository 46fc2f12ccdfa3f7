package gedcom

import (
	"log/slog"
	"strings"
)

// resolver is the second construction pass. It runs once every record is
// registered, so pointers may refer forward in the input.
type resolver struct {
	doc        *Document
	logger     *slog.Logger
	report     bool
	unresolved int
}

// resolve initialises every record that holds cross-references. Pointers to
// unknown ids, or to records of the wrong kind, are dropped.
func resolve(doc *Document, o *options) {
	r := &resolver{doc: doc, logger: o.logger, report: o.reportUnresolved}
	for _, rec := range doc.records {
		if init, ok := rec.(initializer); ok {
			init.init(r)
		}
	}
	r.logger.Debug("resolved document",
		"records", len(doc.records),
		"individuals", len(doc.individuals),
		"families", len(doc.families),
		"unresolved", r.unresolved,
	)
}

// families resolves the owner's tag children that must point at families.
func (r *resolver) families(owner Record, tag string) []string {
	var out []string
	for _, c := range owner.Line().ChildrenByTag(tag) {
		target := strings.TrimSpace(c.Value)
		if r.doc.family(target) == nil {
			r.drop(owner, tag, target)
			continue
		}
		out = append(out, target)
	}
	return out
}

// individuals resolves the owner's tag children that must point at
// individuals.
func (r *resolver) individuals(owner Record, tag string) []string {
	var out []string
	for _, c := range owner.Line().ChildrenByTag(tag) {
		target := strings.TrimSpace(c.Value)
		if r.doc.individual(target) == nil {
			r.drop(owner, tag, target)
			continue
		}
		out = append(out, target)
	}
	return out
}

// individual resolves a single-valued pointer. The first resolvable one
// wins; the rest are ignored.
func (r *resolver) individual(owner Record, tag string) string {
	if found := r.individuals(owner, tag); len(found) > 0 {
		return found[0]
	}
	return ""
}

func (r *resolver) drop(owner Record, tag, target string) {
	r.unresolved++
	if r.report {
		r.logger.Warn("unresolved reference",
			"xref", owner.XRef(),
			"tag", tag,
			"target", target,
		)
	}
}
