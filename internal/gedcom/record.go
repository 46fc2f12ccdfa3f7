package gedcom

// RecordKind classifies level-0 records.
type RecordKind string

const (
	KindIndividual RecordKind = "INDI"
	KindFamily     RecordKind = "FAM"
	KindMultimedia RecordKind = "OBJE"
	KindNote       RecordKind = "NOTE"
	KindRepository RecordKind = "REPO"
	KindSource     RecordKind = "SOUR"
	KindSubmission RecordKind = "SUBN"
	KindSubmitter  RecordKind = "SUBM"
	KindGeneric    RecordKind = "generic"
)

// Record is a level-0 line specialised by its tag.
type Record interface {
	// Line returns the level-0 line the record was built from.
	Line() *Line
	Kind() RecordKind
	// XRef returns the record's cross-reference id, empty when it has none.
	XRef() string
	// Events returns the events found among the record's children under tag.
	Events(tag string) []Event
}

// BasicRecord carries the parts shared by every record kind. Notes, sources,
// repositories and the other kinds without relations use it directly.
type BasicRecord struct {
	line *Line
	kind RecordKind
}

func (r *BasicRecord) Line() *Line      { return r.line }
func (r *BasicRecord) Kind() RecordKind { return r.kind }
func (r *BasicRecord) XRef() string     { return r.line.XRef }

func (r *BasicRecord) Events(tag string) []Event {
	return eventsFor(r.line, tag)
}

// initializer is implemented by records holding cross-references. The
// resolver calls it once, after every record is registered.
type initializer interface {
	init(r *resolver)
}

func kindForTag(tag string) RecordKind {
	switch k := RecordKind(tag); k {
	case KindIndividual, KindFamily, KindMultimedia, KindNote,
		KindRepository, KindSource, KindSubmission, KindSubmitter:
		return k
	}
	return KindGeneric
}

// classify builds the typed record for a level-0 line.
func classify(line *Line, doc *Document) Record {
	base := BasicRecord{line: line, kind: kindForTag(line.Tag)}
	switch base.kind {
	case KindIndividual:
		return &Individual{BasicRecord: base, doc: doc}
	case KindFamily:
		return &Family{BasicRecord: base, doc: doc}
	}
	return &base
}
