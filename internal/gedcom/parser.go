package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// FrontEnd selects how input text is turned into the line tree.
type FrontEnd string

const (
	// FrontEndLines walks the input line by line.
	FrontEndLines FrontEnd = "lines"
	// FrontEndGrammar rewrites the input into a bracketed stream and parses
	// it with a grammar.
	FrontEndGrammar FrontEnd = "grammar"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

type options struct {
	frontEnd         FrontEnd
	logger           *slog.Logger
	reportUnresolved bool
}

// Option configures Parse.
type Option func(*options)

// WithFrontEnd selects the parsing front end. The default is FrontEndLines.
func WithFrontEnd(fe FrontEnd) Option {
	return func(o *options) {
		if fe != "" {
			o.frontEnd = fe
		}
	}
}

// WithLogger sets the logger used during parsing and resolution.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithUnresolvedReporting logs every dropped cross-reference at warn level.
func WithUnresolvedReporting(report bool) Option {
	return func(o *options) {
		o.reportUnresolved = report
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		frontEnd: FrontEndLines,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Parse reads a GEDCOM document from r, builds its line tree and resolves
// cross-references. A structural problem yields a *ParseError and no
// document.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	doc := newDocument()

	var err error
	switch o.frontEnd {
	case FrontEndLines:
		err = parseLines(r, doc)
	case FrontEndGrammar:
		err = parseGrammar(r, doc)
	default:
		return nil, fmt.Errorf("unknown front end %q", o.frontEnd)
	}
	if err != nil {
		return nil, err
	}

	o.logger.Debug("parsed document", "frontEnd", string(o.frontEnd), "lines", len(doc.lines))
	resolve(doc, o)
	return doc, nil
}

// ParseString parses a document held in memory.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseFile opens and parses the file at path.
func ParseFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// --- Line front end ---

// rawLine is one input line split into its fields.
type rawLine struct {
	number int
	level  int
	xref   string
	tag    string
	value  string
	text   string // trimmed source text
}

func parseLines(r io.Reader, doc *Document) error {
	b := &treeBuilder{doc: doc, current: doc.root}
	return scanLines(r, func(number int, text string) error {
		raw, err := splitLine(number, text)
		if err != nil {
			return err
		}
		return b.push(raw)
	})
}

// treeBuilder attaches lines beneath the most recent line of level L-1.
type treeBuilder struct {
	doc     *Document
	current *Line
}

func (b *treeBuilder) push(raw rawLine) error {
	if raw.level > b.current.Level+1 {
		return structureError(raw.number, raw.level, b.current.Level)
	}
	parent := b.current
	for parent.Level >= raw.level {
		parent = parent.parent
	}
	b.current = b.doc.add(parent, raw)
	return nil
}

func structureError(number, level, previous int) *ParseError {
	return newParseError(number, ErrStructureCorrupted,
		"level %d follows level %d", level, previous)
}

// scanLines calls fn for every input line with its 1-based number. A UTF-8
// byte order mark on the first line is removed.
func scanLines(r io.Reader, fn func(number int, text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	number := 0
	for sc.Scan() {
		number++
		text := sc.Text()
		if number == 1 {
			text = strings.TrimPrefix(text, "\uFEFF")
		}
		if err := fn(number, text); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read line %d: %w", number+1, err)
	}
	return nil
}

// splitLine splits a line into LEVEL [XREF] TAG [VALUE]. Fields are
// separated by single spaces; everything after the tag's separator is the
// value, inner spacing included.
func splitLine(number int, text string) (rawLine, error) {
	text = strings.TrimSpace(text)
	raw := rawLine{number: number, text: text}
	if text == "" {
		return raw, newParseError(number, ErrIncompleteLine, "empty line")
	}

	head, rest, ok := strings.Cut(text, " ")
	if !ok {
		return raw, newParseError(number, ErrIncompleteLine, "missing tag after level %q", head)
	}
	level, err := strconv.Atoi(head)
	if err != nil || level < 0 {
		return raw, newParseError(number, ErrMalformedLevel, "%q is not a non-negative integer", head)
	}
	raw.level = level

	head, rest, _ = strings.Cut(rest, " ")
	if strings.HasPrefix(head, "@") {
		if len(head) < 3 || !strings.HasSuffix(head, "@") {
			return raw, newParseError(number, ErrMalformedCrossRef, "%q", head)
		}
		raw.xref = head
		head, rest, _ = strings.Cut(rest, " ")
	}
	if head == "" {
		return raw, newParseError(number, ErrIncompleteLine, "missing tag")
	}
	raw.tag = head
	raw.value = rest
	return raw, nil
}
