package gedcom

import (
	"errors"
	"fmt"
)

// Parse error kinds. Every *ParseError unwraps to exactly one of these, so
// callers match with errors.Is.
var (
	ErrMalformedLevel     = errors.New("malformed level")
	ErrMalformedCrossRef  = errors.New("malformed cross-reference")
	ErrIncompleteLine     = errors.New("incomplete line")
	ErrStructureCorrupted = errors.New("structure corrupted")
)

// ErrNotFound is returned by Document lookups when no record of the requested
// kind is registered under an xref.
var ErrNotFound = errors.New("record not found")

// ParseError is a fatal structural error tied to a 1-based input line.
type ParseError struct {
	Line int
	Kind error
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
	}
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Kind, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newParseError(line int, kind error, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
