package gedcom

import (
	"strings"
)

// Bracketed is an input document rewritten so that nesting is explicit:
// every line opens with Open and every subtree is closed by Close.
//
// Line k of Stream carries the text of input line k, preceded by the closes
// for the subtrees that ended before it. The closes for the subtrees still
// open at end of input follow on a final line.
type Bracketed struct {
	Open   string
	Close  string
	Stream string
}

// Preprocess validates every line of data and rewrites it into a bracketed
// stream. The brackets are the shortest runs of "{" and "}" that occur
// nowhere in data.
//
// Errors carry the same kinds and line numbers the line parser reports.
func Preprocess(data string) (*Bracketed, error) {
	open, close := chooseBrackets(data)
	var sb strings.Builder
	sb.Grow(len(data) + len(data)/4)

	current := -1
	err := scanLines(strings.NewReader(data), func(number int, text string) error {
		raw, err := splitLine(number, text)
		if err != nil {
			return err
		}
		if raw.level > current+1 {
			return structureError(number, raw.level, current)
		}
		for ; current >= raw.level; current-- {
			sb.WriteString(close)
			sb.WriteByte(' ')
		}
		sb.WriteString(open)
		sb.WriteByte(' ')
		sb.WriteString(raw.text)
		sb.WriteByte('\n')
		current = raw.level
		return nil
	})
	if err != nil {
		return nil, err
	}
	for ; current >= 0; current-- {
		sb.WriteString(close)
		sb.WriteByte(' ')
	}

	return &Bracketed{Open: open, Close: close, Stream: sb.String()}, nil
}

// chooseBrackets grows the bracket pair one character at a time until
// neither occurs in data.
func chooseBrackets(data string) (open, close string) {
	open, close = "{", "}"
	for strings.Contains(data, open) || strings.Contains(data, close) {
		open += "{"
		close += "}"
	}
	return open, close
}
