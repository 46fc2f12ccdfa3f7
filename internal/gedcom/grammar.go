package gedcom

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// bracketStream is the grammar over a Bracketed stream.
type bracketStream struct {
	Nodes []*bracketNode `@@*`
}

// bracketNode is one line and its nested subtree.
type bracketNode struct {
	Pos lexer.Position

	Text     string         `Open @Text`
	Children []*bracketNode `@@* Close`
}

// lexer returns the stateful lexer for the stream's bracket pair. An Open
// token switches to the Body state, which takes the rest of the line as a
// single Text token.
func (b *Bracketed) lexer() (*lexer.StatefulDefinition, error) {
	return lexer.New(lexer.Rules{
		"Root": {
			{Name: "Close", Pattern: regexp.QuoteMeta(b.Close)},
			{Name: "Open", Pattern: regexp.QuoteMeta(b.Open) + ` `, Action: lexer.Push("Body")},
			{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		},
		"Body": {
			{Name: "Text", Pattern: `[^\n]+`, Action: lexer.Pop()},
		},
	})
}

func (b *Bracketed) parse() (*bracketStream, error) {
	def, err := b.lexer()
	if err != nil {
		return nil, fmt.Errorf("build bracket lexer: %w", err)
	}
	parser, err := participle.Build[bracketStream](
		participle.Lexer(def),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("build bracket grammar: %w", err)
	}
	stream, err := parser.ParseString("", b.Stream)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, newParseError(perr.Position().Line, ErrStructureCorrupted, "%s", perr.Message())
		}
		return nil, err
	}
	return stream, nil
}

// parseGrammar is the bracket front end: preprocess, parse the stream and
// rebuild the line tree from the parsed nodes.
func parseGrammar(r io.Reader, doc *Document) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	bracketed, err := Preprocess(string(data))
	if err != nil {
		return err
	}
	stream, err := bracketed.parse()
	if err != nil {
		return err
	}
	for _, node := range stream.Nodes {
		if err := attachNode(doc, doc.root, node); err != nil {
			return err
		}
	}
	return nil
}

// attachNode adds node beneath parent, then its children, in document order.
func attachNode(doc *Document, parent *Line, node *bracketNode) error {
	raw, err := splitLine(node.Pos.Line, node.Text)
	if err != nil {
		return err
	}
	if raw.level != parent.Level+1 {
		return structureError(raw.number, raw.level, parent.Level)
	}
	line := doc.add(parent, raw)
	for _, child := range node.Children {
		if err := attachNode(doc, line, child); err != nil {
			return err
		}
	}
	return nil
}
