package gedcom

import (
	"strconv"
	"strings"
)

// Line is one node of the document tree: a single LEVEL [XREF] TAG [VALUE]
// input line plus the lines nested beneath it.
//
// A child's Level is always its parent's Level + 1. The document root is a
// synthetic Line with Level -1.
type Line struct {
	Level int
	XRef  string
	Tag   string
	Value string

	children []*Line
	parent   *Line
}

// Children returns the lines nested directly beneath l, in input order.
func (l *Line) Children() []*Line {
	return l.children
}

// Parent returns the enclosing line, or nil for the document root.
func (l *Line) Parent() *Line {
	return l.parent
}

func (l *Line) addChild(child *Line) {
	child.parent = l
	l.children = append(l.children, child)
}

// ChildrenByTag returns the direct children carrying tag.
func (l *Line) ChildrenByTag(tag string) []*Line {
	var out []*Line
	for _, c := range l.children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first direct child carrying tag, or nil.
func (l *Line) FirstChild(tag string) *Line {
	for _, c := range l.children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildValue returns the value of the first child carrying tag.
func (l *Line) ChildValue(tag string) (string, bool) {
	c := l.FirstChild(tag)
	if c == nil {
		return "", false
	}
	return c.Value, true
}

// FullValue joins l's value with its CONC and CONT continuation children.
// CONC appends directly, CONT starts a new line.
func (l *Line) FullValue() string {
	var sb strings.Builder
	sb.WriteString(l.Value)
	for _, c := range l.children {
		switch c.Tag {
		case "CONC":
			sb.WriteString(c.Value)
		case "CONT":
			sb.WriteByte('\n')
			sb.WriteString(c.Value)
		}
	}
	return sb.String()
}

// Walk visits l and every descendant in document order. Returning false from
// fn skips the descendants of that line.
func (l *Line) Walk(fn func(*Line) bool) {
	if !fn(l) {
		return
	}
	for _, c := range l.children {
		c.Walk(fn)
	}
}

// String renders the line itself in input form, without its children.
func (l *Line) String() string {
	var sb strings.Builder
	l.writeLine(&sb)
	return sb.String()
}

// Text renders l and its subtree, one line per node, newline terminated.
// The synthetic root contributes only its children.
func (l *Line) Text() string {
	var sb strings.Builder
	l.writeText(&sb)
	return sb.String()
}

func (l *Line) writeText(sb *strings.Builder) {
	if l.Level >= 0 {
		l.writeLine(sb)
		sb.WriteByte('\n')
	}
	for _, c := range l.children {
		c.writeText(sb)
	}
}

func (l *Line) writeLine(sb *strings.Builder) {
	sb.WriteString(strconv.Itoa(l.Level))
	if l.XRef != "" {
		sb.WriteByte(' ')
		sb.WriteString(l.XRef)
	}
	sb.WriteByte(' ')
	sb.WriteString(l.Tag)
	if l.Value != "" {
		sb.WriteByte(' ')
		sb.WriteString(l.Value)
	}
}

// Equal reports whether l and other have the same fields and structurally
// equal subtrees. Parent links are not compared.
func (l *Line) Equal(other *Line) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.Level != other.Level || l.XRef != other.XRef || l.Tag != other.Tag || l.Value != other.Value {
		return false
	}
	if len(l.children) != len(other.children) {
		return false
	}
	for i := range l.children {
		if !l.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}
