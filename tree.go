package grammar

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/simplx-lang/mdbook-grammar/lexer"
)

// A Node is a span of input matched by a rule or terminal.
//
// Terminal matches are leaves with an empty Rule. Children are ordered,
// non-overlapping and lie within [Start, End).
type Node struct {
	Rule       string
	Start, End int
	Children   []*Node
}

// Terminal returns true if the node was matched by a literal or character
// class rather than a rule.
func (n *Node) Terminal() bool {
	return n.Rule == ""
}

// Text of the node within input.
func (n *Node) Text(input string) string {
	return input[n.Start:n.End]
}

// Leaves returns the terminal nodes under n, in order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if node.Terminal() {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Walk calls fn for n and its descendants in pre-order. Returning false from
// fn skips the children of that node.
func (n *Node) Walk(fn func(node *Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Format the tree as an S-expression over input, eg. `(Expr (Term "1") "+" (Term "2"))`.
func (n *Node) Format(input string) string {
	out := &strings.Builder{}
	n.format(out, input)
	return out.String()
}

func (n *Node) format(out *strings.Builder, input string) {
	if n.Terminal() {
		out.WriteString(strconv.Quote(n.Text(input)))
		return
	}
	out.WriteString("(")
	out.WriteString(n.Rule)
	for _, child := range n.Children {
		out.WriteString(" ")
		child.format(out, input)
	}
	out.WriteString(")")
}

// positionAt converts a byte offset in input into a line and column.
func positionAt(input string, offset int) lexer.Position {
	if offset > len(input) {
		offset = len(input)
	}
	line := 1 + strings.Count(input[:offset], "\n")
	column := 1 + utf8.RuneCountInString(input[strings.LastIndexByte(input[:offset], '\n')+1:offset])
	return lexer.Position{Offset: offset, Line: line, Column: column}
}
