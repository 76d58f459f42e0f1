package grammar

import (
	"fmt"

	"github.com/simplx-lang/mdbook-grammar/ast"
	"github.com/simplx-lang/mdbook-grammar/lexer"
)

type nodeKind uint8

const (
	literalNode nodeKind = iota
	classNode
	ruleNode
	sequenceNode
	choiceNode
	repeatNode
	// Zero-width predicate over its single child, negated by "negated".
	lookNode
	// Prose placeholder that never matches.
	metaNode
)

func (k nodeKind) String() string {
	switch k {
	case literalNode:
		return "literal"
	case classNode:
		return "class"
	case ruleNode:
		return "rule"
	case sequenceNode:
		return "sequence"
	case choiceNode:
		return "choice"
	case repeatNode:
		return "repeat"
	case lookNode:
		return "lookahead"
	case metaNode:
		return "meta"
	}
	return fmt.Sprintf("nodeKind(%d)", k)
}

// A node in the compiled grammar arena. Nodes refer to each other by index.
type node struct {
	kind nodeKind
	// Decoded text of a literal.
	text string
	// Ranges and negation of a character class, or negation of a lookahead.
	ranges  []ast.Range
	negated bool
	// Sequence items, choice alternatives, or the single repeated or
	// predicated node.
	children []int
	min, max int
	// Index into Parser.rules of a rule reference.
	rule int
	// Description used when a terminal fails, eg. `"if"` or `[a-z]`.
	desc string
}

type compiledRule struct {
	name     string
	pos      lexer.Position
	body     int
	nullable bool
}

func (n *node) matchesRune(r rune) bool {
	for _, rng := range n.ranges {
		if r >= rng.Lo && r <= rng.Hi {
			return !n.negated
		}
	}
	return n.negated
}

// Lowers AST expressions into the arena. Groups disappear and optionals
// become {0,1} repeats. A converse becomes a negative lookahead followed by
// any character.
type lowering struct {
	nodes []node
	index map[string]int
}

func (l *lowering) add(n node) int {
	l.nodes = append(l.nodes, n)
	return len(l.nodes) - 1
}

func (l *lowering) lower(expr ast.Expr) int {
	switch expr := expr.(type) {
	case *ast.Literal:
		return l.add(node{kind: literalNode, text: expr.Value, desc: lexer.Quote(expr.Value)})

	case *ast.CharClass:
		return l.add(node{kind: classNode, ranges: expr.Ranges, negated: expr.Negated, desc: classDescription(expr)})

	case *ast.RuleRef:
		return l.add(node{kind: ruleNode, rule: l.index[expr.Name], desc: expr.Name})

	case *ast.Sequence:
		children := make([]int, len(expr.Items))
		for i, item := range expr.Items {
			children[i] = l.lower(item)
		}
		return l.add(node{kind: sequenceNode, children: children})

	case *ast.Choice:
		children := make([]int, len(expr.Alternatives))
		for i, alt := range expr.Alternatives {
			children[i] = l.lower(alt)
		}
		return l.add(node{kind: choiceNode, children: children})

	case *ast.Repeat:
		child := l.lower(expr.Expr)
		return l.add(node{kind: repeatNode, children: []int{child}, min: expr.Min, max: expr.Max})

	case *ast.Optional:
		child := l.lower(expr.Expr)
		return l.add(node{kind: repeatNode, children: []int{child}, min: 0, max: 1})

	case *ast.Group:
		return l.lower(expr.Expr)

	case *ast.Lookahead:
		child := l.lower(expr.Expr)
		desc := "not " + expr.Expr.String()
		return l.add(node{kind: lookNode, children: []int{child}, negated: expr.Negated, desc: desc})

	case *ast.Converse:
		child := l.lower(expr.Expr)
		look := l.add(node{kind: lookNode, children: []int{child}, negated: true, desc: "anything but " + expr.Expr.String()})
		dot := l.add(node{kind: classNode, negated: true, desc: "any character"})
		return l.add(node{kind: sequenceNode, children: []int{look, dot}})

	case *ast.Meta:
		return l.add(node{kind: metaNode, desc: expr.Text})

	default:
		panic(fmt.Sprintf("unsupported expression %T", expr))
	}
}

func classDescription(class *ast.CharClass) string {
	if class.Negated && len(class.Ranges) == 0 {
		return "any character"
	}
	return class.String()
}
