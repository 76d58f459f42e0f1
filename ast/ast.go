// Package ast contains the syntax tree produced by parsing the grammar
// notation.
//
// Expr is a closed set of node types. Code that consumes the tree should
// switch over all of them and panic on anything else.
package ast

import (
	"strconv"
	"strings"

	"github.com/simplx-lang/mdbook-grammar/lexer"
)

// Grammar is an ordered list of rules.
type Grammar struct {
	Rules []*Rule
	// Invalid holds the names of rules whose head parsed but whose body did
	// not. References to them are reported differently from undefined names.
	Invalid []string
}

// Rule looks up a rule by name.
func (g *Grammar) Rule(name string) *Rule {
	for _, rule := range g.Rules {
		if rule.Name == name {
			return rule
		}
	}
	return nil
}

func (g *Grammar) String() string {
	out := strings.Builder{}
	for i, rule := range g.Rules {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(rule.String())
	}
	return out.String()
}

// A Rule binds a name to an expression.
type Rule struct {
	Pos  lexer.Position
	Name string
	Expr Expr
}

// Private rules are not linked from other pages.
func (r *Rule) Private() bool {
	return strings.HasPrefix(r.Name, "_")
}

func (r *Rule) String() string {
	body := r.Expr.String()
	if body == "" {
		return r.Name + " = ;"
	}
	return r.Name + " = " + body + " ;"
}

// Expr is a grammar expression.
type Expr interface {
	// Position of the first token of the expression.
	Position() lexer.Position
	String() string
	expr()
}

// Literal matches its exact (decoded) text.
type Literal struct {
	Pos   lexer.Position
	Value string
}

// RuleRef invokes another rule by name.
type RuleRef struct {
	Pos  lexer.Position
	Name string
}

// Sequence matches each item in order. An empty sequence matches the empty
// string.
type Sequence struct {
	Pos   lexer.Position
	Items []Expr
}

// Choice tries each alternative in order and commits to the first match.
type Choice struct {
	Pos          lexer.Position
	Alternatives []Expr
}

// Repeat matches Expr between Min and Max times. Max is -1 when unbounded.
type Repeat struct {
	Pos  lexer.Position
	Expr Expr
	Min  int
	Max  int
}

// Optional matches Expr zero or one times.
type Optional struct {
	Pos  lexer.Position
	Expr Expr
}

// Group is a parenthesised expression.
type Group struct {
	Pos  lexer.Position
	Expr Expr
}

// Lookahead matches the empty string if Expr matches here (or, if Negated,
// if it does not). It never consumes input.
type Lookahead struct {
	Pos     lexer.Position
	Expr    Expr
	Negated bool
}

// Converse matches any single rune at a position where Expr does not match.
type Converse struct {
	Pos  lexer.Position
	Expr Expr
}

// Meta is a prose description, such as <any printable character>. It
// documents input the grammar does not spell out and never matches.
type Meta struct {
	Pos lexer.Position
	// Text including the angle brackets.
	Text string
}

// Range of runes, inclusive at both ends.
type Range struct {
	Lo, Hi rune
}

// CharClass matches a single rune in (or, if Negated, not in) Ranges.
//
// "." is a negated class with no ranges.
type CharClass struct {
	Pos     lexer.Position
	Ranges  []Range
	Negated bool
}

// Matches reports whether the class accepts r.
func (c *CharClass) Matches(r rune) bool {
	for _, rng := range c.Ranges {
		if r >= rng.Lo && r <= rng.Hi {
			return !c.Negated
		}
	}
	return c.Negated
}

func (l *Literal) expr()   {}
func (r *RuleRef) expr()   {}
func (s *Sequence) expr()  {}
func (c *Choice) expr()    {}
func (r *Repeat) expr()    {}
func (o *Optional) expr()  {}
func (g *Group) expr()     {}
func (c *CharClass) expr() {}
func (l *Lookahead) expr() {}
func (c *Converse) expr()  {}
func (m *Meta) expr()      {}

func (l *Literal) Position() lexer.Position   { return l.Pos }
func (r *RuleRef) Position() lexer.Position   { return r.Pos }
func (s *Sequence) Position() lexer.Position  { return s.Pos }
func (c *Choice) Position() lexer.Position    { return c.Pos }
func (r *Repeat) Position() lexer.Position    { return r.Pos }
func (o *Optional) Position() lexer.Position  { return o.Pos }
func (g *Group) Position() lexer.Position     { return g.Pos }
func (c *CharClass) Position() lexer.Position { return c.Pos }
func (l *Lookahead) Position() lexer.Position { return l.Pos }
func (c *Converse) Position() lexer.Position  { return c.Pos }
func (m *Meta) Position() lexer.Position      { return m.Pos }

func (l *Literal) String() string { return lexer.Quote(l.Value) }

func (r *RuleRef) String() string { return r.Name }

func (s *Sequence) String() string {
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func (c *Choice) String() string {
	parts := make([]string, len(c.Alternatives))
	for i, alt := range c.Alternatives {
		parts[i] = alt.String()
	}
	return strings.Join(parts, " | ")
}

func (r *Repeat) String() string {
	inner := r.Expr.String()
	switch {
	case r.Min == 0 && r.Max < 0:
		return inner + "*"
	case r.Min == 1 && r.Max < 0:
		return inner + "+"
	case r.Max < 0:
		return inner + "{" + strconv.Itoa(r.Min) + ",}"
	case r.Min == r.Max:
		return inner + "{" + strconv.Itoa(r.Min) + "}"
	}
	return inner + "{" + strconv.Itoa(r.Min) + "," + strconv.Itoa(r.Max) + "}"
}

func (o *Optional) String() string { return o.Expr.String() + "?" }

func (g *Group) String() string { return "(" + g.Expr.String() + ")" }

func (l *Lookahead) String() string {
	if l.Negated {
		return "(?! " + l.Expr.String() + ")"
	}
	return "(?= " + l.Expr.String() + ")"
}

func (c *Converse) String() string { return "~" + c.Expr.String() }

func (m *Meta) String() string { return m.Text }

func (c *CharClass) String() string {
	if c.Negated && len(c.Ranges) == 0 {
		return "."
	}
	out := strings.Builder{}
	out.WriteByte('[')
	if c.Negated {
		out.WriteByte('^')
	}
	for _, rng := range c.Ranges {
		out.WriteString(lexer.EscapeClassRune(rng.Lo))
		if rng.Hi != rng.Lo {
			out.WriteByte('-')
			out.WriteString(lexer.EscapeClassRune(rng.Hi))
		}
	}
	out.WriteByte(']')
	return out.String()
}
