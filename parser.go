package grammar

import (
	"context"

	"github.com/simplx-lang/mdbook-grammar/lexer"
)

// EndOfInput is the expectation reported by MatchAll for leftover input.
const EndOfInput = "end of input"

// A Parser is a compiled grammar.
//
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	nodes []node
	rules []compiledRule
	index map[string]int
}

// Entry returns the name of the rule matched when no rule is given.
func (p *Parser) Entry() string {
	return p.rules[0].name
}

// Rules returns the rule names in declaration order.
func (p *Parser) Rules() []string {
	out := make([]string, len(p.rules))
	for i, rule := range p.rules {
		out[i] = rule.name
	}
	return out
}

// Has returns true if the grammar defines rule.
func (p *Parser) Has(rule string) bool {
	_, ok := p.index[rule]
	return ok
}

// Nullable returns true if rule can match the empty string.
func (p *Parser) Nullable(rule string) bool {
	r, ok := p.index[rule]
	return ok && p.rules[r].nullable
}

// Match rule against a prefix of input.
//
// An empty rule name selects the entry rule. The match does not need to
// consume all of input; the returned Node's End says how much was matched.
//
// On failure the error is a *MatchError describing the furthest failure, or a
// *ResourceError if matching was abandoned.
func (p *Parser) Match(ctx context.Context, rule string, input string, options ...MatchOption) (*Node, error) {
	c, r, err := p.start(ctx, rule, input, options)
	if err != nil {
		return nil, err
	}
	return c.result(c.call(r, 0))
}

// MatchAll matches rule against the whole of input.
//
// Leftover input is reported as a *MatchError at the end of the match.
func (p *Parser) MatchAll(ctx context.Context, rule string, input string, options ...MatchOption) (*Node, error) {
	c, r, err := p.start(ctx, rule, input, options)
	if err != nil {
		return nil, err
	}
	root, err := c.result(c.call(r, 0))
	if err != nil {
		return nil, err
	}
	if root.End == len(input) {
		return root, nil
	}
	expected := []string{EndOfInput}
	if c.furthest == root.End {
		c.expected[EndOfInput] = true
		expected = c.expectations()
	}
	return nil, &MatchError{Offset: root.End, Pos: positionAt(input, root.End), Expected: expected}
}

func (p *Parser) start(ctx context.Context, rule, input string, options []MatchOption) (*matchContext, int, error) {
	r := 0
	if rule != "" {
		var ok bool
		if r, ok = p.index[rule]; !ok {
			return nil, 0, Errorf(lexer.Position{}, "unknown rule %q", rule)
		}
	}
	c := newMatchContext(ctx, p, input, newMatchConfig(options))
	if err := ctx.Err(); err != nil {
		return nil, 0, &ResourceError{Limit: "match cancelled", Cause: err, Pos: positionAt(input, 0)}
	}
	return c, r, nil
}

func (c *matchContext) result(entry memoEntry) (*Node, error) {
	if c.err != nil {
		return nil, c.err
	}
	if entry.ok {
		return entry.node, nil
	}
	offset := c.furthest
	if offset < 0 {
		offset = 0
	}
	return nil, &MatchError{Offset: offset, Pos: positionAt(c.input, offset), Expected: c.expectations()}
}
