package grammar

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/simplx-lang/mdbook-grammar/lexer"
)

type memoKey struct {
	rule   int
	offset int
}

type memoEntry struct {
	node *Node
	ok   bool
}

// Context for a single match. It is never shared between matches.
type matchContext struct {
	*Parser
	ctx   context.Context
	input string

	memo map[memoKey]memoEntry
	// Results computed inside a negative lookahead, where failures are not
	// recorded. They must not satisfy lookups made outside one.
	silentMemo map[memoKey]memoEntry
	silent     int

	// Furthest offset any terminal failed at, and what was expected there.
	furthest int
	expected map[string]bool

	steps    int
	maxSteps int
	depth    int
	maxDepth int
	trace    io.Writer

	// Set once a limit is exceeded, after which every evaluation fails.
	err *ResourceError
}

func newMatchContext(ctx context.Context, p *Parser, input string, config matchConfig) *matchContext {
	return &matchContext{
		Parser:   p,
		ctx:      ctx,
		input:    input,
		memo:       map[memoKey]memoEntry{},
		silentMemo: map[memoKey]memoEntry{},
		furthest: -1,
		expected: map[string]bool{},
		maxSteps: config.maxSteps,
		maxDepth: config.maxDepth,
		trace:    config.trace,
	}
}

// Record a terminal failure.
func (c *matchContext) fail(offset int, expected string) {
	if offset > c.furthest {
		c.furthest = offset
		c.expected = map[string]bool{}
	}
	if offset == c.furthest {
		c.expected[expected] = true
	}
}

func (c *matchContext) exhausted(offset int, limit string, cause error) {
	if c.err == nil {
		c.err = &ResourceError{Limit: limit, Offset: offset, Pos: positionAt(c.input, offset), Cause: cause}
	}
}

// Invoke rule r at offset, consulting and updating the memo.
func (c *matchContext) call(r, offset int) memoEntry {
	key := memoKey{r, offset}
	entry, ok := c.memo[key]
	if !ok && c.silent > 0 {
		entry, ok = c.silentMemo[key]
	}
	if ok {
		if c.trace != nil {
			c.traceExit(r, entry, true)
		}
		return entry
	}
	if c.maxDepth > 0 && c.depth >= c.maxDepth {
		c.exhausted(offset, fmt.Sprintf("rule nesting deeper than %d", c.maxDepth), nil)
		return memoEntry{}
	}
	if c.trace != nil {
		c.traceEnter(r, offset)
	}
	c.depth++
	end, children, matched := c.eval(c.rules[r].body, offset)
	c.depth--
	if c.err != nil {
		return memoEntry{}
	}
	entry = memoEntry{ok: matched}
	if matched {
		entry.node = &Node{Rule: c.rules[r].name, Start: offset, End: end, Children: children}
	}
	if c.silent > 0 {
		c.silentMemo[key] = entry
	} else {
		c.memo[key] = entry
	}
	if c.trace != nil {
		c.traceExit(r, entry, false)
	}
	return entry
}

// Evaluate node n at offset, returning the end offset and the nodes matched.
func (c *matchContext) eval(n, offset int) (int, []*Node, bool) {
	if c.err != nil {
		return offset, nil, false
	}
	c.steps++
	if c.maxSteps > 0 && c.steps > c.maxSteps {
		c.exhausted(offset, fmt.Sprintf("more than %d steps", c.maxSteps), nil)
		return offset, nil, false
	}
	if c.steps%1024 == 0 {
		if err := c.ctx.Err(); err != nil {
			c.exhausted(offset, "match cancelled", err)
			return offset, nil, false
		}
	}

	node := &c.nodes[n]
	switch node.kind {
	case literalNode:
		if strings.HasPrefix(c.input[offset:], node.text) {
			end := offset + len(node.text)
			if end == offset {
				return offset, nil, true
			}
			return end, []*Node{{Start: offset, End: end}}, true
		}
		common := commonPrefix(c.input[offset:], node.text)
		c.fail(offset+common, quoteSuffix(node, common))
		return offset, nil, false

	case classNode:
		if offset < len(c.input) {
			r, size := utf8.DecodeRuneInString(c.input[offset:])
			if node.matchesRune(r) {
				return offset + size, []*Node{{Start: offset, End: offset + size}}, true
			}
		}
		c.fail(offset, node.desc)
		return offset, nil, false

	case ruleNode:
		entry := c.call(node.rule, offset)
		if !entry.ok {
			return offset, nil, false
		}
		return entry.node.End, []*Node{entry.node}, true

	case sequenceNode:
		cursor := offset
		var out []*Node
		for _, child := range node.children {
			end, children, ok := c.eval(child, cursor)
			if !ok {
				return offset, nil, false
			}
			out = append(out, children...)
			cursor = end
		}
		return cursor, out, true

	case choiceNode:
		for _, child := range node.children {
			if end, children, ok := c.eval(child, offset); ok {
				return end, children, true
			}
			if c.err != nil {
				break
			}
		}
		return offset, nil, false

	case repeatNode:
		cursor := offset
		var out []*Node
		count := 0
		for node.max < 0 || count < node.max {
			end, children, ok := c.eval(node.children[0], cursor)
			if !ok {
				break
			}
			out = append(out, children...)
			count++
			if end == cursor {
				// Every further iteration would match the same empty string.
				count = max(count, node.min)
				break
			}
			cursor = end
		}
		if count < node.min || c.err != nil {
			return offset, nil, false
		}
		return cursor, out, true

	case lookNode:
		if !node.negated {
			if _, _, ok := c.eval(node.children[0], offset); !ok {
				return offset, nil, false
			}
			return offset, nil, true
		}
		furthest, expected := c.furthest, c.expected
		c.furthest, c.expected = -1, map[string]bool{}
		c.silent++
		_, _, ok := c.eval(node.children[0], offset)
		c.silent--
		c.furthest, c.expected = furthest, expected
		if c.err != nil {
			return offset, nil, false
		}
		if ok {
			c.fail(offset, node.desc)
			return offset, nil, false
		}
		return offset, nil, true

	case metaNode:
		c.fail(offset, node.desc)
		return offset, nil, false
	}
	panic("unsupported node " + node.kind.String())
}

// Length in bytes of the longest common prefix of a and b, ending on a rune
// boundary.
func commonPrefix(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) {
		_, size := utf8.DecodeRuneInString(a[i:])
		if i+size > len(b) || a[i:i+size] != b[i:i+size] {
			break
		}
		i += size
	}
	return i
}

func quoteSuffix(n *node, from int) string {
	if from == 0 {
		return n.desc
	}
	return lexer.Quote(n.text[from:])
}

// Expected descriptions at the furthest failure, sorted.
func (c *matchContext) expectations() []string {
	out := make([]string, 0, len(c.expected))
	for expected := range c.expected {
		out = append(out, expected)
	}
	sort.Strings(out)
	return out
}
