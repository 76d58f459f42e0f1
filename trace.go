package grammar

import (
	"fmt"
	"io"
	"strings"
)

// Trace each rule invocation and its result to "w".
func Trace(w io.Writer) MatchOption {
	return func(c *matchConfig) {
		c.trace = w
	}
}

const tracePreview = 16

func (c *matchContext) traceEnter(r, pos int) {
	rest := c.input[pos:]
	if len(rest) > tracePreview {
		rest = rest[:tracePreview] + "…"
	}
	fmt.Fprintf(c.trace, "%s%s @%d %q\n", strings.Repeat(" ", c.depth*2), c.rules[r].name, pos, rest)
}

func (c *matchContext) traceExit(r int, entry memoEntry, memoised bool) {
	suffix := ""
	if memoised {
		suffix = " (memoised)"
	}
	indent := strings.Repeat(" ", c.depth*2)
	if entry.ok {
		fmt.Fprintf(c.trace, "%s%s = %d..%d%s\n", indent, c.rules[r].name, entry.node.Start, entry.node.End, suffix)
		return
	}
	fmt.Fprintf(c.trace, "%s%s failed%s\n", indent, c.rules[r].name, suffix)
}
