// Package annotate maps match results and grammar source back onto text for
// rendering.
package annotate

import (
	grammar "github.com/simplx-lang/mdbook-grammar"
)

// Kind of a Marker.
type Kind int

const (
	// Open starts a rule span.
	Open Kind = iota
	// Close ends the innermost open rule span.
	Close
	// Point marks a position without covering any text.
	Point
)

func (k Kind) String() string {
	switch k {
	case Open:
		return "Open"
	case Close:
		return "Close"
	case Point:
		return "Point"
	}
	return "Kind(?)"
}

// A Marker is an annotation at a byte offset in the matched text.
type Marker struct {
	Offset int
	Kind   Kind
	// Rule is set on Open and Close markers.
	Rule string
	// Depth of the rule span; the root is depth 0.
	Depth int
	// Expected is set on the Point marker of a failed match.
	Expected []string
}

// Markers for every rule span in the tree rooted at root.
//
// Markers are ordered by offset, and spans nest exactly as the tree does.
// Terminal leaves are not marked. Offsets are clamped to [0, len(text)].
func Markers(text string, root *grammar.Node) []Marker {
	var out []Marker
	var walk func(n *grammar.Node, depth int)
	walk = func(n *grammar.Node, depth int) {
		if n.Terminal() {
			return
		}
		out = append(out, Marker{Offset: clamp(n.Start, text), Kind: Open, Rule: n.Rule, Depth: depth})
		for _, child := range n.Children {
			walk(child, depth+1)
		}
		out = append(out, Marker{Offset: clamp(n.End, text), Kind: Close, Rule: n.Rule, Depth: depth})
	}
	if root != nil {
		walk(root, 0)
	}
	return out
}

// FailureMarkers returns the single Point marker for a failed match.
func FailureMarkers(text string, err *grammar.MatchError) []Marker {
	return []Marker{{Offset: clamp(err.Offset, text), Kind: Point, Expected: err.Expected}}
}

func clamp(offset int, text string) int {
	switch {
	case offset < 0:
		return 0
	case offset > len(text):
		return len(text)
	}
	return offset
}
