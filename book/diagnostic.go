package book

import (
	"strings"
	"unicode/utf8"

	grammar "github.com/simplx-lang/mdbook-grammar"
)

// Severity of a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// A Diagnostic is a problem found in a page.
type Diagnostic struct {
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
	File     string   `json:"file" yaml:"file"`
	// Offset is a byte offset into the page. Line and Column are derived
	// from it.
	Offset int      `json:"offset" yaml:"offset"`
	Line   int      `json:"line" yaml:"line"`
	Column int      `json:"column" yaml:"column"`
	Hints  []string `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Diagnostics in page order.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Downgrade returns a copy of d with every error turned into a warning.
func (d Diagnostics) Downgrade() Diagnostics {
	out := make(Diagnostics, len(d))
	for i, diag := range d {
		diag.Severity = SeverityWarning
		out[i] = diag
	}
	return out
}

// Converts engine errors positioned within block into page diagnostics.
func blockDiagnostics(block Block, errs grammar.Errors) Diagnostics {
	out := make(Diagnostics, 0, len(errs))
	for _, err := range errs {
		out = append(out, Diagnostic{
			Message:  err.Message(),
			Severity: SeverityError,
			File:     block.File,
			Offset:   block.Offset + err.Position().Offset,
			Hints:    grammar.HintsOf(err),
		})
	}
	return out
}

// Returns the 1-based line and column of offset in content, counting columns
// in runes.
func lineColumn(content string, offset int) (int, int) {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	before := content[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return strings.Count(before, "\n") + 1, utf8.RuneCountInString(before[lineStart:]) + 1
}
