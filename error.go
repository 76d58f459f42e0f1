package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/simplx-lang/mdbook-grammar/lexer"
)

// Error represents an error while parsing, compiling or matching.
//
// The error will contain positional information if available.
type Error interface {
	error
	// Unadorned message.
	Message() string
	// Position error occurred.
	Position() lexer.Position
}

// ParseError is a syntax error in grammar notation.
type ParseError struct {
	Msg   string
	Pos   lexer.Position
	Hints []string
}

// Errorf creates a new ParseError at the given position.
func Errorf(pos lexer.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// Hint attaches a suggestion to the error.
func (p *ParseError) Hint(hint string) *ParseError {
	p.Hints = append(p.Hints, hint)
	return p
}

func (p *ParseError) Message() string          { return p.Msg }
func (p *ParseError) Position() lexer.Position { return p.Pos }
func (p *ParseError) Error() string            { return lexer.FormatError(p.Pos, p.Msg) }

// CompileErrorKind classifies a CompileError.
type CompileErrorKind int

const (
	// DuplicateRule is a rule name defined more than once.
	DuplicateRule CompileErrorKind = iota
	// UndefinedRule is a reference to a rule that does not exist.
	UndefinedRule
	// LeftRecursion is a rule that can reach itself without consuming input.
	LeftRecursion
)

func (k CompileErrorKind) String() string {
	switch k {
	case DuplicateRule:
		return "DuplicateRule"
	case UndefinedRule:
		return "UndefinedRule"
	case LeftRecursion:
		return "LeftRecursion"
	}
	return "CompileErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// CompileError is a well-formedness error in a parsed grammar.
type CompileError struct {
	Kind CompileErrorKind
	// Name of the offending rule, or the undefined reference.
	Name string
	Pos  lexer.Position
	// Previous definition, for DuplicateRule.
	Previous lexer.Position
	// Candidates are the defined rule names, closest first, for UndefinedRule.
	Candidates []string
	// Unparsed is set when an UndefinedRule names a rule whose body had
	// syntax errors.
	Unparsed bool
	// Cycle is the chain of rules for LeftRecursion, starting and ending with
	// Name.
	Cycle []string
	Hints []string
}

func (c *CompileError) Message() string {
	switch c.Kind {
	case DuplicateRule:
		return fmt.Sprintf("rule %q is already defined at %s", c.Name, c.Previous)
	case UndefinedRule:
		if c.Unparsed {
			return fmt.Sprintf("rule %q could not be parsed", c.Name)
		}
		if len(c.Candidates) > 0 {
			return fmt.Sprintf("undefined rule %q (defined: %s)", c.Name, strings.Join(c.Candidates, ", "))
		}
		return fmt.Sprintf("undefined rule %q", c.Name)
	case LeftRecursion:
		return "left recursion: " + strings.Join(c.Cycle, " -> ")
	}
	return "invalid grammar"
}

func (c *CompileError) Position() lexer.Position { return c.Pos }
func (c *CompileError) Error() string            { return lexer.FormatError(c.Pos, c.Message()) }

// MatchError is returned when input does not match a rule.
//
// Offset is the furthest position any terminal failed at, and Expected
// describes every terminal that failed there.
type MatchError struct {
	Offset   int
	Pos      lexer.Position
	Expected []string
}

func (m *MatchError) Message() string {
	switch len(m.Expected) {
	case 0:
		return "unexpected input"
	case 1:
		return "expected " + m.Expected[0]
	}
	return "expected one of " + strings.Join(m.Expected, ", ")
}

func (m *MatchError) Position() lexer.Position { return m.Pos }
func (m *MatchError) Error() string            { return lexer.FormatError(m.Pos, m.Message()) }

// ErrResourceExhausted is matched by every ResourceError.
var ErrResourceExhausted = errors.New("resource limit exceeded")

// ResourceError is returned when matching is abandoned because it exceeded
// its step budget or nesting depth, or its context was done.
//
// It is not a statement about the input.
type ResourceError struct {
	Limit  string
	Offset int
	Pos    lexer.Position
	Cause  error
}

func (r *ResourceError) Message() string {
	if r.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", ErrResourceExhausted, r.Limit, r.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrResourceExhausted, r.Limit)
}

func (r *ResourceError) Position() lexer.Position { return r.Pos }
func (r *ResourceError) Error() string            { return lexer.FormatError(r.Pos, r.Message()) }

func (r *ResourceError) Unwrap() []error {
	if r.Cause != nil {
		return []error{ErrResourceExhausted, r.Cause}
	}
	return []error{ErrResourceExhausted}
}

// Errors is a list of errors, in source order.
type Errors []Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e Errors) Unwrap() []error {
	out := make([]error, len(e))
	for i, err := range e {
		out[i] = err
	}
	return out
}

// Sort errors by offset, keeping the relative order of errors at the same
// offset.
func (e Errors) Sort() {
	sort.SliceStable(e, func(i, j int) bool {
		return e[i].Position().Offset < e[j].Position().Offset
	})
}

// Err returns nil if there are no errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Flatten an error into a list of Errors.
//
// Errors lists are expanded, and anything that is not an Error is given an
// empty position.
func Flatten(err error) Errors {
	if err == nil {
		return nil
	}
	var list Errors
	if errors.As(err, &list) {
		return list
	}
	var gerr Error
	if errors.As(err, &gerr) {
		return Errors{gerr}
	}
	return Errors{&ParseError{Msg: err.Error()}}
}

// HintsOf returns the suggestions attached to err, if any.
func HintsOf(err error) []string {
	var (
		lerr *lexer.Error
		perr *ParseError
		cerr *CompileError
	)
	switch {
	case errors.As(err, &lerr):
		return lerr.Hints
	case errors.As(err, &perr):
		return perr.Hints
	case errors.As(err, &cerr):
		return cerr.Hints
	}
	return nil
}
