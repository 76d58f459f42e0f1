package grammar_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	require "github.com/alecthomas/assert/v2"

	grammar "github.com/simplx-lang/mdbook-grammar"
	"github.com/simplx-lang/mdbook-grammar/lexer"
)

func TestErrorsList(t *testing.T) {
	errs := grammar.Errors{
		grammar.Errorf(lexer.Position{Filename: "a.grammar", Offset: 10, Line: 2, Column: 3}, "second"),
		&grammar.CompileError{Kind: grammar.UndefinedRule, Name: "X", Pos: lexer.Position{Filename: "a.grammar", Line: 1, Column: 1}},
	}
	errs.Sort()
	require.Equal(t, "a.grammar:1:1: undefined rule \"X\"\na.grammar:2:3: second", errs.Error())

	wrapped := fmt.Errorf("building: %w", errs.Err())
	var cerr *grammar.CompileError
	require.True(t, errors.As(wrapped, &cerr))
	require.Equal(t, "X", cerr.Name)
	require.Equal(t, 2, len(grammar.Flatten(wrapped)))

	require.NoError(t, grammar.Errors{}.Err())
}

func TestFlattenPlainError(t *testing.T) {
	errs := grammar.Flatten(errors.New("boom"))
	require.Equal(t, 1, len(errs))
	require.Equal(t, "boom", errs[0].Message())
	require.Zero(t, grammar.Flatten(nil))
}

func TestHintsOf(t *testing.T) {
	err := grammar.Errorf(lexer.Position{}, "bad").Hint("try this")
	require.Equal(t, []string{"try this"}, grammar.HintsOf(err))
	require.Equal(t, []string{"fix it"}, grammar.HintsOf(&grammar.CompileError{Hints: []string{"fix it"}}))
	require.Zero(t, grammar.HintsOf(errors.New("no hints")))
}

func TestMatchErrorMessage(t *testing.T) {
	require.Equal(t, "unexpected input", (&grammar.MatchError{}).Message())
	require.Equal(t, `expected "a"`, (&grammar.MatchError{Expected: []string{`"a"`}}).Message())
}

func TestResourceError(t *testing.T) {
	err := &grammar.ResourceError{Limit: "match cancelled", Cause: context.DeadlineExceeded}
	require.True(t, errors.Is(err, grammar.ErrResourceExhausted))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, "resource limit exceeded: match cancelled: context deadline exceeded", err.Error())
}

func TestCompileErrorKindString(t *testing.T) {
	require.Equal(t, "LeftRecursion", grammar.LeftRecursion.String())
	require.Equal(t, "CompileErrorKind(42)", grammar.CompileErrorKind(42).String())
}
