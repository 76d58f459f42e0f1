package grammar_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	grammar "github.com/simplx-lang/mdbook-grammar"
)

func compileError(t *testing.T, src string) *grammar.CompileError {
	t.Helper()
	parser, err := grammar.Build("", src)
	require.Nil(t, parser)
	var cerr *grammar.CompileError
	require.True(t, errors.As(err, &cerr), "expected a CompileError but got %v", err)
	return cerr
}

func TestCompileUndefinedRule(t *testing.T) {
	cerr := compileError(t, `A = B;`)
	require.Equal(t, grammar.UndefinedRule, cerr.Kind)
	require.Equal(t, "B", cerr.Name)
	require.Equal(t, []string{"A"}, cerr.Candidates)
	require.Empty(t, cerr.Hints)
	require.EqualError(t, cerr, `1:5: undefined rule "B" (defined: A)`)
}

func TestCompileUndefinedRuleSuggestsClosest(t *testing.T) {
	cerr := compileError(t, `Expr = Trem; Term = "t"; Factor = "f";`)
	require.Equal(t, "Term", cerr.Candidates[0])
	require.ElementsMatch(t, []string{"Expr", "Term", "Factor"}, cerr.Candidates)
	require.Equal(t, []string{`did you mean "Term"?`}, cerr.Hints)
}

func TestCompileReferenceToUnparsedRule(t *testing.T) {
	parser, err := grammar.Build("", `A = B; B = "x" ) ;`)
	require.Nil(t, parser)
	require.Equal(t, []string{
		`1:5: rule "B" could not be parsed`,
		`1:16: unmatched ")"`,
	}, errorStrings(err))
}

func TestCompileDuplicateRule(t *testing.T) {
	cerr := compileError(t, `A = "a"; A = "b";`)
	require.Equal(t, grammar.DuplicateRule, cerr.Kind)
	require.EqualError(t, cerr, `1:10: rule "A" is already defined at 1:1`)
}

func TestCompileLeftRecursion(t *testing.T) {
	cerr := compileError(t, `A = A "x" | "x";`)
	require.Equal(t, grammar.LeftRecursion, cerr.Kind)
	require.Equal(t, "A", cerr.Name)
	require.Equal(t, []string{"A", "A"}, cerr.Cycle)
	require.EqualError(t, cerr, `1:1: left recursion: A -> A`)
}

func TestCompileIndirectLeftRecursionThroughNullablePrefix(t *testing.T) {
	_, err := grammar.Build("", `A = B "x"; B = C? A; C = "c";`)
	require.Equal(t, []string{`1:1: left recursion: A -> B -> A`}, errorStrings(err))
}

func TestCompileLeftRecursionThroughRepeat(t *testing.T) {
	cerr := compileError(t, `A = ("a" | B)*; B = A "b";`)
	require.Equal(t, []string{"A", "B", "A"}, cerr.Cycle)
}

func TestCompileLeftRecursionThroughPredicates(t *testing.T) {
	for _, src := range []string{
		`A = (?= A) "x";`,
		`A = (?! "x") A | "y";`,
		`A = ~A;`,
	} {
		cerr := compileError(t, src)
		require.Equal(t, grammar.LeftRecursion, cerr.Kind, src)
		require.Equal(t, []string{"A", "A"}, cerr.Cycle, src)
	}
}

func TestCompileUndefinedRuleInsidePredicate(t *testing.T) {
	cerr := compileError(t, `A = (?! Keyword) "x";`)
	require.Equal(t, grammar.UndefinedRule, cerr.Kind)
	require.Equal(t, "Keyword", cerr.Name)
	require.EqualError(t, cerr, `1:9: undefined rule "Keyword" (defined: A)`)
}

func TestCompileRightRecursionIsAllowed(t *testing.T) {
	_, err := grammar.Build("", `A = "x" A | "y";`)
	require.NoError(t, err)
}

func TestCompileEmptyGrammar(t *testing.T) {
	parser, err := grammar.Build("", "# nothing here\n")
	require.Nil(t, parser)
	require.EqualError(t, err, "grammar has no rules")
}

func TestCompileWithSyntaxErrorsStillBuilds(t *testing.T) {
	parser, err := grammar.Build("", `A = "a"; B = ) ;`)
	require.NotNil(t, parser)
	require.Equal(t, []string{`1:14: unmatched ")"`}, errorStrings(err))
	require.Equal(t, []string{"A"}, parser.Rules())
}

func TestNullable(t *testing.T) {
	parser := grammar.MustBuild("", `A = B C; B = "b"?; C = ; D = "d"; E = D*; F = A D;`)
	require.True(t, parser.Nullable("A"))
	require.True(t, parser.Nullable("B"))
	require.True(t, parser.Nullable("C"))
	require.False(t, parser.Nullable("D"))
	require.True(t, parser.Nullable("E"))
	require.False(t, parser.Nullable("F"))
	require.False(t, parser.Nullable("Missing"))

	parser = grammar.MustBuild("", `L = (?= "a"); N = (?! "a"); C = ~"a"; M = <prose>;`)
	require.True(t, parser.Nullable("L"))
	require.True(t, parser.Nullable("N"))
	require.False(t, parser.Nullable("C"))
	require.False(t, parser.Nullable("M"))
}

func TestCompileIsDeterministic(t *testing.T) {
	src := `
		Expr   = Term (("+" | "-") Term)* ;
		Term   = Number | "(" Expr ")" ;
		Number = [0-9]+ ("." [0-9]{1,})? ;
	`
	a := grammar.MustBuild("", src)
	b := grammar.MustBuild("", src)
	require.NotSame(t, a, b)
	exportAll := cmp.Exporter(func(reflect.Type) bool { return true })
	require.Empty(t, cmp.Diff(a, b, exportAll))
	require.Equal(t, "Expr", a.Entry())
	require.Equal(t, []string{"Expr", "Term", "Number"}, a.Rules())
}
