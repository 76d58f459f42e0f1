package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"

	"github.com/simplx-lang/mdbook-grammar/ast"
)

// Repetition bounds are expanded into copies when exporting EBNF; larger
// bounds are refused.
const maxEBNFExpansion = 64

// EBNF renders g in the EBNF notation used by the Go specification.
//
// PEG ordered choice becomes plain alternation and bounded repetition is
// expanded. Negated character classes, predicates and meta descriptions have
// no equivalent and are an error.
func EBNF(g *ast.Grammar) (string, error) {
	lines := make([]string, 0, len(g.Rules))
	for _, rule := range g.Rules {
		body, _, err := ebnfExpr(rule.Expr)
		if err != nil {
			return "", fmt.Errorf("%s: %w", rule.Name, err)
		}
		if body == "" {
			lines = append(lines, rule.Name+" = .")
		} else {
			lines = append(lines, rule.Name+" = "+body+" .")
		}
	}
	return strings.Join(lines, "\n"), nil
}

// VerifyEBNF exports g and checks it with golang.org/x/exp/ebnf, starting at
// rule start.
//
// Beyond undefined references this reports rules not reachable from start,
// and lower case (lexical) rules that refer to upper case ones.
func VerifyEBNF(g *ast.Grammar, start string) error {
	text, err := EBNF(g)
	if err != nil {
		return err
	}
	parsed, err := ebnf.Parse("", strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("ebnf: %w", err)
	}
	if err := ebnf.Verify(parsed, start); err != nil {
		return fmt.Errorf("ebnf: %w", err)
	}
	return nil
}

// Returns the EBNF for expr, and whether it can only match the empty string.
func ebnfExpr(expr ast.Expr) (string, bool, error) {
	switch expr := expr.(type) {
	case *ast.Literal:
		return strconv.Quote(expr.Value), false, nil

	case *ast.RuleRef:
		return expr.Name, false, nil

	case *ast.CharClass:
		if expr.Negated {
			return "", false, fmt.Errorf("negated character class %s has no EBNF equivalent", expr)
		}
		if len(expr.Ranges) == 0 {
			return "", false, fmt.Errorf("empty character class has no EBNF equivalent")
		}
		alternatives := make([]string, len(expr.Ranges))
		for i, rng := range expr.Ranges {
			alternatives[i] = strconv.Quote(string(rng.Lo))
			if rng.Hi != rng.Lo {
				alternatives[i] += " … " + strconv.Quote(string(rng.Hi))
			}
		}
		if len(alternatives) == 1 {
			return alternatives[0], false, nil
		}
		return "(" + strings.Join(alternatives, " | ") + ")", false, nil

	case *ast.Sequence:
		items := []string{}
		for _, item := range expr.Items {
			out, empty, err := ebnfExpr(item)
			if err != nil {
				return "", false, err
			}
			if !empty {
				items = append(items, out)
			}
		}
		return strings.Join(items, " "), len(items) == 0, nil

	case *ast.Choice:
		alternatives := []string{}
		optional := false
		for _, alt := range expr.Alternatives {
			out, empty, err := ebnfExpr(alt)
			if err != nil {
				return "", false, err
			}
			if empty {
				optional = true
				continue
			}
			alternatives = append(alternatives, out)
		}
		if len(alternatives) == 0 {
			return "", true, nil
		}
		out := strings.Join(alternatives, " | ")
		if optional {
			return "[ " + out + " ]", false, nil
		}
		return out, false, nil

	case *ast.Group:
		out, empty, err := ebnfExpr(expr.Expr)
		if err != nil || empty {
			return "", empty, err
		}
		return "( " + out + " )", false, nil

	case *ast.Optional:
		out, empty, err := ebnfExpr(expr.Expr)
		if err != nil || empty {
			return "", empty, err
		}
		return "[ " + out + " ]", false, nil

	case *ast.Repeat:
		out, empty, err := ebnfExpr(expr.Expr)
		if err != nil || empty {
			return "", empty, err
		}
		return ebnfRepeat(ebnfTerm(expr.Expr, out), expr.Min, expr.Max)

	case *ast.Lookahead:
		return "", false, fmt.Errorf("lookahead %s has no EBNF equivalent", expr)

	case *ast.Converse:
		return "", false, fmt.Errorf("converse %s has no EBNF equivalent", expr)

	case *ast.Meta:
		return "", false, fmt.Errorf("meta description %s has no EBNF equivalent", expr)
	}
	panic(fmt.Sprintf("unsupported expression %T", expr))
}

// Parenthesise anything that is not already a single term.
func ebnfTerm(expr ast.Expr, out string) string {
	switch expr.(type) {
	case *ast.Sequence, *ast.Choice, *ast.Repeat:
		return "( " + out + " )"
	}
	return out
}

func ebnfRepeat(term string, min, max int) (string, bool, error) {
	if min > maxEBNFExpansion || max > maxEBNFExpansion {
		return "", false, fmt.Errorf("repetition bounds above %d cannot be exported", maxEBNFExpansion)
	}
	parts := make([]string, 0, min+1)
	for i := 0; i < min; i++ {
		parts = append(parts, term)
	}
	switch {
	case max < 0:
		parts = append(parts, "{ "+term+" }")
	case max > min:
		optional := ""
		for i := min; i < max; i++ {
			if optional == "" {
				optional = "[ " + term + " ]"
			} else {
				optional = "[ " + term + " " + optional + " ]"
			}
		}
		parts = append(parts, optional)
	}
	if len(parts) == 0 {
		return "", true, nil
	}
	return strings.Join(parts, " "), false, nil
}
