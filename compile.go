package grammar

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/simplx-lang/mdbook-grammar/ast"
)

// Build parses and compiles grammar notation.
//
// Syntax errors do not prevent compilation of the rules that did parse: if
// those compile, a usable Parser is returned together with the syntax errors.
// Compile errors always result in a nil Parser.
func Build(filename, src string) (*Parser, error) {
	g, err := ParseRules(filename, src)
	errs := Flatten(err)
	if len(g.Rules) == 0 && len(errs) > 0 {
		return nil, errs
	}
	parser, err := Compile(g)
	errs = append(errs, Flatten(err)...)
	errs.Sort()
	return parser, errs.Err()
}

// MustBuild calls Build and panics on error.
func MustBuild(filename, src string) *Parser {
	parser, err := Build(filename, src)
	if err != nil {
		panic(err)
	}
	return parser
}

// Compile checks a grammar for well-formedness and lowers it into an
// immutable Parser.
//
// The first rule in g is the entry rule. All CompileErrors found are
// returned together as an Errors list.
func Compile(g *ast.Grammar) (*Parser, error) {
	var errs Errors
	index := map[string]int{}
	var rules []*ast.Rule
	for _, rule := range g.Rules {
		if prev, ok := index[rule.Name]; ok {
			errs = append(errs, &CompileError{
				Kind:     DuplicateRule,
				Name:     rule.Name,
				Pos:      rule.Pos,
				Previous: rules[prev].Pos,
			})
			continue
		}
		index[rule.Name] = len(rules)
		rules = append(rules, rule)
	}
	if len(rules) == 0 {
		errs = append(errs, &ParseError{Msg: "grammar has no rules"})
		return nil, errs
	}

	unparsed := map[string]bool{}
	for _, name := range g.Invalid {
		unparsed[name] = true
	}
	for _, rule := range rules {
		for _, ref := range ast.References(rule.Expr) {
			if _, ok := index[ref.Name]; ok {
				continue
			}
			cerr := &CompileError{Kind: UndefinedRule, Name: ref.Name, Pos: ref.Pos, Unparsed: unparsed[ref.Name]}
			if !cerr.Unparsed {
				cerr.Candidates, cerr.Hints = candidates(ref.Name, rules)
			}
			errs = append(errs, cerr)
		}
	}
	if len(errs) > 0 {
		errs.Sort()
		return nil, errs
	}

	l := &lowering{index: index}
	compiled := make([]compiledRule, len(rules))
	for i, rule := range rules {
		compiled[i] = compiledRule{name: rule.Name, pos: rule.Pos, body: l.lower(rule.Expr)}
	}
	computeNullable(l.nodes, compiled)
	for _, cycle := range leftRecursion(l.nodes, compiled) {
		names := make([]string, len(cycle))
		for i, r := range cycle {
			names[i] = compiled[r].name
		}
		head := compiled[cycle[0]]
		errs = append(errs, &CompileError{
			Kind:  LeftRecursion,
			Name:  head.name,
			Pos:   head.pos,
			Cycle: names,
			Hints: []string{"move the recursive reference after something that always consumes input"},
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &Parser{nodes: l.nodes, rules: compiled, index: index}, nil
}

// Returns every rule name ordered by edit distance from name, and a "did you
// mean" hint if the closest is near enough to be a likely typo.
func candidates(name string, rules []*ast.Rule) ([]string, []string) {
	type candidate struct {
		name     string
		distance int
	}
	ranked := make([]candidate, 0, len(rules))
	for _, rule := range rules {
		ranked = append(ranked, candidate{rule.Name, levenshtein.ComputeDistance(name, rule.Name)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].name < ranked[j].name
	})
	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.name
	}
	var hints []string
	if len(ranked) > 0 && ranked[0].distance <= maxTypoDistance(name) && ranked[0].distance < len(name) {
		hints = append(hints, fmt.Sprintf("did you mean %q?", ranked[0].name))
	}
	return out, hints
}

func maxTypoDistance(name string) int {
	if d := len(name) / 3; d > 2 {
		return d
	}
	return 2
}
