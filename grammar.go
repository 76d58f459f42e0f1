package grammar

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/simplx-lang/mdbook-grammar/ast"
	"github.com/simplx-lang/mdbook-grammar/lexer"
)

// ParseRules parses grammar notation into an AST.
//
// Parsing does not stop at the first error. Each malformed rule is skipped up
// to its terminator and parsing resumes with the next rule, so the returned
// Grammar always holds every rule that did parse. The error, if any, is an
// Errors list of lexer and parser errors in source order.
func ParseRules(filename, src string) (*ast.Grammar, error) {
	lex := lexer.Upgrade(lexer.Lex(filename, src))
	p := &ruleParser{lex: lex}
	g := p.parseGrammar()
	errs := make(Errors, 0, len(lex.Errors())+len(p.errs))
	for _, err := range lex.Errors() {
		errs = append(errs, err)
	}
	errs = append(errs, p.errs...)
	errs.Sort()
	return g, errs.Err()
}

type ruleParser struct {
	lex  *lexer.PeekingLexer
	errs Errors
}

func (p *ruleParser) parseGrammar() *ast.Grammar {
	g := &ast.Grammar{}
	invalid := map[string]bool{}
	for !p.lex.Peek(0).EOF() {
		name, rule, err := p.parseRule()
		if rule != nil {
			g.Rules = append(g.Rules, rule)
		}
		if err == nil {
			continue
		}
		if rule == nil && name != "" && !invalid[name] {
			invalid[name] = true
			g.Invalid = append(g.Invalid, name)
		}
		p.recover(err)
	}
	return g
}

// Parses a single "Name = expression ;" rule.
//
// The rule is returned along with an error when only its terminator is
// missing.
func (p *ruleParser) parseRule() (string, *ast.Rule, error) {
	head := p.lex.Peek(0)
	switch head.Type {
	case lexer.Ident:
	case lexer.Invalid:
		return "", nil, errInvalidToken
	default:
		return "", nil, Errorf(head.Pos, "expected rule name but got %s", describe(head))
	}
	p.lex.Next()
	if t := p.lex.Peek(0); t.Type != lexer.Define {
		if t.Type == lexer.Invalid {
			return head.Value, nil, errInvalidToken
		}
		return head.Value, nil, Errorf(t.Pos, "expected \"=\" after rule name %q but got %s", head.Value, describe(t)).
			Hint("rules are written as `Name = expression ;`")
	}
	p.lex.Next()
	expr, err := p.parseChoice()
	if err != nil {
		return head.Value, nil, err
	}
	rule := &ast.Rule{Pos: head.Pos, Name: head.Value, Expr: expr}
	t := p.lex.Peek(0)
	switch {
	case t.Type == lexer.Terminator:
		p.lex.Next()
		return head.Value, rule, nil
	case t.EOF() || p.atRuleStart():
		return head.Value, rule, &missingTerminator{Errorf(t.Pos, "expected \";\" after rule %q", head.Value).
			Hint("consider terminating the rule with `;`")}
	case t.Type == ')':
		return head.Value, nil, Errorf(t.Pos, "unmatched \")\"")
	case t.Type == lexer.Invalid:
		return head.Value, nil, errInvalidToken
	}
	return head.Value, nil, Errorf(t.Pos, "unexpected %s", describe(t))
}

func (p *ruleParser) parseChoice() (ast.Expr, error) {
	pos := p.lex.Peek(0).Pos
	alternatives := []ast.Expr{}
	for {
		seq, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, seq)
		if p.lex.Peek(0).Type != '|' {
			break
		}
		p.lex.Next()
	}
	if len(alternatives) == 1 {
		return alternatives[0], nil
	}
	return &ast.Choice{Pos: pos, Alternatives: alternatives}, nil
}

func (p *ruleParser) parseSequence() (ast.Expr, error) {
	pos := p.lex.Peek(0).Pos
	var items []ast.Expr
loop:
	for {
		switch p.lex.Peek(0).Type {
		case '|', ')', lexer.Terminator, lexer.EOF:
			break loop
		case lexer.Ident:
			if p.atRuleStart() {
				break loop
			}
		}
		item, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &ast.Sequence{Pos: pos, Items: items}, nil
}

func (p *ruleParser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		pos := expr.Position()
		switch p.lex.Peek(0).Type {
		case '*':
			p.lex.Next()
			expr = &ast.Repeat{Pos: pos, Expr: expr, Min: 0, Max: -1}
		case '+':
			p.lex.Next()
			expr = &ast.Repeat{Pos: pos, Expr: expr, Min: 1, Max: -1}
		case '?':
			p.lex.Next()
			expr = &ast.Optional{Pos: pos, Expr: expr}
		case '{':
			expr, err = p.parseBounds(expr)
			if err != nil {
				return nil, err
			}
		default:
			return expr, nil
		}
	}
}

// {n}, {n,} or {n,m}
func (p *ruleParser) parseBounds(expr ast.Expr) (ast.Expr, error) {
	open := p.lex.Next()
	min, err := p.parseCount()
	if err != nil {
		return nil, err
	}
	max := min
	if p.lex.Peek(0).Type == ',' {
		p.lex.Next()
		max = -1
		if p.lex.Peek(0).Type == lexer.Int {
			if max, err = p.parseCount(); err != nil {
				return nil, err
			}
		}
	}
	if t := p.lex.Peek(0); t.Type != '}' {
		return nil, Errorf(t.Pos, "expected \"}\" to close repetition bounds but got %s", describe(t)).
			Hint("repetition bounds are written as `{n}`, `{n,}` or `{n,m}`")
	}
	p.lex.Next()
	if max >= 0 && max < min {
		return nil, Errorf(open.Pos, "invalid repetition bounds: maximum %d is less than minimum %d", max, min)
	}
	return &ast.Repeat{Pos: expr.Position(), Expr: expr, Min: min, Max: max}, nil
}

func (p *ruleParser) parseCount() (int, error) {
	t := p.lex.Peek(0)
	if t.Type != lexer.Int {
		if t.Type == lexer.Invalid {
			return 0, errInvalidToken
		}
		return 0, Errorf(t.Pos, "expected repetition count but got %s", describe(t))
	}
	p.lex.Next()
	n, err := strconv.Atoi(t.Value)
	if err != nil {
		return 0, Errorf(t.Pos, "repetition count %s is too large", t.Value)
	}
	return n, nil
}

func (p *ruleParser) parsePrimary() (ast.Expr, error) {
	t := p.lex.Peek(0)
	switch t.Type {
	case lexer.Ident:
		p.lex.Next()
		return &ast.RuleRef{Pos: t.Pos, Name: t.Value}, nil

	case lexer.String:
		p.lex.Next()
		value, err := lexer.Unquote(t.Value)
		if err != nil {
			return nil, Errorf(t.Pos, "%s", err)
		}
		if p.lex.Peek(0).Type == lexer.Dots {
			return p.parseRange(t, value)
		}
		return &ast.Literal{Pos: t.Pos, Value: value}, nil

	case lexer.Meta:
		p.lex.Next()
		return &ast.Meta{Pos: t.Pos, Text: t.Value}, nil

	case '~':
		p.lex.Next()
		switch next := p.lex.Peek(0); next.Type {
		case '|', ')', lexer.Terminator, lexer.EOF:
			return nil, Errorf(next.Pos, "expected an expression after \"~\" but got %s", describe(next)).
				Hint("consider using converse indicator `~` before an expression")
		}
		expr, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.Converse{Pos: t.Pos, Expr: expr}, nil

	case lexer.Dots:
		return nil, Errorf(t.Pos, "unexpected \"..\"").
			Hint("`..` can only connect two string literals, as in `\"a\"..\"z\"`")

	case lexer.CharClass:
		p.lex.Next()
		return parseClass(t)

	case '.':
		p.lex.Next()
		return &ast.CharClass{Pos: t.Pos, Negated: true}, nil

	case '(':
		p.lex.Next()
		look := p.lex.Peek(0)
		if look.Type == lexer.Lookaround {
			if look.Value != "?=" && look.Value != "?!" {
				return nil, Errorf(look.Pos, "lookbehind %q is not supported", look.Value).
					Hint("match the preceding text in the enclosing rule instead")
			}
			p.lex.Next()
		}
		expr, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		closing := p.lex.Peek(0)
		if closing.Type == lexer.Invalid {
			return nil, errInvalidToken
		}
		if closing.Type != ')' {
			return nil, Errorf(closing.Pos, "expected \")\" but got %s", describe(closing)).
				Hint("consider closing the group opened at " + t.Pos.String() + " with `)`")
		}
		p.lex.Next()
		if look.Type == lexer.Lookaround {
			return &ast.Lookahead{Pos: t.Pos, Expr: expr, Negated: look.Value == "?!"}, nil
		}
		return &ast.Group{Pos: t.Pos, Expr: expr}, nil

	case lexer.Invalid:
		return nil, errInvalidToken
	}
	return nil, Errorf(t.Pos, "unexpected %s", describe(t))
}

// "a".."z" is a character class holding a single range.
func (p *ruleParser) parseRange(lo lexer.Token, from string) (ast.Expr, error) {
	p.lex.Next()
	hi := p.lex.Peek(0)
	if hi.Type != lexer.String {
		if hi.Type == lexer.Invalid {
			return nil, errInvalidToken
		}
		return nil, Errorf(hi.Pos, "expected a string literal after \"..\" but got %s", describe(hi)).
			Hint("`..` can only connect two string literals")
	}
	p.lex.Next()
	to, err := lexer.Unquote(hi.Value)
	if err != nil {
		return nil, Errorf(hi.Pos, "%s", err)
	}
	for _, end := range []struct {
		token lexer.Token
		value string
	}{{lo, from}, {hi, to}} {
		if utf8.RuneCountInString(end.value) != 1 {
			return nil, Errorf(end.token.Pos, "range bound %s must be a single character", end.token.Value)
		}
	}
	loRune, _ := utf8.DecodeRuneInString(from)
	hiRune, _ := utf8.DecodeRuneInString(to)
	if hiRune < loRune {
		return nil, Errorf(lo.Pos, "invalid range %s..%s", lo.Value, hi.Value)
	}
	return &ast.CharClass{Pos: lo.Pos, Ranges: []ast.Range{{Lo: loRune, Hi: hiRune}}}, nil
}

// Decodes a character class token such as [a-z_] or [^"\\].
func parseClass(t lexer.Token) (*ast.CharClass, error) {
	class := &ast.CharClass{Pos: t.Pos}
	body := t.Value[1 : len(t.Value)-1]
	if strings.HasPrefix(body, "^") {
		class.Negated = true
		body = body[1:]
	}
	for body != "" {
		lo, n, err := classRune(body)
		if err != nil {
			return nil, Errorf(t.Pos, "%s", err)
		}
		body = body[n:]
		hi := lo
		if len(body) >= 2 && body[0] == '-' {
			hi, n, err = classRune(body[1:])
			if err != nil {
				return nil, Errorf(t.Pos, "%s", err)
			}
			body = body[1+n:]
			if hi < lo {
				return nil, Errorf(t.Pos, "invalid character class range %s-%s",
					lexer.EscapeClassRune(lo), lexer.EscapeClassRune(hi))
			}
		}
		class.Ranges = append(class.Ranges, ast.Range{Lo: lo, Hi: hi})
	}
	return class, nil
}

func classRune(s string) (rune, int, error) {
	if s[0] == '\\' {
		return lexer.DecodeEscape(s, `]\-^[`)
	}
	r, n := utf8.DecodeRuneInString(s)
	return r, n, nil
}

func (p *ruleParser) atRuleStart() bool {
	return p.lex.Peek(0).Type == lexer.Ident && p.lex.Peek(1).Type == lexer.Define
}

func describe(t lexer.Token) string {
	if t.EOF() {
		return "end of input"
	}
	return strconv.Quote(t.Value)
}
