package grammar

import (
	"errors"
	"strings"

	"github.com/simplx-lang/mdbook-grammar/lexer"
)

// errInvalidToken marks a failure on an Invalid token. The lexer has already
// reported it.
var errInvalidToken = errors.New("invalid token")

// missingTerminator is reported without skipping input, because the parser
// is already positioned at the start of the next rule.
type missingTerminator struct {
	*ParseError
}

// recover records err and resynchronises on the next rule.
//
// This is panic-mode recovery using the rule terminator as the only
// synchronisation token. An Invalid token usually extends up to and including
// the terminator that follows it, so it also ends the skip. One that stops at
// the end of a line ends it only if the next line starts a rule.
func (p *ruleParser) recover(err error) {
	var missing *missingTerminator
	switch {
	case errors.Is(err, errInvalidToken):
	case errors.As(err, &missing):
		p.errs = append(p.errs, missing.ParseError)
		return
	default:
		p.errs = append(p.errs, Flatten(err)...)
	}
	for {
		t := p.skipPast(lexer.Terminator, lexer.Invalid)
		if t.Type != lexer.Invalid || strings.HasSuffix(t.Value, ";") || p.atRuleStart() {
			return
		}
	}
}

// skipPast consumes tokens up to and including one of types, returning it.
func (p *ruleParser) skipPast(types ...lexer.Type) lexer.Token {
	for {
		t := p.lex.Next()
		if t.EOF() {
			return t
		}
		for _, typ := range types {
			if t.Type == typ {
				return t
			}
		}
	}
}
