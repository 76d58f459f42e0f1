package lexer

// PeekingLexer supports arbitrary lookahead over a fully scanned token stream.
type PeekingLexer struct {
	cursor int
	eof    Token
	tokens []Token
	errs   []*Error
}

// Upgrade a Lexer to a PeekingLexer with arbitrary lookahead.
//
// Trivia (comments and white space) is always elided, as are any further
// token types given in "elide". Lexing errors do not stop the scan; they are
// collected and available from Errors, while the corresponding Invalid
// tokens stay in the stream so the parser can resynchronise on them.
func Upgrade(lex Lexer, elide ...Type) *PeekingLexer {
	skip := map[Type]bool{Comment: true, Whitespace: true}
	for _, t := range elide {
		skip[t] = true
	}
	r := &PeekingLexer{}
	for {
		t, err := lex.Next()
		if err != nil {
			r.errs = append(r.errs, asError(t.Pos, err))
		}
		if t.EOF() {
			r.eof = t
			break
		}
		if skip[t.Type] {
			continue
		}
		r.tokens = append(r.tokens, t)
	}
	return r
}

// Errors returns every lexing error encountered while scanning.
func (p *PeekingLexer) Errors() []*Error {
	return p.errs
}

// Cursor position in tokens.
func (p *PeekingLexer) Cursor() int {
	return p.cursor
}

// Next consumes and returns the next token.
func (p *PeekingLexer) Next() Token {
	if p.cursor < len(p.tokens) {
		p.cursor++
		return p.tokens[p.cursor-1]
	}
	return p.eof
}

// Peek ahead at the n+1 token. eg. Peek(0) will peek at the next token.
func (p *PeekingLexer) Peek(n int) Token {
	if i := p.cursor + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.eof
}
