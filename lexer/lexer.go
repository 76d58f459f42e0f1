// Package lexer tokenises the grammar-description notation.
//
// The notation is a small EBNF/PEG dialect:
//
//	Expr   = Term ("|" Term)* ;   # comments run to the end of the line
//	Term   = Factor+ ;            // so do these
//	Factor = Ident | "literal" | 'literal' | "a".."z" | [a-z_] | . | <meta>
//	       | "(" Expr ")" | "(?=" Expr ")" | "(?!" Expr ")" | "~" Factor ;
//
// Definition markers may be "=", ":", ":=" or "::=", and every rule ends with
// ";". Postfix "*", "+", "?" and "{n}", "{n,}", "{n,m}" repeat the preceding
// factor.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lex returns a Lexer over the grammar notation in src.
func Lex(filename, src string) Lexer {
	return &notationLexer{
		src: src,
		pos: Position{Filename: filename, Line: 1, Column: 1},
	}
}

type notationLexer struct {
	src string
	pos Position
}

func (l *notationLexer) Next() (Token, error) {
	if l.pos.Offset >= len(l.src) {
		return EOFToken(l.pos), nil
	}
	start := l.pos
	r := l.peek()
	switch {
	case unicode.IsSpace(r):
		for l.pos.Offset < len(l.src) && unicode.IsSpace(l.peek()) {
			l.read()
		}
		return l.token(Whitespace, start), nil

	case r == '#' || l.at("//"):
		l.skipLine()
		return l.token(Comment, start), nil

	case l.at("/*"):
		l.readN(2)
		for !l.at("*/") {
			if l.pos.Offset >= len(l.src) {
				return l.fail(start, start, Errorf(start, "unterminated block comment").
					Hint("consider closing the block comment with `*/`"))
			}
			l.read()
		}
		l.readN(2)
		return l.token(Comment, start), nil

	case r == '_' || isLetter(r):
		for l.pos.Offset < len(l.src) && isIdent(l.peek()) {
			l.read()
		}
		return l.token(Ident, start), nil

	case r >= '0' && r <= '9':
		for l.pos.Offset < len(l.src) && l.peek() >= '0' && l.peek() <= '9' {
			l.read()
		}
		return l.token(Int, start), nil

	case r == '"' || r == '\'':
		return l.literal(start, r)

	case r == '[':
		return l.class(start)

	case r == '<':
		return l.meta(start)

	case l.at(".."):
		l.readN(2)
		return l.token(Dots, start), nil

	case l.at("?<="), l.at("?<!"):
		l.readN(3)
		return l.token(Lookaround, start), nil

	case l.at("?="), l.at("?!"):
		l.readN(2)
		return l.token(Lookaround, start), nil

	case l.at("::="):
		l.readN(3)
		return l.token(Define, start), nil

	case l.at(":="):
		l.readN(2)
		return l.token(Define, start), nil

	case r == ':' || r == '=':
		l.read()
		return l.token(Define, start), nil

	case strings.ContainsRune(";|*+?(){},.~", r):
		l.read()
		return l.token(Type(r), start), nil
	}
	l.read()
	return l.fail(start, start, Errorf(start, "unexpected character %q", r))
}

func (l *notationLexer) literal(start Position, quote rune) (Token, error) {
	l.read()
	var bad *Error
	for {
		if l.pos.Offset >= len(l.src) || l.peek() == '\n' {
			return l.unterminated(start, Errorf(start, "unterminated literal").
				Hint("consider closing the literal with `"+string(quote)+"`"))
		}
		switch r := l.peek(); r {
		case quote:
			l.read()
			if bad != nil {
				return l.fail(start, l.pos, bad)
			}
			return l.token(String, start), nil
		case '\\':
			if err := l.escape(string(quote)); err != nil && bad == nil {
				bad = err
			}
		default:
			l.read()
		}
	}
}

func (l *notationLexer) class(start Position) (Token, error) {
	l.read()
	var bad *Error
	for {
		if l.pos.Offset >= len(l.src) || l.peek() == '\n' {
			return l.unterminated(start, Errorf(start, "unterminated character class").
				Hint("consider closing the character class with `]`"))
		}
		switch r := l.peek(); r {
		case ']':
			l.read()
			if bad != nil {
				return l.fail(start, l.pos, bad)
			}
			return l.token(CharClass, start), nil
		case '\\':
			if err := l.escape(`]\-^[`); err != nil && bad == nil {
				bad = err
			}
		default:
			l.read()
		}
	}
}

func (l *notationLexer) meta(start Position) (Token, error) {
	l.read()
	for {
		if l.pos.Offset >= len(l.src) || l.peek() == '\n' {
			return l.unterminated(start, Errorf(start, "unterminated meta description").
				Hint("consider closing the meta description with `>`"))
		}
		if l.read() == '>' {
			return l.token(Meta, start), nil
		}
	}
}

// escape consumes one escape sequence, validating it without decoding.
func (l *notationLexer) escape(extra string) *Error {
	at := l.pos
	_, size, err := DecodeEscape(l.src[l.pos.Offset:], extra)
	if size == 0 {
		size = 1
	}
	for i := 0; i < size && l.pos.Offset < len(l.src) && l.peek() != '\n'; {
		_, n := utf8.DecodeRuneInString(l.src[l.pos.Offset:])
		l.read()
		i += n
	}
	if err != nil {
		return &Error{Msg: err.Error(), Pos: at}
	}
	return nil
}

// fail reports err and resynchronises after the next rule terminator found at
// or after "from". The returned Invalid token spans everything skipped.
func (l *notationLexer) fail(start, from Position, err *Error) (Token, error) {
	if from.Offset > l.pos.Offset {
		from = l.pos
	}
	l.pos = from
	for l.pos.Offset < len(l.src) {
		if l.read() == ';' {
			break
		}
	}
	return l.token(Invalid, start), err
}

// unterminated reports a literal or class left open at the end of its line.
// The Invalid token runs to the end of the line, less any white space after a
// final ";", which is taken as the rule terminator.
func (l *notationLexer) unterminated(start Position, err *Error) (Token, error) {
	line := l.src[start.Offset:l.pos.Offset]
	trimmed := strings.TrimRight(line, " \t\r")
	if strings.HasSuffix(trimmed, ";") {
		// Trailing white space is single byte and contains no newline.
		n := len(line) - len(trimmed)
		l.pos.Offset -= n
		l.pos.Column -= n
	}
	return l.token(Invalid, start), err
}

func (l *notationLexer) token(typ Type, start Position) Token {
	return Token{Type: typ, Value: l.src[start.Offset:l.pos.Offset], Pos: start}
}

func (l *notationLexer) at(s string) bool {
	return strings.HasPrefix(l.src[l.pos.Offset:], s)
}

func (l *notationLexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.pos.Offset:])
	return r
}

func (l *notationLexer) read() rune {
	r, n := utf8.DecodeRuneInString(l.src[l.pos.Offset:])
	l.pos.Offset += n
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	return r
}

func (l *notationLexer) readN(n int) {
	for i := 0; i < n; i++ {
		l.read()
	}
}

func (l *notationLexer) skipLine() {
	for l.pos.Offset < len(l.src) && l.peek() != '\n' {
		l.read()
	}
}

func isLetter(r rune) bool {
	return r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
}

func isIdent(r rune) bool {
	return r == '_' || isLetter(r) || r >= '0' && r <= '9'
}
