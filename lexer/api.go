package lexer

import (
	"fmt"
)

// Type of a Token.
//
// Punctuation tokens use the rune itself as their type, following the
// text/scanner convention. Named token classes are negative.
type Type rune

const (
	// EOF represents an end of file.
	EOF Type = -(iota + 1)
	// Ident is a rule name.
	Ident
	// String is a quoted literal, including its quotes.
	String
	// CharClass is a bracketed character class, including its brackets.
	CharClass
	// Int is a decimal integer used in repetition bounds.
	Int
	// Define is a definition marker: "=", ":", ":=" or "::=".
	Define
	// Comment is a "#", "//" or "/* */" comment.
	Comment
	// Whitespace is a run of white space.
	Whitespace
	// Invalid covers text the lexer could not tokenise, up to and including
	// the next rule terminator. An unterminated literal or class ends at the
	// end of its line instead.
	Invalid
	// Dots joins the two single-character literals of a range, as in "a".."z".
	Dots
	// Lookaround opens a predicate group: "?=", "?!", "?<=" or "?<!".
	Lookaround
	// Meta is a prose placeholder in angle brackets, such as <any text>.
	Meta
)

// Terminator ends a rule definition.
const Terminator Type = ';'

var symbols = map[Type]string{
	EOF:        "EOF",
	Ident:      "Ident",
	String:     "String",
	CharClass:  "CharClass",
	Int:        "Int",
	Define:     "Define",
	Comment:    "Comment",
	Whitespace: "Whitespace",
	Invalid:    "Invalid",
	Dots:       "Dots",
	Lookaround: "Lookaround",
	Meta:       "Meta",
}

// Symbols returns a map of symbolic names to the corresponding token types.
func Symbols() map[string]Type {
	out := make(map[string]Type, len(symbols))
	for t, name := range symbols {
		out[name] = t
	}
	return out
}

func (t Type) String() string {
	if name, ok := symbols[t]; ok {
		return name
	}
	return fmt.Sprintf("%q", rune(t))
}

// Trivia returns true for token types the parser never sees.
func (t Type) Trivia() bool {
	return t == Comment || t == Whitespace
}

// EOFToken creates a new EOF token at the given position.
func EOFToken(pos Position) Token {
	return Token{Type: EOF, Pos: pos}
}

// A Lexer returns tokens from a source.
type Lexer interface {
	// Next consumes and returns the next token.
	//
	// A non-nil error is always paired with an Invalid token, after which the
	// Lexer may be used to continue scanning.
	Next() (Token, error)
}

// ConsumeAll reads all tokens from a Lexer, including trivia, collecting any
// errors along the way.
func ConsumeAll(lexer Lexer) ([]Token, []*Error) {
	tokens := make([]Token, 0, 64)
	var errs []*Error
	for {
		token, err := lexer.Next()
		if err != nil {
			errs = append(errs, asError(token.Pos, err))
		}
		tokens = append(tokens, token)
		if token.Type == EOF {
			return tokens, errs
		}
	}
}

// Position of a token.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) GoString() string {
	return fmt.Sprintf("Position{Filename: %q, Offset: %d, Line: %d, Column: %d}",
		p.Filename, p.Offset, p.Line, p.Column)
}

func (p Position) String() string {
	filename := p.Filename
	if filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", filename, p.Line, p.Column)
}

// A Token returned by a Lexer.
type Token struct {
	Type Type
	// Value is the exact source text of the token.
	Value string
	Pos   Position
}

// EOF returns true if this Token is an EOF token.
func (t Token) EOF() bool {
	return t.Type == EOF
}

// End is the byte offset just past the token.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Value)
}

func (t Token) String() string {
	if t.EOF() {
		return "<EOF>"
	}
	return t.Value
}

func (t Token) GoString() string {
	if t.Pos == (Position{}) {
		return fmt.Sprintf("Token{%s, %q}", t.Type, t.Value)
	}
	return fmt.Sprintf("Token@%s{%s, %q}", t.Pos.String(), t.Type, t.Value)
}
