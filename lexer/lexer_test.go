package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplx-lang/mdbook-grammar/lexer"
)

func lexAll(t *testing.T, src string) ([]lexer.Token, []*lexer.Error) {
	t.Helper()
	return lexer.ConsumeAll(lexer.Lex("", src))
}

func types(tokens []lexer.Token) []lexer.Type {
	out := []lexer.Type{}
	for _, token := range tokens {
		if token.Type.Trivia() {
			continue
		}
		out = append(out, token.Type)
	}
	return out
}

func TestLexRule(t *testing.T) {
	tokens, errs := lexAll(t, `Expr = Term ("|" Term)* ;`)
	require.Empty(t, errs)
	require.Equal(t, []lexer.Type{
		lexer.Ident, lexer.Define, lexer.Ident, '(', lexer.String, lexer.Ident, ')', '*', lexer.Terminator, lexer.EOF,
	}, types(tokens))
}

func TestLexPositions(t *testing.T) {
	tokens, errs := lexAll(t, "A =\n  'x';")
	require.Empty(t, errs)
	require.Equal(t, lexer.Token{Type: lexer.Ident, Value: "A", Pos: lexer.Position{Line: 1, Column: 1}}, tokens[0])
	require.Equal(t, lexer.Token{Type: lexer.String, Value: "'x'", Pos: lexer.Position{Offset: 6, Line: 2, Column: 3}}, tokens[4])
	require.Equal(t, 9, tokens[4].End())
	require.Equal(t, lexer.Position{Offset: 10, Line: 2, Column: 7}, tokens[len(tokens)-1].Pos)
}

func TestLexDefinitionMarkers(t *testing.T) {
	for _, marker := range []string{"=", ":", ":=", "::="} {
		tokens, errs := lexAll(t, "A "+marker+" B;")
		require.Empty(t, errs, marker)
		require.Equal(t, lexer.Token{Type: lexer.Define, Value: marker, Pos: lexer.Position{Offset: 2, Line: 1, Column: 3}}, tokens[2], marker)
	}
}

func TestLexComments(t *testing.T) {
	tokens, errs := lexAll(t, "# hash\n// slashes\n/* block\n */ A = B;")
	require.Empty(t, errs)
	require.Equal(t, lexer.Comment, tokens[0].Type)
	require.Equal(t, "# hash", tokens[0].Value)
	require.Equal(t, "// slashes", tokens[2].Value)
	require.Equal(t, "/* block\n */", tokens[4].Value)
	require.Equal(t, []lexer.Type{lexer.Ident, lexer.Define, lexer.Ident, lexer.Terminator, lexer.EOF}, types(tokens))
}

func TestLexCharClassAndRepetition(t *testing.T) {
	tokens, errs := lexAll(t, `A = [a-z\]]{2,3} . [^"];`)
	require.Empty(t, errs)
	require.Equal(t, []lexer.Type{
		lexer.Ident, lexer.Define, lexer.CharClass, '{', lexer.Int, ',', lexer.Int, '}', '.', lexer.CharClass, lexer.Terminator, lexer.EOF,
	}, types(tokens))
	require.Equal(t, `[a-z\]]`, tokens[4].Value)
}

func TestLexPredicatesRangesAndMeta(t *testing.T) {
	tokens, errs := lexAll(t, `A = (?= "a") (?! b) ~x "a".."z" <any text> (?<= c) (?<! d);`)
	require.Empty(t, errs)
	require.Equal(t, []lexer.Type{
		lexer.Ident, lexer.Define,
		'(', lexer.Lookaround, lexer.String, ')',
		'(', lexer.Lookaround, lexer.Ident, ')',
		'~', lexer.Ident,
		lexer.String, lexer.Dots, lexer.String,
		lexer.Meta,
		'(', lexer.Lookaround, lexer.Ident, ')',
		'(', lexer.Lookaround, lexer.Ident, ')',
		lexer.Terminator, lexer.EOF,
	}, types(tokens))
	values := []string{}
	for _, token := range tokens {
		if token.Type == lexer.Lookaround || token.Type == lexer.Meta {
			values = append(values, token.Value)
		}
	}
	require.Equal(t, []string{"?=", "?!", "<any text>", "?<=", "?<!"}, values)
}

func TestLexUnterminatedLiteralEndsAtLine(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		invalid string
	}{
		{"TerminatorInsideLiteral", "A = \"a;b\nB = \"y\";", "\"a;b"},
		{"NoTerminator", "A = [ab\nB = \"y\";", "[ab"},
		{"TrailingTerminator", "A = \"ab;  \nB = \"y\";", "\"ab;"},
		{"Meta", "A = <ab\nB = \"y\";", "<ab"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, errs := lexAll(t, test.src)
			require.Len(t, errs, 1)
			require.Equal(t, lexer.Invalid, tokens[4].Type)
			require.Equal(t, test.invalid, tokens[4].Value)
			require.Equal(t, []lexer.Type{lexer.Ident, lexer.Define, lexer.String, lexer.Terminator, lexer.EOF},
				types(tokens)[len(types(tokens))-5:])
		})
	}
}

func TestLexErrorsResumeAtNextRule(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
		invalid string
	}{
		{"UnterminatedLiteral", "A = \"abc ;\nB = \"x\";", "unterminated literal", "\"abc ;"},
		{"UnexpectedCharacter", "A = \"a\" @ \"b\"; B = \"x\";", "unexpected character '@'", "@ \"b\";"},
		{"InvalidEscape", "A = \"a\\qb\" \"c\"; B = \"x\";", "invalid escape sequence \"\\\\q\"", "\"a\\qb\" \"c\";"},
		{"UnterminatedClass", "A = [abc ;\nB = \"x\";", "unterminated character class", "[abc ;"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, errs := lexAll(t, test.src)
			require.Len(t, errs, 1)
			require.Equal(t, test.message, errs[0].Message())
			var invalid *lexer.Token
			for i := range tokens {
				if tokens[i].Type == lexer.Invalid {
					invalid = &tokens[i]
				}
			}
			require.NotNil(t, invalid)
			require.Equal(t, test.invalid, invalid.Value)
			// The following rule must lex cleanly.
			require.Equal(t, []lexer.Type{lexer.Ident, lexer.Define, lexer.String, lexer.Terminator, lexer.EOF},
				types(tokens)[len(types(tokens))-5:])
		})
	}
}

func TestLexErrorHints(t *testing.T) {
	_, errs := lexAll(t, `A = 'abc`)
	require.Len(t, errs, 1)
	require.Equal(t, []string{"consider closing the literal with `'`"}, errs[0].Hints)
	require.Equal(t, "1:5: unterminated literal", errs[0].Error())

	_, errs = lexAll(t, `/* never closed`)
	require.Len(t, errs, 1)
	require.Equal(t, "unterminated block comment", errs[0].Message())
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{`"abc"`, "abc"},
		{`'it\'s'`, "it's"},
		{`"\n\t\\"`, "\n\t\\"},
		{`"\x41é\u{1F600}"`, "Aé😀"},
		{`""`, ""},
	}
	for _, test := range tests {
		actual, err := lexer.Unquote(test.value)
		require.NoError(t, err, test.value)
		require.Equal(t, test.expected, actual, test.value)
	}
	_, err := lexer.Unquote(`"\q"`)
	require.Error(t, err)
}

func TestDecodeEscape(t *testing.T) {
	r, size, err := lexer.DecodeEscape(`\]rest`, "]")
	require.NoError(t, err)
	require.Equal(t, ']', r)
	require.Equal(t, 2, size)

	_, size, err = lexer.DecodeEscape(`\u{110000}`, "")
	require.EqualError(t, err, "invalid unicode escape")
	require.Equal(t, 10, size)

	tests := []struct {
		escape string
		err    string
		size   int
	}{
		{`\u{41"; B = "}"`, "unclosed unicode escape", 5},
		{`\u{1234567}`, "unclosed unicode escape", 9},
		{`\u{}`, "invalid unicode escape", 4},
		{`\x4"`, "incomplete hex escape", 3},
		{`\u12";`, "incomplete hex escape", 4},
	}
	for _, test := range tests {
		_, size, err := lexer.DecodeEscape(test.escape, "")
		require.EqualError(t, err, test.err, test.escape)
		require.Equal(t, test.size, size, test.escape)
	}
}

func TestQuote(t *testing.T) {
	for _, value := range []string{"", "abc", "it's", "say \"hi\"\n", "\x00\t\\", "é😀", "\u200b"} {
		quoted := lexer.Quote(value)
		actual, err := lexer.Unquote(quoted)
		require.NoError(t, err, quoted)
		require.Equal(t, value, actual, quoted)
	}
	require.Equal(t, `"a\"b\n"`, lexer.Quote("a\"b\n"))
	require.Equal(t, `"\u{200B}"`, lexer.Quote("\u200b"))
	require.Equal(t, `\]`, lexer.EscapeClassRune(']'))
	require.Equal(t, `"`, lexer.EscapeClassRune('"'))
}

func FuzzLex(f *testing.F) {
	f.Add(`Expr = Term ("|" Term)* ;`)
	f.Add("A = \"abc ;\nB = [^a-z\\]] ;")
	f.Add(`/* open`)
	f.Add(`A = (?! "*/") ~"a".."z" <meta`)
	f.Fuzz(func(t *testing.T, src string) {
		tokens, _ := lexer.ConsumeAll(lexer.Lex("", src))
		out := ""
		for _, token := range tokens {
			if token.Pos.Offset != len(out) {
				t.Fatalf("token %#v does not start at offset %d", token, len(out))
			}
			out += token.Value
		}
		if out != src {
			t.Fatalf("tokens do not reproduce %q: %q", src, out)
		}
	})
}
