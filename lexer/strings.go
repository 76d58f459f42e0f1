package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DecodeEscape decodes the escape sequence at the start of s, which must
// begin with a backslash.
//
// Recognised escapes are \n \r \t \b \f \0 \\ \" \', \xHH, \uXXXX and
// \u{H...} with at most six hex digits. Any rune in "extra" may also be
// escaped to stand for itself.
//
// The returned size is the number of bytes consumed, even on error. A
// malformed hex escape consumes only its hex digits.
func DecodeEscape(s string, extra string) (rune, int, error) {
	if len(s) < 2 || s[0] != '\\' {
		return 0, len(s), errors.New("unterminated escape sequence")
	}
	c, n := utf8.DecodeRuneInString(s[1:])
	size := 1 + n
	switch c {
	case 'n':
		return '\n', size, nil
	case 'r':
		return '\r', size, nil
	case 't':
		return '\t', size, nil
	case 'b':
		return '\b', size, nil
	case 'f':
		return '\f', size, nil
	case '0':
		return 0, size, nil
	case '\\', '"', '\'':
		return c, size, nil
	case 'x':
		return hexEscape(s, size, 2)
	case 'u':
		if strings.HasPrefix(s[size:], "{") {
			size++
			end := size
			for end < len(s) && end-size < 6 && isHexDigit(s[end]) {
				end++
			}
			if end >= len(s) || s[end] != '}' {
				return 0, end, errors.New("unclosed unicode escape")
			}
			return hexValue(s[size:end], end+1)
		}
		return hexEscape(s, size, 4)
	}
	if strings.ContainsRune(extra, c) {
		return c, size, nil
	}
	return 0, size, errors.New("invalid escape sequence " + strconv.Quote(s[:size]))
}

func hexEscape(s string, size, digits int) (rune, int, error) {
	end := size
	for end < len(s) && end-size < digits && isHexDigit(s[end]) {
		end++
	}
	if end-size < digits {
		return 0, end, errors.New("incomplete hex escape")
	}
	return hexValue(s[size:end], end)
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexValue(digits string, size int) (rune, int, error) {
	if digits == "" || len(digits) > 6 {
		return 0, size, errors.New("invalid unicode escape")
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, size, errors.New("invalid unicode escape")
	}
	return rune(v), size, nil
}

// Unquote decodes the value of a String token.
func Unquote(value string) (string, error) {
	if len(value) < 2 || (value[0] != '"' && value[0] != '\'') || value[len(value)-1] != value[0] {
		return "", errors.New("invalid quoted literal " + value)
	}
	body := value[1 : len(value)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	out := strings.Builder{}
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			r, n := utf8.DecodeRuneInString(body[i:])
			out.WriteRune(r)
			i += n
			continue
		}
		r, n, err := DecodeEscape(body[i:], value[:1])
		if err != nil {
			return "", err
		}
		out.WriteRune(r)
		i += n
	}
	return out.String(), nil
}

// Quote renders s as a double-quoted literal that Unquote accepts.
func Quote(s string) string {
	out := strings.Builder{}
	out.WriteByte('"')
	for _, r := range s {
		out.WriteString(escapeRune(r, `"`))
	}
	out.WriteByte('"')
	return out.String()
}

// EscapeClassRune renders r for use inside a character class.
func EscapeClassRune(r rune) string {
	return escapeRune(r, `]\-^[`)
}

func escapeRune(r rune, special string) string {
	switch r {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case 0:
		return `\0`
	case '\\':
		return `\\`
	}
	if strings.ContainsRune(special, r) {
		return `\` + string(r)
	}
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return fmt.Sprintf(`\u{%X}`, r)
	}
	return string(r)
}
