package book

import (
	"html"
	"strings"
)

// RenderModes replaces each "{{#mode a, b}}" directive in text with one
// <span class="syntax-mode"> badge per listed mode.
//
// Other "{{" sequences are left untouched. An unterminated directive runs to
// the end of text.
func RenderModes(text string) string {
	out := &strings.Builder{}
	for {
		start := strings.Index(text, "{{")
		if start < 0 {
			out.WriteString(text)
			return out.String()
		}
		out.WriteString(text[:start])
		rest := strings.TrimLeft(text[start+2:], " \t\r\n")
		if !strings.HasPrefix(rest, "#mode") {
			skipped := len(text) - len(rest)
			out.WriteString(text[start:skipped])
			text = rest
			continue
		}
		rest = rest[len("#mode"):]
		list := rest
		if end := strings.Index(rest, "}}"); end >= 0 {
			list, rest = rest[:end], rest[end+2:]
		} else {
			rest = ""
		}
		for _, mode := range strings.Split(list, ",") {
			mode = strings.TrimSpace(mode)
			if mode == "" {
				continue
			}
			mode = html.EscapeString(mode)
			out.WriteString(`<span class="syntax-mode" mode="` + mode + `">` + mode + `</span>`)
		}
		text = rest
	}
}
