package annotate

import (
	"html"
	"sort"
	"strconv"
	"strings"

	grammar "github.com/simplx-lang/mdbook-grammar"
)

// HTML renders text with markers as nested spans.
//
// Rule spans become <span class="syntax-node" data-rule="…" data-depth="…">
// and a failure point becomes an empty <span class="syntax-error">
// carrying the expected set. All text is escaped.
func HTML(text string, markers []Marker) string {
	sorted := make([]Marker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	out := &strings.Builder{}
	cursor := 0
	for _, marker := range sorted {
		offset := clamp(marker.Offset, text)
		if offset > cursor {
			out.WriteString(html.EscapeString(text[cursor:offset]))
			cursor = offset
		}
		switch marker.Kind {
		case Open:
			out.WriteString(`<span class="syntax-node" data-rule="`)
			out.WriteString(html.EscapeString(marker.Rule))
			out.WriteString(`" data-depth="`)
			out.WriteString(strconv.Itoa(marker.Depth))
			out.WriteString(`">`)
		case Close:
			out.WriteString(`</span>`)
		case Point:
			expected := (&grammar.MatchError{Expected: marker.Expected}).Message()
			out.WriteString(`<span class="syntax-error" data-expected="`)
			out.WriteString(html.EscapeString(strings.Join(marker.Expected, ", ")))
			out.WriteString(`" title="`)
			out.WriteString(html.EscapeString(expected))
			out.WriteString(`"></span>`)
		}
	}
	out.WriteString(html.EscapeString(text[cursor:]))
	return out.String()
}
