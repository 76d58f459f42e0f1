package book_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplx-lang/mdbook-grammar/book"
)

func TestRenderModes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"NoDirective", "plain text", "plain text"},
		{"Single", "a {{#mode code}} b",
			`a <span class="syntax-mode" mode="code">code</span> b`},
		{"List", "{{ #mode code, math }}",
			`<span class="syntax-mode" mode="code">code</span><span class="syntax-mode" mode="math">math</span>`},
		{"OtherHelper", "{{#include x.md}}", "{{#include x.md}}"},
		{"Unterminated", "x {{#mode a", `x <span class="syntax-mode" mode="a">a</span>`},
		{"Escaped", "{{#mode <b>}}", `<span class="syntax-mode" mode="&lt;b&gt;">&lt;b&gt;</span>`},
		{"Nested", "{{ {{#mode a}}", `{{ <span class="syntax-mode" mode="a">a</span>`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, book.RenderModes(test.text))
		})
	}
}
