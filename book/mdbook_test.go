package book_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/simplx-lang/mdbook-grammar/book"
)

const request = `[
  {
    "root": "/book",
    "config": {"book": {"title": "Reference"}, "preprocessor": {"grammar": {"site-root": "/ref/"}}},
    "renderer": "html",
    "mdbook_version": "0.4.40"
  },
  {
    "sections": [
      {"Chapter": {"name": "Intro", "content": "{{#mode code}}", "number": [1], "path": "intro.md", "sub_items": [
        {"Chapter": {"name": "Syntax", "content": "` + "```syntax\\nA = \\\"a\\\" ;\\n```" + `", "number": [1, 1], "path": "syntax.md", "sub_items": []}}
      ]}},
      "Separator",
      {"PartTitle": "Appendix"}
    ],
    "__non_exhaustive": null
  }
]`

func TestPreprocess(t *testing.T) {
	log, _ := test.NewNullLogger()
	out := &bytes.Buffer{}
	diagnostics, err := book.Preprocess(context.Background(), strings.NewReader(request), out, log, nil)
	require.NoError(t, err)
	require.Empty(t, diagnostics)

	var result struct {
		Sections []json.RawMessage `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.Len(t, result.Sections, 3)
	require.JSONEq(t, `"Separator"`, string(result.Sections[1]))
	require.JSONEq(t, `{"PartTitle": "Appendix"}`, string(result.Sections[2]))

	var intro struct {
		Chapter struct {
			Content  string `json:"content"`
			Number   []int  `json:"number"`
			SubItems []struct {
				Chapter struct {
					Content string `json:"content"`
				} `json:"Chapter"`
			} `json:"sub_items"`
		} `json:"Chapter"`
	}
	require.NoError(t, json.Unmarshal(result.Sections[0], &intro))
	require.Equal(t, `<span class="syntax-mode" mode="code">code</span>`, intro.Chapter.Content)
	require.Equal(t, []int{1}, intro.Chapter.Number)
	require.Len(t, intro.Chapter.SubItems, 1)
	require.Contains(t, intro.Chapter.SubItems[0].Chapter.Content, `<span class="syntax-rule" id="syntax-rule-A">`)
	require.Contains(t, out.String(), `"<span class=\"syntax-mode\"`)
}

func TestPreprocessInvalidInput(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := book.Preprocess(context.Background(), strings.NewReader(`[{}]`), &bytes.Buffer{}, log, nil)
	require.EqualError(t, err, "preprocessor input must be [context, book] but has 1 elements")

	_, err = book.Preprocess(context.Background(), strings.NewReader(`{`), &bytes.Buffer{}, log, nil)
	require.Error(t, err)
}
