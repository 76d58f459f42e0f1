package annotate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	grammar "github.com/simplx-lang/mdbook-grammar"
	"github.com/simplx-lang/mdbook-grammar/annotate"
)

func TestHTMLSpans(t *testing.T) {
	parser := grammar.MustBuild("", `A = B "+" B ; B = [0-9] ;`)
	root, err := parser.MatchAll(context.Background(), "", "1+2")
	require.NoError(t, err)
	expected := `<span class="syntax-node" data-rule="A" data-depth="0">` +
		`<span class="syntax-node" data-rule="B" data-depth="1">1</span>+` +
		`<span class="syntax-node" data-rule="B" data-depth="1">2</span></span>`
	require.Equal(t, expected, annotate.HTML("1+2", annotate.Markers("1+2", root)))
}

func TestHTMLFailure(t *testing.T) {
	parser := grammar.MustBuild("", `A = "ab" | "ac" ;`)
	_, err := parser.MatchAll(context.Background(), "", "ad")
	var merr *grammar.MatchError
	require.True(t, errors.As(err, &merr))
	expected := `a<span class="syntax-error" data-expected="&#34;b&#34;, &#34;c&#34;"` +
		` title="expected one of &#34;b&#34;, &#34;c&#34;"></span>d`
	require.Equal(t, expected, annotate.HTML("ad", annotate.FailureMarkers("ad", merr)))
}

func TestHTMLEscapes(t *testing.T) {
	require.Equal(t, "&lt;a&amp;b&gt;", annotate.HTML("<a&b>", nil))
	markers := []annotate.Marker{
		{Offset: 0, Kind: annotate.Open, Rule: "R"},
		{Offset: 2, Kind: annotate.Close, Rule: "R"},
	}
	require.Equal(t, `<span class="syntax-node" data-rule="R" data-depth="0">&lt;a</span>&amp;b&gt;`,
		annotate.HTML("<a&b>", markers))
}

func TestHTMLSortsMarkers(t *testing.T) {
	markers := []annotate.Marker{
		{Offset: 1, Kind: annotate.Close, Rule: "R"},
		{Offset: 0, Kind: annotate.Open, Rule: "R"},
	}
	require.Equal(t, `<span class="syntax-node" data-rule="R" data-depth="0">a</span>b`,
		annotate.HTML("ab", markers))
}
