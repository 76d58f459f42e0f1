package annotate

import (
	"encoding/json"
	"html"
	"strings"

	grammar "github.com/simplx-lang/mdbook-grammar"
	"github.com/simplx-lang/mdbook-grammar/lexer"
)

// Links maps rule names to the URL of their definition.
type Links map[string]string

// Anchor is the fragment identifier of a rule definition.
func Anchor(rule string) string {
	return "syntax-rule-" + rule
}

var tokenClasses = map[lexer.Type]string{
	lexer.Ident:      "syntax-identifier",
	lexer.String:     "syntax-string",
	lexer.CharClass:  "syntax-class",
	lexer.Int:        "syntax-integer",
	lexer.Comment:    "syntax-comment",
	lexer.Define:     "syntax-operator",
	lexer.Terminator: "syntax-operator",
	lexer.Meta:       "syntax-meta",
}

// Grammar renders grammar source as highlighted HTML.
//
// Each rule that parsed is wrapped in a <span class="syntax-rule"> whose id
// is its Anchor, except private rules (those starting with "_"). Identifiers
// with an entry in links become hyperlinks. Each error in errs is shown on
// the token at its offset as a <span class="syntax-error"> carrying the
// message and hints.
func Grammar(src string, errs grammar.Errors, links Links) string {
	tokens, _ := lexer.ConsumeAll(lexer.Lex("", src))
	g, _ := grammar.ParseRules("", src)
	starts := map[int]string{}
	for _, rule := range g.Rules {
		if !rule.Private() {
			starts[rule.Pos.Offset] = rule.Name
		}
	}
	tokenErrors := map[int][]grammar.Error{}
	for _, err := range errs {
		i := tokenAt(tokens, err.Position().Offset)
		tokenErrors[i] = append(tokenErrors[i], err)
	}

	out := &strings.Builder{}
	out.WriteString(`<pre><code class="syntax">`)
	inRule := false
	for i, token := range tokens {
		if name, ok := starts[token.Pos.Offset]; ok && token.Type == lexer.Ident {
			if inRule {
				out.WriteString(`</span>`)
			}
			out.WriteString(`<span class="syntax-rule" id="`)
			out.WriteString(html.EscapeString(Anchor(name)))
			out.WriteString(`">`)
			inRule = true
		}
		if token.EOF() && inRule {
			out.WriteString(`</span>`)
			inRule = false
		}
		if tokenErrs, ok := tokenErrors[i]; ok {
			writeError(out, tokenErrs)
			writeToken(out, token, links)
			out.WriteString(`</span>`)
		} else {
			writeToken(out, token, links)
		}
		if token.Type == lexer.Terminator && inRule {
			out.WriteString(`</span>`)
			inRule = false
		}
	}
	out.WriteString(`</code></pre>`)
	return out.String()
}

func writeToken(out *strings.Builder, token lexer.Token, links Links) {
	text := html.EscapeString(token.Value)
	switch {
	case token.Type == lexer.Whitespace || token.EOF():
		out.WriteString(text)
		return
	case token.Type == lexer.Invalid:
		out.WriteString(`<span class="syntax-invalid">` + text + `</span>`)
		return
	}
	class, ok := tokenClasses[token.Type]
	if !ok {
		class = "syntax-operator"
	}
	span := `<span class="` + class + `">` + text + `</span>`
	if href, ok := links[token.Value]; ok && token.Type == lexer.Ident {
		span = `<a class="syntax-link" href="` + html.EscapeString(href) + `">` + span + `</a>`
	}
	out.WriteString(span)
}

func writeError(out *strings.Builder, errs []grammar.Error) {
	messages := make([]string, len(errs))
	hints := []string{}
	for i, err := range errs {
		messages[i] = err.Message()
		hints = append(hints, grammar.HintsOf(err)...)
	}
	encoded, _ := json.Marshal(hints)
	out.WriteString(`<span class="syntax-error" message="`)
	out.WriteString(html.EscapeString(strings.Join(messages, "\n")))
	out.WriteString(`" hints="`)
	out.WriteString(html.EscapeString(string(encoded)))
	out.WriteString(`">`)
}

// Index of the token covering offset, or the EOF token.
func tokenAt(tokens []lexer.Token, offset int) int {
	for i, token := range tokens {
		if offset >= token.Pos.Offset && offset < token.End() {
			return i
		}
	}
	return len(tokens) - 1
}
