package book

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	grammar "github.com/simplx-lang/mdbook-grammar"
)

// Context is the first element of an mdbook preprocessor request.
type Context struct {
	Root     string          `json:"root"`
	Config   json.RawMessage `json:"config"`
	Renderer string          `json:"renderer"`
	Version  string          `json:"mdbook_version"`
}

// ConfigFromContext reads the [preprocessor.grammar] table mdbook forwards
// in the request context.
func ConfigFromContext(c Context) (Config, error) {
	if len(c.Config) == 0 {
		return DefaultConfig(), nil
	}
	var raw struct {
		Preprocessor struct {
			Grammar json.RawMessage `json:"grammar"`
		} `json:"preprocessor"`
	}
	if err := json.Unmarshal(c.Config, &raw); err != nil {
		return Config{}, fmt.Errorf("mdbook config: %w", err)
	}
	if len(raw.Preprocessor.Grammar) == 0 {
		return DefaultConfig(), nil
	}
	config := DefaultConfig()
	if err := json.Unmarshal(raw.Preprocessor.Grammar, &config); err != nil {
		return Config{}, fmt.Errorf("mdbook config: preprocessor.grammar: %w", err)
	}
	config = config.withDefaults()
	return config, config.Validate()
}

// Preprocess handles an mdbook preprocessor request.
//
// The [context, book] pair is read from r, every chapter is rendered, and the
// book is written to w. Fields of the book that are not chapter contents are
// passed through unchanged.
func Preprocess(ctx context.Context, r io.Reader, w io.Writer, log logrus.FieldLogger, cache *grammar.Cache) (Diagnostics, error) {
	var request []json.RawMessage
	if err := json.NewDecoder(r).Decode(&request); err != nil {
		return nil, fmt.Errorf("decoding preprocessor input: %w", err)
	}
	if len(request) != 2 {
		return nil, fmt.Errorf("preprocessor input must be [context, book] but has %d elements", len(request))
	}
	var mctx Context
	if err := json.Unmarshal(request[0], &mctx); err != nil {
		return nil, fmt.Errorf("decoding preprocessor context: %w", err)
	}
	config, err := ConfigFromContext(mctx)
	if err != nil {
		return nil, err
	}
	var book map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(request[1]))
	dec.UseNumber()
	if err := dec.Decode(&book); err != nil {
		return nil, fmt.Errorf("decoding book: %w", err)
	}
	log.WithFields(logrus.Fields{"renderer": mctx.Renderer, "mdbook": mctx.Version}).Debug("Preprocessing book")

	chapters := chapters(book["sections"])
	pages := make([]Page, len(chapters))
	for i, chapter := range chapters {
		path, _ := chapter["path"].(string)
		content, _ := chapter["content"].(string)
		pages[i] = Page{Path: path, Content: content}
	}
	processor, err := NewProcessor(config, log, cache)
	if err != nil {
		return nil, err
	}
	contents, diagnostics, err := processor.Process(ctx, pages)
	if err != nil {
		return nil, err
	}
	for i, chapter := range chapters {
		chapter["content"] = contents[i]
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(book); err != nil {
		return nil, fmt.Errorf("encoding book: %w", err)
	}
	return diagnostics, nil
}

// Collects chapters depth first, in reading order.
func chapters(sections interface{}) []map[string]interface{} {
	items, _ := sections.([]interface{})
	var out []map[string]interface{}
	for _, item := range items {
		section, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		chapter, ok := section["Chapter"].(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, chapter)
		out = append(out, chapters(chapter["sub_items"])...)
	}
	return out
}
