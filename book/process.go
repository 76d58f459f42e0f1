package book

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	grammar "github.com/simplx-lang/mdbook-grammar"
	"github.com/simplx-lang/mdbook-grammar/annotate"
)

// A Page of markdown.
type Page struct {
	// Path of the page source, relative to the book's source directory.
	Path    string
	Content string
}

// Result of rendering one block.
type Result struct {
	// Markup replacing the block.
	Markup      string
	Diagnostics Diagnostics
	// Passthrough is set when the block is not ours and stays untouched.
	Passthrough bool
}

// Processor renders the grammar and example blocks of a book.
type Processor struct {
	config  Config
	timeout time.Duration
	log     logrus.FieldLogger
	cache   *grammar.Cache
}

// NewProcessor creates a Processor. Zero fields of config take their
// defaults, and a nil cache is replaced by a new one sized by
// config.CacheSize.
func NewProcessor(config Config, log logrus.FieldLogger, cache *grammar.Cache) (*Processor, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout, _ := config.MatchTimeout()
	if cache == nil {
		cache = grammar.NewCache(config.CacheSize)
	}
	return &Processor{config: config, timeout: timeout, log: log, cache: cache}, nil
}

// Process renders every page, returning the new page contents in order and
// the diagnostics of all pages.
//
// Rules defined on any page are linked from every page. The error is
// non-nil only if ctx is done.
func (p *Processor) Process(ctx context.Context, pages []Page) ([]string, Diagnostics, error) {
	blocks := make([][]Block, len(pages))
	index := NewIndex(p.config.SiteRoot, p.log)
	for i, page := range pages {
		blocks[i] = ScanBlocks(page.Path, page.Content)
		for _, block := range blocks[i] {
			if p.config.IsGrammar(block.Tag) {
				index.AddBlock(block)
			}
		}
	}
	links := index.Links()

	out := make([]string, len(pages))
	diagnostics := make([]Diagnostics, len(pages))
	wg, wctx := errgroup.WithContext(ctx)
	wg.SetLimit(p.config.Workers)
	for i := range pages {
		i := i
		wg.Go(func() error {
			if err := wctx.Err(); err != nil {
				return err
			}
			out[i], diagnostics[i] = p.page(wctx, pages[i], blocks[i], links)
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, nil, err
	}

	var all Diagnostics
	for _, d := range diagnostics {
		all = append(all, d...)
	}
	if p.config.WarnOnly {
		all = all.Downgrade()
	}
	stats := p.cache.Stats()
	p.log.WithFields(logrus.Fields{
		"pages":   len(pages),
		"hits":    stats.Hits,
		"misses":  stats.Misses,
		"entries": stats.Entries,
	}).Debug("Processed pages")
	return out, all, nil
}

func (p *Processor) page(ctx context.Context, page Page, blocks []Block, links annotate.Links) (string, Diagnostics) {
	out := &strings.Builder{}
	var diagnostics Diagnostics
	cursor := 0
	for _, block := range blocks {
		result := p.Render(ctx, block, blocks, links)
		out.WriteString(RenderModes(page.Content[cursor:block.Start]))
		if result.Passthrough {
			out.WriteString(page.Content[block.Start:block.End])
		} else {
			out.WriteString(result.Markup)
		}
		cursor = block.End
		diagnostics = append(diagnostics, result.Diagnostics...)
	}
	out.WriteString(RenderModes(page.Content[cursor:]))
	for i := range diagnostics {
		diagnostics[i].Line, diagnostics[i].Column = lineColumn(page.Content, diagnostics[i].Offset)
	}
	return out.String(), diagnostics
}

// Render a single block. Example blocks are checked against the first block
// in page defining their rule.
func (p *Processor) Render(ctx context.Context, block Block, page []Block, links annotate.Links) Result {
	log := p.log.WithFields(logrus.Fields{"file": block.File, "tag": block.Tag, "offset": block.Offset})
	switch {
	case p.config.IsGrammar(block.Tag):
		log.Debug("Rendering grammar block")
		_, err := p.cache.Build(block.Text)
		errs := grammar.Flatten(err)
		return Result{
			Markup:      annotate.Grammar(block.Text, errs, links),
			Diagnostics: blockDiagnostics(block, errs),
		}
	case block.Tag == p.config.ExampleTag:
		return p.example(ctx, log, block, page)
	}
	return Result{Passthrough: true}
}

func (p *Processor) example(ctx context.Context, log logrus.FieldLogger, block Block, page []Block) Result {
	plain := exampleMarkup(html.EscapeString(block.Text))
	rule := block.Argument()
	if rule == "" {
		return Result{Markup: plain, Diagnostics: Diagnostics{{
			Message:  "example block does not name a rule",
			Severity: SeverityError,
			File:     block.File,
			Offset:   block.Start,
			Hints:    []string{fmt.Sprintf("name the rule after the tag, as in `%s Expr`", p.config.ExampleTag)},
		}}}
	}
	log = log.WithField("rule", rule)
	log.Debug("Checking example block")

	source, ok := p.definingBlock(rule, page)
	if !ok {
		return Result{Markup: plain, Diagnostics: Diagnostics{{
			Message:  fmt.Sprintf("rule %q is not defined in a grammar block on this page", rule),
			Severity: SeverityError,
			File:     block.File,
			Offset:   block.Start,
		}}}
	}
	parser, _ := p.cache.Build(source.Text)
	if parser == nil {
		log.Debug("Skipping example of a grammar that does not compile")
		return Result{Markup: plain, Diagnostics: Diagnostics{{
			Message:  fmt.Sprintf("example not checked: the grammar defining %q has errors", rule),
			Severity: SeverityWarning,
			File:     block.File,
			Offset:   block.Start,
		}}}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	root, err := parser.MatchAll(ctx, rule, block.Text, grammar.MaxSteps(p.config.MaxSteps))
	if err == nil {
		return Result{Markup: exampleMarkup(annotate.HTML(block.Text, annotate.Markers(block.Text, root)))}
	}
	log.WithError(err).Debug("Example does not match")
	result := Result{Markup: plain}
	var merr *grammar.MatchError
	if errors.As(err, &merr) {
		result.Markup = exampleMarkup(annotate.HTML(block.Text, annotate.FailureMarkers(block.Text, merr)))
	}
	for _, diag := range blockDiagnostics(block, grammar.Flatten(err)) {
		diag.Message = fmt.Sprintf("example of %q: %s", rule, diag.Message)
		result.Diagnostics = append(result.Diagnostics, diag)
	}
	return result
}

func (p *Processor) definingBlock(rule string, page []Block) (Block, bool) {
	for _, block := range page {
		if !p.config.IsGrammar(block.Tag) {
			continue
		}
		if g, _ := grammar.ParseRules("", block.Text); g.Rule(rule) != nil {
			return block, true
		}
	}
	return Block{}, false
}

func exampleMarkup(body string) string {
	return `<pre><code class="syntax-example">` + body + `</code></pre>`
}
