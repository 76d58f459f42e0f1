package book

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	grammar "github.com/simplx-lang/mdbook-grammar"
	"github.com/simplx-lang/mdbook-grammar/annotate"
)

// A Definition locates the grammar block defining a rule.
type Definition struct {
	Rule string
	File string
	// Offset of the rule name within its page.
	Offset int
	Href   string
}

// Index of public rule definitions across a book.
//
// The first definition of a rule wins; later ones are logged and ignored.
type Index struct {
	root string
	log  logrus.FieldLogger

	lock sync.Mutex
	defs map[string]Definition
}

// NewIndex creates an empty Index whose links are prefixed by root.
func NewIndex(root string, log logrus.FieldLogger) *Index {
	return &Index{root: root, log: log, defs: map[string]Definition{}}
}

// AddBlock indexes the rules that parse in a grammar block. Private rules,
// those starting with "_", are skipped.
func (i *Index) AddBlock(block Block) {
	g, _ := grammar.ParseRules(block.File, block.Text)
	for _, rule := range g.Rules {
		if rule.Private() {
			continue
		}
		i.Add(rule.Name, block.File, block.Offset+rule.Pos.Offset)
	}
}

// Add a definition of rule. It returns false if rule was already defined.
func (i *Index) Add(rule, file string, offset int) bool {
	i.lock.Lock()
	defer i.lock.Unlock()
	if prev, ok := i.defs[rule]; ok {
		i.log.WithFields(logrus.Fields{
			"rule":     rule,
			"file":     file,
			"offset":   offset,
			"previous": prev.File,
		}).Warn("Rule is defined more than once; linking to the first definition")
		return false
	}
	i.defs[rule] = Definition{Rule: rule, File: file, Offset: offset, Href: HRef(i.root, file, rule)}
	return true
}

// Lookup the definition of rule.
func (i *Index) Lookup(rule string) (Definition, bool) {
	i.lock.Lock()
	defer i.lock.Unlock()
	def, ok := i.defs[rule]
	return def, ok
}

// Links returns a snapshot of the index for annotate.Grammar.
func (i *Index) Links() annotate.Links {
	i.lock.Lock()
	defer i.lock.Unlock()
	links := make(annotate.Links, len(i.defs))
	for rule, def := range i.defs {
		links[rule] = def.Href
	}
	return links
}

// HRef is the URL of the definition of rule in the page rendered from file.
func HRef(root, file, rule string) string {
	page := filepath.ToSlash(file)
	if strings.HasSuffix(page, ".md") {
		page = strings.TrimSuffix(page, ".md") + ".html"
	}
	return root + page + "#" + annotate.Anchor(rule)
}
