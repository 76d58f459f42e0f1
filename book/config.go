package book

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	grammar "github.com/simplx-lang/mdbook-grammar"
)

// Config of the preprocessor, read from the [preprocessor.grammar] table of
// book.toml.
type Config struct {
	// GrammarTags are the fence tags marking grammar blocks.
	GrammarTags []string `toml:"grammar-tags" json:"grammar-tags"`
	// ExampleTag marks example blocks. The rule to check an example against
	// follows the tag, as in "syntax-example Expr".
	ExampleTag string `toml:"example-tag" json:"example-tag"`
	// WarnOnly reports every diagnostic as a warning.
	WarnOnly bool `toml:"warn-only" json:"warn-only"`
	// MaxSteps bounds the work spent matching one example. Zero means
	// grammar.DefaultMaxSteps.
	MaxSteps int `toml:"max-steps" json:"max-steps"`
	// Timeout for matching one example, as a Go duration. Empty or "0"
	// disables it.
	Timeout string `toml:"timeout" json:"timeout"`
	// SiteRoot prefixes links to rule definitions.
	SiteRoot string `toml:"site-root" json:"site-root"`
	// Workers is the number of pages processed concurrently.
	Workers int `toml:"workers" json:"workers"`
	// CacheSize is the number of compiled grammars kept during a build.
	CacheSize int `toml:"cache-size" json:"cache-size"`
}

// DefaultConfig returns the configuration used when book.toml says nothing.
func DefaultConfig() Config {
	return Config{
		GrammarTags: []string{"syntax", "grammar"},
		ExampleTag:  "syntax-example",
		MaxSteps:    grammar.DefaultMaxSteps,
		Timeout:     "10s",
		Workers:     4,
		CacheSize:   grammar.DefaultCacheSize,
	}
}

// Validate the configuration.
func (c Config) Validate() error {
	if _, err := c.MatchTimeout(); err != nil {
		return err
	}
	switch {
	case c.MaxSteps < 0:
		return fmt.Errorf("max-steps must not be negative, got %d", c.MaxSteps)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// MatchTimeout parses Timeout.
func (c Config) MatchTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return timeout, nil
}

// IsGrammar reports whether tag marks a grammar block.
func (c Config) IsGrammar(tag string) bool {
	for _, t := range c.GrammarTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if len(c.GrammarTags) == 0 {
		c.GrammarTags = defaults.GrammarTags
	}
	if c.ExampleTag == "" {
		c.ExampleTag = defaults.ExampleTag
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = defaults.MaxSteps
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaults.CacheSize
	}
	return c
}

// LoadBookTOML reads the [preprocessor.grammar] table of a book.toml file.
//
// A missing table yields DefaultConfig.
func LoadBookTOML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseBookTOML(data)
}

// ParseBookTOML is LoadBookTOML over the contents of book.toml.
func ParseBookTOML(data []byte) (Config, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return Config{}, fmt.Errorf("book.toml: %w", err)
	}
	table, ok := tree.Get("preprocessor.grammar").(*toml.Tree)
	if !ok {
		return DefaultConfig(), nil
	}
	config := Config{}
	if err := table.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("book.toml: [preprocessor.grammar]: %w", err)
	}
	if !table.Has("timeout") {
		config.Timeout = DefaultConfig().Timeout
	}
	config = config.withDefaults()
	return config, config.Validate()
}
