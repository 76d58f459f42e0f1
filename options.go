package grammar

import "io"

const (
	// DefaultMaxSteps is the default evaluation budget for a single match.
	DefaultMaxSteps = 1_000_000
	// DefaultMaxDepth is the default limit on nested rule invocations.
	DefaultMaxDepth = 10_000
)

// A MatchOption modifies the behaviour of a single match.
type MatchOption func(c *matchConfig)

type matchConfig struct {
	maxSteps int
	maxDepth int
	trace    io.Writer
}

func newMatchConfig(options []MatchOption) matchConfig {
	config := matchConfig{maxSteps: DefaultMaxSteps, maxDepth: DefaultMaxDepth}
	for _, option := range options {
		option(&config)
	}
	return config
}

// MaxSteps bounds the number of expression evaluations.
//
// Memoised rule results are not re-evaluated and so do not count. A value of
// zero or less disables the limit.
func MaxSteps(n int) MatchOption {
	return func(c *matchConfig) {
		c.maxSteps = n
	}
}

// MaxDepth bounds how deeply rule invocations may nest.
//
// A value of zero or less disables the limit.
func MaxDepth(n int) MatchOption {
	return func(c *matchConfig) {
		c.maxDepth = n
	}
}
