package main

import (
	"fmt"
	"io"
	"os"

	grammar "github.com/simplx-lang/mdbook-grammar"
)

type matchCmd struct {
	Rule     string `short:"r" help:"Rule to match (defaults to the first rule)."`
	Prefix   bool   `help:"Allow input to be left over after the match."`
	Trace    bool   `help:"Trace rule invocations to stderr."`
	MaxSteps int    `default:"${max_steps}" help:"Evaluation budget."`
	Grammar  string `arg:"" type:"existingfile" help:"Grammar file."`
	Input    string `arg:"" default:"-" help:"Input file (read from stdin if omitted)."`
}

func (c *matchCmd) Run(rc *runContext) error {
	src, err := os.ReadFile(c.Grammar)
	if err != nil {
		return err
	}
	parser, err := grammar.Build(c.Grammar, string(src))
	if parser == nil {
		return err
	}
	if err != nil {
		rc.log.WithError(err).Warn("Grammar has syntax errors")
	}

	var input []byte
	if c.Input == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(c.Input)
	}
	if err != nil {
		return err
	}

	options := []grammar.MatchOption{grammar.MaxSteps(c.MaxSteps)}
	if c.Trace {
		options = append(options, grammar.Trace(os.Stderr))
	}
	match := parser.MatchAll
	if c.Prefix {
		match = parser.Match
	}
	root, err := match(rc.ctx, c.Rule, string(input), options...)
	if err != nil {
		return err
	}
	fmt.Println(root.Format(string(input)))
	return nil
}
