package main

import (
	"fmt"
	"os"

	grammar "github.com/simplx-lang/mdbook-grammar"
)

type ebnfCmd struct {
	Verify string `help:"Verify the EBNF, starting from this rule."`
	File   string `arg:"" type:"existingfile" help:"Grammar file."`
}

func (c *ebnfCmd) Run() error {
	src, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	g, err := grammar.ParseRules(c.File, string(src))
	if err != nil {
		return err
	}
	out, err := grammar.EBNF(g)
	if err != nil {
		return err
	}
	if c.Verify != "" {
		if err := grammar.VerifyEBNF(g, c.Verify); err != nil {
			return err
		}
	}
	fmt.Println(out)
	return nil
}
