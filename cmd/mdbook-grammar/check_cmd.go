package main

import (
	"fmt"
	"os"

	"github.com/simplx-lang/mdbook-grammar/book"
)

type checkCmd struct {
	Config   string   `short:"c" type:"existingfile" help:"book.toml to read [preprocessor.grammar] from."`
	Format   string   `short:"f" enum:"text,json,yaml" default:"text" help:"Report format (${enum})."`
	WarnOnly bool     `help:"Report errors as warnings and exit successfully."`
	Files    []string `arg:"" type:"existingfile" help:"Markdown files to check."`
}

func (c *checkCmd) Run(rc *runContext) error {
	config := book.DefaultConfig()
	if c.Config != "" {
		var err error
		config, err = book.LoadBookTOML(c.Config)
		if err != nil {
			return err
		}
	}
	if c.WarnOnly {
		config.WarnOnly = true
	}
	pages := make([]book.Page, 0, len(c.Files))
	for _, file := range c.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		pages = append(pages, book.Page{Path: file, Content: string(data)})
	}
	processor, err := book.NewProcessor(config, rc.log, nil)
	if err != nil {
		return err
	}
	_, diagnostics, err := processor.Process(rc.ctx, pages)
	if err != nil {
		return err
	}
	if err := book.WriteReport(os.Stdout, book.Format(c.Format), diagnostics); err != nil {
		return err
	}
	if diagnostics.HasErrors() {
		return fmt.Errorf("%d problem(s) found", len(diagnostics))
	}
	return nil
}
