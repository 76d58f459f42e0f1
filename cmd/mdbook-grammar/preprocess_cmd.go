package main

import (
	"fmt"
	"os"

	"github.com/simplx-lang/mdbook-grammar/book"
)

type preprocessCmd struct{}

func (c *preprocessCmd) Run(rc *runContext) error {
	diagnostics, err := book.Preprocess(rc.ctx, os.Stdin, os.Stdout, rc.log, nil)
	if err != nil {
		return err
	}
	logDiagnostics(rc.log, diagnostics)
	if diagnostics.HasErrors() {
		return fmt.Errorf("grammar checks failed")
	}
	return nil
}

type supportsCmd struct {
	Renderer string `arg:"" help:"Name of the renderer."`
}

func (c *supportsCmd) Help() string {
	return `
Every renderer is supported, so this always exits successfully.
`
}

func (c *supportsCmd) Run() error {
	return nil
}
