// Command mdbook-grammar is an mdbook preprocessor that highlights grammar
// blocks and checks example blocks against them.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	grammar "github.com/simplx-lang/mdbook-grammar"
	"github.com/simplx-lang/mdbook-grammar/book"
)

var (
	version string = "dev"
	cli     struct {
		Version   kong.VersionFlag
		LogLevel  string `help:"Log level (${enum})." enum:"debug,info,warn,error" default:"info"`
		LogFormat string `help:"Log format (${enum})." enum:"text,json" default:"text"`

		Preprocess preprocessCmd `cmd:"" default:"1" help:"Preprocess a book: read [context, book] JSON on stdin and write the book to stdout."`
		Supports   supportsCmd   `cmd:"" help:"Report whether a renderer is supported."`
		Check      checkCmd      `cmd:"" help:"Check grammar and example blocks in markdown files."`
		Match      matchCmd      `cmd:"" help:"Match input against a rule of a grammar file."`
		EBNF       ebnfCmd       `cmd:"" name:"ebnf" help:"Print a grammar file as Go-style EBNF."`
	}
)

type runContext struct {
	ctx context.Context
	log *logrus.Logger
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Description(`Grammar blocks for mdbook.`),
		kong.Vars{
			"version":   version,
			"max_steps": strconv.Itoa(grammar.DefaultMaxSteps),
		},
	)
	log, err := newLogger(cli.LogLevel, cli.LogFormat)
	kctx.FatalIfErrorf(err)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = kctx.Run(&runContext{ctx: ctx, log: log})
	kctx.FatalIfErrorf(err)
}

func newLogger(level, format string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

// Logs each diagnostic at a level matching its severity.
func logDiagnostics(log logrus.FieldLogger, diagnostics book.Diagnostics) {
	for _, diag := range diagnostics {
		entry := log.WithFields(logrus.Fields{"file": diag.File, "line": diag.Line, "column": diag.Column})
		if len(diag.Hints) > 0 {
			entry = entry.WithField("hints", diag.Hints)
		}
		if diag.Severity == book.SeverityError {
			entry.Error(diag.Message)
		} else {
			entry.Warn(diag.Message)
		}
	}
}
