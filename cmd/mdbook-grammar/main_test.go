package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestCommandLine(t *testing.T) {
	parser := kong.Must(&cli, kong.Vars{"version": "test", "max_steps": "100"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))

	kctx, err := parser.Parse([]string{})
	require.NoError(t, err)
	require.Equal(t, "preprocess", kctx.Command())

	kctx, err = parser.Parse([]string{"supports", "html"})
	require.NoError(t, err)
	require.Equal(t, "supports <renderer>", kctx.Command())
	require.Equal(t, "html", cli.Supports.Renderer)

	_, err = parser.Parse([]string{"check", "--format=xml", "main.go"})
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug", "json")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.Level)
	require.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, err = newLogger("loud", "text")
	require.Error(t, err)
}
