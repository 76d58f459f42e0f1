package book_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/simplx-lang/mdbook-grammar/book"
)

var reportDiagnostics = book.Diagnostics{
	{Message: `undefined rule "Trem"`, Severity: book.SeverityError, File: "a.md", Offset: 14, Line: 2, Column: 5, Hints: []string{`did you mean "Term"?`}},
	{Message: "example not checked", Severity: book.SeverityWarning, File: "b.md", Offset: 0, Line: 1, Column: 1},
}

func TestWriteReportText(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, book.WriteReport(out, book.TextFormat, reportDiagnostics))
	require.Equal(t, `a.md:2:5: error: undefined rule "Trem"
  hint: did you mean "Term"?
b.md:1:1: warning: example not checked
`, out.String())
}

func TestWriteReportJSON(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, book.WriteReport(out, book.JSONFormat, reportDiagnostics))
	require.JSONEq(t, `{"diagnostics": [
		{"message": "undefined rule \"Trem\"", "severity": "error", "file": "a.md", "offset": 14, "line": 2, "column": 5, "hints": ["did you mean \"Term\"?"]},
		{"message": "example not checked", "severity": "warning", "file": "b.md", "offset": 0, "line": 1, "column": 1}
	]}`, out.String())

	out.Reset()
	require.NoError(t, book.WriteReport(out, book.JSONFormat, nil))
	require.JSONEq(t, `{"diagnostics": []}`, out.String())
}

func TestWriteReportYAML(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, book.WriteReport(out, book.YAMLFormat, reportDiagnostics))
	require.Contains(t, out.String(), "diagnostics:\n")
	var report book.Report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	require.Equal(t, reportDiagnostics, report.Diagnostics)
}

func TestWriteReportUnknownFormat(t *testing.T) {
	require.EqualError(t, book.WriteReport(&bytes.Buffer{}, "xml", nil), `unknown report format "xml"`)
}
