package book

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format of a diagnostics report.
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

// Report is the document written by the json and yaml formats.
type Report struct {
	Diagnostics Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// WriteReport writes diagnostics to w in the given format.
func WriteReport(w io.Writer, format Format, diagnostics Diagnostics) error {
	if diagnostics == nil {
		diagnostics = Diagnostics{}
	}
	switch format {
	case TextFormat, "":
		for _, diag := range diagnostics {
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", diag.File, diag.Line, diag.Column, diag.Severity, diag.Message); err != nil {
				return err
			}
			for _, hint := range diag.Hints {
				if _, err := fmt.Fprintf(w, "  hint: %s\n", hint); err != nil {
					return err
				}
			}
		}
		return nil

	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Report{Diagnostics: diagnostics})

	case YAMLFormat:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Report{Diagnostics: diagnostics}); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown report format %q", format)
}
