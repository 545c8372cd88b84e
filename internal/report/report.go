// Package report renders validation results as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/internal/config"
	"github.com/ava12/vcfcheck/validator"
)

// Diagnostic is the serializable form of vcfcheck.Error.
type Diagnostic struct {
	Severity string `json:"severity" yaml:"severity"`
	Category string `json:"category" yaml:"category"`
	Code     int    `json:"code" yaml:"code"`
	Line     int    `json:"line" yaml:"line"`
	Col      int    `json:"col" yaml:"col"`
	Message  string `json:"message" yaml:"message"`
}

// Result describes validation of a single source.
type Result struct {
	Source   string       `json:"source" yaml:"source"`
	Valid    bool         `json:"valid" yaml:"valid"`
	Version  string       `json:"version,omitempty" yaml:"version,omitempty"`
	Lines    int          `json:"lines" yaml:"lines"`
	Records  int          `json:"records" yaml:"records"`
	Samples  []string     `json:"samples" yaml:"samples"`
	Errors   []Diagnostic `json:"errors" yaml:"errors"`
	Warnings []Diagnostic `json:"warnings" yaml:"warnings"`
	Dropped  int          `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

func diagnostics(errs []*vcfcheck.Error) []Diagnostic {
	result := make([]Diagnostic, len(errs))
	for i, e := range errs {
		result[i] = Diagnostic{
			Severity: e.Severity.String(),
			Category: string(e.Category),
			Code:     e.Code,
			Line:     e.Line,
			Col:      e.Col,
			Message:  e.Message,
		}
	}
	return result
}

// FromSession collects result of a finished session.
func FromSession(s *validator.Session) Result {
	samples := s.Samples()
	if samples == nil {
		samples = []string{}
	}
	return Result{
		Source:   s.SourceName(),
		Valid:    s.IsValid(),
		Version:  s.Version(),
		Lines:    s.Line() - 1,
		Records:  s.Records(),
		Samples:  samples,
		Errors:   diagnostics(s.Errors()),
		Warnings: diagnostics(s.Warnings()),
		Dropped:  s.Dropped(),
	}
}

// Write renders results in given format (config.FormatText, FormatJSON or FormatYAML).
// color enables ANSI styling of text output.
func Write(w io.Writer, results []Result, format string, color bool) error {
	switch format {
	case config.FormatText:
		return writeText(w, results, color)
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(results); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type styles struct {
	valid, invalid, err, warning func(...string) string
}

func plain(strs ...string) string {
	return strings.Join(strs, " ")
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		return styles{plain, plain, plain, plain}
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return styles{
		valid:   r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Render,
		invalid: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render,
		err:     r.NewStyle().Foreground(lipgloss.Color("9")).Render,
		warning: r.NewStyle().Foreground(lipgloss.Color("11")).Render,
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func writeText(w io.Writer, results []Result, color bool) error {
	st := newStyles(w, color)
	for _, r := range results {
		status := st.valid("valid")
		if !r.Valid {
			status = st.invalid("invalid")
		}

		name := r.Source
		if name == "" {
			name = "-"
		}
		_, err := fmt.Fprintf(w, "%s: %s (%s, %s, %s, %s, %s)\n", name, status,
			plural(r.Lines, "line"), plural(r.Records, "record"), plural(len(r.Samples), "sample"),
			plural(len(r.Errors)+r.Dropped, "error"), plural(len(r.Warnings), "warning"))
		if err != nil {
			return err
		}

		for _, d := range r.Errors {
			if _, err := fmt.Fprintln(w, "  "+st.err(formatDiagnostic(name, d))); err != nil {
				return err
			}
		}
		if r.Dropped > 0 {
			if _, err := fmt.Fprintf(w, "  ... %s more\n", plural(r.Dropped, "error")); err != nil {
				return err
			}
		}
		for _, d := range r.Warnings {
			if _, err := fmt.Fprintln(w, "  "+st.warning(formatDiagnostic(name, d))); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatDiagnostic(name string, d Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d: %s %s: %s", name, d.Line, d.Col, d.Category, d.Severity, d.Message)
}
