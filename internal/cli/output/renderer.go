// Package output renders lint results for the terminal and for machine
// consumers.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/framelint/framelint/internal/runner"
	"github.com/framelint/framelint/pkg/lint"
)

// Mode selects the rendering format.
type Mode string

// Rendering modes.
const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// Renderer writes lint results in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
}

// NewRenderer creates a renderer. Unknown modes fall back to text.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode != ModeJSON {
		mode = ModeText
	}
	return &Renderer{out: out, errOut: errOut, mode: mode}
}

// jsonDiagnostic is the machine-readable diagnostic shape.
type jsonDiagnostic struct {
	RuleID      string `json:"ruleId"`
	Severity    string `json:"severity"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Message     string `json:"message"`
	FixText     string `json:"fixText,omitempty"`
}

type jsonFile struct {
	Path        string           `json:"path"`
	Error       string           `json:"error,omitempty"`
	Incomplete  bool             `json:"incomplete,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

// LintResults renders the results and reports whether any finding or
// per-file error was emitted.
func (r *Renderer) LintResults(results []runner.FileResult) (bool, error) {
	if r.mode == ModeJSON {
		return r.lintJSON(results)
	}
	return r.lintText(results)
}

func (r *Renderer) lintText(results []runner.FileResult) (bool, error) {
	hasIssues := false
	total := 0
	for _, res := range results {
		if res.Err != nil {
			hasIssues = true
			if errors.Is(res.Err, lint.ErrIncomplete) {
				fmt.Fprintf(r.errOut, "%s: analysis incomplete\n", res.Path)
			} else {
				fmt.Fprintf(r.errOut, "%s: %v\n", res.Path, res.Err)
			}
			continue
		}
		for _, d := range res.Diagnostics {
			hasIssues = true
			total++
			fmt.Fprintf(r.out, "%s:%d:%d: %s [%s] %s\n",
				res.Path, d.Span.Start.Line, d.Span.Start.Column,
				d.Severity, d.RuleID, d.Message)
			if d.Fix != "" {
				fmt.Fprintf(r.out, "    suggestion: %s\n", d.Fix)
			}
		}
	}
	if total == 0 && !hasIssues {
		fmt.Fprintf(r.out, "no violations found in %d file(s)\n", len(results))
	} else {
		fmt.Fprintf(r.out, "%d finding(s) in %d file(s)\n", total, len(results))
	}
	return hasIssues, nil
}

func (r *Renderer) lintJSON(results []runner.FileResult) (bool, error) {
	hasIssues := false
	files := make([]jsonFile, 0, len(results))
	for _, res := range results {
		f := jsonFile{Path: res.Path, Diagnostics: []jsonDiagnostic{}}
		if res.Err != nil {
			hasIssues = true
			f.Error = res.Err.Error()
			f.Incomplete = errors.Is(res.Err, lint.ErrIncomplete)
		}
		for _, d := range res.Diagnostics {
			hasIssues = true
			f.Diagnostics = append(f.Diagnostics, jsonDiagnostic{
				RuleID:      d.RuleID,
				Severity:    d.Severity.String(),
				StartLine:   d.Span.Start.Line,
				StartColumn: d.Span.Start.Column,
				EndLine:     d.Span.End.Line,
				EndColumn:   d.Span.End.Column,
				Message:     d.Message,
				FixText:     d.Fix,
			})
		}
		files = append(files, f)
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(files); err != nil {
		return hasIssues, fmt.Errorf("encode results: %w", err)
	}
	return hasIssues, nil
}
