package output_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelint/framelint/internal/cli/output"
	"github.com/framelint/framelint/internal/runner"
	"github.com/framelint/framelint/pkg/lint"
	"github.com/framelint/framelint/pkg/token"
)

func sampleResults() []runner.FileResult {
	return []runner.FileResult{
		{
			Path: "etl/orders.py",
			Diagnostics: []lint.Diagnostic{
				{
					RuleID:   "FS01",
					Severity: lint.SeverityWarning,
					Message:  `column "amount" accessed as attribute on frame "df"; use subscript selection`,
					Span: token.Span{
						Start: token.Position{Line: 3, Column: 5},
						End:   token.Position{Line: 3, Column: 14},
					},
					Fix: `df["amount"]`,
				},
			},
		},
		{Path: "etl/clean.py"},
	}
}

func TestRenderer_Text(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeText)

	hasIssues, err := r.LintResults(sampleResults())
	require.NoError(t, err)
	assert.True(t, hasIssues)

	assert.Contains(t, out.String(), "etl/orders.py:3:5: warning [FS01]")
	assert.Contains(t, out.String(), `suggestion: df["amount"]`)
	assert.Contains(t, out.String(), "1 finding(s) in 2 file(s)")
	assert.Empty(t, errOut.String())
}

func TestRenderer_TextClean(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeText)

	hasIssues, err := r.LintResults([]runner.FileResult{{Path: "a.py"}})
	require.NoError(t, err)
	assert.False(t, hasIssues)
	assert.Contains(t, out.String(), "no violations found in 1 file(s)")
}

func TestRenderer_TextIncomplete(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeText)

	results := []runner.FileResult{
		{Path: "slow.py", Err: fmt.Errorf("%w: deadline exceeded", lint.ErrIncomplete)},
	}
	hasIssues, err := r.LintResults(results)
	require.NoError(t, err)
	assert.True(t, hasIssues)
	assert.Contains(t, errOut.String(), "slow.py: analysis incomplete")
}

func TestRenderer_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeJSON)

	results := sampleResults()
	results = append(results, runner.FileResult{
		Path: "broken.py",
		Err:  fmt.Errorf("%w: cancelled", lint.ErrIncomplete),
	})

	hasIssues, err := r.LintResults(results)
	require.NoError(t, err)
	assert.True(t, hasIssues)

	var files []struct {
		Path        string `json:"path"`
		Error       string `json:"error"`
		Incomplete  bool   `json:"incomplete"`
		Diagnostics []struct {
			RuleID      string `json:"ruleId"`
			Severity    string `json:"severity"`
			StartLine   int    `json:"startLine"`
			StartColumn int    `json:"startColumn"`
			Message     string `json:"message"`
			FixText     string `json:"fixText"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &files))
	require.Len(t, files, 3)

	require.Len(t, files[0].Diagnostics, 1)
	d := files[0].Diagnostics[0]
	assert.Equal(t, "FS01", d.RuleID)
	assert.Equal(t, "warning", d.Severity)
	assert.Equal(t, 3, d.StartLine)
	assert.Equal(t, 5, d.StartColumn)
	assert.Equal(t, `df["amount"]`, d.FixText)

	assert.Empty(t, files[1].Diagnostics)

	assert.True(t, files[2].Incomplete)
	assert.NotEmpty(t, files[2].Error)
}

func TestRenderer_UnknownModeFallsBackToText(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.Mode("yaml"))

	_, err := r.LintResults([]runner.FileResult{{Path: "a.py"}})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no violations")
}
