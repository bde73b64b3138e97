package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/framelint/framelint/internal/cli/config"
	"github.com/framelint/framelint/internal/cli/output"
	"github.com/framelint/framelint/internal/runner"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
	"github.com/framelint/framelint/pkg/lint/rules"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string        // Output format: text, json
	Disable  []string      // Rule IDs to disable
	Rules    []string      // Run only specific rules
	Severity string        // Minimum severity: error, warning, info, hint
	Jobs     int           // Max concurrent file analyses
	Timeout  time.Duration // Per-file wall-clock bound
	Watch    bool          // Re-lint on file changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Run frame-safety rules on Python scripts",
		Long: `Analyze scripts that manipulate tabular data and report violations
of the frame-safety conventions: explicit column selection, non-mutating
transformations, explicit boolean masking, schema pinning, merge
cardinality contracts, sentinel values, and parameter-mutation
discipline.

Suppress a finding inline with a trailing comment:
  df.fillna(0, inplace=True)  # framelint: disable=FS02`,
		Example: `  # Lint the current directory
  framelint lint

  # Lint specific files
  framelint lint etl/orders.py etl/customers.py

  # Output as JSON
  framelint lint --format json

  # Disable specific rules
  framelint lint --disable FS01,FS06

  # Only report errors
  framelint lint --severity error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 0, "Max concurrent file analyses (0 = unbounded)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Per-file analysis bound (0 = none)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint on file changes")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions, args []string) error {
	cfg := ConfigFrom(cmd)
	logger := LoggerFrom(cmd)
	catalog := rules.All()

	lintCfg := buildLintConfig(cfg, opts, catalog)
	// Unknown rule IDs are reported once; analysis proceeds without them.
	for _, err := range lintCfg.Validate(catalog) {
		logger.Warn("ignoring invalid configuration entry", "err", err)
	}

	format := cfg.Format
	if opts.Format != "" {
		format = opts.Format
	}
	renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))

	jobs := cfg.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}
	r := runner.New(catalog, runner.Options{
		Jobs:    jobs,
		Timeout: opts.Timeout,
		Config:  lintCfg,
		Table:   buildTable(cfg),
		Logger:  logger,
	})

	if len(args) == 0 {
		args = []string{"."}
	}

	if opts.Watch {
		fmt.Fprintln(cmd.ErrOrStderr(), "watching for changes (ctrl-c to stop)")
		return r.Watch(cmd.Context(), args, func(res runner.FileResult) {
			res.Diagnostics = filterBySeverity(res.Diagnostics, opts.Severity)
			_, _ = renderer.LintResults([]runner.FileResult{res})
		})
	}

	files, err := runner.Discover(args)
	if err != nil {
		return err
	}
	results, err := r.LintFiles(cmd.Context(), files)
	if err != nil {
		return err
	}
	for i := range results {
		results[i].Diagnostics = filterBySeverity(results[i].Diagnostics, opts.Severity)
	}

	hasIssues, err := renderer.LintResults(results)
	if err != nil {
		return err
	}
	if hasIssues {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

// buildLintConfig merges the project config (lower precedence) with CLI
// flags (higher precedence).
func buildLintConfig(cfg *config.Config, opts *LintOptions, catalog lint.Catalog) *lint.Config {
	lintCfg := lint.NewConfig()

	if cfg != nil && cfg.Lint != nil {
		for _, id := range cfg.Lint.Disabled {
			lintCfg.Disable(strings.TrimSpace(id))
		}
		for id, sev := range cfg.Lint.Severity {
			if s, ok := lint.ParseSeverity(sev); ok {
				lintCfg.SetSeverity(id, s)
			}
		}
	}

	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule is given, disable everything else.
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool)
		for _, id := range opts.Rules {
			enabled[strings.TrimSpace(id)] = true
		}
		for _, rule := range catalog.Rules() {
			if !enabled[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}

	return lintCfg
}

// buildTable extends the default classification table with
// project-specific conventions from framelint.yaml.
func buildTable(cfg *config.Config) *dataflow.Table {
	table := dataflow.DefaultTable()
	if cfg == nil || cfg.Lint == nil {
		return table
	}
	for _, s := range cfg.Lint.Sentinels {
		table.SentinelNames[s] = true
	}
	for _, p := range cfg.Lint.FrameParams {
		table.FrameParamNames[p] = true
	}
	return table
}

func filterBySeverity(diags []lint.Diagnostic, threshold string) []lint.Diagnostic {
	t, ok := lint.ParseSeverity(threshold)
	if !ok {
		t = lint.SeverityHint
	}
	var out []lint.Diagnostic
	for _, d := range diags {
		if d.Severity <= t {
			out = append(out, d)
		}
	}
	return out
}
