package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/framelint/framelint/pkg/lint"
	"github.com/framelint/framelint/pkg/lint/rules"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Format  string // Output format: text, json
	Verbose bool   // Show full documentation
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List the frame-safety rules with their documentation.

Use --verbose or pass a rule ID to see the rationale and examples.`,
		Example: `  # List all rules
  framelint rules

  # Show details for a specific rule
  framelint rules FS05

  # Output as JSON
  framelint rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0])
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")

	return cmd
}

type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
	Severity    string `json:"default_severity"`
	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	catalog := rules.All()

	if opts.Format == "json" {
		infos := make([]ruleInfo, 0, catalog.Len())
		for _, r := range catalog.Rules() {
			infos = append(infos, toInfo(r, true))
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Severity", "Description"})
	for _, r := range catalog.Rules() {
		t.AppendRow(table.Row{r.ID, r.Name, r.Severity.String(), r.Description})
	}
	t.Render()

	if opts.Verbose {
		for _, r := range catalog.Rules() {
			fmt.Fprintln(cmd.OutOrStdout())
			printRule(cmd, r)
		}
	}
	return nil
}

func showRule(cmd *cobra.Command, id string) error {
	catalog := rules.All()
	r, ok := catalog.Get(id)
	if !ok {
		return fmt.Errorf("unknown rule %q", id)
	}
	printRule(cmd, r)
	return nil
}

func printRule(cmd *cobra.Command, r lint.RuleDef) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s) [%s]\n", r.ID, r.Name, r.Severity)
	fmt.Fprintf(out, "  %s\n", r.Description)
	if r.Rationale != "" {
		fmt.Fprintf(out, "\n  Why: %s\n", r.Rationale)
	}
	if r.BadExample != "" {
		fmt.Fprintf(out, "\n  Bad:\n")
		for _, line := range strings.Split(r.BadExample, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	if r.GoodExample != "" {
		fmt.Fprintf(out, "\n  Good:\n")
		for _, line := range strings.Split(r.GoodExample, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	if r.Fix != "" {
		fmt.Fprintf(out, "\n  Fix: %s\n", r.Fix)
	}
}

func toInfo(r lint.RuleDef, full bool) ruleInfo {
	info := ruleInfo{
		ID:          r.ID,
		Name:        r.Name,
		Group:       r.Group,
		Description: r.Description,
		Severity:    r.Severity.String(),
	}
	if full {
		info.Rationale = r.Rationale
		info.BadExample = r.BadExample
		info.GoodExample = r.GoodExample
		info.Fix = r.Fix
	}
	return info
}
