package rules

import (
	"fmt"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
)

// FillerValue flags new columns initialized with a literal default
// instead of the missing-value sentinel.
var FillerValue = lint.RuleDef{
	ID:          "FS06",
	Name:        "frames.filler-value",
	Group:       "frames",
	Description: "New columns should start as the missing-value sentinel, not a filler literal.",
	Severity:    lint.SeverityInfo,
	Check:       checkFillerValue,

	Rationale: `Zero and "" look like real data. Once a filler leaks into an
aggregate there is no way to tell absent from measured-as-zero; the
sentinel keeps absence distinct from every valid value.`,

	BadExample: `df["discount"] = 0`,

	GoodExample: `df["discount"] = NA`,

	Fix: `Initialize the column with the missing-value sentinel.`,
}

func checkFillerValue(n *ast.Node, rc *lint.RuleContext) []lint.Diagnostic {
	if n.Kind != ast.KindAssign {
		return nil
	}
	target := n.Target()
	if target == nil || target.Kind != ast.KindSubscript || !dataflow.IsColumnLabel(target.Index()) {
		return nil
	}
	recv := target.Receiver().IdentName()
	if recv == "" || !rc.Tracker().IsFrame(recv) {
		return nil
	}
	v := n.Value()
	if v == nil || v.Kind != ast.KindLiteral {
		return nil
	}
	table := rc.Tracker().Table()
	// A project may declare a literal spelling as its sentinel, e.g. -999
	// or "N/A"; a declared sentinel wins over the filler list.
	if table.IsSentinel(v.Text) || !table.FillerLiterals[v.Text] {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "FS06",
		Severity: lint.SeverityInfo,
		Span:     n.Span,
		Message:  fmt.Sprintf("new column on %q initialized with literal %s; use the missing-value sentinel", recv, v.Text),
	}}
}
