package rules

import (
	"fmt"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
)

// BooleanMask flags bare boolean-mask subscripts.
var BooleanMask = lint.RuleDef{
	ID:          "FS03",
	Name:        "frames.boolean-mask",
	Group:       "frames",
	Description: "Row filtering should go through the explicit row accessor.",
	Severity:    lint.SeverityWarning,
	Check:       checkBooleanMask,

	Rationale: `df[df["x"] > 0] is ambiguous between row filtering and column
selection and is easy to misread. The row accessor states the intent.`,

	BadExample: `adults = df[df["age"] >= 18]`,

	GoodExample: `adults = df.loc[df["age"] >= 18]`,

	Fix: `Route boolean masks through .loc: df.loc[mask].`,
}

func checkBooleanMask(n *ast.Node, rc *lint.RuleContext) []lint.Diagnostic {
	if n.Kind != ast.KindSubscript {
		return nil
	}
	idx := n.Index()
	if idx == nil || idx.Kind != ast.KindCompare {
		return nil
	}
	recv := n.Receiver()
	name := recv.IdentName()
	if recv != nil && recv.Kind == ast.KindAttribute {
		// Masks routed through a row accessor state their intent.
		if rc.Tracker().Table().RowAccessors[recv.Text] {
			return nil
		}
		name = dataflow.BaseIdent(recv)
	}
	if name == "" || !rc.Tracker().IsFrame(name) {
		return nil
	}
	// Only a direct comparison on the same frame variable is ambiguous;
	// masks built elsewhere are fine.
	if dataflow.BaseIdent(idx.Left()) != name && dataflow.BaseIdent(idx.Right()) != name {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "FS03",
		Severity: lint.SeverityWarning,
		Span:     n.Span,
		Message:  fmt.Sprintf("boolean mask applied directly to frame %q; use the explicit row accessor (.loc)", name),
	}}
}
