package rules

import (
	"fmt"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/lint"
)

// AttributeAccess flags column access through attribute syntax.
var AttributeAccess = lint.RuleDef{
	ID:          "FS01",
	Name:        "frames.attribute-access",
	Group:       "frames",
	Description: "Columns should be selected with subscript syntax, not attribute access.",
	Severity:    lint.SeverityWarning,
	Check:       checkAttributeAccess,

	Rationale: `Attribute access silently breaks for column names that collide with
frame methods or contain spaces, and it hides which names are columns
and which are API. Subscript selection is explicit and always works.`,

	BadExample: `total = df.price * df.qty`,

	GoodExample: `total = df["price"] * df["qty"]`,

	Fix: `Replace df.col with df["col"].`,
}

func checkAttributeAccess(n *ast.Node, rc *lint.RuleContext) []lint.Diagnostic {
	if n.Kind != ast.KindAttribute {
		return nil
	}
	recv := n.Receiver().IdentName()
	if recv == "" || !rc.Tracker().IsFrame(recv) {
		return nil
	}
	if rc.Tracker().Table().ReservedAttrs[n.Text] {
		return nil
	}
	// A called attribute is a method we do not know, not a column.
	if p := rc.Parent(); p != nil && p.Kind == ast.KindCall && p.Callee() == n {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "FS01",
		Severity: lint.SeverityWarning,
		Span:     n.Span,
		Message:  fmt.Sprintf("column %q accessed as attribute on frame %q; use subscript selection", n.Text, recv),
		Fix:      fmt.Sprintf("%s[%q]", recv, n.Text),
	}}
}
