package rules

import (
	"fmt"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
)

// InplaceMutation flags in-place frame mutation.
var InplaceMutation = lint.RuleDef{
	ID:          "FS02",
	Name:        "frames.inplace-mutation",
	Group:       "frames",
	Description: "Transformations should produce a new frame instead of mutating in place.",
	Severity:    lint.SeverityWarning,
	Check:       checkInplaceMutation,

	Rationale: `In-place mutation hides data changes from readers following the
assignments, breaks method chaining, and rarely saves memory in
practice. Reassignment keeps every transformation visible.`,

	BadExample: `df.dropna(inplace=True)`,

	GoodExample: `df = df.dropna()`,

	Fix: `Drop the inplace argument and assign the result: df = df.method(...).`,
}

func checkInplaceMutation(n *ast.Node, rc *lint.RuleContext) []lint.Diagnostic {
	if n.Kind != ast.KindCall {
		return nil
	}
	name, recv := dataflow.CalleeName(n)

	if kw := n.Keyword("inplace"); kw != nil && dataflow.IsTrueLiteral(kw.Value()) {
		return []lint.Diagnostic{{
			RuleID:   "FS02",
			Severity: lint.SeverityWarning,
			Span:     n.Span,
			Message:  fmt.Sprintf("%s called with inplace=True; use reassignment", name),
		}}
	}

	// A statement-level call discards the copy the method would return,
	// so the author either mutated nothing or meant inplace.
	if rc.IsStatement() && rc.Tracker().Table().InplaceCapable[name] && rc.Tracker().IsFrame(recv) {
		return []lint.Diagnostic{{
			RuleID:   "FS02",
			Severity: lint.SeverityWarning,
			Span:     n.Span,
			Message:  fmt.Sprintf("result of %s.%s() is discarded; use reassignment", recv, name),
		}}
	}
	return nil
}
