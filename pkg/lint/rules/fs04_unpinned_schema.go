package rules

import (
	"fmt"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
)

// UnpinnedSchema flags frames that reach a use point before their column
// set has been pinned with an explicit selection.
var UnpinnedSchema = lint.RuleDef{
	ID:          "FS04",
	Name:        "frames.unpinned-schema",
	Group:       "frames",
	Description: "Frames loaded from a source should pin their schema before use.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnpinnedSchema,

	Rationale: `A frame fresh from read_csv carries whatever columns the source
happened to have. Selecting the expected columns right after loading
turns silent schema drift into an immediate, located failure.`,

	BadExample: `df = read_csv("orders.csv")
totals = compute(df)`,

	GoodExample: `df = read_csv("orders.csv")
df = df[["order_id", "amount"]]
totals = compute(df)`,

	Fix: `Pin the schema right after construction: df = df[["col_a", "col_b"]].`,
}

func checkUnpinnedSchema(n *ast.Node, rc *lint.RuleContext) []lint.Diagnostic {
	tr := rc.Tracker()
	unpinned := func(name string) bool {
		b, ok := tr.Lookup(name)
		return ok && !b.Pinned &&
			(b.Origin == dataflow.OriginRead || b.Origin == dataflow.OriginConstruct)
	}
	finding := func(at *ast.Node, name, use string) lint.Diagnostic {
		return lint.Diagnostic{
			RuleID:   "FS04",
			Severity: lint.SeverityWarning,
			Span:     at.Span,
			Message:  fmt.Sprintf("frame %q reaches %s without a pinned schema; pin schema explicitly", name, use),
			Fix:      fmt.Sprintf(`%s = %s[["..."]]`, name, name),
		}
	}

	var out []lint.Diagnostic
	switch n.Kind {
	case ast.KindCall:
		for _, arg := range n.Args() {
			v := arg
			if arg.Kind == ast.KindKeyword {
				v = arg.Value()
			}
			if name := v.IdentName(); name != "" && unpinned(name) {
				out = append(out, finding(v, name, "a call argument"))
			}
		}
		if tr.IsMergeCall(n) {
			if callee := n.Callee(); callee != nil && callee.Kind == ast.KindAttribute {
				if name := callee.Receiver().IdentName(); name != "" && unpinned(name) {
					out = append(out, finding(callee.Receiver(), name, "a merge input"))
				}
			}
		}
	case ast.KindReturn:
		if v := n.Value(); v != nil {
			if name := v.IdentName(); name != "" && unpinned(name) {
				out = append(out, finding(v, name, "a return value"))
			}
		}
	case ast.KindSubscript:
		// A single-column read consumes the frame; only an explicit
		// column list counts as pinning. Writes are not reads.
		if rc.IsAssignTarget(n) || !dataflow.IsColumnLabel(n.Index()) {
			return nil
		}
		if name := n.Receiver().IdentName(); name != "" && unpinned(name) {
			out = append(out, finding(n.Receiver(), name, "a column read"))
		}
	}
	return out
}
