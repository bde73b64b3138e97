package rules

import (
	"fmt"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
)

// ParamMutation flags functions that mutate a frame parameter and also
// return a frame.
var ParamMutation = lint.RuleDef{
	ID:          "FS07",
	Name:        "frames.param-mutation",
	Group:       "frames",
	Description: "A function must not mutate a frame parameter and return a frame.",
	Severity:    lint.SeverityError,
	Check:       checkParamMutation,

	Rationale: `Mutating a parameter while also returning a frame gives the caller
two aliases of the same data, one changed behind their back. Either
work on a copy and return it, or mutate and return nothing.`,

	BadExample: `def add_total(df):
    df["total"] = df["price"] * df["qty"]
    return df`,

	GoodExample: `def add_total(df):
    out = df.copy()
    out["total"] = out["price"] * out["qty"]
    return out`,

	Fix: `Copy the parameter first (out = df.copy()) or drop the return.`,
}

func checkParamMutation(n *ast.Node, rc *lint.RuleContext) []lint.Diagnostic {
	if n.Kind != ast.KindAssign {
		return nil
	}
	fn := rc.Tracker().CurrentFunc()
	if fn == nil || !fn.ReturnsFrame {
		return nil
	}
	target := n.Target()
	if target == nil || (target.Kind != ast.KindSubscript && target.Kind != ast.KindAttribute) {
		return nil
	}
	name := target.Receiver().IdentName()
	if name == "" || !fn.FrameParams[name] {
		return nil
	}
	// Mutation only counts while the name still refers to the parameter;
	// a rebound local is the caller's problem no longer.
	b, ok := rc.Tracker().Lookup(name)
	if !ok || b.Origin != dataflow.OriginParameter {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "FS07",
		Severity: lint.SeverityError,
		Span:     n.Span,
		Message:  fmt.Sprintf("function %q mutates frame parameter %q and returns a frame; avoid mutating and returning frame parameters", fn.Name, name),
	}}
}
