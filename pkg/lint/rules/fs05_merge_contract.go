package rules

import (
	"fmt"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/lint"
)

// MergeContract flags merge/join calls without an explicit cardinality
// contract.
var MergeContract = lint.RuleDef{
	ID:          "FS05",
	Name:        "frames.merge-contract",
	Group:       "frames",
	Description: "Merges must spell out join type, join key, and cardinality validation.",
	Severity:    lint.SeverityError,
	Check:       checkMergeContract,

	Rationale: `A merge that relies on defaults silently picks a join type and key,
and an unvalidated cardinality turns a many-to-many surprise into
duplicated rows far downstream. Spelling out how/on/validate makes the
contract explicit and checked at execution time.`,

	BadExample: `result = orders.merge(customers)`,

	GoodExample: `result = orders.merge(customers, how="left", on="customer_id", validate="m:1")`,

	Fix: `Pass how=, on=, and validate= explicitly on every merge call.`,
}

func checkMergeContract(n *ast.Node, rc *lint.RuleContext) []lint.Diagnostic {
	if n.Kind != ast.KindCall || !rc.Tracker().IsMergeCall(n) {
		return nil
	}
	var out []lint.Diagnostic
	for _, kw := range rc.Tracker().Table().MergeRequiredKwargs {
		if n.Keyword(kw) != nil {
			continue
		}
		out = append(out, lint.Diagnostic{
			RuleID:   "FS05",
			Severity: lint.SeverityError,
			Span:     n.Span,
			Message:  fmt.Sprintf("merge call missing explicit %q argument", kw),
		})
	}
	return out
}
