package lint

import (
	"fmt"
	"sort"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
)

// RuleDef is a data-driven rule definition. Rules are stateless and
// isolated: all context comes via the Check parameters, and no rule's
// output depends on another's.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "FS01"
	Name        string    // Human-readable name, e.g., "frames.attribute-access"
	Group       string    // Category, e.g., "frames"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// CheckFunc inspects one node with the current dataflow view and returns
// findings at that node, or nil.
type CheckFunc func(n *ast.Node, rc *RuleContext) []Diagnostic

// RuleContext is the read-only view a matcher gets at each node.
type RuleContext struct {
	tracker *dataflow.Tracker
	parents []*ast.Node
}

// Tracker exposes the dataflow facts accumulated so far. The view
// reflects only statements lexically preceding the current node.
func (rc *RuleContext) Tracker() *dataflow.Tracker { return rc.tracker }

// Parent returns the immediate parent of the current node, or nil at the
// root.
func (rc *RuleContext) Parent() *ast.Node {
	if len(rc.parents) == 0 {
		return nil
	}
	return rc.parents[len(rc.parents)-1]
}

// IsStatement reports whether the current node sits directly in a
// statement list, i.e. its result is discarded.
func (rc *RuleContext) IsStatement() bool {
	p := rc.Parent()
	return p == nil || p.Kind == ast.KindModule || p.Kind == ast.KindBlock
}

// IsAssignTarget reports whether the current node is the target of its
// parent assignment.
func (rc *RuleContext) IsAssignTarget(n *ast.Node) bool {
	p := rc.Parent()
	return p != nil && p.Kind == ast.KindAssign && p.Target() == n
}

// Catalog is an immutable, once-constructed rule sequence ordered by ID.
// There is no global registry; hosts build the catalog they want and
// hand it to the engine.
type Catalog struct {
	rules []RuleDef
	byID  map[string]int
}

// NewCatalog builds a catalog from the given rules, sorted by ID.
// Duplicate or empty IDs and nil check functions are rejected.
func NewCatalog(rules ...RuleDef) (Catalog, error) {
	sorted := make([]RuleDef, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[string]int, len(sorted))
	for i, r := range sorted {
		if r.ID == "" {
			return Catalog{}, fmt.Errorf("rule %q: empty ID", r.Name)
		}
		if r.Check == nil {
			return Catalog{}, fmt.Errorf("rule %s: nil check function", r.ID)
		}
		if _, dup := byID[r.ID]; dup {
			return Catalog{}, fmt.Errorf("rule %s: duplicate ID", r.ID)
		}
		byID[r.ID] = i
	}
	return Catalog{rules: sorted, byID: byID}, nil
}

// MustCatalog is NewCatalog that panics on invalid definitions. Intended
// for the fixed built-in catalog constructed at startup.
func MustCatalog(rules ...RuleDef) Catalog {
	c, err := NewCatalog(rules...)
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns the rules in ID order. The slice is a copy.
func (c Catalog) Rules() []RuleDef {
	out := make([]RuleDef, len(c.rules))
	copy(out, c.rules)
	return out
}

// Get returns the rule with the given ID.
func (c Catalog) Get(id string) (RuleDef, bool) {
	i, ok := c.byID[id]
	if !ok {
		return RuleDef{}, false
	}
	return c.rules[i], true
}

// Len returns the number of rules in the catalog.
func (c Catalog) Len() int { return len(c.rules) }
