package lint

import (
	"context"
	"fmt"
	"sort"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/token"
)

// Engine applies every catalog rule at every node in a single pre-order
// traversal, driving the dataflow tracker incrementally. An Engine is
// immutable after construction and safe for concurrent Run calls; each
// run owns its own tracker and scope stack.
type Engine struct {
	catalog Catalog
	config  *Config
	table   *dataflow.Table
}

// NewEngine creates an engine. A nil config enables every rule at its
// default severity; a nil table uses the built-in conventions.
func NewEngine(catalog Catalog, config *Config, table *dataflow.Table) *Engine {
	if table == nil {
		table = dataflow.DefaultTable()
	}
	return &Engine{catalog: catalog, config: config, table: table}
}

// Run analyzes one file's tree and returns the ordered diagnostics.
// A malformed tree returns an *ast.AdapterError; a cancelled context
// returns ErrIncomplete. Both abort this file only.
func (e *Engine) Run(ctx context.Context, root *ast.Node, suppress SuppressionQuery) ([]Diagnostic, error) {
	if err := ast.Validate(root); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := &run{
		engine:  e,
		ctx:     ctx,
		tracker: dataflow.NewTracker(e.table),
	}
	r.rc = &RuleContext{tracker: r.tracker}

	if err := r.visit(root); err != nil {
		return nil, err
	}
	return finalize(r.diags, suppress), nil
}

// run holds the per-file traversal state.
type run struct {
	engine  *Engine
	ctx     context.Context
	tracker *dataflow.Tracker
	rc      *RuleContext
	diags   []Diagnostic

	// storeDepth is nonzero while visiting an assignment target, where
	// subscripts are writes and must not pin.
	storeDepth int
}

func (r *run) visit(n *ast.Node) error {
	if n == nil {
		return nil
	}
	r.match(n)

	switch n.Kind {
	case ast.KindModule, ast.KindBlock:
		for _, stmt := range n.Children {
			if err := r.ctx.Err(); err != nil {
				return ErrIncomplete
			}
			if err := r.visitChild(n, stmt); err != nil {
				return err
			}
		}
		return nil
	case ast.KindFunctionDef:
		return r.visitFunc(n)
	case ast.KindBranch:
		return r.visitBranch(n)
	case ast.KindAssign:
		return r.visitAssign(n)
	case ast.KindSubscript:
		for _, c := range n.Children {
			if err := r.visitChild(n, c); err != nil {
				return err
			}
		}
		r.applySubscript(n)
		return nil
	default:
		for _, c := range n.Children {
			if err := r.visitChild(n, c); err != nil {
				return err
			}
		}
		return nil
	}
}

func (r *run) visitChild(parent, n *ast.Node) error {
	r.rc.parents = append(r.rc.parents, parent)
	err := r.visit(n)
	r.rc.parents = r.rc.parents[:len(r.rc.parents)-1]
	return err
}

// visitFunc enters a fresh scope, classifies frame parameters, and
// pre-scans the body so parameter-mutation checks know whether the
// function returns a frame.
func (r *run) visitFunc(n *ast.Node) error {
	fi := &dataflow.FuncInfo{
		Name:        n.Text,
		FrameParams: make(map[string]bool),
	}
	for _, p := range n.Params() {
		if r.engine.table.IsFrameParam(p.Text) {
			fi.FrameParams[p.Text] = true
		}
	}
	fi.ReturnsFrame = dataflow.ReturnsFrame(n, r.engine.table, fi.FrameParams)

	r.tracker.EnterScope()
	r.tracker.PushFunc(fi)
	for name := range fi.FrameParams {
		r.tracker.Record(name, dataflow.OriginParameter, false)
	}

	var err error
	for _, c := range n.Children {
		if err = r.visitChild(n, c); err != nil {
			break
		}
	}

	r.tracker.PopFunc()
	r.tracker.ExitScope()
	return err
}

// visitBranch evaluates every arm from the pre-branch snapshot and
// merges conservatively afterwards.
func (r *run) visitBranch(n *ast.Node) error {
	for _, cond := range n.Conditions() {
		if err := r.visitChild(n, cond); err != nil {
			return err
		}
	}

	bp := r.tracker.BeginBranch()
	for _, arm := range n.Arms() {
		bp.EnterArm()
		err := r.visitChild(n, arm)
		bp.LeaveArm()
		if err != nil {
			return err
		}
	}
	bp.Merge()
	return nil
}

// visitAssign traverses both sides with the pre-assignment state, then
// records the new binding. Bindings are wholly replaced, never mutated.
func (r *run) visitAssign(n *ast.Node) error {
	r.storeDepth++
	err := r.visitChild(n, n.Target())
	r.storeDepth--
	if err != nil {
		return err
	}
	if err := r.visitChild(n, n.Value()); err != nil {
		return err
	}

	name := n.Target().IdentName()
	if name == "" {
		return nil
	}
	if b, ok := r.tracker.BindingFor(name, n.Value()); ok {
		r.tracker.Record(name, b.Origin, b.Pinned)
	} else if _, had := r.tracker.Lookup(name); had {
		// The name held a frame but the new value is unclassifiable.
		r.tracker.Record(name, dataflow.OriginUnknown, false)
	}
	return nil
}

// applySubscript pins the receiver after an explicit column selection in
// load position. Pinning is idempotent; rules at this node already ran,
// so a use before the first selection is still reported.
func (r *run) applySubscript(n *ast.Node) {
	if r.storeDepth > 0 {
		return
	}
	if !dataflow.IsColumnList(n.Index()) {
		return
	}
	if name := n.Receiver().IdentName(); name != "" {
		r.tracker.MarkPinned(name)
	}
}

// match invokes every enabled rule at the node, containing panics so one
// matcher's failure never aborts the traversal.
func (r *run) match(n *ast.Node) {
	for _, rule := range r.engine.catalog.rules {
		if r.engine.config.IsDisabled(rule.ID) {
			continue
		}
		for _, d := range r.safeCheck(rule, n) {
			d.Severity = r.engine.config.GetSeverity(rule.ID, d.Severity)
			r.diags = append(r.diags, d)
		}
	}
}

func (r *run) safeCheck(rule RuleDef, n *ast.Node) (diags []Diagnostic) {
	defer func() {
		if rec := recover(); rec != nil {
			diags = []Diagnostic{{
				RuleID:   rule.ID,
				Severity: SeverityError,
				Span:     n.Span,
				Message:  fmt.Sprintf("rule %s crashed: %v", rule.ID, rec),
			}}
		}
	}()
	return rule.Check(n, r.rc)
}

// finalize applies suppression, dedups repeated findings, and sorts by
// (start line, start column, rule ID) so identical inputs always yield
// identical output.
func finalize(diags []Diagnostic, suppress SuppressionQuery) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	// Findings of one rule at one span are duplicates unless they say
	// different things (a merge call can miss several arguments).
	type key struct {
		id   string
		span token.Span
		msg  string
	}
	seen := make(map[key]bool)
	for _, d := range diags {
		if suppress != nil && suppress(d.Span.Start.Line, d.RuleID) {
			continue
		}
		k := key{d.RuleID, d.Span, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}
		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}
		return a.RuleID < b.RuleID
	})
	return out
}
