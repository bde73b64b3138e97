package dataflow

import (
	"github.com/framelint/framelint/pkg/ast"
)

// Tracker maintains the scope stack and the per-function context during
// a single traversal. One tracker serves exactly one file; instances
// share nothing.
type Tracker struct {
	table *Table
	scope *Scope
	funcs []*FuncInfo
}

// FuncInfo describes the enclosing function for parameter-mutation
// checks.
type FuncInfo struct {
	Name         string
	FrameParams  map[string]bool
	ReturnsFrame bool
}

// NewTracker creates a tracker with a fresh root scope.
func NewTracker(table *Table) *Tracker {
	if table == nil {
		table = DefaultTable()
	}
	return &Tracker{table: table, scope: NewScope()}
}

// Table exposes the classification table to rules.
func (t *Tracker) Table() *Table { return t.table }

// EnterScope pushes a child scope; ExitScope pops back to the parent.
func (t *Tracker) EnterScope() {
	t.scope = t.scope.Child()
}

// ExitScope discards the current scope.
func (t *Tracker) ExitScope() {
	if t.scope.parent != nil {
		t.scope = t.scope.parent
	}
}

// Record creates or replaces a binding in the current scope.
func (t *Tracker) Record(name string, origin Origin, pinned bool) {
	t.scope.Set(Binding{Name: name, Origin: origin, Pinned: pinned})
}

// Lookup walks the scope chain for a binding.
func (t *Tracker) Lookup(name string) (Binding, bool) {
	return t.scope.Lookup(name)
}

// IsFrame reports whether name is currently bound to a classified frame.
func (t *Tracker) IsFrame(name string) bool {
	b, ok := t.Lookup(name)
	return ok && b.IsFrame()
}

// MarkPinned records the pinned flag for an existing frame binding. The
// write lands in the current scope so branch arms stay isolated; pinning
// an already pinned binding is a no-op.
func (t *Tracker) MarkPinned(name string) {
	b, ok := t.Lookup(name)
	if !ok || !b.IsFrame() || b.Pinned {
		return
	}
	b.Pinned = true
	t.scope.Set(b)
}

// PushFunc and PopFunc maintain the enclosing-function stack.
func (t *Tracker) PushFunc(fi *FuncInfo) {
	t.funcs = append(t.funcs, fi)
}

func (t *Tracker) PopFunc() {
	if len(t.funcs) > 0 {
		t.funcs = t.funcs[:len(t.funcs)-1]
	}
}

// CurrentFunc returns the innermost enclosing function, or nil at module
// level.
func (t *Tracker) CurrentFunc() *FuncInfo {
	if len(t.funcs) == 0 {
		return nil
	}
	return t.funcs[len(t.funcs)-1]
}

// CalleeName resolves a call's callee to its final name and, for method
// calls, the receiver identifier. Unresolvable shapes return "".
func CalleeName(call *ast.Node) (name, receiver string) {
	callee := call.Callee()
	if callee == nil {
		return "", ""
	}
	switch callee.Kind {
	case ast.KindIdent:
		return callee.Text, ""
	case ast.KindAttribute:
		return callee.Text, callee.Receiver().IdentName()
	}
	return "", ""
}

// IsMergeCall reports whether the call's shape matches a merge/join. The
// match is shape-based only: the receiver does not have to be a known
// frame, so merge contracts are checked even on untracked frames.
func (t *Tracker) IsMergeCall(call *ast.Node) bool {
	if call == nil || call.Kind != ast.KindCall {
		return false
	}
	name, _ := CalleeName(call)
	return t.table.MergeFuncs[name]
}

// ClassifyOrigin pattern-matches an expression against the table and
// returns the origin of the frame it produces. Unrecognized shapes are
// OriginUnknown.
func (t *Tracker) ClassifyOrigin(n *ast.Node) Origin {
	if n == nil {
		return OriginUnknown
	}
	switch n.Kind {
	case ast.KindCall:
		name, _ := CalleeName(n)
		switch {
		case t.table.ReadFuncs[name]:
			return OriginRead
		case t.table.ConstructFuncs[name]:
			return OriginConstruct
		case t.table.MergeFuncs[name]:
			return OriginMerge
		}
	case ast.KindSubscript:
		if t.IsFrame(n.Receiver().IdentName()) {
			return OriginSelection
		}
	}
	return OriginUnknown
}

// BindingFor proposes the binding an assignment of expr would create.
// The second result is false when the expression carries no frame fact.
func (t *Tracker) BindingFor(name string, expr *ast.Node) (Binding, bool) {
	if expr == nil {
		return Binding{}, false
	}
	// Plain aliasing copies the source binding wholesale.
	if src := expr.IdentName(); src != "" {
		if b, ok := t.Lookup(src); ok {
			b.Name = name
			return b, true
		}
		return Binding{}, false
	}
	origin := t.ClassifyOrigin(expr)
	if origin == OriginUnknown {
		return Binding{}, false
	}
	return Binding{Name: name, Origin: origin, Pinned: origin == OriginSelection}, true
}

// BranchPoint captures the pre-branch state so each arm can be evaluated
// from the same snapshot and merged conservatively afterwards.
type BranchPoint struct {
	tracker *Tracker
	base    *Scope
	arms    []*Scope
}

// BeginBranch starts branch evaluation at the current scope.
func (t *Tracker) BeginBranch() *BranchPoint {
	return &BranchPoint{tracker: t, base: t.scope}
}

// EnterArm starts evaluating one arm against the pre-branch snapshot.
// Writes land in an overlay scope that is peeled off by LeaveArm.
func (bp *BranchPoint) EnterArm() {
	bp.tracker.scope = bp.base.Child()
}

// LeaveArm stashes the arm's writes and restores the pre-branch state.
func (bp *BranchPoint) LeaveArm() {
	bp.arms = append(bp.arms, bp.tracker.scope)
	bp.tracker.scope = bp.base
}

// Merge folds the arms back into the pre-branch scope. A variable keeps
// a fact only if every arm agrees on it; any disagreement merges to
// Unknown, unpinned. The adapter guarantees an explicit arm for the
// fall-through path, so a fact set on one branch only always disagrees
// with the untouched path.
func (bp *BranchPoint) Merge() {
	written := make(map[string]bool)
	for _, arm := range bp.arms {
		for _, name := range arm.names() {
			written[name] = true
		}
	}

	for name := range written {
		first := true
		var merged Binding
		agree := true
		for _, arm := range bp.arms {
			b, ok := arm.Lookup(name) // falls back to the base chain
			if !ok {
				b = Binding{Name: name, Origin: OriginUnknown}
			}
			if first {
				merged = b
				first = false
			} else if b != merged {
				agree = false
				break
			}
		}
		if !agree {
			merged = Binding{Name: name, Origin: OriginUnknown}
		}
		bp.base.Set(merged)
	}
}
