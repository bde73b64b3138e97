package dataflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/token"
)

func node(kind ast.Kind, text string, children ...*ast.Node) *ast.Node {
	return &ast.Node{
		Kind:     kind,
		Span:     token.Span{Start: token.Position{Line: 1, Column: 1}, End: token.Position{Line: 1, Column: 2}},
		Text:     text,
		Children: children,
	}
}

func ident(name string) *ast.Node { return node(ast.KindIdent, name) }

func call(callee string, args ...*ast.Node) *ast.Node {
	children := append([]*ast.Node{ident(callee)}, args...)
	return node(ast.KindCall, "", children...)
}

func methodCall(recv, method string, args ...*ast.Node) *ast.Node {
	callee := node(ast.KindAttribute, method, ident(recv))
	children := append([]*ast.Node{callee}, args...)
	return node(ast.KindCall, "", children...)
}

func TestTracker_RecordAndLookup(t *testing.T) {
	tr := dataflow.NewTracker(nil)

	_, ok := tr.Lookup("df")
	assert.False(t, ok)
	assert.False(t, tr.IsFrame("df"))

	tr.Record("df", dataflow.OriginRead, false)
	b, ok := tr.Lookup("df")
	require.True(t, ok)
	assert.Equal(t, dataflow.OriginRead, b.Origin)
	assert.False(t, b.Pinned)
	assert.True(t, tr.IsFrame("df"))

	// Reassignment replaces the binding wholesale.
	tr.Record("df", dataflow.OriginUnknown, false)
	assert.False(t, tr.IsFrame("df"))
}

func TestTracker_ScopeShadowing(t *testing.T) {
	tr := dataflow.NewTracker(nil)
	tr.Record("df", dataflow.OriginRead, true)

	tr.EnterScope()
	// Outer bindings are visible.
	b, ok := tr.Lookup("df")
	require.True(t, ok)
	assert.True(t, b.Pinned)

	// Inner writes shadow without touching the outer scope.
	tr.Record("df", dataflow.OriginParameter, false)
	b, _ = tr.Lookup("df")
	assert.Equal(t, dataflow.OriginParameter, b.Origin)

	tr.ExitScope()
	b, ok = tr.Lookup("df")
	require.True(t, ok)
	assert.Equal(t, dataflow.OriginRead, b.Origin)
	assert.True(t, b.Pinned)
}

func TestTracker_MarkPinned(t *testing.T) {
	tr := dataflow.NewTracker(nil)

	// Pinning an unbound or unknown name is a no-op.
	tr.MarkPinned("ghost")
	_, ok := tr.Lookup("ghost")
	assert.False(t, ok)

	tr.Record("df", dataflow.OriginRead, false)
	tr.MarkPinned("df")
	b, _ := tr.Lookup("df")
	assert.True(t, b.Pinned)

	// Idempotent.
	tr.MarkPinned("df")
	b, _ = tr.Lookup("df")
	assert.True(t, b.Pinned)
	assert.Equal(t, dataflow.OriginRead, b.Origin)
}

func TestTracker_ClassifyOrigin(t *testing.T) {
	tr := dataflow.NewTracker(nil)
	tr.Record("df", dataflow.OriginRead, false)

	tests := []struct {
		name string
		expr *ast.Node
		want dataflow.Origin
	}{
		{"read call", call("read_csv"), dataflow.OriginRead},
		{"construct call", call("DataFrame"), dataflow.OriginConstruct},
		{"merge method", methodCall("df", "merge", ident("other")), dataflow.OriginMerge},
		{"selection on frame", node(ast.KindSubscript, "", ident("df"), node(ast.KindLiteral, `["a"]`)), dataflow.OriginSelection},
		{"selection on non-frame", node(ast.KindSubscript, "", ident("xs"), node(ast.KindLiteral, `["a"]`)), dataflow.OriginUnknown},
		{"unknown call", call("helper"), dataflow.OriginUnknown},
		{"literal", node(ast.KindLiteral, "1"), dataflow.OriginUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.ClassifyOrigin(tt.expr))
		})
	}
}

func TestTracker_BindingFor(t *testing.T) {
	tr := dataflow.NewTracker(nil)
	tr.Record("df", dataflow.OriginRead, true)

	// Aliasing copies the source binding, pinned flag included.
	b, ok := tr.BindingFor("alias", ident("df"))
	require.True(t, ok)
	assert.Equal(t, "alias", b.Name)
	assert.Equal(t, dataflow.OriginRead, b.Origin)
	assert.True(t, b.Pinned)

	// Aliasing an unbound name carries no fact.
	_, ok = tr.BindingFor("x", ident("mystery"))
	assert.False(t, ok)

	// A selection result is born pinned.
	sel := node(ast.KindSubscript, "", ident("df"), node(ast.KindLiteral, `["a", "b"]`))
	b, ok = tr.BindingFor("narrow", sel)
	require.True(t, ok)
	assert.Equal(t, dataflow.OriginSelection, b.Origin)
	assert.True(t, b.Pinned)

	// A fresh read is not.
	b, ok = tr.BindingFor("raw", call("read_parquet"))
	require.True(t, ok)
	assert.Equal(t, dataflow.OriginRead, b.Origin)
	assert.False(t, b.Pinned)
}

func TestBranchPoint_MergeAgreement(t *testing.T) {
	tr := dataflow.NewTracker(nil)
	tr.Record("df", dataflow.OriginRead, false)

	bp := tr.BeginBranch()
	for i := 0; i < 2; i++ {
		bp.EnterArm()
		tr.Record("df", dataflow.OriginSelection, true)
		bp.LeaveArm()
	}
	bp.Merge()

	b, ok := tr.Lookup("df")
	require.True(t, ok)
	assert.Equal(t, dataflow.OriginSelection, b.Origin)
	assert.True(t, b.Pinned)
}

func TestBranchPoint_MergeDisagreement(t *testing.T) {
	tr := dataflow.NewTracker(nil)
	tr.Record("df", dataflow.OriginRead, false)

	bp := tr.BeginBranch()

	bp.EnterArm()
	tr.Record("df", dataflow.OriginSelection, true)
	bp.LeaveArm()

	// Fall-through arm leaves df untouched.
	bp.EnterArm()
	bp.LeaveArm()

	bp.Merge()

	b, ok := tr.Lookup("df")
	require.True(t, ok)
	assert.Equal(t, dataflow.OriginUnknown, b.Origin)
	assert.False(t, b.Pinned)
}

func TestBranchPoint_ArmIsolation(t *testing.T) {
	tr := dataflow.NewTracker(nil)
	tr.Record("df", dataflow.OriginRead, false)

	bp := tr.BeginBranch()

	bp.EnterArm()
	tr.MarkPinned("df")
	b, _ := tr.Lookup("df")
	assert.True(t, b.Pinned)
	bp.LeaveArm()

	// The second arm starts from the pre-branch snapshot.
	bp.EnterArm()
	b, _ = tr.Lookup("df")
	assert.False(t, b.Pinned)
	bp.LeaveArm()

	bp.Merge()
	b, _ = tr.Lookup("df")
	assert.Equal(t, dataflow.OriginUnknown, b.Origin)
}

func TestTracker_FuncStack(t *testing.T) {
	tr := dataflow.NewTracker(nil)
	assert.Nil(t, tr.CurrentFunc())

	outer := &dataflow.FuncInfo{Name: "outer"}
	inner := &dataflow.FuncInfo{Name: "inner"}
	tr.PushFunc(outer)
	tr.PushFunc(inner)
	assert.Same(t, inner, tr.CurrentFunc())
	tr.PopFunc()
	assert.Same(t, outer, tr.CurrentFunc())
	tr.PopFunc()
	assert.Nil(t, tr.CurrentFunc())
}

func TestCalleeName(t *testing.T) {
	name, recv := dataflow.CalleeName(call("read_csv"))
	assert.Equal(t, "read_csv", name)
	assert.Empty(t, recv)

	name, recv = dataflow.CalleeName(methodCall("df", "merge"))
	assert.Equal(t, "merge", name)
	assert.Equal(t, "df", recv)

	// Chained receivers do not resolve to a single identifier.
	chained := node(ast.KindCall, "", node(ast.KindAttribute, "sum", methodCall("df", "groupby")))
	name, recv = dataflow.CalleeName(chained)
	assert.Equal(t, "sum", name)
	assert.Empty(t, recv)
}

func TestTable_IsFrameParam(t *testing.T) {
	table := dataflow.DefaultTable()

	tests := []struct {
		param string
		want  bool
	}{
		{"df", true},
		{"frame", true},
		{"df_orders", true},
		{"orders_df", true},
		{"raw_frame", true},
		{"count", false},
		{"dfx", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.IsFrameParam(tt.param), "param %q", tt.param)
	}
}

func TestIsColumnListAndLabel(t *testing.T) {
	list := node(ast.KindLiteral, `["a", "b"]`)
	label := node(ast.KindLiteral, `"a"`)
	singleQuoted := node(ast.KindLiteral, `'a'`)
	number := node(ast.KindLiteral, "0")

	assert.True(t, dataflow.IsColumnList(list))
	assert.False(t, dataflow.IsColumnList(label))
	assert.True(t, dataflow.IsColumnLabel(label))
	assert.True(t, dataflow.IsColumnLabel(singleQuoted))
	assert.False(t, dataflow.IsColumnLabel(list))
	assert.False(t, dataflow.IsColumnLabel(number))
	assert.False(t, dataflow.IsColumnList(nil))
}

func TestBaseIdent(t *testing.T) {
	sub := node(ast.KindSubscript, "", ident("df"), node(ast.KindLiteral, `"a"`))
	attr := node(ast.KindAttribute, "str", sub)
	assert.Equal(t, "df", dataflow.BaseIdent(attr))
	assert.Equal(t, "df", dataflow.BaseIdent(ident("df")))
	assert.Empty(t, dataflow.BaseIdent(node(ast.KindLiteral, "1")))
	assert.Empty(t, dataflow.BaseIdent(nil))
}

func TestReturnsFrame(t *testing.T) {
	table := dataflow.DefaultTable()
	frameParams := map[string]bool{"df": true}

	block := func(stmts ...*ast.Node) *ast.Node { return node(ast.KindBlock, "", stmts...) }
	def := func(body *ast.Node) *ast.Node {
		return node(ast.KindFunctionDef, "f", node(ast.KindParameter, "df"), body)
	}
	ret := func(v *ast.Node) *ast.Node {
		if v == nil {
			return node(ast.KindReturn, "")
		}
		return node(ast.KindReturn, "", v)
	}

	tests := []struct {
		name string
		body *ast.Node
		want bool
	}{
		{"returns frame param", block(ret(ident("df"))), true},
		{"returns selection on param", block(ret(node(ast.KindSubscript, "", ident("df"), node(ast.KindLiteral, `["a"]`)))), true},
		{"returns read call", block(ret(call("read_csv"))), true},
		{"returns scalar", block(ret(node(ast.KindLiteral, "1"))), false},
		{"bare return", block(ret(nil)), false},
		{"no return", block(call("log")), false},
		{
			// A nested function's returns do not count for the outer one.
			name: "nested function return",
			body: block(node(ast.KindFunctionDef, "g",
				node(ast.KindParameter, "df"),
				block(ret(ident("df"))),
			)),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataflow.ReturnsFrame(def(tt.body), table, frameParams))
		})
	}
}
