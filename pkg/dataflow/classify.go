package dataflow

import (
	"strings"

	"github.com/framelint/framelint/pkg/ast"
)

// IsColumnList reports whether a subscript index is an explicit column
// list, i.e. the pinning form df[["a", "b"]].
func IsColumnList(idx *ast.Node) bool {
	return idx != nil && idx.Kind == ast.KindLiteral && strings.HasPrefix(idx.Text, "[")
}

// IsColumnLabel reports whether a subscript index is a single column
// label literal, i.e. the column-read form df["a"].
func IsColumnLabel(idx *ast.Node) bool {
	if idx == nil || idx.Kind != ast.KindLiteral {
		return false
	}
	return strings.HasPrefix(idx.Text, `"`) || strings.HasPrefix(idx.Text, "'")
}

// IsTrueLiteral reports whether the node is the boolean True literal.
func IsTrueLiteral(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindLiteral && n.Text == "True"
}

// BaseIdent resolves the root identifier of a receiver chain, e.g.
// df for df["a"].str or df.loc[m]. Returns "" for other shapes.
func BaseIdent(n *ast.Node) string {
	for n != nil {
		switch n.Kind {
		case ast.KindIdent:
			return n.Text
		case ast.KindSubscript, ast.KindAttribute:
			n = n.Receiver()
		default:
			return ""
		}
	}
	return ""
}

// ReturnsFrame pre-scans a function body and reports whether any return
// statement yields a frame: a frame parameter, a column selection on
// one, or a call the table classifies as frame-producing. Returns inside
// nested function definitions do not count.
func ReturnsFrame(def *ast.Node, table *Table, frameParams map[string]bool) bool {
	body := def.Body()
	if body == nil {
		return false
	}
	found := false
	ast.Walk(body, func(n *ast.Node) bool {
		if found {
			return false
		}
		if n.Kind == ast.KindFunctionDef {
			return false
		}
		if n.Kind != ast.KindReturn {
			return true
		}
		v := n.Value()
		if v == nil {
			return true
		}
		switch v.Kind {
		case ast.KindIdent:
			if frameParams[v.Text] {
				found = true
			}
		case ast.KindSubscript:
			if frameParams[BaseIdent(v.Receiver())] && IsColumnList(v.Index()) {
				found = true
			}
		case ast.KindCall:
			name, _ := CalleeName(v)
			if table.ReadFuncs[name] || table.ConstructFuncs[name] || table.MergeFuncs[name] {
				found = true
			}
		}
		return true
	})
	return found
}
