// Package ast defines the normalized script node model consumed by the
// lint engine. Front ends (see pkg/parser) adapt an external parse tree
// into this model; the engine never sees the original tree.
package ast

import (
	"github.com/framelint/framelint/pkg/token"
)

// Kind classifies a node. The engine only distinguishes the kinds listed
// here; anything else in the source language is folded into the nearest
// structural kind by the adapter.
type Kind int

const (
	// KindInvalid marks an unclassified node. Validate rejects it.
	KindInvalid Kind = iota
	// KindModule is the root of a script.
	KindModule
	// KindBlock is an ordered statement list (module body, function body,
	// branch arm).
	KindBlock
	// KindBranch is a control-flow divergence point (if/elif/else, for,
	// while). Its KindBlock children are the arms; the adapter always
	// appends an empty arm for the implicit fall-through path so every
	// possible path is represented explicitly.
	KindBranch
	// KindCall is a function or method call. Children[0] is the callee;
	// the rest are positional arguments and KindKeyword nodes.
	KindCall
	// KindSubscript is an index expression. Children are receiver, index.
	KindSubscript
	// KindAttribute is dotted access. Children[0] is the receiver; Text
	// holds the attribute name.
	KindAttribute
	// KindAssign is an assignment statement. Children are target, value.
	KindAssign
	// KindCompare is a binary comparison. Children are left, right; Text
	// holds the operator.
	KindCompare
	// KindFunctionDef is a function definition. Text holds the name;
	// children are the KindParameter nodes followed by the body block.
	KindFunctionDef
	// KindParameter is a formal parameter. Text holds the name.
	KindParameter
	// KindReturn is a return statement with at most one value child.
	KindReturn
	// KindKeyword is a keyword argument inside a call. Text holds the
	// argument name; Children[0] is the value.
	KindKeyword
	// KindIdent is an identifier reference. Text holds the name.
	KindIdent
	// KindLiteral is a literal leaf. Text holds the source text.
	KindLiteral
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindBlock:
		return "block"
	case KindBranch:
		return "branch"
	case KindCall:
		return "call"
	case KindSubscript:
		return "subscript"
	case KindAttribute:
		return "attribute"
	case KindAssign:
		return "assign"
	case KindCompare:
		return "compare"
	case KindFunctionDef:
		return "funcdef"
	case KindParameter:
		return "parameter"
	case KindReturn:
		return "return"
	case KindKeyword:
		return "keyword"
	case KindIdent:
		return "ident"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Node is one normalized script node. Nodes are immutable after
// adaptation; the engine and rules only read them.
type Node struct {
	Kind     Kind
	Span     token.Span
	Text     string // identifier name, attribute name, operator, or literal text
	Children []*Node
}

// child returns the i-th child or nil.
func (n *Node) child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Target returns the assignment target.
func (n *Node) Target() *Node { return n.child(0) }

// Value returns the assigned value, keyword value, or return value
// depending on the node kind.
func (n *Node) Value() *Node {
	switch n.Kind {
	case KindAssign:
		return n.child(1)
	case KindKeyword, KindReturn:
		return n.child(0)
	default:
		return nil
	}
}

// Callee returns the called expression of a call node.
func (n *Node) Callee() *Node { return n.child(0) }

// Args returns the call arguments, positional and keyword alike.
func (n *Node) Args() []*Node {
	if n == nil || n.Kind != KindCall || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1:]
}

// Keyword returns the keyword argument with the given name, or nil.
func (n *Node) Keyword(name string) *Node {
	for _, arg := range n.Args() {
		if arg.Kind == KindKeyword && arg.Text == name {
			return arg
		}
	}
	return nil
}

// Receiver returns the object a subscript or attribute applies to.
func (n *Node) Receiver() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindSubscript, KindAttribute:
		return n.child(0)
	}
	return nil
}

// Index returns the index expression of a subscript.
func (n *Node) Index() *Node {
	if n == nil || n.Kind != KindSubscript {
		return nil
	}
	return n.child(1)
}

// Left and Right return the operands of a comparison.
func (n *Node) Left() *Node  { return n.child(0) }
func (n *Node) Right() *Node { return n.child(1) }

// Params returns the parameter nodes of a function definition.
func (n *Node) Params() []*Node {
	if n == nil || n.Kind != KindFunctionDef {
		return nil
	}
	var params []*Node
	for _, c := range n.Children {
		if c.Kind == KindParameter {
			params = append(params, c)
		}
	}
	return params
}

// Body returns the body block of a function definition.
func (n *Node) Body() *Node {
	if n == nil || n.Kind != KindFunctionDef || len(n.Children) == 0 {
		return nil
	}
	last := n.Children[len(n.Children)-1]
	if last.Kind == KindBlock {
		return last
	}
	return nil
}

// Arms returns the block children of a branch node, one per path.
func (n *Node) Arms() []*Node {
	if n == nil || n.Kind != KindBranch {
		return nil
	}
	var arms []*Node
	for _, c := range n.Children {
		if c.Kind == KindBlock {
			arms = append(arms, c)
		}
	}
	return arms
}

// Conditions returns the non-block children of a branch node (the tested
// expressions).
func (n *Node) Conditions() []*Node {
	if n == nil || n.Kind != KindBranch {
		return nil
	}
	var conds []*Node
	for _, c := range n.Children {
		if c.Kind != KindBlock {
			conds = append(conds, c)
		}
	}
	return conds
}

// IdentName returns the identifier name if the node is a plain
// identifier, otherwise "".
func (n *Node) IdentName() string {
	if n != nil && n.Kind == KindIdent {
		return n.Text
	}
	return ""
}
