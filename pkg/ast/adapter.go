package ast

import (
	"fmt"

	"github.com/framelint/framelint/pkg/token"
)

// AdapterError reports a malformed node in an externally supplied tree.
// It is fatal for the file being analyzed and is never retried.
type AdapterError struct {
	Pos     token.Position
	Message string
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Validate checks that every node in the tree satisfies the adapter
// contract: a known kind, a valid span, and the arity its kind requires.
// It returns the first violation as an *AdapterError.
func Validate(root *Node) error {
	if root == nil {
		return &AdapterError{Message: "nil root node"}
	}
	if root.Kind != KindModule {
		return &AdapterError{Pos: root.Span.Start, Message: fmt.Sprintf("root node is %s, expected module", root.Kind)}
	}
	return validateNode(root)
}

func validateNode(n *Node) error {
	if n == nil {
		return &AdapterError{Message: "nil child node"}
	}
	if n.Kind <= KindInvalid || n.Kind > KindLiteral {
		return &AdapterError{Pos: n.Span.Start, Message: "unknown node kind"}
	}
	if !n.Span.IsValid() {
		return &AdapterError{Pos: n.Span.Start, Message: fmt.Sprintf("%s node has no source span", n.Kind)}
	}

	if err := validateArity(n); err != nil {
		return err
	}

	for _, c := range n.Children {
		if err := validateNode(c); err != nil {
			return err
		}
	}
	return nil
}

func validateArity(n *Node) error {
	bad := func(msg string) error {
		return &AdapterError{Pos: n.Span.Start, Message: msg}
	}
	switch n.Kind {
	case KindAssign:
		if len(n.Children) != 2 {
			return bad("assign node requires target and value")
		}
	case KindSubscript:
		if len(n.Children) != 2 {
			return bad("subscript node requires receiver and index")
		}
	case KindAttribute:
		if len(n.Children) != 1 || n.Text == "" {
			return bad("attribute node requires receiver and name")
		}
	case KindCompare:
		if len(n.Children) != 2 {
			return bad("compare node requires two operands")
		}
	case KindCall:
		if len(n.Children) < 1 {
			return bad("call node requires a callee")
		}
	case KindKeyword:
		if len(n.Children) != 1 || n.Text == "" {
			return bad("keyword node requires name and value")
		}
	case KindReturn:
		if len(n.Children) > 1 {
			return bad("return node carries at most one value")
		}
	case KindFunctionDef:
		if n.Text == "" || n.Body() == nil {
			return bad("funcdef node requires name and body block")
		}
	case KindParameter, KindIdent:
		if n.Text == "" {
			return bad(n.Kind.String() + " node requires a name")
		}
	case KindBranch:
		if len(n.Arms()) == 0 {
			return bad("branch node requires at least one arm")
		}
	}
	return nil
}

// Walk traverses the tree pre-order and calls fn for each node. If fn
// returns false the node's children are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
