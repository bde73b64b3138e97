// Package parser adapts Python source into the normalized node model in
// pkg/ast using the tree-sitter grammar. It is the default front end for
// the CLI; any producer of *ast.Node trees can replace it.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/framelint/framelint/pkg/ast"
	"github.com/framelint/framelint/pkg/token"
)

// Parser converts Python source into *ast.Node trees.
type Parser struct {
	inner *sitter.Parser
}

// New creates a parser for the Python grammar.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{inner: p}
}

// Parse parses src and normalizes the resulting tree. Syntax errors do
// not fail the parse; unrecognized regions become opaque literal nodes
// that never trigger a rule.
func (p *Parser) Parse(ctx context.Context, src []byte) (*ast.Node, error) {
	tree, err := p.inner.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse: empty tree")
	}

	c := &converter{src: src}
	module := &ast.Node{
		Kind:     ast.KindModule,
		Span:     spanOf(root),
		Children: c.statements(root),
	}
	return module, nil
}

type converter struct {
	src []byte
}

func spanOf(n *sitter.Node) token.Span {
	return token.Span{
		Start: token.Position{
			Line:   int(n.StartPoint().Row) + 1,
			Column: int(n.StartPoint().Column) + 1,
			Offset: int(n.StartByte()),
		},
		End: token.Position{
			Line:   int(n.EndPoint().Row) + 1,
			Column: int(n.EndPoint().Column) + 1,
			Offset: int(n.EndByte()),
		},
	}
}

// statements converts the named statement children of n, flattening
// expression statements and skipping comments.
func (c *converter) statements(n *sitter.Node) []*ast.Node {
	var stmts []*ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "comment":
			continue
		case "expression_statement":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if s := c.expr(child.NamedChild(j)); s != nil {
					stmts = append(stmts, s)
				}
			}
		default:
			if s := c.statement(child); s != nil {
				stmts = append(stmts, s)
			}
		}
	}
	return stmts
}

// block converts a statement list into a KindBlock node.
func (c *converter) block(n *sitter.Node) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindBlock,
		Span:     spanOf(n),
		Children: c.statements(n),
	}
}

// emptyArm builds the implicit fall-through arm for a branch without an
// else clause (and for loop bodies that may run zero times).
func emptyArm(span token.Span) *ast.Node {
	return &ast.Node{Kind: ast.KindBlock, Span: span}
}

func (c *converter) statement(n *sitter.Node) *ast.Node {
	switch n.Type() {
	case "function_definition":
		return c.functionDef(n)
	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
			return c.functionDef(def)
		}
		return nil
	case "return_statement":
		ret := &ast.Node{Kind: ast.KindReturn, Span: spanOf(n)}
		if n.NamedChildCount() > 0 {
			if v := c.expr(n.NamedChild(0)); v != nil {
				ret.Children = append(ret.Children, v)
			}
		}
		return ret
	case "if_statement":
		return c.ifStatement(n)
	case "for_statement", "while_statement":
		return c.loop(n)
	case "with_statement":
		if body := n.ChildByFieldName("body"); body != nil {
			return c.block(body)
		}
		return nil
	case "try_statement":
		return c.tryStatement(n)
	case "class_definition", "import_statement", "import_from_statement",
		"pass_statement", "break_statement", "continue_statement",
		"global_statement", "nonlocal_statement":
		return nil
	default:
		return c.expr(n)
	}
}

func (c *converter) functionDef(n *sitter.Node) *ast.Node {
	name := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil
	}
	def := &ast.Node{
		Kind: ast.KindFunctionDef,
		Span: spanOf(n),
		Text: name.Content(c.src),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			ident := p
			switch p.Type() {
			case "identifier":
			case "typed_parameter", "default_parameter", "typed_default_parameter":
				// first named child is the parameter name
				if p.NamedChildCount() == 0 {
					continue
				}
				ident = p.NamedChild(0)
				if ident.Type() != "identifier" {
					continue
				}
			default:
				continue // *args, **kwargs, etc.
			}
			def.Children = append(def.Children, &ast.Node{
				Kind: ast.KindParameter,
				Span: spanOf(ident),
				Text: ident.Content(c.src),
			})
		}
	}
	def.Children = append(def.Children, c.block(body))
	return def
}

func (c *converter) ifStatement(n *sitter.Node) *ast.Node {
	branch := &ast.Node{Kind: ast.KindBranch, Span: spanOf(n), Text: "if"}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		if e := c.expr(cond); e != nil {
			branch.Children = append(branch.Children, e)
		}
	}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		branch.Children = append(branch.Children, c.block(cons))
	}

	hasElse := false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		alt := n.NamedChild(i)
		switch alt.Type() {
		case "elif_clause":
			if cond := alt.ChildByFieldName("condition"); cond != nil {
				if e := c.expr(cond); e != nil {
					branch.Children = append(branch.Children, e)
				}
			}
			if cons := alt.ChildByFieldName("consequence"); cons != nil {
				branch.Children = append(branch.Children, c.block(cons))
			}
		case "else_clause":
			hasElse = true
			if body := alt.ChildByFieldName("body"); body != nil {
				branch.Children = append(branch.Children, c.block(body))
			}
		}
	}
	if !hasElse {
		branch.Children = append(branch.Children, emptyArm(spanOf(n)))
	}
	return branch
}

// loop converts for/while into a branch between the body and the
// zero-iteration path.
func (c *converter) loop(n *sitter.Node) *ast.Node {
	branch := &ast.Node{Kind: ast.KindBranch, Span: spanOf(n), Text: n.Type()}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		if e := c.expr(cond); e != nil {
			branch.Children = append(branch.Children, e)
		}
	}
	if right := n.ChildByFieldName("right"); right != nil {
		if e := c.expr(right); e != nil {
			branch.Children = append(branch.Children, e)
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		branch.Children = append(branch.Children, c.block(body))
	}
	branch.Children = append(branch.Children, emptyArm(spanOf(n)))
	return branch
}

// tryStatement treats the try body and each handler as divergent arms so
// facts established only under the happy path do not survive the merge.
func (c *converter) tryStatement(n *sitter.Node) *ast.Node {
	branch := &ast.Node{Kind: ast.KindBranch, Span: spanOf(n), Text: "try"}
	if body := n.ChildByFieldName("body"); body != nil {
		branch.Children = append(branch.Children, c.block(body))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "except_clause", "finally_clause", "else_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if child.NamedChild(j).Type() == "block" {
					branch.Children = append(branch.Children, c.block(child.NamedChild(j)))
				}
			}
		}
	}
	if len(branch.Arms()) == 0 {
		branch.Children = append(branch.Children, emptyArm(spanOf(n)))
	}
	return branch
}

func (c *converter) expr(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment":
		return nil
	case "assignment", "augmented_assignment":
		return c.assignment(n)
	case "call":
		return c.call(n)
	case "attribute":
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return c.opaque(n)
		}
		recv := c.expr(obj)
		if recv == nil {
			return c.opaque(n)
		}
		return &ast.Node{
			Kind:     ast.KindAttribute,
			Span:     spanOf(n),
			Text:     attr.Content(c.src),
			Children: []*ast.Node{recv},
		}
	case "subscript":
		value := n.ChildByFieldName("value")
		index := n.ChildByFieldName("subscript")
		if value == nil || index == nil {
			return c.opaque(n)
		}
		recv := c.expr(value)
		idx := c.expr(index)
		if recv == nil || idx == nil {
			return c.opaque(n)
		}
		return &ast.Node{
			Kind:     ast.KindSubscript,
			Span:     spanOf(n),
			Children: []*ast.Node{recv, idx},
		}
	case "comparison_operator":
		return c.comparison(n)
	case "binary_operator", "boolean_operator", "unary_operator",
		"not_operator", "conditional_expression":
		return c.container(n)
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return c.expr(n.NamedChild(0))
		}
		return c.opaque(n)
	case "identifier":
		return &ast.Node{Kind: ast.KindIdent, Span: spanOf(n), Text: n.Content(c.src)}
	case "string", "integer", "float", "true", "false", "none", "list":
		return &ast.Node{Kind: ast.KindLiteral, Span: spanOf(n), Text: n.Content(c.src)}
	default:
		return c.opaque(n)
	}
}

// opaque folds an unrecognized expression into a literal leaf. The
// dataflow tracker classifies it as Unknown, so it can never fire a rule.
func (c *converter) opaque(n *sitter.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindLiteral, Span: spanOf(n)}
}

// container keeps the operands of a compound expression visible to the
// traversal while the expression itself stays unclassified. Attribute
// and subscript uses inside arithmetic still reach the rules this way.
func (c *converter) container(n *sitter.Node) *ast.Node {
	node := c.opaque(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if e := c.expr(n.NamedChild(i)); e != nil {
			node.Children = append(node.Children, e)
		}
	}
	return node
}

func (c *converter) assignment(n *sitter.Node) *ast.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		return c.opaque(n)
	}
	target := c.expr(left)
	value := c.expr(right)
	if target == nil || value == nil {
		return c.opaque(n)
	}
	return &ast.Node{
		Kind:     ast.KindAssign,
		Span:     spanOf(n),
		Children: []*ast.Node{target, value},
	}
}

func (c *converter) call(n *sitter.Node) *ast.Node {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return c.opaque(n)
	}
	callee := c.expr(fn)
	if callee == nil {
		return c.opaque(n)
	}
	call := &ast.Node{
		Kind:     ast.KindCall,
		Span:     spanOf(n),
		Children: []*ast.Node{callee},
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "keyword_argument" {
				name := arg.ChildByFieldName("name")
				value := arg.ChildByFieldName("value")
				if name == nil || value == nil {
					continue
				}
				v := c.expr(value)
				if v == nil {
					v = c.opaque(value)
				}
				call.Children = append(call.Children, &ast.Node{
					Kind:     ast.KindKeyword,
					Span:     spanOf(arg),
					Text:     name.Content(c.src),
					Children: []*ast.Node{v},
				})
				continue
			}
			if v := c.expr(arg); v != nil {
				call.Children = append(call.Children, v)
			}
		}
	}
	return call
}

func (c *converter) comparison(n *sitter.Node) *ast.Node {
	if n.NamedChildCount() < 2 {
		return c.opaque(n)
	}
	left := c.expr(n.NamedChild(0))
	right := c.expr(n.NamedChild(1))
	if left == nil || right == nil {
		return c.opaque(n)
	}
	op := ""
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); !child.IsNamed() {
			op = child.Type()
			break
		}
	}
	return &ast.Node{
		Kind:     ast.KindCompare,
		Span:     spanOf(n),
		Text:     op,
		Children: []*ast.Node{left, right},
	}
}
