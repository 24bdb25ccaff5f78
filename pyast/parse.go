// Package pyast parses Python declaration text into the small, closed set of
// node types the bridge generator understands.
package pyast

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ParseError reports source text that is not well-formed declaration text.
type ParseError struct {
	Unit   string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Unit, e.Line, e.Column, e.Msg)
}

// Parse parses src. unit names the source in diagnostics only.
func Parse(ctx context.Context, unit string, src []byte) (*Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrap(err, "parsing source")
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(unit, root, src)
	}

	c := converter{unit: unit, source: src}
	return c.module(root)
}

// syntaxError locates the first ERROR or missing node below n.
func syntaxError(unit string, n *sitter.Node, src []byte) *ParseError {
	bad := firstError(n)
	if bad == nil {
		bad = n
	}
	point := bad.StartPoint()
	msg := fmt.Sprintf("invalid syntax near %q", bad.Content(src))
	if bad.IsMissing() {
		msg = fmt.Sprintf("expected %q", bad.Type())
	}
	return &ParseError{
		Unit:   unit,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Msg:    msg,
	}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

// Children returns the named children of a node, skipping comments.
func Children(node *sitter.Node) []*sitter.Node {
	count := int(node.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

type converter struct {
	unit   string
	source []byte
}

func (c converter) span(n *sitter.Node) Span {
	point := n.StartPoint()
	return Span{
		Text:   n.Content(c.source),
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}

func (c converter) errorAt(n *sitter.Node, format string, args ...interface{}) *ParseError {
	point := n.StartPoint()
	return &ParseError{
		Unit:   c.unit,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (c converter) module(root *sitter.Node) (*Module, error) {
	body, err := c.statements(root)
	if err != nil {
		return nil, err
	}
	return &Module{Unit: c.unit, Body: body}, nil
}

func (c converter) statements(block *sitter.Node) ([]Stmt, error) {
	var body []Stmt
	for _, child := range Children(block) {
		stmt, err := c.statement(child)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return body, nil
}

func (c converter) statement(node *sitter.Node) (Stmt, error) {
	switch node.Type() {
	case "decorated_definition":
		// Decorators do not change what is declared.
		if def := node.ChildByFieldName("definition"); def != nil {
			return c.statement(def)
		}
	case "class_definition":
		return c.class(node)
	case "function_definition":
		return c.function(node)
	}
	return &OtherStmt{Span: c.span(node), Type: node.Type()}, nil
}

func (c converter) class(node *sitter.Node) (*ClassDef, error) {
	class := &ClassDef{
		Span: c.span(node),
		Name: node.ChildByFieldName("name").Content(c.source),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		stmts, err := c.statements(body)
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", class.Name)
		}
		class.Body = stmts
	}
	return class, nil
}

func (c converter) function(node *sitter.Node) (*FunctionDef, error) {
	fn := &FunctionDef{
		Span: c.span(node),
		Name: node.ChildByFieldName("name").Content(c.source),
	}
	if first := node.Child(0); first != nil && first.Type() == "async" {
		fn.Async = true
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		args, err := c.arguments(params)
		if err != nil {
			return nil, err
		}
		fn.Args = args
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = c.expr(ret)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		fn.Doc, fn.HasDoc = c.docstring(body)
	}
	return fn, nil
}

// arguments collects parameters the way Python's own grammar groups them:
// positional parameters with their trailing defaults, then the variadic and
// keyword-only parts.
func (c converter) arguments(params *sitter.Node) (Arguments, error) {
	var args Arguments
	keywordOnly := false

	add := func(arg *Arg, def *sitter.Node) error {
		if keywordOnly {
			args.KwOnly = append(args.KwOnly, arg)
			return nil
		}
		if def == nil {
			if len(args.Defaults) > 0 {
				return c.errorAt(params, "non-default argument %q follows default argument", arg.Name)
			}
		} else {
			args.Defaults = append(args.Defaults, c.expr(def))
		}
		args.Args = append(args.Args, arg)
		return nil
	}

	for _, p := range Children(params) {
		switch p.Type() {
		case "identifier":
			if err := add(&Arg{Span: c.span(p), Name: p.Content(c.source)}, nil); err != nil {
				return args, err
			}
		case "typed_parameter":
			inner := p.NamedChild(0)
			arg := &Arg{Span: c.span(p), Annotation: c.expr(p.ChildByFieldName("type"))}
			switch inner.Type() {
			case "list_splat_pattern":
				arg.Name = c.splatName(inner)
				args.VarArg = arg
				keywordOnly = true
				continue
			case "dictionary_splat_pattern":
				arg.Name = c.splatName(inner)
				args.KwArg = arg
				continue
			}
			arg.Name = inner.Content(c.source)
			if err := add(arg, nil); err != nil {
				return args, err
			}
		case "default_parameter", "typed_default_parameter":
			arg := &Arg{
				Span: c.span(p),
				Name: p.ChildByFieldName("name").Content(c.source),
			}
			if t := p.ChildByFieldName("type"); t != nil {
				arg.Annotation = c.expr(t)
			}
			if err := add(arg, p.ChildByFieldName("value")); err != nil {
				return args, err
			}
		case "list_splat_pattern":
			args.VarArg = &Arg{Span: c.span(p), Name: c.splatName(p)}
			keywordOnly = true
		case "dictionary_splat_pattern":
			args.KwArg = &Arg{Span: c.span(p), Name: c.splatName(p)}
		case "keyword_separator":
			keywordOnly = true
		case "positional_separator":
		default:
			return args, c.errorAt(p, "unexpected parameter %q", p.Content(c.source))
		}
	}
	return args, nil
}

func (c converter) splatName(n *sitter.Node) string {
	if id := n.NamedChild(0); id != nil {
		return id.Content(c.source)
	}
	return n.Content(c.source)
}

// expr converts an annotation or default-value node. Newer Python grammars
// wrap annotations in dedicated type nodes; both spellings are accepted.
func (c converter) expr(n *sitter.Node) Expr {
	span := c.span(n)
	switch n.Type() {
	case "type", "parenthesized_expression":
		if children := Children(n); len(children) == 1 {
			return c.expr(children[0])
		}
	case "identifier":
		return &Name{Span: span, ID: span.Text}
	case "none":
		return &NoneLit{Span: span}
	case "true", "false":
		return &Bool{Span: span, Value: n.Type() == "true"}
	case "integer", "float":
		return &Num{Span: span}
	case "string":
		return c.str(n)
	case "attribute":
		return &Attribute{
			Span:  span,
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  n.ChildByFieldName("attribute").Content(c.source),
		}
	case "member_type":
		children := Children(n)
		if len(children) == 2 {
			return &Attribute{Span: span, Value: c.expr(children[0]), Attr: children[1].Content(c.source)}
		}
	case "subscript":
		children := Children(n)
		sub := &Subscript{Span: span, Value: c.expr(children[0])}
		for _, s := range children[1:] {
			sub.Slices = append(sub.Slices, c.expr(s))
		}
		return sub
	case "generic_type":
		children := Children(n)
		if len(children) == 2 && children[1].Type() == "type_parameter" {
			sub := &Subscript{Span: span, Value: c.expr(children[0])}
			for _, s := range Children(children[1]) {
				sub.Slices = append(sub.Slices, c.expr(s))
			}
			return sub
		}
	case "binary_operator":
		return &BinOp{
			Span:  span,
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    n.ChildByFieldName("operator").Type(),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "union_type":
		children := Children(n)
		if len(children) == 2 {
			return &BinOp{Span: span, Left: c.expr(children[0]), Op: "|", Right: c.expr(children[1])}
		}
	case "unary_operator":
		return &UnaryOp{
			Span:    span,
			Op:      n.ChildByFieldName("operator").Type(),
			Operand: c.expr(n.ChildByFieldName("argument")),
		}
	}
	return &Unsupported{Span: span, Type: n.Type()}
}
