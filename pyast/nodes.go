package pyast

// Expr is an annotation or default-value expression. The set of
// implementations is closed: Name, Attribute, Subscript, BinOp, UnaryOp, Str,
// Num, Bool, NoneLit and Unsupported.
type Expr interface {
	// Kind is the grammar name of the expression, used in diagnostics.
	Kind() string
	// Source is the expression exactly as written.
	Source() string
	expr()
}

// Span is the source text and start position shared by all nodes.
type Span struct {
	Text   string
	Line   int
	Column int
}

func (s Span) Source() string { return s.Text }

// Name is a bare identifier such as `int` or `Client`.
type Name struct {
	Span
	ID string
}

// Attribute is a dotted name such as `DT.datetime` or `T.Optional`.
type Attribute struct {
	Span
	Value Expr
	Attr  string
}

// Subscript is `Value[Slices...]`, e.g. `list[int]` or `dict[str, int]`.
type Subscript struct {
	Span
	Value  Expr
	Slices []Expr
}

// BinOp is a binary expression. Only `|` is meaningful in annotations.
type BinOp struct {
	Span
	Left  Expr
	Op    string
	Right Expr
}

// UnaryOp is a prefix expression such as `-5`.
type UnaryOp struct {
	Span
	Op      string
	Operand Expr
}

// Str is a string literal. Value holds the text between the quotes, escapes
// left as written.
type Str struct {
	Span
	Prefix string
	Value  string
}

// Num is an integer or float literal.
type Num struct {
	Span
}

// Bool is `True` or `False`.
type Bool struct {
	Span
	Value bool
}

// NoneLit is `None`.
type NoneLit struct {
	Span
}

// Unsupported is any expression outside the shapes above. It keeps the
// grammar kind so callers can name it.
type Unsupported struct {
	Span
	Type string
}

func (*Name) Kind() string { return "name" }
func (*Attribute) Kind() string { return "attribute" }
func (*Subscript) Kind() string { return "subscript" }
func (*BinOp) Kind() string { return "binary_operator" }
func (*UnaryOp) Kind() string { return "unary_operator" }
func (*Str) Kind() string { return "string" }
func (*Num) Kind() string { return "number" }
func (*Bool) Kind() string { return "boolean" }
func (*NoneLit) Kind() string { return "none" }
func (e *Unsupported) Kind() string { return e.Type }

func (*Name) expr() {}
func (*Attribute) expr() {}
func (*Subscript) expr() {}
func (*BinOp) expr() {}
func (*UnaryOp) expr() {}
func (*Str) expr() {}
func (*Num) expr() {}
func (*Bool) expr() {}
func (*NoneLit) expr() {}
func (*Unsupported) expr() {}

// Stmt is a top-level or class-body statement: ClassDef, FunctionDef or
// OtherStmt.
type Stmt interface {
	stmt()
}

// Module is one parsed source unit.
type Module struct {
	Unit string
	Body []Stmt
}

// Classes returns the top-level class declarations in source order.
func (m *Module) Classes() []*ClassDef {
	var classes []*ClassDef
	for _, s := range m.Body {
		if c, ok := s.(*ClassDef); ok {
			classes = append(classes, c)
		}
	}
	return classes
}

// ClassDef is a `class` declaration.
type ClassDef struct {
	Span
	Name string
	Body []Stmt
}

// FunctionDef is a `def` or `async def` declaration.
type FunctionDef struct {
	Span
	Name  string
	Async bool
	Args  Arguments
	// Returns is nil when the return position has no annotation.
	Returns Expr
	// Doc is the cleaned docstring, empty when there is none.
	Doc    string
	HasDoc bool
}

// Arguments mirrors the parameter list of a declaration. Defaults align with
// the tail of Args: the last default belongs to the last argument.
type Arguments struct {
	Args     []*Arg
	Defaults []Expr
	VarArg   *Arg
	KwOnly   []*Arg
	KwArg    *Arg
}

// Arg is one declared parameter. Annotation is nil when untyped.
type Arg struct {
	Span
	Name       string
	Annotation Expr
}

// OtherStmt is any statement that is neither a class nor a function.
type OtherStmt struct {
	Span
	Type string
}

func (*ClassDef) stmt() {}
func (*FunctionDef) stmt() {}
func (*OtherStmt) stmt() {}
