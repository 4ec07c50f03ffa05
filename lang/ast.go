package lang

// Node is a syntax tree node. The set of implementations is closed; the
// evaluator, formatter and marshaler switch over it exhaustively.
//
// A tree produced by a parse that reported diagnostics may contain nil
// children. Evaluating such a tree yields [ErrMalformed].
type Node interface {
	// Line returns the source line on which the node began.
	Line() int

	node()
}

// pos is embedded by every node to record its starting line.
type pos struct{ line int }

func (p pos) Line() int { return p.line }
func (pos) node()       {}

// Program is the root of a parsed source: a sequence of top-level items.
type Program struct {
	pos

	Items    []Node
	Comments []string
}

// FunctionDef binds Name to Lambda in the program environment.
type FunctionDef struct {
	pos

	Name   Token
	Lambda *Lambda
}

// Lambda is a one-parameter function. Exactly one of Body and Closure is
// set in a well-formed tree. Param is bound to the argument; in
// "x ~ self ~ body" the second name, self, is bound to the lambda itself.
type Lambda struct {
	pos

	Param   Token
	Body    Node
	Closure *Closure
}

// Closure is the self-binding part of a lambda written "x ~ self ~ body".
// While Body evaluates, Self is bound to the enclosing lambda over the
// environment captured on entry.
type Closure struct {
	pos

	Self Token
	Body Node
}

// Apply calls Callee, an [*Identifier] or an inline [*Lambda], with Arg.
type Apply struct {
	pos

	Callee Node
	Arg    Node
}

// If selects Then or Else by the Boolean value of Cond.
type If struct {
	pos

	Cond Node
	Then Node
	Else Node
}

// Binding is one "name := value" pair of a [Let].
type Binding struct {
	Name  Token
	Value Node
}

// Let evaluates Body with Bindings installed. Bindings holds one entry for
// the single form and several, in declaration order, for the multi form.
type Let struct {
	pos

	Bindings []Binding
	Body     Node
}

// Multi reports whether l uses the multi-binding form.
func (l *Let) Multi() bool { return len(l.Bindings) > 1 }

// Switch selects the first case whose guard equals Scrutinee, else Default.
type Switch struct {
	pos

	Scrutinee Node
	Cases     []*Case
	Default   Node
}

// Case is a guarded branch of a [Switch]. Guard is a single literal or
// identifier.
type Case struct {
	pos

	Guard  Node
	Branch Node
}

// BinaryOp applies an arithmetic, Boolean, list or set operator.
type BinaryOp struct {
	pos

	Left  Node
	Op    Token
	Right Node
}

// RelOp applies a relational operator.
type RelOp struct {
	pos

	Left  Node
	Op    Token
	Right Node
}

// UnaryOp applies NOT to Operand.
type UnaryOp struct {
	pos

	Op      Token
	Operand Node
}

// Literal is an INT, REAL, TRUE or FALSE token.
type Literal struct {
	pos

	Token Token
}

// Identifier is a reference to a bound name.
type Identifier struct {
	pos

	Name Token
}

// ListLiteral is "list(e, ...)".
type ListLiteral struct {
	pos

	Elems []Node
}

// SetLiteral is "set[e, ...]".
type SetLiteral struct {
	pos

	Elems []Node
}

// Head is "hd e": the first element of a list.
type Head struct {
	pos

	Operand Node
}

// Tail is "tl e": all but the first element of a list.
type Tail struct {
	pos

	Operand Node
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Program:
		return v == nil
	case *FunctionDef:
		return v == nil
	case *Lambda:
		return v == nil
	case *Closure:
		return v == nil
	case *Apply:
		return v == nil
	case *If:
		return v == nil
	case *Let:
		return v == nil
	case *Switch:
		return v == nil
	case *Case:
		return v == nil
	case *BinaryOp:
		return v == nil
	case *RelOp:
		return v == nil
	case *UnaryOp:
		return v == nil
	case *Literal:
		return v == nil
	case *Identifier:
		return v == nil
	case *ListLiteral:
		return v == nil
	case *SetLiteral:
		return v == nil
	case *Head:
		return v == nil
	case *Tail:
		return v == nil
	default:
		return false
	}
}
