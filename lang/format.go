package lang

import (
	"fmt"
	"io"
	"strings"
)

// Format renders node as canonical source text that parses back to an
// equivalent tree. Operands are parenthesized only where the grammar
// requires it. Missing children of a malformed tree render as "?".
func Format(node Node) string {
	var b strings.Builder

	writeNode(&b, node)

	return b.String()
}

// precedence returns the binding level of a binary operator, higher binding
// tighter, or 0 for tokens that are not binary operators.
func precedence(t TokenType) int {
	switch t {
	case AND, OR:
		return 1
	case LT, LTE, GT, GTE, EQ, NEQ:
		return 2
	case ADD, SUB:
		return 3
	case MULT, DIV, CONCAT, UNION, INTERSECT:
		return 4
	default:
		return 0
	}
}

func isFactor(n Node) bool {
	switch n.(type) {
	case *Literal, *Identifier, *ListLiteral, *SetLiteral, *Head, *Tail:
		return true
	default:
		return false
	}
}

// operator returns the operator token of a binary or relational node.
func operator(n Node) (Token, bool) {
	switch v := n.(type) {
	case *BinaryOp:
		if v != nil {
			return v.Op, true
		}
	case *RelOp:
		if v != nil {
			return v.Op, true
		}
	}

	return Token{}, false
}

// writeOperand writes an operand of an operator with precedence level.
// Left operands may share the level of a left-associative parent; right
// operands must bind tighter. Relational operators do not chain.
func writeOperand(b *strings.Builder, n Node, level int, left bool) {
	if isNil(n) || isFactor(n) {
		writeNode(b, n)

		return
	}

	if op, ok := operator(n); ok {
		child := precedence(op.Type)
		if child > level || (left && child == level && level != 2) {
			writeNode(b, n)

			return
		}
	}

	b.WriteByte('(')
	writeNode(b, n)
	b.WriteByte(')')
}

// writeFactor writes n where the grammar requires a factor.
func writeFactor(b *strings.Builder, n Node) {
	if isNil(n) || isFactor(n) {
		writeNode(b, n)

		return
	}

	b.WriteByte('(')
	writeNode(b, n)
	b.WriteByte(')')
}

func writeLambda(b *strings.Builder, lam *Lambda) {
	if lam == nil {
		b.WriteByte('?')

		return
	}

	b.WriteString(lam.Param.Lexeme)
	b.WriteString(" ~ ")

	if lam.Closure != nil {
		writeNode(b, lam.Closure)

		return
	}

	writeNode(b, lam.Body)
}

func writeElems(b *strings.Builder, elems []Node) {
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}

		writeNode(b, e)
	}
}

//nolint:cyclop,funlen
func writeNode(b *strings.Builder, node Node) {
	if isNil(node) {
		b.WriteByte('?')

		return
	}

	switch n := node.(type) {
	case *Program:
		for _, c := range n.Comments {
			fmt.Fprintf(b, "; %s ;\n", c)
		}

		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte('\n')
			}

			writeNode(b, item)
		}

	case *FunctionDef:
		b.WriteString("fun ")
		b.WriteString(n.Name.Lexeme)
		b.WriteByte(' ')
		writeLambda(b, n.Lambda)

	case *Lambda:
		writeLambda(b, n)

	case *Closure:
		b.WriteString(n.Self.Lexeme)
		b.WriteString(" ~ ")
		writeNode(b, n.Body)

	case *Apply:
		b.WriteString("apply ")

		if lam, ok := n.Callee.(*Lambda); ok {
			b.WriteByte('(')
			writeLambda(b, lam)
			b.WriteByte(')')
		} else {
			writeNode(b, n.Callee)
		}

		b.WriteByte(' ')
		writeNode(b, n.Arg)

	case *If:
		b.WriteString("if ")
		writeNode(b, n.Cond)
		b.WriteString(" then ")
		writeNode(b, n.Then)
		b.WriteString(" else ")
		writeNode(b, n.Else)

	case *Let:
		b.WriteString("let ")

		for _, bind := range n.Bindings {
			b.WriteString(bind.Name.Lexeme)
			b.WriteString(" := ")
			writeNode(b, bind.Value)
			b.WriteByte(' ')
		}

		b.WriteString("in ")
		writeNode(b, n.Body)

	case *Switch:
		b.WriteString("switch (")
		writeNode(b, n.Scrutinee)
		b.WriteByte(')')

		for _, c := range n.Cases {
			b.WriteByte(' ')
			writeNode(b, c)
		}

		b.WriteString(" default ")
		writeNode(b, n.Default)

	case *Case:
		b.WriteString("case (")
		writeNode(b, n.Guard)
		b.WriteString(") ")
		writeNode(b, n.Branch)

	case *BinaryOp:
		level := precedence(n.Op.Type)
		writeOperand(b, n.Left, level, true)
		b.WriteByte(' ')
		b.WriteString(n.Op.Lexeme)
		b.WriteByte(' ')
		writeOperand(b, n.Right, level, false)

	case *RelOp:
		writeOperand(b, n.Left, 2, true)
		b.WriteByte(' ')
		b.WriteString(n.Op.Lexeme)
		b.WriteByte(' ')
		writeOperand(b, n.Right, 2, false)

	case *UnaryOp:
		b.WriteString("not ")
		writeOperand(b, n.Operand, 1, false)

	case *Literal:
		b.WriteString(n.Token.Lexeme)

	case *Identifier:
		b.WriteString(n.Name.Lexeme)

	case *ListLiteral:
		b.WriteString("list(")
		writeElems(b, n.Elems)
		b.WriteByte(')')

	case *SetLiteral:
		b.WriteString("set[")
		writeElems(b, n.Elems)
		b.WriteByte(']')

	case *Head:
		b.WriteString("hd ")
		writeFactor(b, n.Operand)

	case *Tail:
		b.WriteString("tl ")
		writeFactor(b, n.Operand)
	}
}

// Dump writes an indented outline of the tree rooted at node to w, one node
// per line with its source line.
func Dump(w io.Writer, node Node) error {
	var b strings.Builder

	dumpNode(&b, "", node, 0)

	_, err := io.WriteString(w, b.String())

	return err
}

func dumpNode(b *strings.Builder, label string, node Node, depth int) {
	indent := strings.Repeat("  ", depth)

	b.WriteString(indent)

	if label != "" {
		b.WriteString(label)
		b.WriteString(": ")
	}

	if isNil(node) {
		b.WriteString("<nil>\n")

		return
	}

	m := ToMap(node)

	b.WriteString(m["node"].(string))

	for _, key := range []string{"name", "param", "self", "op", "type", "value"} {
		if v, ok := m[key]; ok {
			fmt.Fprintf(b, " %s=%v", key, v)
		}
	}

	fmt.Fprintf(b, " (line %d)\n", node.Line())

	child := func(label string, n Node) { dumpNode(b, label, n, depth+1) }

	switch n := node.(type) {
	case *Program:
		for _, c := range n.Comments {
			fmt.Fprintf(b, "%s  comment: %q\n", indent, c)
		}

		for _, item := range n.Items {
			child("", item)
		}
	case *FunctionDef:
		if n.Lambda != nil {
			child("lambda", n.Lambda)
		}
	case *Lambda:
		if n.Closure != nil {
			child("closure", n.Closure)
		} else {
			child("body", n.Body)
		}
	case *Closure:
		child("body", n.Body)
	case *Apply:
		child("callee", n.Callee)
		child("arg", n.Arg)
	case *If:
		child("cond", n.Cond)
		child("then", n.Then)
		child("else", n.Else)
	case *Let:
		for _, bind := range n.Bindings {
			child(bind.Name.Lexeme, bind.Value)
		}

		child("body", n.Body)
	case *Switch:
		child("scrutinee", n.Scrutinee)

		for _, c := range n.Cases {
			child("", c)
		}

		child("default", n.Default)
	case *Case:
		child("guard", n.Guard)
		child("branch", n.Branch)
	case *BinaryOp:
		child("left", n.Left)
		child("right", n.Right)
	case *RelOp:
		child("left", n.Left)
		child("right", n.Right)
	case *UnaryOp:
		child("operand", n.Operand)
	case *ListLiteral:
		for _, e := range n.Elems {
			child("", e)
		}
	case *SetLiteral:
		for _, e := range n.Elems {
			child("", e)
		}
	case *Head:
		child("operand", n.Operand)
	case *Tail:
		child("operand", n.Operand)
	}
}
