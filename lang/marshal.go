package lang

import "encoding/json"

// ToMap converts the tree rooted at node into nested maps and slices of
// strings and ints, suitable for any structured encoder. Every node map
// carries "node" (the variant name) and "line". A nil child maps to nil.
func ToMap(node Node) map[string]any {
	if isNil(node) {
		return nil
	}

	m := map[string]any{"line": node.Line()}

	switch n := node.(type) {
	case *Program:
		m["node"] = "Program"
		m["items"] = mapNodes(n.Items)

		if len(n.Comments) > 0 {
			m["comments"] = n.Comments
		}
	case *FunctionDef:
		m["node"] = "FunctionDef"
		m["name"] = n.Name.Lexeme
		m["lambda"] = ToMap(n.Lambda)
	case *Lambda:
		m["node"] = "Lambda"
		m["param"] = n.Param.Lexeme

		if n.Closure != nil {
			m["closure"] = ToMap(n.Closure)
		} else {
			m["body"] = ToMap(n.Body)
		}
	case *Closure:
		m["node"] = "Closure"
		m["self"] = n.Self.Lexeme
		m["body"] = ToMap(n.Body)
	case *Apply:
		m["node"] = "Apply"
		m["callee"] = ToMap(n.Callee)
		m["arg"] = ToMap(n.Arg)
	case *If:
		m["node"] = "If"
		m["cond"] = ToMap(n.Cond)
		m["then"] = ToMap(n.Then)
		m["else"] = ToMap(n.Else)
	case *Let:
		m["node"] = "Let"

		bindings := make([]any, 0, len(n.Bindings))
		for _, b := range n.Bindings {
			bindings = append(bindings, map[string]any{
				"name":  b.Name.Lexeme,
				"value": ToMap(b.Value),
			})
		}

		m["bindings"] = bindings
		m["body"] = ToMap(n.Body)
	case *Switch:
		m["node"] = "Switch"
		m["scrutinee"] = ToMap(n.Scrutinee)

		cases := make([]any, 0, len(n.Cases))
		for _, c := range n.Cases {
			cases = append(cases, ToMap(c))
		}

		m["cases"] = cases
		m["default"] = ToMap(n.Default)
	case *Case:
		m["node"] = "Case"
		m["guard"] = ToMap(n.Guard)
		m["branch"] = ToMap(n.Branch)
	case *BinaryOp:
		m["node"] = "BinaryOp"
		m["op"] = n.Op.Lexeme
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)
	case *RelOp:
		m["node"] = "RelOp"
		m["op"] = n.Op.Lexeme
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)
	case *UnaryOp:
		m["node"] = "UnaryOp"
		m["op"] = n.Op.Lexeme
		m["operand"] = ToMap(n.Operand)
	case *Literal:
		m["node"] = "Literal"
		m["type"] = n.Token.Type.String()
		m["value"] = n.Token.Lexeme
	case *Identifier:
		m["node"] = "Identifier"
		m["name"] = n.Name.Lexeme
	case *ListLiteral:
		m["node"] = "ListLiteral"
		m["elems"] = mapNodes(n.Elems)
	case *SetLiteral:
		m["node"] = "SetLiteral"
		m["elems"] = mapNodes(n.Elems)
	case *Head:
		m["node"] = "Head"
		m["operand"] = ToMap(n.Operand)
	case *Tail:
		m["node"] = "Tail"
		m["operand"] = ToMap(n.Operand)
	}

	return m
}

func mapNodes(nodes []Node) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ToMap(n))
	}

	return out
}

// MarshalJSON encodes the program as the tree returned by [ToMap].
func (prog *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToMap(prog))
}
