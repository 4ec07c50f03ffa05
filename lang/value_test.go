package lang

import (
	"math"
	"reflect"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Integer(-3), "-3"},
		{Real(2), "2.0"},
		{Real(0.5), "0.5"},
		{Real(math.Inf(1)), "+Inf"},
		{Boolean(true), "true"},
		{ints(1, 2, 3), "[1, 2, 3]"},
		{NewList(), "[]"},
		{intSet(3, 1, 2, 1), "{1, 2, 3}"},
		{NewSet(Real(1.5), Integer(2), Boolean(false)), "{2, 1.5, false}"},
		{NewSet(), "{}"},
		{Function{Def: &FunctionDef{Name: Token{Type: ID, Lexeme: "sq"}}}, "Function sq."},
		{ClosureValue{Lambda: &Lambda{Param: Token{Type: ID, Lexeme: "n"}}}, "Closure n."},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	def := &FunctionDef{Name: Token{Type: ID, Lexeme: "f"}}

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same integer", Integer(1), Integer(1), true},
		{"integer and real", Integer(1), Real(1), false},
		{"lists", ints(1, 2), ints(1, 2), true},
		{"list order", ints(1, 2), ints(2, 1), false},
		{"list length", ints(1), ints(1, 1), false},
		{"sets ignore order", intSet(1, 2), intSet(2, 1), true},
		{"sets differ", intSet(1, 2), intSet(1, 3), false},
		{"set kinds", NewSet(Integer(1)), NewSet(Real(1)), false},
		{"same function", Function{Def: def}, Function{Def: def}, true},
		{"different function", Function{Def: def}, Function{Def: &FunctionDef{}}, false},
		{"nil", nil, nil, true},
		{"nil and value", nil, Integer(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestListImmutable(t *testing.T) {
	elems := []Value{Integer(1), Integer(2)}
	l := NewList(elems...)
	elems[0] = Integer(9)

	if !Equal(l.At(0), Integer(1)) {
		t.Error("NewList shares its argument slice")
	}

	out := l.Elems()
	out[1] = Integer(9)

	if !Equal(l.At(1), Integer(2)) {
		t.Error("Elems exposes the backing slice")
	}

	c := l.Concat(ints(3))
	if l.Len() != 2 || c.Len() != 3 {
		t.Errorf("Concat modified its receiver: %v, %v", l, c)
	}
}

func TestSetOperationsFresh(t *testing.T) {
	a, b := intSet(1, 2), intSet(2, 3)

	u := a.Union(b)
	i := a.Intersect(b)

	if a.Len() != 2 || b.Len() != 2 {
		t.Errorf("operands modified: %v %v", a, b)
	}

	if !u.Contains(Integer(3)) || u.Len() != 3 {
		t.Errorf("Union = %v", u)
	}

	if !i.Contains(Integer(2)) || i.Len() != 1 {
		t.Errorf("Intersect = %v", i)
	}
}

func TestListElemKind(t *testing.T) {
	if _, ok := NewList().ElemKind(); ok {
		t.Error("empty list reported an element kind")
	}

	if k, ok := NewList(Real(1)).ElemKind(); !ok || k != KindReal {
		t.Errorf("ElemKind() = %v, %v", k, ok)
	}
}

func TestNative(t *testing.T) {
	tests := []struct {
		v    Value
		want any
	}{
		{Integer(3), 3},
		{Real(1.5), 1.5},
		{Boolean(true), true},
		{ints(1, 2), []any{1, 2}},
		{intSet(2, 1), []any{1, 2}},
		{nil, nil},
		{Function{Def: &FunctionDef{Name: Token{Type: ID, Lexeme: "f"}}}, "Function f."},
	}

	for _, tt := range tests {
		if got := Native(tt.v); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Native(%v) = %#v, want %#v", tt.v, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := KindSet.String(); got != "Set" {
		t.Errorf("KindSet.String() = %q", got)
	}

	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("Kind(42).String() = %q", got)
	}

	if got := KindOf(nil); got != "nil" {
		t.Errorf("KindOf(nil) = %q", got)
	}
}
