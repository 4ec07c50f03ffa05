package lang

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant of a [Value].
type Kind int

// Value kinds.
const (
	KindInteger Kind = iota
	KindReal
	KindBoolean
	KindList
	KindSet
	KindFunction
	KindClosure
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindBoolean:
		return "Boolean"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindFunction:
		return "Function"
	case KindClosure:
		return "Closure"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsNumeric reports whether k is [KindInteger] or [KindReal].
func (k Kind) IsNumeric() bool { return k == KindInteger || k == KindReal }

// Value is a runtime value. The set of implementations is closed.
// Values are immutable.
type Value interface {
	Kind() Kind
	String() string

	// key returns a canonical encoding used for set membership.
	key() string
}

// KindOf returns the kind name of v, or "nil".
func KindOf(v Value) string {
	if v == nil {
		return "nil"
	}

	return v.Kind().String()
}

type (
	// Integer is a 64-bit signed integer.
	Integer int64

	// Real is a 64-bit floating point number.
	Real float64

	// Boolean is a truth value.
	Boolean bool
)

func (Integer) Kind() Kind       { return KindInteger }
func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Integer) key() string    { return "i" + v.String() }

func (Real) Kind() Kind { return KindReal }

// String renders v so that it reads back as a REAL literal.
func (v Real) String() string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}

	return s
}

func (v Real) key() string { return "r" + strconv.FormatFloat(float64(v), 'g', -1, 64) }

func (Boolean) Kind() Kind       { return KindBoolean }
func (v Boolean) String() string { return strconv.FormatBool(bool(v)) }
func (v Boolean) key() string    { return "b" + v.String() }

// List is an ordered sequence of values.
type List struct {
	elems []Value
}

// NewList returns a list of elems. The slice is copied.
func NewList(elems ...Value) List { return List{elems: slices.Clone(elems)} }

func (List) Kind() Kind { return KindList }

// String renders the list as [e1, e2, ...].
func (v List) String() string { return "[" + join(v.elems) + "]" }

func (v List) key() string {
	keys := make([]string, len(v.elems))
	for i, e := range v.elems {
		keys[i] = e.key()
	}

	return "l[" + strings.Join(keys, ",") + "]"
}

// Len returns the number of elements.
func (v List) Len() int { return len(v.elems) }

// At returns the element at index i.
func (v List) At(i int) Value { return v.elems[i] }

// Elems returns a copy of the elements.
func (v List) Elems() []Value { return slices.Clone(v.elems) }

// ElemKind returns the kind of the first element, which fixes the kind of
// every element. ok is false for an empty list.
func (v List) ElemKind() (kind Kind, ok bool) {
	if len(v.elems) == 0 {
		return 0, false
	}

	return v.elems[0].Kind(), true
}

// Concat returns a new list holding the elements of v followed by those of o.
func (v List) Concat(o List) List {
	return List{elems: slices.Concat(v.elems, o.elems)}
}

// Set is an unordered collection of distinct values.
type Set struct {
	items map[string]Value
}

// NewSet returns a set of elems with duplicates removed.
func NewSet(elems ...Value) Set {
	s := Set{items: make(map[string]Value, len(elems))}
	for _, e := range elems {
		s.items[e.key()] = e
	}

	return s
}

func (Set) Kind() Kind { return KindSet }

// String renders the set as {e1, e2, ...} in sorted order.
func (v Set) String() string { return "{" + join(v.Elems()) + "}" }

func (v Set) key() string {
	keys := slices.Sorted(maps.Keys(v.items))

	return "s{" + strings.Join(keys, ",") + "}"
}

// Len returns the number of elements.
func (v Set) Len() int { return len(v.items) }

// Contains reports whether e is an element of v.
func (v Set) Contains(e Value) bool {
	_, ok := v.items[e.key()]

	return ok
}

// Elems returns the elements in sorted order (see [Compare]).
func (v Set) Elems() []Value {
	elems := slices.Collect(maps.Values(v.items))
	slices.SortFunc(elems, Compare)

	return elems
}

// Union returns a new set of the elements in v or o.
func (v Set) Union(o Set) Set {
	items := maps.Clone(v.items)
	if items == nil {
		items = make(map[string]Value, len(o.items))
	}

	maps.Copy(items, o.items)

	return Set{items: items}
}

// Intersect returns a new set of the elements in both v and o.
func (v Set) Intersect(o Set) Set {
	items := make(map[string]Value)

	for k, e := range v.items {
		if _, ok := o.items[k]; ok {
			items[k] = e
		}
	}

	return Set{items: items}
}

// Function is a named function definition bound in an environment.
type Function struct {
	Def *FunctionDef
}

func (Function) Kind() Kind { return KindFunction }

// String returns the descriptive label "Function <name>.".
func (v Function) String() string { return "Function " + v.name() + "." }

func (v Function) key() string { return "f" + v.name() }

func (v Function) name() string {
	if v.Def == nil {
		return ""
	}

	return v.Def.Name.Lexeme
}

// ClosureValue is a closure-bearing lambda together with the environment
// captured when it was entered.
type ClosureValue struct {
	Lambda *Lambda
	Env    *Environment
}

func (ClosureValue) Kind() Kind { return KindClosure }

// String returns the descriptive label "Closure <param>.".
func (v ClosureValue) String() string { return "Closure " + v.param() + "." }

func (v ClosureValue) key() string { return "c" + v.param() }

func (v ClosureValue) param() string {
	if v.Lambda == nil {
		return ""
	}

	return v.Lambda.Param.Lexeme
}

// Equal reports whether a and b are the same kind and structurally equal.
// Functions and closures are equal only to themselves.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case Integer, Real, Boolean:
		return a == b
	case List:
		bv, ok := b.(List)

		return ok && slices.EqualFunc(av.elems, bv.elems, Equal)
	case Set:
		bv, ok := b.(Set)
		if !ok || len(av.items) != len(bv.items) {
			return false
		}

		for k := range av.items {
			if _, ok := bv.items[k]; !ok {
				return false
			}
		}

		return true
	case Function:
		bv, ok := b.(Function)

		return ok && av.Def == bv.Def
	case ClosureValue:
		bv, ok := b.(ClosureValue)

		return ok && av.Lambda == bv.Lambda && av.Env == bv.Env
	default:
		return false
	}
}

// Compare orders values first by kind, then numerically for numbers,
// false before true for Booleans, and by canonical encoding otherwise.
func Compare(a, b Value) int {
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}

	switch av := a.(type) {
	case Integer:
		return cmp.Compare(av, b.(Integer))
	case Real:
		return cmp.Compare(av, b.(Real))
	case Boolean:
		switch bv := b.(Boolean); {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(a.key(), b.key())
	}
}

func join(elems []Value) string {
	strs := make([]string, len(elems))
	for i, e := range elems {
		strs[i] = e.String()
	}

	return strings.Join(strs, ", ")
}

// Native converts v to plain Go values: int for Integer, float64 for Real,
// bool for Boolean, []any for List and Set (sets in sorted order), and the
// descriptive label for functions and closures.
func Native(v Value) any {
	switch v := v.(type) {
	case Integer:
		return int(v)
	case Real:
		return float64(v)
	case Boolean:
		return bool(v)
	case List:
		return natives(v.elems)
	case Set:
		return natives(v.Elems())
	case nil:
		return nil
	default:
		return v.String()
	}
}

func natives(elems []Value) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = Native(e)
	}

	return out
}
