package lang

import (
	"iter"
	"maps"
	"slices"
)

// Environment maps identifiers to values.
//
// Scopes are formed by [Environment.Snapshot]: a construct that introduces
// bindings works on a snapshot and discards it on exit, so the caller's
// environment is never observed to change. Function definitions at program
// level are the only bindings made directly in a caller's environment.
type Environment struct {
	vars map[string]Value
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// Lookup returns the value bound to name.
func (e *Environment) Lookup(name string) (Value, bool) {
	if e == nil {
		return nil, false
	}

	v, ok := e.vars[name]

	return v, ok
}

// Bind binds name to v, replacing any existing binding.
func (e *Environment) Bind(name string, v Value) {
	if e.vars == nil {
		e.vars = make(map[string]Value)
	}

	e.vars[name] = v
}

// Snapshot returns an independent copy of e. Bindings made in either copy
// are not visible in the other.
func (e *Environment) Snapshot() *Environment {
	if e == nil || e.vars == nil {
		return NewEnvironment()
	}

	return &Environment{vars: maps.Clone(e.vars)}
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}

	return len(e.vars)
}

// Names returns the bound identifiers in sorted order.
func (e *Environment) Names() iter.Seq[string] {
	if e == nil {
		return slices.Values([]string(nil))
	}

	return slices.Values(slices.Sorted(maps.Keys(e.vars)))
}
