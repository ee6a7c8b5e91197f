package runtime

import "sort"

// Environment is one lexical scope. Scopes form a chain through parent;
// closures hold the scope they were defined in.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil for a root scope).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Get retrieves a binding, searching outward through the scope chain. The
// boolean is false when no scope binds name.
func (e *Environment) Get(name string) (Value, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if v, ok := scope.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name in this scope only, shadowing any ancestor binding.
// Ancestor scopes are never written.
func (e *Environment) Set(name string, value Value) {
	e.values[name] = value
}

// Has reports whether name is bound in this scope, ignoring ancestors.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Extend returns a fresh child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Snapshot returns a copy of the bindings of this scope.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Keys returns the local binding names in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
