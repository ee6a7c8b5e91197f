package typechecker

// Environment is a static scope. Branch arms share the enclosing scope, as
// they do at run time. Function bodies get a fresh one.
type Environment struct {
	symbols map[string]binding
}

// NewEnvironment creates an empty scope.
func NewEnvironment() *Environment {
	return &Environment{symbols: make(map[string]binding)}
}

func (e *Environment) define(name string, b binding) {
	e.symbols[name] = b
}

func (e *Environment) lookup(name string) (binding, bool) {
	b, ok := e.symbols[name]
	return b, ok
}

// fork copies the symbols so a branch arm can be checked without
// committing its bindings.
func (e *Environment) fork() *Environment {
	copied := NewEnvironment()
	for name, b := range e.symbols {
		copied.symbols[name] = b
	}
	return copied
}

// join replaces e's symbols with the merge of two arm outcomes. A name
// bound by only one arm becomes unknown, since it may be missing at run time
// but is never reported as unbound.
func (e *Environment) join(a, b *Environment) {
	merged := make(map[string]binding, len(a.symbols))
	for name, ab := range a.symbols {
		if bb, ok := b.symbols[name]; ok {
			merged[name] = merge(ab, bb)
		} else {
			merged[name] = unknownBinding
		}
	}
	for name := range b.symbols {
		if _, ok := a.symbols[name]; !ok {
			merged[name] = unknownBinding
		}
	}
	e.symbols = merged
}
