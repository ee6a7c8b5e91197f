package typechecker

import "gureum/interpreter-go/pkg/runtime"

// Type is the static approximation of a runtime value kind. TypeUnknown
// stands for any kind and never produces a diagnostic.
type Type int

const (
	TypeUnknown Type = iota
	TypeNumber
	TypeBoolean
	TypeString
	TypeFunction
	TypeEmpty
)

// Name matches the runtime kind name so messages read the same as
// evaluation errors.
func (t Type) Name() string {
	switch t {
	case TypeNumber:
		return runtime.KindNumber.String()
	case TypeBoolean:
		return runtime.KindBoolean.String()
	case TypeString:
		return runtime.KindString.String()
	case TypeFunction:
		return runtime.KindFunction.String()
	case TypeEmpty:
		return runtime.KindEmpty.String()
	default:
		return "unknown"
	}
}

func (t Type) known() bool { return t != TypeUnknown }

// binding is what the checker knows about a name. arity is -1 unless the
// name is bound to a function literal.
type binding struct {
	typ   Type
	arity int
}

var unknownBinding = binding{typ: TypeUnknown, arity: -1}

func merge(a, b binding) binding {
	if a == b {
		return a
	}
	if a.typ == b.typ {
		return binding{typ: a.typ, arity: -1}
	}
	return unknownBinding
}
