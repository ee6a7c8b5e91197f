package runtime

import (
	"fmt"

	"gureum/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindBoolean
	KindString
	KindEmpty
	KindFunction
	KindUndefined
	KindReturn
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindEmpty:
		return "empty"
	case KindFunction:
		return "function"
	case KindUndefined:
		return "undefined"
	case KindReturn:
		return "return"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Display tokens of the language's own vocabulary.
const (
	TrueDisplay      = "참"
	FalseDisplay     = "거짓"
	EmptyDisplay     = "(없음)"
	FunctionDisplay  = "(함수)"
	UndefinedDisplay = "(정의되지 않음)"
)

// Value is the shared behaviour for all runtime values. Values are never
// mutated; operations build new ones. Range is the source text that
// produced the value.
type Value interface {
	Kind() Kind
	Display() string
	Range() ast.Range
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
	Loc ast.Range
}

func NewNumber(val float64, rng ast.Range) NumberValue { return NumberValue{Val: val, Loc: rng} }

func (v NumberValue) Kind() Kind       { return KindNumber }
func (v NumberValue) Display() string  { return FormatNumber(v.Val) }
func (v NumberValue) Range() ast.Range { return v.Loc }

type BooleanValue struct {
	Val bool
	Loc ast.Range
}

func NewBoolean(val bool, rng ast.Range) BooleanValue { return BooleanValue{Val: val, Loc: rng} }

func (v BooleanValue) Kind() Kind       { return KindBoolean }
func (v BooleanValue) Range() ast.Range { return v.Loc }

func (v BooleanValue) Display() string {
	if v.Val {
		return TrueDisplay
	}
	return FalseDisplay
}

type StringValue struct {
	Val string
	Loc ast.Range
}

func NewString(val string, rng ast.Range) StringValue { return StringValue{Val: val, Loc: rng} }

func (v StringValue) Kind() Kind       { return KindString }
func (v StringValue) Display() string  { return v.Val }
func (v StringValue) Range() ast.Range { return v.Loc }

// EmptyValue is the value of empty programs, empty blocks and branches
// that take no arm.
type EmptyValue struct {
	Loc ast.Range
}

func NewEmpty(rng ast.Range) EmptyValue { return EmptyValue{Loc: rng} }

func (v EmptyValue) Kind() Kind       { return KindEmpty }
func (v EmptyValue) Display() string  { return EmptyDisplay }
func (v EmptyValue) Range() ast.Range { return v.Loc }

// UndefinedValue fills parameters that received no argument when the
// interpreter runs with lenient arity.
type UndefinedValue struct {
	Loc ast.Range
}

func (v UndefinedValue) Kind() Kind       { return KindUndefined }
func (v UndefinedValue) Display() string  { return UndefinedDisplay }
func (v UndefinedValue) Range() ast.Range { return v.Loc }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a closure. Closure keeps the defining scope chain alive
// for as long as the function is reachable.
type FunctionValue struct {
	Parameters []*ast.Identifier
	Body       *ast.Block
	Closure    *Environment
	Loc        ast.Range
}

func NewFunction(decl *ast.FunctionLiteral, closure *Environment) *FunctionValue {
	return &FunctionValue{
		Parameters: decl.Parameters,
		Body:       decl.Body,
		Closure:    closure,
		Loc:        decl.Range(),
	}
}

func (v *FunctionValue) Kind() Kind       { return KindFunction }
func (v *FunctionValue) Display() string  { return FunctionDisplay }
func (v *FunctionValue) Range() ast.Range { return v.Loc }

//-----------------------------------------------------------------------------
// Control flow
//-----------------------------------------------------------------------------

// ReturnValue carries a function result out of nested blocks. The
// interpreter unwraps it at the call boundary and rejects it at the program
// boundary, so it is never handed to callers.
type ReturnValue struct {
	Value Value
	Loc   ast.Range
}

func (v ReturnValue) Kind() Kind       { return KindReturn }
func (v ReturnValue) Display() string  { return v.Value.Display() }
func (v ReturnValue) Range() ast.Range { return v.Loc }

// Equal reports whether a and b have the same kind and payload. Functions
// compare by identity and NaN is unequal to itself. Ranges are ignored.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case BooleanValue:
		return av.Val == b.(BooleanValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case EmptyValue, UndefinedValue:
		return true
	case *FunctionValue:
		return av == b.(*FunctionValue)
	case ReturnValue:
		return Equal(av.Value, b.(ReturnValue).Value)
	default:
		return false
	}
}
