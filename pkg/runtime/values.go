package runtime

import (
	"fmt"
	"io"

	"linger/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInteger
	KindString
	KindSequence
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "builtin"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NilValue is the unit value produced by statements that yield nothing.
type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a user procedure or lambda paired with the environment it
// was defined in. Name is empty for lambdas.
type FunctionValue struct {
	Name    string
	Params  []*ast.Identifier
	Body    *ast.Block
	Closure *Environment
	Node    ast.Node // ProcedureDefinition or LambdaExpression
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Arity is the number of parameters the function binds.
func (v *FunctionValue) Arity() int { return len(v.Params) }

// NativeCallContext carries what a builtin may touch while running.
type NativeCallContext struct {
	Stdout io.Writer
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// VariadicArity marks a builtin that accepts any number of arguments.
const VariadicArity = -1

type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// CheckArity validates an argument count against the builtin's arity.
func (v NativeFunctionValue) CheckArity(got int) error {
	if v.Arity == VariadicArity || v.Arity == got {
		return nil
	}
	return &ArityError{Name: v.Name, Expected: v.Arity, Got: got}
}

//-----------------------------------------------------------------------------
// Equality
//-----------------------------------------------------------------------------

// ValuesEqual compares two values structurally. Only values of the same
// comparable kind may be compared; sequences compare element-wise.
func ValuesEqual(left, right Value) (bool, error) {
	switch lv := left.(type) {
	case IntegerValue:
		if rv, ok := right.(IntegerValue); ok {
			return lv.Val == rv.Val, nil
		}
	case BoolValue:
		if rv, ok := right.(BoolValue); ok {
			return lv.Val == rv.Val, nil
		}
	case StringValue:
		if rv, ok := right.(StringValue); ok {
			return lv.Val == rv.Val, nil
		}
	case NilValue:
		if _, ok := right.(NilValue); ok {
			return true, nil
		}
	case *SequenceValue:
		if rv, ok := right.(*SequenceValue); ok {
			return lv.Equal(rv)
		}
	}
	return false, NewTypeMismatch("==", left, right)
}
