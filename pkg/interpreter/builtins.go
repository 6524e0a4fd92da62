package interpreter

import (
	"fmt"
	"strings"

	"linger/interpreter-go/pkg/runtime"
)

var builtinNames = map[string]struct{}{
	"list":     {},
	"is_empty": {},
	"head":     {},
	"rest":     {},
	"print":    {},
	"is_nil":   {},
}

func (i *Interpreter) registerBuiltins(env *runtime.Environment) error {
	builtins := []runtime.NativeFunctionValue{
		{Name: "list", Arity: runtime.VariadicArity, Impl: builtinList},
		{Name: "is_empty", Arity: 1, Impl: builtinIsEmpty},
		{Name: "head", Arity: 1, Impl: builtinHead},
		{Name: "rest", Arity: 1, Impl: builtinRest},
		{Name: "is_nil", Arity: 1, Impl: builtinIsNil},
		i.printBuiltin(),
	}
	for _, fn := range builtins {
		if err := env.Define(fn.Name, fn); err != nil {
			return fmt.Errorf("register builtin %s: %w", fn.Name, err)
		}
	}
	return nil
}

func builtinList(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return runtime.NewSequence(args...), nil
}

func sequenceArg(op string, arg runtime.Value) (*runtime.SequenceValue, error) {
	seq, ok := arg.(*runtime.SequenceValue)
	if !ok {
		return nil, runtime.ExpectKind(op, runtime.KindSequence, arg)
	}
	return seq, nil
}

func builtinIsEmpty(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	seq, err := sequenceArg("is_empty", args[0])
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: seq.IsEmpty()}, nil
}

func builtinHead(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	seq, err := sequenceArg("head", args[0])
	if err != nil {
		return nil, err
	}
	return seq.Head()
}

func builtinRest(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	seq, err := sequenceArg("rest", args[0])
	if err != nil {
		return nil, err
	}
	return seq.Rest()
}

func builtinIsNil(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	_, isNil := args[0].(runtime.NilValue)
	return runtime.BoolValue{Val: isNil}, nil
}

// printBuiltin writes its arguments as one line, separated by single spaces.
// With exactly one argument it returns that argument, so print can wrap an
// expression in place.
func (i *Interpreter) printBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:  "print",
		Arity: runtime.VariadicArity,
		Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, 0, len(args))
			for _, arg := range args {
				parts = append(parts, valueToString(arg))
			}
			line := strings.Join(parts, " ")
			i.printed = append(i.printed, line)
			if _, err := fmt.Fprintln(ctx.Stdout, line); err != nil {
				return nil, fmt.Errorf("print: %w", err)
			}
			if len(args) == 1 {
				return args[0], nil
			}
			return runtime.NilValue{}, nil
		},
	}
}
