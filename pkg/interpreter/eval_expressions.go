package interpreter

import (
	"fmt"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/runtime"
)

// evaluateExpression evaluates node and attaches node's location to any
// failure that does not already carry one, so the innermost node wins.
func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpressionNode(node, env)
	if err != nil {
		return nil, i.attachRuntimeContext(err, node)
	}
	return val, nil
}

func (i *Interpreter) evaluateExpressionNode(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.NilValue{}, nil
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.LambdaExpression:
		return &runtime.FunctionValue{
			Params:  n.Params,
			Body:    n.Body,
			Closure: env,
			Node:    n,
		}, nil
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

// evaluateFunctionCall evaluates the callee, then the arguments left to right
// in the caller's environment, then applies.
func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.callValue(callee, args, call)
}

func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, call *ast.FunctionCall) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args, call)
	case runtime.NativeFunctionValue:
		if err := fn.CheckArity(len(args)); err != nil {
			return nil, err
		}
		ctx := &runtime.NativeCallContext{Stdout: i.stdout}
		return fn.Impl(ctx, args)
	default:
		return nil, runtime.ExpectKind("call", runtime.KindFunction, callee)
	}
}

// invokeFunction binds parameters in a fresh frame chained on the closure's
// captured environment and evaluates the body.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, call *ast.FunctionCall) (runtime.Value, error) {
	if len(args) != fn.Arity() {
		return nil, &runtime.ArityError{Name: fn.Name, Expected: fn.Arity(), Got: len(args)}
	}
	if len(i.state.callStack) >= i.maxDepth {
		return nil, &runtime.CallDepthError{Limit: i.maxDepth}
	}
	names := make([]string, len(fn.Params))
	for idx, param := range fn.Params {
		names[idx] = param.Name
	}
	frame, err := fn.Closure.Extend(names, args)
	if err != nil {
		return nil, err
	}
	i.state.pushCall(runtimeCallFrame{node: call, fn: fn})
	defer i.state.popCall()
	result, err := i.evaluateBlock(fn.Body, frame)
	if err != nil {
		return nil, err
	}
	return result.value, nil
}
