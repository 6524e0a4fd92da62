package interpreter

import (
	"errors"
	"fmt"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateUnaryExpression(n *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case ast.UnaryOperatorNegate:
		iv, ok := operand.(runtime.IntegerValue)
		if !ok {
			return nil, runtime.ExpectKind("unary -", runtime.KindInteger, operand)
		}
		return runtime.IntegerValue{Val: -iv.Val}, nil
	case ast.UnaryOperatorNot:
		bv, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, runtime.ExpectKind("!", runtime.KindBool, operand)
		}
		return runtime.BoolValue{Val: !bv.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", n.Operator)
	}
}

func (i *Interpreter) evaluateBinaryExpression(n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	if n.Operator == "&&" || n.Operator == "||" {
		return i.evaluateLogicalExpression(n, env)
	}
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(n.Operator, left, right)
}

// evaluateLogicalExpression short-circuits: the right operand is evaluated
// only when the left one does not decide the result.
func (i *Interpreter) evaluateLogicalExpression(n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(runtime.BoolValue)
	if !ok {
		return nil, runtime.ExpectKind(n.Operator, runtime.KindBool, left)
	}
	if n.Operator == "&&" && !lb.Val {
		return lb, nil
	}
	if n.Operator == "||" && lb.Val {
		return lb, nil
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(runtime.BoolValue)
	if !ok {
		return nil, runtime.ExpectKind(n.Operator, runtime.KindBool, right)
	}
	return rb, nil
}

func applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return applyPlus(left, right)
	case "-", "*", "/", "%":
		return applyArithmetic(op, left, right)
	case "<", ">", "<=", ">=":
		return applyComparison(op, left, right)
	case "==", "!=":
		eq, err := runtime.ValuesEqual(left, right)
		if err != nil {
			var mismatch *runtime.TypeMismatchError
			if errors.As(err, &mismatch) {
				mismatch.Operation = op
			}
			return nil, err
		}
		if op == "!=" {
			eq = !eq
		}
		return runtime.BoolValue{Val: eq}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", op)
	}
}

// applyPlus adds integers and concatenates sequences or strings.
func applyPlus(left, right runtime.Value) (runtime.Value, error) {
	switch lv := left.(type) {
	case runtime.IntegerValue:
		if rv, ok := right.(runtime.IntegerValue); ok {
			return runtime.IntegerValue{Val: lv.Val + rv.Val}, nil
		}
	case *runtime.SequenceValue:
		if rv, ok := right.(*runtime.SequenceValue); ok {
			return lv.Concat(rv), nil
		}
	case runtime.StringValue:
		if rv, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: lv.Val + rv.Val}, nil
		}
	}
	return nil, runtime.NewTypeMismatch("+", left, right)
}

func integerOperands(op string, left, right runtime.Value) (int64, int64, error) {
	lv, lok := left.(runtime.IntegerValue)
	rv, rok := right.(runtime.IntegerValue)
	if !lok || !rok {
		return 0, 0, runtime.NewTypeMismatch(op, left, right)
	}
	return lv.Val, rv.Val, nil
}

// applyArithmetic follows Go int64 semantics: overflow wraps and division
// truncates toward zero.
func applyArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	l, r, err := integerOperands(op, left, right)
	if err != nil {
		return nil, err
	}
	switch op {
	case "-":
		return runtime.IntegerValue{Val: l - r}, nil
	case "*":
		return runtime.IntegerValue{Val: l * r}, nil
	case "/":
		if r == 0 {
			return nil, &runtime.DivisionByZeroError{Operation: op}
		}
		return runtime.IntegerValue{Val: l / r}, nil
	case "%":
		if r == 0 {
			return nil, &runtime.DivisionByZeroError{Operation: op}
		}
		return runtime.IntegerValue{Val: l % r}, nil
	}
	return nil, fmt.Errorf("unsupported arithmetic operator %s", op)
}

func applyComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	l, r, err := integerOperands(op, left, right)
	if err != nil {
		return nil, err
	}
	var result bool
	switch op {
	case "<":
		result = l < r
	case ">":
		result = l > r
	case "<=":
		result = l <= r
	case ">=":
		result = l >= r
	}
	return runtime.BoolValue{Val: result}, nil
}
