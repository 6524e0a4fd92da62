package interpreter

import (
	"fmt"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/runtime"
)

// completion is the outcome of a statement: the value it produced and whether
// a return statement ended the enclosing body. Returning travels here, never
// through the error channel.
type completion struct {
	value     runtime.Value
	returning bool
}

func normal(value runtime.Value) completion {
	return completion{value: value}
}

var nilCompletion = completion{value: runtime.NilValue{}}

// evaluateBlock runs statements in order. A let layers a new frame seen by the
// statements after it; that frame is dropped when the block ends.
func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) (completion, error) {
	result := nilCompletion
	current := env
	for _, stmt := range block.Body {
		c, next, err := i.evaluateStatement(stmt, current)
		if err != nil {
			return completion{}, err
		}
		if c.returning {
			return c, nil
		}
		result = c
		current = next
	}
	return result, nil
}

// evaluateStatement returns the environment visible to the following
// statement alongside the completion.
func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (completion, *runtime.Environment, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		val, err := i.evaluateExpression(n.Expression, env)
		if err != nil {
			return completion{}, env, err
		}
		return normal(val), env, nil
	case *ast.LetStatement:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return completion{}, env, err
		}
		return nilCompletion, env.Bind(n.Name.Name, val), nil
	case *ast.ReturnStatement:
		c, err := i.evaluateReturnStatement(n, env)
		return c, env, err
	case *ast.IfStatement:
		c, err := i.evaluateIfStatement(n, env)
		return c, env, err
	case *ast.Block:
		c, err := i.evaluateBlock(n, env)
		return c, env, err
	default:
		return completion{}, env, fmt.Errorf("unsupported statement type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateReturnStatement(n *ast.ReturnStatement, env *runtime.Environment) (completion, error) {
	if n.Argument == nil {
		return completion{value: runtime.NilValue{}, returning: true}, nil
	}
	val, err := i.evaluateExpression(n.Argument, env)
	if err != nil {
		return completion{}, err
	}
	return completion{value: val, returning: true}, nil
}

func (i *Interpreter) evaluateIfStatement(n *ast.IfStatement, env *runtime.Environment) (completion, error) {
	for {
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return completion{}, err
		}
		flag, ok := cond.(runtime.BoolValue)
		if !ok {
			return completion{}, i.attachRuntimeContext(runtime.ExpectKind("if condition", runtime.KindBool, cond), n.Condition)
		}
		if flag.Val {
			return i.evaluateBlock(n.Then, env)
		}
		switch otherwise := n.Else.(type) {
		case nil:
			return nilCompletion, nil
		case *ast.IfStatement:
			n = otherwise
		case *ast.Block:
			return i.evaluateBlock(otherwise, env)
		default:
			return completion{}, fmt.Errorf("unsupported else branch: %s", otherwise.NodeType())
		}
	}
}
