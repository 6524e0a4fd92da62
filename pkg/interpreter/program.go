package interpreter

import (
	"fmt"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/parser"
)

// ProgramError reports a program that cannot be run at all: a missing or
// malformed main, duplicate procedures, or a reserved name used as a binding.
type ProgramError struct {
	Message string
	Node    ast.Node
}

func (e *ProgramError) Error() string {
	return e.Message
}

// IsReservedName reports whether name is a keyword or builtin and so may not
// be bound by a procedure, parameter, or let.
func IsReservedName(name string) bool {
	if parser.IsKeyword(name) {
		return true
	}
	_, ok := builtinNames[name]
	return ok
}

// ValidateProgram checks the structural rules a program must satisfy before
// evaluation starts.
func ValidateProgram(prog *ast.Program) error {
	if prog == nil {
		return &ProgramError{Message: "program is empty"}
	}
	seen := make(map[string]*ast.ProcedureDefinition, len(prog.Procedures))
	for idx, proc := range prog.Procedures {
		if proc == nil {
			return &ProgramError{Message: fmt.Sprintf("procedure %d is empty", idx)}
		}
		if proc.ID == nil || proc.ID.Name == "" {
			return &ProgramError{Message: fmt.Sprintf("procedure %d has no name", idx), Node: proc}
		}
		name := proc.ID.Name
		if IsReservedName(name) {
			return &ProgramError{Message: fmt.Sprintf("procedure name %q is reserved", name), Node: proc}
		}
		if _, dup := seen[name]; dup {
			return &ProgramError{Message: fmt.Sprintf("procedure %q defined more than once", name), Node: proc}
		}
		seen[name] = proc
		if proc.Body == nil {
			return &ProgramError{Message: fmt.Sprintf("procedure %q has no body", name), Node: proc}
		}
		if err := checkParams(proc.Params, proc); err != nil {
			return err
		}
		if err := validateBlock(proc.Body); err != nil {
			return err
		}
	}
	main, ok := seen["main"]
	if !ok {
		return &ProgramError{Message: "program has no main procedure", Node: prog}
	}
	if len(main.Params) != 0 {
		return &ProgramError{Message: fmt.Sprintf("main takes no parameters, found %d", len(main.Params)), Node: main}
	}
	return nil
}

func checkParams(params []*ast.Identifier, owner ast.Node) error {
	names := make(map[string]struct{}, len(params))
	for _, param := range params {
		if param == nil || param.Name == "" {
			return &ProgramError{Message: "parameter has no name", Node: owner}
		}
		if IsReservedName(param.Name) {
			return &ProgramError{Message: fmt.Sprintf("parameter name %q is reserved", param.Name), Node: param}
		}
		if _, dup := names[param.Name]; dup {
			return &ProgramError{Message: fmt.Sprintf("parameter %q declared twice", param.Name), Node: param}
		}
		names[param.Name] = struct{}{}
	}
	return nil
}

func validateBlock(block *ast.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Body {
		if err := validateStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func validateStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case nil:
		return &ProgramError{Message: "empty statement"}
	case *ast.Block:
		return validateBlock(s)
	case *ast.LetStatement:
		if s.Name == nil || s.Name.Name == "" {
			return &ProgramError{Message: "let without a name", Node: s}
		}
		if IsReservedName(s.Name.Name) {
			return &ProgramError{Message: fmt.Sprintf("let name %q is reserved", s.Name.Name), Node: s}
		}
		return validateExpression(s.Value)
	case *ast.IfStatement:
		if err := validateExpression(s.Condition); err != nil {
			return err
		}
		if s.Then == nil {
			return &ProgramError{Message: "if without a branch", Node: s}
		}
		if err := validateBlock(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return validateStatement(s.Else)
		}
		return nil
	case *ast.ReturnStatement:
		if s.Argument == nil {
			return nil
		}
		return validateExpression(s.Argument)
	case *ast.ExpressionStatement:
		return validateExpression(s.Expression)
	default:
		return &ProgramError{Message: fmt.Sprintf("unsupported statement %s", stmt.NodeType()), Node: stmt}
	}
}

func validateExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case nil:
		return &ProgramError{Message: "missing expression"}
	case *ast.UnaryExpression:
		return validateExpression(e.Operand)
	case *ast.BinaryExpression:
		if err := validateExpression(e.Left); err != nil {
			return err
		}
		return validateExpression(e.Right)
	case *ast.LambdaExpression:
		if err := checkParams(e.Params, e); err != nil {
			return err
		}
		if e.Body == nil {
			return &ProgramError{Message: "lambda has no body", Node: e}
		}
		return validateBlock(e.Body)
	case *ast.FunctionCall:
		if err := validateExpression(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Arguments {
			if err := validateExpression(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
