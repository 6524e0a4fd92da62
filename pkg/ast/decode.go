package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeProgram reads a JSON-encoded program tree. Every object carries a
// "type" field naming its NodeType; the remaining fields follow the json tags
// of the node structs, so EncodeProgram output round-trips.
func DecodeProgram(data []byte) (*Program, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	node, err := decodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	prog, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("decode: root node is %s, expected %s", node.NodeType(), NodeProgram)
	}
	return prog, nil
}

// EncodeProgram renders the program tree as indented JSON.
func EncodeProgram(prog *Program) ([]byte, error) {
	return json.MarshalIndent(prog, "", "  ")
}

func decodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	decoded, err := decodeNodeOfType(NodeType(typ), node)
	if err != nil {
		return nil, err
	}
	if span, ok := decodeSpan(node["span"]); ok {
		SetSpan(decoded, span)
	}
	return decoded, nil
}

func decodeNodeOfType(typ NodeType, node map[string]any) (Node, error) {
	switch typ {
	case NodeProgram:
		procsVal, _ := node["procedures"].([]any)
		procs := make([]*ProcedureDefinition, 0, len(procsVal))
		for _, raw := range procsVal {
			child, err := decodeChild(raw)
			if err != nil {
				return nil, err
			}
			proc, ok := child.(*ProcedureDefinition)
			if !ok {
				return nil, fmt.Errorf("invalid procedure entry %s", child.NodeType())
			}
			procs = append(procs, proc)
		}
		return NewProgram(procs), nil
	case NodeProcedureDefinition:
		id, err := decodeIdentifier(node["id"])
		if err != nil {
			return nil, fmt.Errorf("procedure id: %w", err)
		}
		params, err := decodeIdentifiers(node["params"])
		if err != nil {
			return nil, fmt.Errorf("procedure %s params: %w", id.Name, err)
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, fmt.Errorf("procedure %s body: %w", id.Name, err)
		}
		return NewProcedureDefinition(id, params, body), nil
	case NodeIdentifier:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("identifier missing name")
		}
		return NewIdentifier(name), nil
	case NodeIntegerLiteral:
		num, ok := node["value"].(json.Number)
		if !ok {
			return nil, fmt.Errorf("integer literal value must be a number, got %T", node["value"])
		}
		val, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("integer literal %s: %w", num, err)
		}
		return NewIntegerLiteral(val), nil
	case NodeBooleanLiteral:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("boolean literal value must be a bool, got %T", node["value"])
		}
		return NewBooleanLiteral(val), nil
	case NodeStringLiteral:
		val, ok := node["value"].(string)
		if !ok {
			return nil, fmt.Errorf("string literal value must be a string, got %T", node["value"])
		}
		return NewStringLiteral(val), nil
	case NodeNilLiteral:
		return NewNilLiteral(), nil
	case NodeUnaryExpression:
		op, _ := node["operator"].(string)
		operand, err := decodeExpression(node["operand"])
		if err != nil {
			return nil, fmt.Errorf("unary %s operand: %w", op, err)
		}
		return NewUnaryExpression(UnaryOperator(op), operand), nil
	case NodeBinaryExpression:
		op, _ := node["operator"].(string)
		if op == "" {
			return nil, fmt.Errorf("binary expression missing operator")
		}
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, fmt.Errorf("binary %s left: %w", op, err)
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, fmt.Errorf("binary %s right: %w", op, err)
		}
		return NewBinaryExpression(op, left, right), nil
	case NodeLambdaExpression:
		params, err := decodeIdentifiers(node["params"])
		if err != nil {
			return nil, fmt.Errorf("lambda params: %w", err)
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, fmt.Errorf("lambda body: %w", err)
		}
		return NewLambdaExpression(params, body), nil
	case NodeFunctionCall:
		callee, err := decodeExpression(node["callee"])
		if err != nil {
			return nil, fmt.Errorf("call callee: %w", err)
		}
		argsVal, _ := node["arguments"].([]any)
		args := make([]Expression, 0, len(argsVal))
		for idx, raw := range argsVal {
			arg, err := decodeExpression(raw)
			if err != nil {
				return nil, fmt.Errorf("call argument %d: %w", idx, err)
			}
			args = append(args, arg)
		}
		return NewFunctionCall(callee, args), nil
	case NodeBlock:
		bodyVal, _ := node["body"].([]any)
		stmts := make([]Statement, 0, len(bodyVal))
		for _, raw := range bodyVal {
			stmt, err := decodeStatement(raw)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		return NewBlock(stmts), nil
	case NodeLetStatement:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, fmt.Errorf("let name: %w", err)
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, fmt.Errorf("let %s value: %w", name.Name, err)
		}
		return NewLetStatement(name, value), nil
	case NodeIfStatement:
		cond, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, fmt.Errorf("if condition: %w", err)
		}
		then, err := decodeBlock(node["then"])
		if err != nil {
			return nil, fmt.Errorf("if branch: %w", err)
		}
		var otherwise Statement
		if raw, ok := node["else"]; ok && raw != nil {
			otherwise, err = decodeStatement(raw)
			if err != nil {
				return nil, fmt.Errorf("else branch: %w", err)
			}
			switch otherwise.(type) {
			case *Block, *IfStatement:
			default:
				return nil, fmt.Errorf("else branch must be a block or if statement, got %s", otherwise.NodeType())
			}
		}
		return NewIfStatement(cond, then, otherwise), nil
	case NodeReturnStatement:
		var arg Expression
		if raw, ok := node["argument"]; ok && raw != nil {
			expr, err := decodeExpression(raw)
			if err != nil {
				return nil, fmt.Errorf("return argument: %w", err)
			}
			arg = expr
		}
		return NewReturnStatement(arg), nil
	case NodeExpressionStatement:
		expr, err := decodeExpression(node["expression"])
		if err != nil {
			return nil, err
		}
		return NewExpressionStatement(expr), nil
	case "":
		return nil, fmt.Errorf("node missing type")
	default:
		return nil, fmt.Errorf("unsupported node type %q", typ)
	}
}

func decodeChild(raw any) (Node, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected node object, got %T", raw)
	}
	return decodeNode(obj)
}

func decodeExpression(raw any) (Expression, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, fmt.Errorf("%s is not an expression", node.NodeType())
	}
	return expr, nil
}

// decodeStatement accepts bare expressions in statement position and wraps
// them, so hand-written trees may omit ExpressionStatement.
func decodeStatement(raw any) (Statement, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case Statement:
		return n, nil
	case Expression:
		return WithSpan(NewExpressionStatement(n), n.Span()), nil
	default:
		return nil, fmt.Errorf("%s is not a statement", node.NodeType())
	}
}

func decodeBlock(raw any) (*Block, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	block, ok := node.(*Block)
	if !ok {
		return nil, fmt.Errorf("expected %s, got %s", NodeBlock, node.NodeType())
	}
	return block, nil
}

func decodeIdentifier(raw any) (*Identifier, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	id, ok := node.(*Identifier)
	if !ok {
		return nil, fmt.Errorf("expected %s, got %s", NodeIdentifier, node.NodeType())
	}
	return id, nil
}

func decodeIdentifiers(raw any) ([]*Identifier, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected identifier list, got %T", raw)
	}
	out := make([]*Identifier, 0, len(list))
	for _, entry := range list {
		id, err := decodeIdentifier(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func decodeSpan(raw any) (Span, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Span{}, false
	}
	line, _ := obj["line"].(json.Number)
	col, _ := obj["column"].(json.Number)
	l, err := line.Int64()
	if err != nil {
		return Span{}, false
	}
	c, err := col.Int64()
	if err != nil {
		return Span{}, false
	}
	return Span{Line: int(l), Column: int(c)}, true
}
