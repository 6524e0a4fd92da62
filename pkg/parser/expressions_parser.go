package parser

import (
	"strconv"
	"strings"

	"linger/interpreter-go/pkg/ast"
)

// Binary precedence levels, loosest first. Every level is left associative.
var infixLevels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseInfix(0)
}

func (p *parser) parseInfix(level int) (ast.Expression, error) {
	if level == len(infixLevels) {
		return p.parseUnary()
	}
	left, err := p.parseInfix(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOperator || !containsOperator(infixLevels[level], tok.value) {
			return left, nil
		}
		p.advance()
		right, err := p.parseInfix(level + 1)
		if err != nil {
			return nil, err
		}
		left = ast.WithSpan(ast.NewBinaryExpression(tok.value, left, right), left.Span())
	}
}

func containsOperator(ops []string, op string) bool {
	for _, candidate := range ops {
		if candidate == op {
			return true
		}
	}
	return false
}

func (p *parser) parseUnary() (ast.Expression, error) {
	tok := p.peek()
	if tok.kind == tokenOperator && (tok.value == "-" || tok.value == "!") {
		if lit, ok := p.negatedMinimum(tok); ok {
			return lit, nil
		}
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return withSpan(ast.NewUnaryExpression(ast.UnaryOperator(tok.value), operand), tok), nil
	}
	return p.parseCall()
}

// negatedMinimum folds `-9223372036854775808` into one literal, since its
// magnitude alone does not fit in an int64.
func (p *parser) negatedMinimum(minus token) (ast.Expression, bool) {
	next := p.peekAt(1)
	if minus.value != "-" || next.kind != tokenInt {
		return nil, false
	}
	if _, err := strconv.ParseInt(next.value, 10, 64); err == nil {
		return nil, false
	}
	val, err := strconv.ParseInt("-"+next.value, 10, 64)
	if err != nil {
		return nil, false
	}
	p.advance()
	p.advance()
	return withSpan(ast.NewIntegerLiteral(val), minus), true
}

// parseCall handles chained application: f(a)(b).
func (p *parser) parseCall() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at("(") {
		p.advance()
		var args []ast.Expression
		if !p.accept(")") {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.accept(",") {
					continue
				}
				if _, err := p.expect(")"); err != nil {
					return nil, err
				}
				break
			}
		}
		expr = ast.WithSpan(ast.NewFunctionCall(expr, args), expr.Span())
	}
	return expr, nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenInt:
		p.advance()
		val, err := strconv.ParseInt(tok.value, 10, 64)
		if err != nil {
			return nil, errorAt(tok, "integer literal %s out of range", tok.value)
		}
		return withSpan(ast.NewIntegerLiteral(val), tok), nil
	case tokenString:
		p.advance()
		val, err := unquote(tok)
		if err != nil {
			return nil, err
		}
		return withSpan(ast.NewStringLiteral(val), tok), nil
	case tokenIdent:
		p.advance()
		switch tok.value {
		case "true":
			return withSpan(ast.NewBooleanLiteral(true), tok), nil
		case "false":
			return withSpan(ast.NewBooleanLiteral(false), tok), nil
		case "nil":
			return withSpan(ast.NewNilLiteral(), tok), nil
		}
		if IsKeyword(tok.value) {
			return nil, errorAt(tok, "unexpected keyword %q in expression", tok.value)
		}
		return withSpan(ast.NewIdentifier(tok.value), tok), nil
	}
	if p.at("(") {
		if p.lambdaAhead() {
			return p.parseLambda()
		}
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, errorAt(tok, "expected expression, found %s", tok)
}

// lambdaAhead scans a parenthesised identifier list and reports whether an
// arrow follows it.
func (p *parser) lambdaAhead() bool {
	offset := 1
	isPunct := func(tok token, sym string) bool {
		return tok.kind == tokenPunct && tok.value == sym
	}
	if !isPunct(p.peekAt(offset), ")") {
		for {
			if p.peekAt(offset).kind != tokenIdent {
				return false
			}
			offset++
			if isPunct(p.peekAt(offset), ",") {
				offset++
				continue
			}
			break
		}
		if !isPunct(p.peekAt(offset), ")") {
			return false
		}
	}
	next := p.peekAt(offset + 1)
	return next.kind == tokenOperator && next.value == "->"
}

// parseLambda reads `(params) -> expr` or `(params) -> { ... }`. An
// expression body becomes a block holding a single return.
func (p *parser) parseLambda() (ast.Expression, error) {
	start := p.peek()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	arrow, err := p.expect("->")
	if err != nil {
		return nil, err
	}
	if p.at("{") {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return withSpan(ast.NewLambdaExpression(params, body), start), nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	ret := ast.WithSpan(ast.NewReturnStatement(expr), expr.Span())
	body := withSpan(ast.NewBlock([]ast.Statement{ret}), arrow)
	return withSpan(ast.NewLambdaExpression(params, body), start), nil
}

func unquote(tok token) (string, error) {
	raw := tok.value[1 : len(tok.value)-1]
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	for idx := 0; idx < len(raw); idx++ {
		ch := raw[idx]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		idx++
		if idx >= len(raw) {
			return "", errorAt(tok, "unterminated escape in string literal")
		}
		switch raw[idx] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(raw[idx])
		default:
			return "", errorAt(tok, "unknown escape \\%c in string literal", raw[idx])
		}
	}
	return b.String(), nil
}
