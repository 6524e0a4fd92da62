package parser

import (
	"linger/interpreter-go/pkg/ast"
)

func (p *parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.at("}") {
		if p.peek().kind == tokenEOF {
			return nil, errorAt(p.peek(), "unterminated block opened at %d:%d", open.line, open.column)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance()
	return withSpan(ast.NewBlock(body), open), nil
}

func (p *parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.atKeyword("let"):
		return p.parseLet()
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.at("{"):
		return p.parseBlock()
	}
	start := p.peek()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return withSpan(ast.NewExpressionStatement(expr), start), nil
}

func (p *parser) parseLet() (ast.Statement, error) {
	start := p.advance()
	name, err := p.expectName("variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return withSpan(ast.NewLetStatement(name, value), start), nil
}

func (p *parser) parseReturn() (ast.Statement, error) {
	start := p.advance()
	if p.accept(";") {
		return withSpan(ast.NewReturnStatement(nil), start), nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return withSpan(ast.NewReturnStatement(value), start), nil
}

func (p *parser) parseIf() (*ast.IfStatement, error) {
	start := p.advance()
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var otherwise ast.Statement
	if p.atKeyword("else") {
		p.advance()
		if p.atKeyword("if") {
			otherwise, err = p.parseIf()
		} else {
			otherwise, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	return withSpan(ast.NewIfStatement(cond, then, otherwise), start), nil
}
