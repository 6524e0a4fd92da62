package parser

import (
	"linger/interpreter-go/pkg/ast"
)

var keywords = map[string]struct{}{
	"let":    {},
	"return": {},
	"if":     {},
	"else":   {},
	"true":   {},
	"false":  {},
	"nil":    {},
}

// IsKeyword reports whether name is reserved by the grammar.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// ParseProgram parses linger source into a program tree.
func ParseProgram(source string) (*ast.Program, error) {
	return ParseFile("", source)
}

// ParseFile parses source, naming filename in lexer errors.
func ParseFile(filename, source string) (*ast.Program, error) {
	tokens, err := tokenize(filename, source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

// at reports whether the next token is the punctuation or operator sym.
func (p *parser) at(sym string) bool {
	tok := p.peek()
	return (tok.kind == tokenPunct || tok.kind == tokenOperator) && tok.value == sym
}

func (p *parser) atKeyword(word string) bool {
	tok := p.peek()
	return tok.kind == tokenIdent && tok.value == word
}

func (p *parser) accept(sym string) bool {
	if p.at(sym) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(sym string) (token, error) {
	if !p.at(sym) {
		return token{}, errorAt(p.peek(), "expected %q, found %s", sym, p.peek())
	}
	return p.advance(), nil
}

func (p *parser) expectName(role string) (*ast.Identifier, error) {
	tok := p.peek()
	if tok.kind != tokenIdent {
		return nil, errorAt(tok, "expected %s name, found %s", role, tok)
	}
	if IsKeyword(tok.value) {
		return nil, errorAt(tok, "%q is a keyword and cannot be used as a %s name", tok.value, role)
	}
	p.advance()
	return withSpan(ast.NewIdentifier(tok.value), tok), nil
}

func withSpan[T ast.Node](node T, tok token) T {
	return ast.WithSpan(node, ast.Span{Line: tok.line, Column: tok.column})
}

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.peek()
	var procs []*ast.ProcedureDefinition
	for p.peek().kind != tokenEOF {
		proc, err := p.parseProcedure()
		if err != nil {
			return nil, err
		}
		procs = append(procs, proc)
	}
	return withSpan(ast.NewProgram(procs), start), nil
}

func (p *parser) parseProcedure() (*ast.ProcedureDefinition, error) {
	start := p.peek()
	id, err := p.expectName("procedure")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return withSpan(ast.NewProcedureDefinition(id, params, body), start), nil
}

// parseParams reads "(" (IDENT ("," IDENT)*)? ")".
func (p *parser) parseParams() ([]*ast.Identifier, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	if p.accept(")") {
		return params, nil
	}
	for {
		id, err := p.expectName("parameter")
		if err != nil {
			return nil, err
		}
		params = append(params, id)
		if p.accept(",") {
			continue
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return params, nil
	}
}
