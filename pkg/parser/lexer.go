package parser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// lingerLexer is the token rule table. Rules are tried in order, so longer
// operators must precede their prefixes.
var lingerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Operator", Pattern: `->|==|!=|<=|>=|&&|\|\||[-+*/%<>=!]`},
	{Name: "Punct", Pattern: `[(){},;]`},
})

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenInt
	tokenString
	tokenOperator
	tokenPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer"
	case tokenString:
		return "string"
	case tokenOperator:
		return "operator"
	case tokenPunct:
		return "punctuation"
	default:
		return fmt.Sprintf("token_%d", int(k))
	}
}

type token struct {
	kind   tokenKind
	value  string
	line   int
	column int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("%q", t.value)
}

// tokenize splits source into significant tokens, dropping whitespace and
// comments. The result always ends with an EOF token.
func tokenize(filename, source string) ([]token, error) {
	lex, err := lingerLexer.LexString(filename, source)
	if err != nil {
		return nil, lexError(err)
	}
	symbols := lingerLexer.Symbols()
	kinds := map[lexer.TokenType]tokenKind{
		symbols["Ident"]:    tokenIdent,
		symbols["Int"]:      tokenInt,
		symbols["String"]:   tokenString,
		symbols["Operator"]: tokenOperator,
		symbols["Punct"]:    tokenPunct,
	}
	skip := map[lexer.TokenType]bool{
		symbols["Comment"]:    true,
		symbols["Whitespace"]: true,
	}
	var out []token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, lexError(err)
		}
		if tok.EOF() {
			out = append(out, token{kind: tokenEOF, line: tok.Pos.Line, column: tok.Pos.Column})
			return out, nil
		}
		if skip[tok.Type] {
			continue
		}
		kind, ok := kinds[tok.Type]
		if !ok {
			return nil, &Error{Message: fmt.Sprintf("unexpected input %q", tok.Value), Line: tok.Pos.Line, Column: tok.Pos.Column}
		}
		out = append(out, token{kind: kind, value: tok.Value, line: tok.Pos.Line, column: tok.Pos.Column})
	}
}

func lexError(err error) error {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return &Error{Message: lexErr.Msg, Line: lexErr.Pos.Line, Column: lexErr.Pos.Column}
	}
	return &Error{Message: err.Error()}
}
