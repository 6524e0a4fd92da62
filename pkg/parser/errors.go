package parser

import "fmt"

// Error is a syntax error at a source position. Line and Column are 1-based;
// zero means the position is unknown.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parser: %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return "parser: " + e.Message
}

func errorAt(tok token, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: tok.line, Column: tok.column}
}
