package ast

import "fmt"

// Span records where a node starts in its source file. Lines and columns are
// 1-based; the zero Span means the position is unknown.
type Span struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsZero reports whether the span carries no position.
func (s Span) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

func (s Span) String() string {
	if s.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// WithSpan annotates node and returns it, for use in constructor chains.
func WithSpan[T Node](node T, span Span) T {
	SetSpan(node, span)
	return node
}
