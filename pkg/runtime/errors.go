package runtime

import (
	"fmt"
	"strings"
)

// UnboundNameError reports an identifier that no enclosing frame binds.
type UnboundNameError struct {
	Name string
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("unbound name %q", e.Name)
}

// TypeMismatchError reports an operator or builtin applied to values of the
// wrong kind.
type TypeMismatchError struct {
	Operation string
	Operands  []Kind
	Expected  string
}

func (e *TypeMismatchError) Error() string {
	kinds := make([]string, 0, len(e.Operands))
	for _, k := range e.Operands {
		kinds = append(kinds, k.String())
	}
	got := strings.Join(kinds, " and ")
	if e.Expected != "" {
		return fmt.Sprintf("type mismatch: %s expects %s, got %s", e.Operation, e.Expected, got)
	}
	return fmt.Sprintf("type mismatch: %s not defined for %s", e.Operation, got)
}

// NewTypeMismatch builds a TypeMismatchError from the offending operands.
func NewTypeMismatch(op string, operands ...Value) *TypeMismatchError {
	kinds := make([]Kind, 0, len(operands))
	for _, v := range operands {
		if v == nil {
			kinds = append(kinds, KindNil)
			continue
		}
		kinds = append(kinds, v.Kind())
	}
	return &TypeMismatchError{Operation: op, Operands: kinds}
}

// ExpectKind builds a TypeMismatchError naming the kind that was required.
func ExpectKind(op string, expected Kind, got Value) *TypeMismatchError {
	err := NewTypeMismatch(op, got)
	err.Expected = expected.String()
	return err
}

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Name     string
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	name := e.Name
	if name == "" {
		name = "<lambda>"
	}
	return fmt.Sprintf("%s expects %d argument%s, got %d", name, e.Expected, plural(e.Expected), e.Got)
}

// EmptySequenceError reports head or rest applied to the empty sequence.
type EmptySequenceError struct {
	Operation string
}

func (e *EmptySequenceError) Error() string {
	return fmt.Sprintf("%s of empty sequence", e.Operation)
}

// DivisionByZeroError reports `/` or `%` with a zero divisor.
type DivisionByZeroError struct {
	Operation string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero in %s", e.Operation)
}

// CallDepthError reports recursion deeper than the configured limit.
type CallDepthError struct {
	Limit int
}

func (e *CallDepthError) Error() string {
	return fmt.Sprintf("call depth exceeded limit of %d", e.Limit)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
