package driver

import (
	"errors"
	"fmt"
	"strings"

	"linger/interpreter-go/pkg/parser"
)

// DiagnosticLocation references a source position for diagnostics.
type DiagnosticLocation struct {
	Path   string
	Line   int
	Column int
}

// ParserDiagnostic represents a structured parser diagnostic.
type ParserDiagnostic struct {
	Message  string
	Location DiagnosticLocation
}

// ParserDiagnosticError wraps a diagnostic for error handling.
type ParserDiagnosticError struct {
	Diagnostic ParserDiagnostic
	Err        error
}

func (e *ParserDiagnosticError) Error() string {
	return DescribeParserDiagnostic(e.Diagnostic)
}

func (e *ParserDiagnosticError) Unwrap() error {
	return e.Err
}

// ParserDiagnosticFromError places a parse failure in path. Errors that carry
// no position are reported against the file alone.
func ParserDiagnosticFromError(path string, err error) ParserDiagnostic {
	diag := ParserDiagnostic{Location: DiagnosticLocation{Path: path}}
	var perr *parser.Error
	if errors.As(err, &perr) {
		diag.Message = perr.Message
		diag.Location.Line = perr.Line
		diag.Location.Column = perr.Column
		return diag
	}
	if err != nil {
		diag.Message = err.Error()
	}
	return diag
}

// DescribeParserDiagnostic formats a parser diagnostic for CLI output.
func DescribeParserDiagnostic(diag ParserDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	if strings.HasPrefix(message, "parser:") {
		message = strings.TrimSpace(strings.TrimPrefix(message, "parser:"))
	}
	location := FormatDiagnosticLocation(diag.Location)
	if location != "" {
		return fmt.Sprintf("parser: %s %s", location, message)
	}
	return "parser: " + message
}

// FormatDiagnosticLocation renders path:line:col, dropping the parts that are
// unknown.
func FormatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}
