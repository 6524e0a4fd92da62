package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/driver"
)

const maxDiagnosticNotes = 8

type runtimeDiagnosticContext struct {
	node      ast.Node
	callStack []runtimeCallFrame
}

type runtimeDiagnosticError struct {
	err     error
	context *runtimeDiagnosticContext
}

func (e runtimeDiagnosticError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e runtimeDiagnosticError) Unwrap() error {
	return e.err
}

type RuntimeDiagnosticNote struct {
	Message  string
	Location driver.DiagnosticLocation
}

type RuntimeDiagnostic struct {
	Message  string
	Location driver.DiagnosticLocation
	Notes    []RuntimeDiagnosticNote
}

// BuildRuntimeDiagnostic locates err at the node that raised it and lists the
// call sites that led there, innermost first.
func (i *Interpreter) BuildRuntimeDiagnostic(err error) RuntimeDiagnostic {
	ctx := runtimeContextFromError(err)
	var location driver.DiagnosticLocation
	if ctx != nil {
		location = i.locationFromNode(ctx.node)
	} else {
		var progErr *ProgramError
		if errors.As(err, &progErr) {
			location = i.locationFromNode(progErr.Node)
		}
	}
	if location.Line == 0 && ctx != nil {
		for idx := len(ctx.callStack) - 1; idx >= 0; idx-- {
			if ctx.callStack[idx].node == nil {
				continue
			}
			location = i.locationFromNode(ctx.callStack[idx].node)
			if location.Line > 0 {
				break
			}
		}
	}

	var notes []RuntimeDiagnosticNote
	if ctx != nil {
		for idx := len(ctx.callStack) - 1; idx >= 0 && len(notes) < maxDiagnosticNotes; idx-- {
			node := ctx.callStack[idx].node
			if node == nil {
				continue
			}
			noteLocation := i.locationFromNode(node)
			if noteLocation.Line == 0 || locationsEqual(noteLocation, location) {
				continue
			}
			notes = append(notes, RuntimeDiagnosticNote{
				Message:  "called from here",
				Location: noteLocation,
			})
		}
	}

	message := ""
	if err != nil {
		message = err.Error()
	}
	return RuntimeDiagnostic{
		Message:  message,
		Location: location,
		Notes:    notes,
	}
}

// DescribeRuntimeDiagnostic renders a diagnostic for CLI output.
func DescribeRuntimeDiagnostic(diag RuntimeDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	message = strings.TrimSpace(strings.TrimPrefix(message, "runtime:"))
	location := driver.FormatDiagnosticLocation(diag.Location)
	var b strings.Builder
	if location != "" {
		fmt.Fprintf(&b, "runtime: %s %s", location, message)
	} else {
		fmt.Fprintf(&b, "runtime: %s", message)
	}
	for _, note := range diag.Notes {
		if noteLoc := driver.FormatDiagnosticLocation(note.Location); noteLoc != "" {
			fmt.Fprintf(&b, "\nnote: %s %s", noteLoc, note.Message)
		} else {
			fmt.Fprintf(&b, "\nnote: %s", note.Message)
		}
	}
	return b.String()
}

// attachRuntimeContext wraps err with node and the active call stack unless an
// inner node already claimed it.
func (i *Interpreter) attachRuntimeContext(err error, node ast.Node) error {
	if err == nil || node == nil {
		return err
	}
	if runtimeContextFromError(err) != nil {
		return err
	}
	return runtimeDiagnosticError{
		err: err,
		context: &runtimeDiagnosticContext{
			node:      node,
			callStack: i.state.snapshotCallStack(),
		},
	}
}

func runtimeContextFromError(err error) *runtimeDiagnosticContext {
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.context
	}
	return nil
}

func (i *Interpreter) locationFromNode(node ast.Node) driver.DiagnosticLocation {
	if node == nil {
		return driver.DiagnosticLocation{}
	}
	span := node.Span()
	return driver.DiagnosticLocation{
		Path:   i.origin,
		Line:   span.Line,
		Column: span.Column,
	}
}

func locationsEqual(left, right driver.DiagnosticLocation) bool {
	return left.Path == right.Path && left.Line == right.Line && left.Column == right.Column
}
