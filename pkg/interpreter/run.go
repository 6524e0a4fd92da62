package interpreter

import (
	"linger/interpreter-go/pkg/parser"
)

// Run parses source, executes its main procedure, and returns the printed
// lines. On failure the lines printed before the failure are returned along
// with the error.
func Run(source string, opts Options) ([]string, error) {
	prog, err := parser.ParseProgram(source)
	if err != nil {
		return nil, err
	}
	interp := New(opts)
	_, err = interp.EvaluateProgram(prog)
	return interp.Output(), err
}
