package interpreter

import (
	"fmt"
	"io"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested procedure and lambda calls when Options
// leaves MaxCallDepth unset.
const DefaultMaxCallDepth = 10000

// Options configures a single interpreter run.
type Options struct {
	// Stdout receives one line per print call. Nil discards output.
	Stdout io.Writer
	// MaxCallDepth caps active calls; zero selects DefaultMaxCallDepth.
	MaxCallDepth int
	// Path names the program source in runtime diagnostics.
	Path string
}

// Interpreter evaluates linger program trees.
type Interpreter struct {
	global   *runtime.Environment
	stdout   io.Writer
	maxDepth int
	origin   string
	printed  []string
	state    evalState
}

type runtimeCallFrame struct {
	node *ast.FunctionCall
	fn   *runtime.FunctionValue
}

type evalState struct {
	callStack []runtimeCallFrame
}

func (s *evalState) pushCall(frame runtimeCallFrame) {
	s.callStack = append(s.callStack, frame)
}

func (s *evalState) popCall() {
	if len(s.callStack) == 0 {
		return
	}
	s.callStack = s.callStack[:len(s.callStack)-1]
}

func (s *evalState) snapshotCallStack() []runtimeCallFrame {
	if len(s.callStack) == 0 {
		return nil
	}
	out := make([]runtimeCallFrame, len(s.callStack))
	copy(out, s.callStack)
	return out
}

// New returns an interpreter configured by opts. The global environment is
// built when a program is loaded.
func New(opts Options) *Interpreter {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	depth := opts.MaxCallDepth
	if depth <= 0 {
		depth = DefaultMaxCallDepth
	}
	return &Interpreter{
		stdout:   stdout,
		maxDepth: depth,
		origin:   opts.Path,
	}
}

// GlobalEnvironment returns the sealed global frame of the loaded program, or
// nil before Load.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Output returns the lines printed so far, one per print call.
func (i *Interpreter) Output() []string {
	out := make([]string, len(i.printed))
	copy(out, i.printed)
	return out
}

// Load validates prog and builds the global frame holding the builtins and
// every procedure. All procedures close over that one frame, so they may
// call themselves and each other by name.
func (i *Interpreter) Load(prog *ast.Program) error {
	if err := ValidateProgram(prog); err != nil {
		return err
	}
	global := runtime.NewEnvironment(nil)
	if err := i.registerBuiltins(global); err != nil {
		return err
	}
	for _, proc := range prog.Procedures {
		fn := &runtime.FunctionValue{
			Name:    proc.ID.Name,
			Params:  proc.Params,
			Body:    proc.Body,
			Closure: global,
			Node:    proc,
		}
		if err := global.Define(proc.ID.Name, fn); err != nil {
			return &ProgramError{Message: err.Error(), Node: proc}
		}
	}
	i.global = global.Seal()
	i.state = evalState{}
	return nil
}

// EvaluateProgram loads prog and runs its main procedure, returning the value
// main produced.
func (i *Interpreter) EvaluateProgram(prog *ast.Program) (runtime.Value, error) {
	if err := i.Load(prog); err != nil {
		return nil, err
	}
	return i.Call("main")
}

// Call invokes a loaded procedure by name.
func (i *Interpreter) Call(name string, args ...runtime.Value) (runtime.Value, error) {
	if i.global == nil {
		return nil, fmt.Errorf("interpreter: no program loaded")
	}
	callee, err := i.global.Get(name)
	if err != nil {
		return nil, err
	}
	return i.CallFunction(callee, args)
}

// CallFunction applies a closure or builtin to already evaluated arguments.
func (i *Interpreter) CallFunction(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.callValue(callee, args, nil)
}
