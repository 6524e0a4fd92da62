package runtime

import "fmt"

// Environment is one frame of the lexical scope chain. Frames are sealed once
// built: Bind and Extend layer new frames instead of touching existing ones, so
// a closure always sees exactly the bindings that existed when it was created.
type Environment struct {
	values map[string]Value
	parent *Environment
	sealed bool
}

// NewEnvironment creates an open frame, optionally nested under a parent.
// Populate it with Define, then Seal it before handing it to user code.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Define adds a binding to an open frame. Names may not be bound twice in the
// same frame.
func (e *Environment) Define(name string, value Value) error {
	if e.sealed {
		return fmt.Errorf("environment: cannot define %q in a sealed frame", name)
	}
	if _, exists := e.values[name]; exists {
		return fmt.Errorf("environment: %q is already bound in this frame", name)
	}
	e.values[name] = value
	return nil
}

// Seal freezes the frame.
func (e *Environment) Seal() *Environment {
	e.sealed = true
	return e
}

// Sealed reports whether the frame is frozen.
func (e *Environment) Sealed() bool {
	return e.sealed
}

// Bind returns a new sealed frame holding name, layered on top of e.
func (e *Environment) Bind(name string, value Value) *Environment {
	return &Environment{
		values: map[string]Value{name: value},
		parent: e,
		sealed: true,
	}
}

// Extend returns a new sealed frame binding names to values positionally.
func (e *Environment) Extend(names []string, values []Value) (*Environment, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("environment: %d names for %d values", len(names), len(values))
	}
	frame := make(map[string]Value, len(names))
	for idx, name := range names {
		if _, dup := frame[name]; dup {
			return nil, fmt.Errorf("environment: %q bound twice in one frame", name)
		}
		frame[name] = values[idx]
	}
	return &Environment{values: frame, parent: e, sealed: true}, nil
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, &UnboundNameError{Name: name}
}
