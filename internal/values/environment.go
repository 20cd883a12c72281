package values

import (
	"fmt"
	"sync"

	"github.com/forgelang/forge/internal/types"
)

// BindKind is the mutability kind of an environment binding (spec §3
// "Environment"): Let is single-assignment, Var is freely mutable,
// Const is single-assignment and literal-only.
type BindKind int

const (
	Let BindKind = iota
	Var
	Const
)

// Binding is one named environment entry.
type Binding struct {
	Value Value
	Kind  BindKind
	Tag   types.Tag // declared tag, or nil if inferred/untyped
}

// Environment is a chain of lexical frames, each holding name ->
// Binding (spec §3). The per-frame RWMutex mirrors the teacher's
// Environment (internal/evaluator/environment.go).
type Environment struct {
	mu    sync.RWMutex
	store map[string]*Binding
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*Binding)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*Binding), outer: outer}
}

// isASCII validates spec §3's "All identifiers are restricted to
// ASCII (validated on declaration)."
func isASCII(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] > 127 {
			return false
		}
	}
	return true
}

// Define creates a new binding in this frame. It fails if name is
// already bound in this frame (duplicate bindings in the same frame
// are rejected, spec §4.4) or if name is not ASCII.
func (e *Environment) Define(name string, kind BindKind, tag types.Tag, val Value) error {
	if !isASCII(name) {
		return fmt.Errorf("identifier %q must be ASCII", name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.store[name]; exists {
		return fmt.Errorf("duplicate binding %q in this frame", name)
	}
	e.store[name] = &Binding{Value: val, Kind: kind, Tag: tag}
	return nil
}

// Get looks up name in this frame, then outward.
func (e *Environment) Get(name string) (*Binding, bool) {
	e.mu.RLock()
	b, ok := e.store[name]
	e.mu.RUnlock()
	if ok {
		return b, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Assign stores val into the named binding, searching outward. It
// fails if the binding does not exist or is not Var.
func (e *Environment) Assign(name string, val Value) error {
	e.mu.Lock()
	b, ok := e.store[name]
	if ok {
		if b.Kind != Var {
			e.mu.Unlock()
			return fmt.Errorf("cannot assign to non-var binding %q", name)
		}
		b.Value = val
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return fmt.Errorf("undefined binding %q", name)
}

// GetStore returns a shallow copy of this frame's bindings.
func (e *Environment) GetStore() map[string]*Binding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]*Binding, len(e.store))
	for k, v := range e.store {
		out[k] = v
	}
	return out
}
