package values

import (
	"sync"

	"github.com/forgelang/forge/internal/types"
)

// StructCell is the shared mutable field table of a Struct instance
// (spec §3 "Ownership": struct/enum field tables are shared cells).
type StructCell struct {
	mu     sync.RWMutex
	Fields map[string]Value
}

// Struct is a named or anonymous product-type instance. A named
// struct must carry its resolved type-argument list (spec §3
// "Lifecycle & invariants").
type Struct struct {
	Name     string // "" for anonymous
	TypeArgs []types.Tag
	FieldOrd []string // declared field order, for Inspect
	Cell     *StructCell
}

func NewStruct(name string, typeArgs []types.Tag, order []string, fields map[string]Value) Struct {
	return Struct{Name: name, TypeArgs: typeArgs, FieldOrd: order, Cell: &StructCell{Fields: fields}}
}

func (s Struct) Tag() types.Tag {
	if s.Name == "" {
		return types.Unknown{}
	}
	return types.Struct{Name: s.Name, Args: s.TypeArgs}
}

func (s Struct) Get(field string) (Value, bool) {
	s.Cell.mu.RLock()
	defer s.Cell.mu.RUnlock()
	v, ok := s.Cell.Fields[field]
	return v, ok
}

func (s Struct) Set(field string, v Value) {
	s.Cell.mu.Lock()
	defer s.Cell.mu.Unlock()
	s.Cell.Fields[field] = v
}

func (s Struct) Inspect() string {
	s.Cell.mu.RLock()
	defer s.Cell.mu.RUnlock()
	name := s.Name
	if name == "" {
		name = ""
	}
	out := name + "{"
	for i, f := range s.FieldOrd {
		if i > 0 {
			out += ", "
		}
		out += f + ": " + s.Cell.Fields[f].Inspect()
	}
	return out + "}"
}

// Enum is a sum-type instance: a discriminant (Variant) plus payload
// values and resolved type parameters.
type Enum struct {
	TypeName string
	Variant  string
	Payload  []Value
	TypeArgs []types.Tag
}

func (e Enum) Tag() types.Tag { return types.Enum{Name: e.TypeName, Args: e.TypeArgs} }

func (e Enum) Inspect() string {
	if len(e.Payload) == 0 {
		return e.TypeName + "::" + e.Variant
	}
	out := e.TypeName + "::" + e.Variant + "("
	for i, p := range e.Payload {
		if i > 0 {
			out += ", "
		}
		out += p.Inspect()
	}
	return out + ")"
}

// EnumConstructor is a curried constructor value for an enum variant
// (spec §3): calling it with the variant's declared arity produces an
// Enum.
type EnumConstructor struct {
	TypeName string
	Variant  string
	Arity    int
	TypeArgs []types.Tag
}

func (c EnumConstructor) Tag() types.Tag {
	return types.Func{Return: types.Enum{Name: c.TypeName, Args: c.TypeArgs}}
}

func (c EnumConstructor) Inspect() string { return c.TypeName + "::" + c.Variant }
