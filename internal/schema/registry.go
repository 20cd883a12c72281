// Package schema holds the named definitions of product types, sum
// types, and traits, plus their inherent and trait-keyed method
// tables (spec §3 "Schemas"). Method dispatch resolves at each call
// site from a (type-key, method-name) pair, with trait dispatch
// adding an outer trait-name layer, per spec §9 "Deep inheritance /
// method dispatch" — no per-value vtable is needed.
package schema

import (
	"fmt"
	"sync"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/values"
)

type StructSchema struct {
	Name       string
	TypeParams []string
	FieldOrder []string
	FieldTypes map[string]ast.TypeExpr
}

type EnumSchema struct {
	Name       string
	TypeParams []string
	Variants   map[string]ast.EnumVariant
	Order      []string
}

type TraitSchema struct {
	Name    string
	Methods map[string]ast.TraitMethodSig
}

// Registry is the process-wide schema and method table, guarded by a
// single RWMutex per spec §5 "Shared-resource policy" ("a single
// critical-section per operation").
type Registry struct {
	mu sync.RWMutex

	Structs map[string]*StructSchema
	Enums   map[string]*EnumSchema
	Traits  map[string]*TraitSchema

	// Inherent[typeKey][methodName] = fn
	Inherent map[string]map[string]*values.UserFunction
	// TraitImpls[traitName][typeKey][methodName] = fn
	TraitImpls map[string]map[string]map[string]*values.UserFunction
}

func NewRegistry() *Registry {
	return &Registry{
		Structs:    make(map[string]*StructSchema),
		Enums:      make(map[string]*EnumSchema),
		Traits:     make(map[string]*TraitSchema),
		Inherent:   make(map[string]map[string]*values.UserFunction),
		TraitImpls: make(map[string]map[string]map[string]*values.UserFunction),
	}
}

func (r *Registry) DefineStruct(s *StructSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.Structs[s.Name]; exists {
		return fmt.Errorf("struct %q already defined", s.Name)
	}
	r.Structs[s.Name] = s
	return nil
}

func (r *Registry) DefineEnum(e *EnumSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.Enums[e.Name]; exists {
		return fmt.Errorf("enum %q already defined", e.Name)
	}
	r.Enums[e.Name] = e
	return nil
}

func (r *Registry) DefineTrait(t *TraitSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.Traits[t.Name]; exists {
		return fmt.Errorf("trait %q already defined", t.Name)
	}
	r.Traits[t.Name] = t
	return nil
}

func (r *Registry) GetStruct(name string) (*StructSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.Structs[name]
	return s, ok
}

func (r *Registry) GetEnum(name string) (*EnumSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.Enums[name]
	return e, ok
}

func (r *Registry) GetTrait(name string) (*TraitSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.Traits[name]
	return t, ok
}

// TraitNames returns a snapshot of every defined trait's name, used by
// method-call dispatch to search trait impls when no inherent method
// matches (spec §9 "Deep inheritance / method dispatch").
func (r *Registry) TraitNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.Traits))
	for name := range r.Traits {
		out = append(out, name)
	}
	return out
}

// RegisterInherent attaches a method to the inherent impl table keyed
// by a stringified resolved type tag.
func (r *Registry) RegisterInherent(typeKey, method string, fn *values.UserFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.Inherent[typeKey]
	if !ok {
		m = make(map[string]*values.UserFunction)
		r.Inherent[typeKey] = m
	}
	m[method] = fn
}

func (r *Registry) LookupInherent(typeKey, method string) (*values.UserFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.Inherent[typeKey]
	if !ok {
		return nil, false
	}
	fn, ok := m[method]
	return fn, ok
}

func (r *Registry) RegisterTraitImpl(trait, typeKey, method string, fn *values.UserFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byType, ok := r.TraitImpls[trait]
	if !ok {
		byType = make(map[string]map[string]*values.UserFunction)
		r.TraitImpls[trait] = byType
	}
	byMethod, ok := byType[typeKey]
	if !ok {
		byMethod = make(map[string]*values.UserFunction)
		byType[typeKey] = byMethod
	}
	byMethod[method] = fn
}

func (r *Registry) LookupTraitImpl(trait, typeKey, method string) (*values.UserFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byType, ok := r.TraitImpls[trait]
	if !ok {
		return nil, false
	}
	byMethod, ok := byType[typeKey]
	if !ok {
		return nil, false
	}
	fn, ok := byMethod[method]
	return fn, ok
}
