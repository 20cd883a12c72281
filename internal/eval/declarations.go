package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/schema"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

func (e *Evaluator) defineFunc(fd *ast.FuncDecl, c *ctx) error {
	fn := &values.UserFunction{
		Name:       fd.Name,
		TypeParams: fd.TypeParams,
		Params:     fd.Params,
		ReturnType: fd.ReturnType,
		Body:       fd.Body,
		Env:        c.env,
		Async:      fd.Async,
	}
	if err := c.env.Define(fd.Name, values.Let, types.Func{}, fn); err != nil {
		return values.NewRuntimeError("%s", err.Error()).WithSpan(fd.Span())
	}
	return nil
}

func (e *Evaluator) defineStruct(sd *ast.StructDecl) error {
	fieldTypes := make(map[string]ast.TypeExpr, len(sd.FieldName))
	for i, n := range sd.FieldName {
		fieldTypes[n] = sd.FieldType[i]
	}
	s := &schema.StructSchema{
		Name:       sd.Name,
		TypeParams: sd.TypeParams,
		FieldOrder: append([]string{}, sd.FieldName...),
		FieldTypes: fieldTypes,
	}
	if err := e.Schemas.DefineStruct(s); err != nil {
		return values.NewRuntimeError("%s", err.Error()).WithSpan(sd.Span())
	}
	return nil
}

func (e *Evaluator) defineEnum(ed *ast.EnumDecl) error {
	variants := make(map[string]ast.EnumVariant, len(ed.Variants))
	order := make([]string, len(ed.Variants))
	for i, v := range ed.Variants {
		variants[v.Name] = v
		order[i] = v.Name
	}
	s := &schema.EnumSchema{
		Name:       ed.Name,
		TypeParams: ed.TypeParams,
		Variants:   variants,
		Order:      order,
	}
	if err := e.Schemas.DefineEnum(s); err != nil {
		return values.NewRuntimeError("%s", err.Error()).WithSpan(ed.Span())
	}
	return nil
}

func (e *Evaluator) defineTrait(td *ast.TraitDecl) error {
	methods := make(map[string]ast.TraitMethodSig, len(td.Methods))
	for _, m := range td.Methods {
		methods[m.Name] = m
	}
	s := &schema.TraitSchema{Name: td.Name, Methods: methods}
	if err := e.Schemas.DefineTrait(s); err != nil {
		return values.NewRuntimeError("%s", err.Error()).WithSpan(td.Span())
	}
	return nil
}

// defineImpl registers each method body against the target type's key,
// either inherently or under a named trait (spec §3 "Schemas", §9
// "Deep inheritance / method dispatch"). A declared `self`/`self_mut`
// receiver is folded into Params as an implicit leading parameter
// typed as the impl's target, so method application is just ordinary
// function application with the receiver as argument 0.
func (e *Evaluator) defineImpl(id *ast.ImplDecl, c *ctx) error {
	typeKey, err := e.implTypeKey(id.Target)
	if err != nil {
		return err
	}
	if id.Trait != "" {
		if _, ok := e.Schemas.GetTrait(id.Trait); !ok {
			return values.NewRuntimeError("undefined trait %q", id.Trait).WithSpan(id.Span())
		}
	}
	for _, m := range id.Methods {
		if m.Self == "" {
			return values.NewRuntimeError("method %q must declare `self` or `self_mut` as its receiver", m.Name).WithSpan(m.Span())
		}
		if m.Self != "self" && m.Self != "self_mut" {
			return values.NewRuntimeError("impl method %q receiver must be named `self` or `self_mut`, got %q", m.Name, m.Self).WithSpan(m.Span())
		}
		recv := ast.Param{Name: m.Self, TypeExpr: id.Target}
		params := append([]ast.Param{recv}, m.Params...)
		fn := &values.UserFunction{
			Name:       m.Name,
			TypeParams: m.TypeParams,
			Params:     params,
			ReturnType: m.ReturnType,
			Body:       m.Body,
			Env:        c.env,
			Async:      m.Async,
		}
		if id.Trait == "" {
			e.Schemas.RegisterInherent(typeKey, m.Name, fn)
		} else {
			e.Schemas.RegisterTraitImpl(id.Trait, typeKey, m.Name, fn)
		}
	}
	return nil
}

// implTypeKey resolves an impl's target type expression to the same
// key method dispatch looks methods up under: a struct/enum's bare
// name (ignoring any type arguments, since dispatch does not
// distinguish instantiations), or the stringified resolved tag for
// anything else (e.g. a primitive).
func (e *Evaluator) implTypeKey(t ast.TypeExpr) (string, error) {
	if nt, ok := t.(*ast.NamedType); ok {
		if _, ok := e.Schemas.GetStruct(nt.Name); ok {
			return nt.Name, nil
		}
		if _, ok := e.Schemas.GetEnum(nt.Name); ok {
			return nt.Name, nil
		}
	}
	rt, err := e.resolveType(t, map[string]types.Tag{})
	if err != nil {
		return "", err
	}
	return typeKeyOf(rt), nil
}
