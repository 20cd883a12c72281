package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// typeKeyOf stringifies a resolved type tag for the schema registry's
// (type-key, method-name) dispatch tables (spec §9 "Deep inheritance /
// method dispatch").
func typeKeyOf(t types.Tag) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// typeParamMap zips a schema's ordered type-parameter names against a
// resolved argument list, used wherever a parameterized struct/enum
// instance needs its declared field/variant types resolved (spec §3
// "Schemas": "resolved against a type-parameter binding at use time").
func typeParamMap(names []string, args []types.Tag) map[string]types.Tag {
	tp := make(map[string]types.Tag, len(names))
	for i, n := range names {
		if i < len(args) {
			tp[n] = args[i]
		} else {
			tp[n] = types.Unknown{}
		}
	}
	return tp
}

func namesSet(names []string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

func (e *Evaluator) evalArgs(exprs []ast.Expression, c *ctx) ([]values.Value, error) {
	out := make([]values.Value, len(exprs))
	for i, x := range exprs {
		v, err := e.evalExpr(x, c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// requireVarRoot walks an assignment target's base expression down to
// its root identifier and requires that binding to be Var (spec
// §4.1 "Assignment": "require the base binding (if any) to be Var").
func (e *Evaluator) requireVarRoot(x ast.Expression, c *ctx) error {
	switch xx := x.(type) {
	case *ast.Identifier:
		b, ok := c.env.Get(xx.Name)
		if !ok {
			return values.NewRuntimeError("undefined binding %q", xx.Name).WithSpan(x.Span())
		}
		if b.Kind != values.Var {
			return values.NewRuntimeError("cannot assign through non-var binding %q", xx.Name).WithSpan(x.Span())
		}
		return nil
	case *ast.FieldAccess:
		return e.requireVarRoot(xx.X, c)
	case *ast.Index:
		return e.requireVarRoot(xx.X, c)
	default:
		// No identifiable root binding (e.g. a call result); spec only
		// constrains assignment through a named binding.
		return nil
	}
}

// structFieldTag resolves field's declared type against sv's resolved
// type arguments, per spec §3 "Schemas".
func (e *Evaluator) structFieldTag(sv values.Struct, field string) (types.Tag, error) {
	schema, ok := e.Schemas.GetStruct(sv.Name)
	if !ok {
		return types.Unknown{}, nil
	}
	fte, ok := schema.FieldTypes[field]
	if !ok {
		return nil, values.NewRuntimeError("struct %q has no field %q", sv.Name, field)
	}
	tp := typeParamMap(schema.TypeParams, sv.TypeArgs)
	return e.resolveType(fte, tp)
}

// unifyTypeParam walks a declared parameter type expression against an
// argument's resolved tag, recording a binding the first time a free
// type-parameter name is encountered (spec §4.1 "Function call":
// "performing any type-parameter inference from the argument tags
// against parameter type expressions before coercion").
func unifyTypeParam(t ast.TypeExpr, tag types.Tag, free map[string]bool, tp map[string]types.Tag) {
	if t == nil || tag == nil {
		return
	}
	switch te := t.(type) {
	case *ast.NamedType:
		if free[te.Name] {
			if _, bound := tp[te.Name]; !bound {
				tp[te.Name] = tag
			}
			return
		}
		switch at := tag.(type) {
		case types.Struct:
			for i, a := range te.Args {
				if i < len(at.Args) {
					unifyTypeParam(a, at.Args[i], free, tp)
				}
			}
		case types.Enum:
			for i, a := range te.Args {
				if i < len(at.Args) {
					unifyTypeParam(a, at.Args[i], free, tp)
				}
			}
		}
	case *ast.VecType:
		if v, ok := tag.(types.Vec); ok {
			unifyTypeParam(te.Elem, v.Elem, free, tp)
		}
	case *ast.ArrayType:
		if v, ok := tag.(types.Array); ok {
			unifyTypeParam(te.Elem, v.Elem, free, tp)
		}
	case *ast.SliceType:
		switch v := tag.(type) {
		case types.Vec:
			unifyTypeParam(te.Elem, v.Elem, free, tp)
		case types.Array:
			unifyTypeParam(te.Elem, v.Elem, free, tp)
		case types.Slice:
			unifyTypeParam(te.Elem, v.Elem, free, tp)
		}
	case *ast.SetType:
		if v, ok := tag.(types.Set); ok {
			unifyTypeParam(te.Elem, v.Elem, free, tp)
		}
	case *ast.MapType:
		if v, ok := tag.(types.Map); ok {
			unifyTypeParam(te.Key, v.Key, free, tp)
			unifyTypeParam(te.Val, v.Val, free, tp)
		}
	case *ast.OptionType:
		if v, ok := tag.(types.Option); ok {
			unifyTypeParam(te.Elem, v.Elem, free, tp)
		}
	case *ast.ResultType:
		if v, ok := tag.(types.Result); ok {
			unifyTypeParam(te.Ok, v.Ok, free, tp)
			unifyTypeParam(te.Err, v.Err, free, tp)
		}
	case *ast.TupleType:
		if v, ok := tag.(types.Tuple); ok {
			for i, el := range te.Elems {
				if i < len(v.Elems) {
					unifyTypeParam(el, v.Elems[i], free, tp)
				}
			}
		}
	}
}

// builtinModuleNameFor returns the name of the built-in module a
// MethodCall on a non-Module, non-Struct receiver dispatches through
// (spec §4.1 "Method-call": "prepend the receiver and dispatch
// through the built-in module of that name").
func builtinModuleNameFor(v values.Value) string {
	switch v.(type) {
	case values.Vec:
		return "vec"
	case values.Array:
		return "vec"
	case values.String:
		return "str"
	case values.Map:
		return "map"
	case values.Set:
		return "set"
	case values.Option:
		return "option"
	case values.Result:
		return "result"
	default:
		return ""
	}
}
