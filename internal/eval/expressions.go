package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// evalExpr is the Evaluator's single expression dispatch point (spec
// §4.1). Every case either returns a value or an error/control signal
// that the caller threads upward unchanged.
func (e *Evaluator) evalExpr(x ast.Expression, c *ctx) (values.Value, error) {
	switch xx := x.(type) {
	case *ast.Literal:
		v, _, err := e.evalLiteral(xx)
		return v, err
	case *ast.Identifier:
		b, ok := c.env.Get(xx.Name)
		if !ok {
			return nil, values.NewRuntimeError("undefined binding %q", xx.Name).WithSpan(xx.Span())
		}
		return b.Value, nil
	case *ast.Binary:
		return e.evalBinary(xx, c)
	case *ast.Unary:
		return e.evalUnary(xx, c)
	case *ast.VecLiteral:
		return e.evalVecLiteral(xx, c)
	case *ast.TupleLiteral:
		items, err := e.evalArgs(xx.Elements, c)
		if err != nil {
			return nil, err
		}
		return values.Tuple{Elements: items}, nil
	case *ast.StructLiteral:
		return e.evalStructLiteral(xx, c)
	case *ast.Lambda:
		return values.Closure{Params: xx.Params, Body: xx.Body, Env: c.env, Async: xx.Async}, nil
	case *ast.Call:
		return e.evalCall(xx, c)
	case *ast.Index:
		return e.evalIndex(xx, c)
	case *ast.FieldAccess:
		return e.evalFieldAccess(xx, c)
	case *ast.PathAccess:
		return e.evalPathAccess(xx, c)
	case *ast.MethodCall:
		return e.evalMethodCall(xx, c)
	case *ast.Assign:
		return e.evalAssign(xx, c)
	case *ast.Try:
		return e.evalTry(xx, c)
	case *ast.Await:
		return e.evalAwait(xx, c)
	case *ast.IfExpr:
		return e.evalIfExpr(xx, c)
	}
	return nil, values.NewRuntimeError("unhandled expression %T", x).WithSpan(x.Span())
}

func (e *Evaluator) evalVecLiteral(vl *ast.VecLiteral, c *ctx) (values.Value, error) {
	items := make([]values.Value, len(vl.Elements))
	for i, el := range vl.Elements {
		v, err := e.evalExpr(el, c)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	var elem types.Tag
	for _, it := range items {
		if elem == nil {
			elem = it.Tag()
			continue
		}
		if !types.Satisfies(it.Tag(), elem) {
			return nil, values.NewRuntimeError("vec literal elements must share a tag (got %s and %s)", elem, it.Tag()).WithSpan(vl.Span())
		}
	}
	if elem == nil {
		elem = types.Unknown{}
	}
	if vl.IsArray {
		return values.NewArray(items, elem), nil
	}
	return values.NewVec(items, elem), nil
}

// evalStructLiteral builds an anonymous struct directly from its
// field list, or a named struct checked and coerced against its
// schema (spec §3 "Schemas", §4.1 "Type checking policy").
func (e *Evaluator) evalStructLiteral(sl *ast.StructLiteral, c *ctx) (values.Value, error) {
	vals := make([]values.Value, len(sl.FieldVal))
	for i, fx := range sl.FieldVal {
		v, err := e.evalExpr(fx, c)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	if sl.Name == "" {
		fields := make(map[string]values.Value, len(vals))
		for i, n := range sl.FieldName {
			fields[n] = vals[i]
		}
		return values.NewStruct("", nil, append([]string{}, sl.FieldName...), fields), nil
	}

	schema, ok := e.Schemas.GetStruct(sl.Name)
	if !ok {
		return nil, values.NewRuntimeError("undefined struct %q", sl.Name).WithSpan(sl.Span())
	}
	given := make(map[string]values.Value, len(vals))
	for i, n := range sl.FieldName {
		if _, declared := schema.FieldTypes[n]; !declared {
			return nil, values.NewRuntimeError("struct %q has no field %q", sl.Name, n).WithSpan(sl.Span())
		}
		given[n] = vals[i]
	}
	for _, n := range schema.FieldOrder {
		if _, ok := given[n]; !ok {
			return nil, values.NewRuntimeError("struct %q literal is missing field %q", sl.Name, n).WithSpan(sl.Span())
		}
	}

	tp := map[string]types.Tag{}
	if len(sl.TypeArgs) > 0 {
		if len(sl.TypeArgs) != len(schema.TypeParams) {
			return nil, values.NewRuntimeError("struct %q expects %d type argument(s), got %d", sl.Name, len(schema.TypeParams), len(sl.TypeArgs)).WithSpan(sl.Span())
		}
		for i, n := range schema.TypeParams {
			rt, err := e.resolveType(sl.TypeArgs[i], map[string]types.Tag{})
			if err != nil {
				return nil, err
			}
			tp[n] = rt
		}
	} else {
		free := namesSet(schema.TypeParams)
		for n, v := range given {
			unifyTypeParam(schema.FieldTypes[n], v.Tag(), free, tp)
		}
	}
	typeArgs := make([]types.Tag, len(schema.TypeParams))
	for i, n := range schema.TypeParams {
		if bound, ok := tp[n]; ok {
			typeArgs[i] = bound
		} else {
			typeArgs[i] = types.Unknown{}
		}
	}

	sv := values.NewStruct(sl.Name, typeArgs, append([]string{}, schema.FieldOrder...), map[string]values.Value{})
	for n, v := range given {
		ft, err := e.resolveType(schema.FieldTypes[n], tp)
		if err != nil {
			return nil, err
		}
		cv, err := coerce(v, ft)
		if err != nil {
			return nil, values.NewRuntimeError("field %q: %s", n, err.Error()).WithSpan(sl.Span())
		}
		sv.Set(n, cv)
	}
	return sv, nil
}

func (e *Evaluator) evalCall(call *ast.Call, c *ctx) (values.Value, error) {
	fn, err := e.evalExpr(call.Callee, c)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(call.Args, c)
	if err != nil {
		return nil, err
	}
	return e.applyFunction(c, fn, args, call.Span())
}

func asGoInt(v values.Value, span ast.Span) (int, error) {
	iv, ok := v.(values.Int)
	if !ok {
		return 0, values.NewRuntimeError("index must be Int, got %s", v.Tag()).WithSpan(span)
	}
	return int(iv.Value.Int64()), nil
}

func (e *Evaluator) evalIndex(ix *ast.Index, c *ctx) (values.Value, error) {
	xv, err := e.evalExpr(ix.X, c)
	if err != nil {
		return nil, err
	}
	iv, err := e.evalExpr(ix.Index, c)
	if err != nil {
		return nil, err
	}
	switch coll := xv.(type) {
	case values.Vec:
		idx, err := asGoInt(iv, ix.Span())
		if err != nil {
			return nil, err
		}
		v, ok := coll.Cell.Get(idx)
		if !ok {
			return nil, values.NewRuntimeError("index %d out of bounds (len %d)", idx, coll.Cell.Len()).WithSpan(ix.Span())
		}
		return v, nil
	case values.Array:
		idx, err := asGoInt(iv, ix.Span())
		if err != nil {
			return nil, err
		}
		v, ok := coll.Cell.Get(idx)
		if !ok {
			return nil, values.NewRuntimeError("index %d out of bounds (len %d)", idx, coll.Cell.Len()).WithSpan(ix.Span())
		}
		return v, nil
	case values.Tuple:
		idx, err := asGoInt(iv, ix.Span())
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(coll.Elements) {
			return nil, values.NewRuntimeError("index %d out of bounds (len %d)", idx, len(coll.Elements)).WithSpan(ix.Span())
		}
		return coll.Elements[idx], nil
	case values.Map:
		v, ok, err := coll.Cell.Get(iv)
		if err != nil {
			return nil, values.NewRuntimeError("map/set key type not supported").WithSpan(ix.Span())
		}
		if !ok {
			return nil, values.NewRuntimeError("key not found: %s", iv.Inspect()).WithSpan(ix.Span())
		}
		return v, nil
	}
	return nil, values.NewRuntimeError("value of tag %s is not indexable", xv.Tag()).WithSpan(ix.Span())
}

func (e *Evaluator) evalFieldAccess(fa *ast.FieldAccess, c *ctx) (values.Value, error) {
	xv, err := e.evalExpr(fa.X, c)
	if err != nil {
		return nil, err
	}
	sv, ok := xv.(values.Struct)
	if !ok {
		return nil, values.NewRuntimeError("value of tag %s has no field %q", xv.Tag(), fa.Field).WithSpan(fa.Span())
	}
	v, ok := sv.Get(fa.Field)
	if !ok {
		return nil, values.NewRuntimeError("struct %q has no field %q", sv.Name, fa.Field).WithSpan(fa.Span())
	}
	return v, nil
}

// evalPathAccess resolves `a::b::c`: a two-segment path naming an
// enum variant resolves to that constructor (or directly to a
// payload-less Enum value); otherwise the path walks Module members
// starting from the root binding (spec §4.1, §4.3).
func (e *Evaluator) evalPathAccess(pa *ast.PathAccess, c *ctx) (values.Value, error) {
	if len(pa.Segments) == 2 {
		if _, ok := e.Schemas.GetEnum(pa.Segments[0]); ok {
			return e.enumConstructorValue(pa.Segments[0], pa.Segments[1], pa.Span())
		}
	}
	b, ok := c.env.Get(pa.Segments[0])
	if !ok {
		return nil, values.NewRuntimeError("undefined binding %q", pa.Segments[0]).WithSpan(pa.Span())
	}
	v := b.Value
	for _, seg := range pa.Segments[1:] {
		mod, ok := v.(values.Module)
		if !ok {
			return nil, values.NewRuntimeError("value of tag %s is not a module", v.Tag()).WithSpan(pa.Span())
		}
		mv, ok := mod.Get(seg)
		if !ok {
			return nil, values.NewRuntimeError("module %q has no member %q", mod.Name, seg).WithSpan(pa.Span())
		}
		v = mv
	}
	return v, nil
}

func (e *Evaluator) enumConstructorValue(typeName, variant string, span ast.Span) (values.Value, error) {
	schema, ok := e.Schemas.GetEnum(typeName)
	if !ok {
		return nil, values.NewRuntimeError("undefined enum %q", typeName).WithSpan(span)
	}
	v, ok := schema.Variants[variant]
	if !ok {
		return nil, values.NewRuntimeError("enum %q has no variant %q", typeName, variant).WithSpan(span)
	}
	if len(v.Payload) == 0 {
		return values.Enum{TypeName: typeName, Variant: variant}, nil
	}
	return values.EnumConstructor{TypeName: typeName, Variant: variant, Arity: len(v.Payload)}, nil
}

func (e *Evaluator) evalMethodCall(mc *ast.MethodCall, c *ctx) (values.Value, error) {
	recv, err := e.evalExpr(mc.Receiver, c)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(mc.Args, c)
	if err != nil {
		return nil, err
	}

	switch rv := recv.(type) {
	case values.Module:
		mv, ok := rv.Get(mc.Method)
		if !ok {
			return nil, values.NewRuntimeError("module %q has no member %q", rv.Name, mc.Method).WithSpan(mc.Span())
		}
		return e.applyFunction(c, mv, args, mc.Span())
	case values.Struct:
		return e.dispatchStructMethod(rv, mc.Method, args, mc.Span())
	}

	modName := builtinModuleNameFor(recv)
	if modName == "" || e.Builtins == nil {
		return nil, values.NewRuntimeError("value of tag %s has no method %q", recv.Tag(), mc.Method).WithSpan(mc.Span())
	}
	fn, ok := e.Builtins.Method(modName, mc.Method)
	if !ok {
		return nil, values.NewRuntimeError("%s has no method %q", modName, mc.Method).WithSpan(mc.Span())
	}
	full := append([]values.Value{recv}, args...)
	return fn(e, full)
}

// dispatchStructMethod resolves a struct instance's method first
// through its inherent impl table, then through every trait's impl
// table for its type key (spec §9 "Deep inheritance / method
// dispatch": dispatch keys off (type-key, method-name), no vtable).
func (e *Evaluator) dispatchStructMethod(sv values.Struct, method string, args []values.Value, span ast.Span) (values.Value, error) {
	typeKey := typeKeyOf(sv.Tag())
	full := append([]values.Value{sv}, args...)
	if fn, ok := e.Schemas.LookupInherent(typeKey, method); ok {
		return e.applyUserFunction(fn, full, span)
	}
	for _, trait := range e.Schemas.TraitNames() {
		if fn, ok := e.Schemas.LookupTraitImpl(trait, typeKey, method); ok {
			return e.applyUserFunction(fn, full, span)
		}
	}
	return nil, values.NewRuntimeError("%s has no method %q", sv.Tag(), method).WithSpan(span)
}

// evalAssign implements spec §4.1 "Assignment": on an identifier the
// binding itself must be Var; on an index or field-access target, the
// base binding (if any) must be Var before the collection/struct cell
// is mutated.
func (e *Evaluator) evalAssign(a *ast.Assign, c *ctx) (values.Value, error) {
	val, err := e.evalExpr(a.Value, c)
	if err != nil {
		return nil, err
	}
	if err := e.requireVarRoot(a.Target, c); err != nil {
		return nil, err
	}
	switch t := a.Target.(type) {
	case *ast.Identifier:
		b, ok := c.env.Get(t.Name)
		if !ok {
			return nil, values.NewRuntimeError("undefined binding %q", t.Name).WithSpan(a.Span())
		}
		cv, err := coerce(val, b.Tag)
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(a.Span())
		}
		if err := c.env.Assign(t.Name, cv); err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(a.Span())
		}
		return cv, nil
	case *ast.Index:
		xv, err := e.evalExpr(t.X, c)
		if err != nil {
			return nil, err
		}
		iv, err := e.evalExpr(t.Index, c)
		if err != nil {
			return nil, err
		}
		return e.assignIndex(xv, iv, val, a.Span())
	case *ast.FieldAccess:
		xv, err := e.evalExpr(t.X, c)
		if err != nil {
			return nil, err
		}
		sv, ok := xv.(values.Struct)
		if !ok {
			return nil, values.NewRuntimeError("value of tag %s has no field %q", xv.Tag(), t.Field).WithSpan(a.Span())
		}
		ft, err := e.structFieldTag(sv, t.Field)
		if err != nil {
			return nil, err
		}
		cv, err := coerce(val, ft)
		if err != nil {
			return nil, values.NewRuntimeError("field %q: %s", t.Field, err.Error()).WithSpan(a.Span())
		}
		sv.Set(t.Field, cv)
		return cv, nil
	}
	return nil, values.NewRuntimeError("invalid assignment target").WithSpan(a.Span())
}

func (e *Evaluator) assignIndex(xv, iv, val values.Value, span ast.Span) (values.Value, error) {
	switch coll := xv.(type) {
	case values.Vec:
		idx, err := asGoInt(iv, span)
		if err != nil {
			return nil, err
		}
		elem := coll.Cell.Elem
		if elem == nil {
			elem = types.Unknown{}
		}
		cv, err := coerce(val, elem)
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(span)
		}
		if !coll.Cell.Set(idx, cv) {
			return nil, values.NewRuntimeError("index %d out of bounds (len %d)", idx, coll.Cell.Len()).WithSpan(span)
		}
		return cv, nil
	case values.Array:
		idx, err := asGoInt(iv, span)
		if err != nil {
			return nil, err
		}
		elem := coll.Cell.Elem
		if elem == nil {
			elem = types.Unknown{}
		}
		cv, err := coerce(val, elem)
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(span)
		}
		if !coll.Cell.Set(idx, cv) {
			return nil, values.NewRuntimeError("index %d out of bounds (len %d)", idx, coll.Cell.Len()).WithSpan(span)
		}
		return cv, nil
	case values.Map:
		keyTag, valTag := coll.Cell.KeyTag, coll.Cell.ValueTag
		if keyTag == nil {
			keyTag = types.Unknown{}
		}
		if valTag == nil {
			valTag = types.Unknown{}
		}
		if !types.Satisfies(iv.Tag(), keyTag) {
			return nil, values.NewRuntimeError("map key type mismatch: expected %s, got %s", keyTag, iv.Tag()).WithSpan(span)
		}
		cv, err := coerce(val, valTag)
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(span)
		}
		if err := coll.Cell.Put(iv, cv, iv.Tag(), valTag); err != nil {
			return nil, values.NewRuntimeError("map/set key type not supported").WithSpan(span)
		}
		return cv, nil
	}
	return nil, values.NewRuntimeError("value of tag %s is not index-assignable", xv.Tag()).WithSpan(span)
}

// evalTry implements the `?` postfix operator (spec §4.1 "Try"): it
// unwraps a Some/Ok in place, or signals a Propagate carrying the
// None/Err payload so the nearest enclosing function with a declared
// Option/Result return tag can absorb it (see applyUserFunction). A
// None inside a function declared to return a Result is a runtime
// error instead.
func (e *Evaluator) evalTry(t *ast.Try, c *ctx) (values.Value, error) {
	v, err := e.evalExpr(t.X, c)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case values.Option:
		if vv.HasValue {
			return vv.Value, nil
		}
		if _, inResult := c.returnTag.(types.Result); inResult {
			return nil, values.NewRuntimeError("`?` on None inside a function returning a result").WithSpan(t.Span())
		}
		return nil, &values.Propagate{Payload: values.NullValue, Span: t.Span()}
	case values.Result:
		if vv.IsOk {
			return vv.Value, nil
		}
		return nil, &values.Propagate{Payload: vv.Value, Span: t.Span()}
	}
	return nil, values.NewRuntimeError("`?` requires an option or result, got %s", v.Tag()).WithSpan(t.Span())
}

// evalAwait suspends on a Future's completion; a non-Future value
// passes through unchanged (spec §4.1 "Await").
func (e *Evaluator) evalAwait(a *ast.Await, c *ctx) (values.Value, error) {
	v, err := e.evalExpr(a.X, c)
	if err != nil {
		return nil, err
	}
	fut, ok := values.IsFuture(v)
	if !ok {
		return v, nil
	}
	return fut.Await()
}

func (e *Evaluator) evalIfExpr(ie *ast.IfExpr, c *ctx) (values.Value, error) {
	cv, err := e.evalExpr(ie.Cond, c)
	if err != nil {
		return nil, err
	}
	b, ok := cv.(values.Bool)
	if !ok {
		return nil, values.NewRuntimeError("if condition must be Bool, got %s", cv.Tag()).WithSpan(ie.Span())
	}
	if b.Value {
		return e.execBlock(ie.Then, c.child(values.NewEnclosedEnvironment(c.env)))
	}
	return e.execBlock(ie.Else, c.child(values.NewEnclosedEnvironment(c.env)))
}
