package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// applyFunction dispatches a call to whichever callable value kind fn
// holds (spec §3 "Values"): a user closure/function, a built-in, a
// foreign binding, an enum constructor, or a trait method.
func (e *Evaluator) applyFunction(c *ctx, fn values.Value, args []values.Value, span ast.Span) (values.Value, error) {
	switch f := fn.(type) {
	case values.Closure:
		return e.applyClosure(f, args, span)
	case *values.UserFunction:
		return e.applyUserFunction(f, args, span)
	case values.Builtin:
		return f.Fn(e, args)
	case values.NativeBinding:
		return e.applyNative(f, args, span)
	case values.ManagedBinding:
		return e.applyManaged(f, args, span)
	case values.EnumConstructor:
		return e.applyEnumConstructor(f, args, span)
	case values.TraitMethod:
		return e.dispatchTraitMethod(f, args, span)
	}
	return nil, values.NewRuntimeError("value of tag %s is not callable", fn.Tag()).WithSpan(span)
}

// runBody executes a function/closure body, unwrapping a ReturnSignal
// into its carried value and otherwise threading the block's own
// result (or any error/signal) straight through.
func (e *Evaluator) runBody(stmts []ast.Statement, fc *ctx) (values.Value, error) {
	v, err := e.execBlock(stmts, fc)
	if err != nil {
		if rs, ok := err.(values.ReturnSignal); ok {
			return rs.Value, nil
		}
		return nil, err
	}
	return v, nil
}

func (e *Evaluator) applyClosure(f values.Closure, args []values.Value, span ast.Span) (values.Value, error) {
	if len(args) != len(f.Params) {
		return nil, values.NewRuntimeError("closure expects %d argument(s), got %d", len(f.Params), len(args)).WithSpan(span)
	}
	callEnv := values.NewEnclosedEnvironment(f.Env)
	for i, name := range f.Params {
		if err := callEnv.Define(name, values.Let, args[i].Tag(), args[i]); err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(span)
		}
	}
	fc := &ctx{env: callEnv, typeParams: map[string]types.Tag{}}
	return e.runBody(f.Body, fc)
}

// applyUserFunction performs the full call protocol of spec §4.1
// "Function call": infer type-parameter bindings from the argument
// tags, coerce each argument and the eventual return value at the
// boundary, and — when the function declares an Option/Result return
// tag — absorb a `?`-raised Propagate into that tag's None/Err instead
// of letting it keep unwinding as an error.
func (e *Evaluator) applyUserFunction(fn *values.UserFunction, args []values.Value, span ast.Span) (values.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, values.NewRuntimeError("function %q expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args)).WithSpan(span)
	}

	tp := map[string]types.Tag{}
	if len(fn.ForcedTypeArgs) > 0 {
		for i, n := range fn.TypeParams {
			if i < len(fn.ForcedTypeArgs) {
				tp[n] = fn.ForcedTypeArgs[i]
			}
		}
	}
	free := namesSet(fn.TypeParams)
	for i, p := range fn.Params {
		unifyTypeParam(p.TypeExpr, args[i].Tag(), free, tp)
	}
	for _, n := range fn.TypeParams {
		if _, ok := tp[n]; !ok {
			tp[n] = types.Unknown{}
		}
	}

	callEnv := values.NewEnclosedEnvironment(fn.Env)
	for i, p := range fn.Params {
		pt, err := e.resolveType(p.TypeExpr, tp)
		if err != nil {
			return nil, err
		}
		cv, err := coerce(args[i], pt)
		if err != nil {
			return nil, values.NewRuntimeError("argument %q: %s", p.Name, err.Error()).WithSpan(span)
		}
		if err := callEnv.Define(p.Name, values.Let, pt, cv); err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(span)
		}
	}
	retTag, err := e.resolveType(fn.ReturnType, tp)
	if err != nil {
		return nil, err
	}

	run := func() (values.Value, error) {
		fc := &ctx{env: callEnv, typeParams: tp, inAsync: fn.Async, returnTag: retTag}
		v, rerr := e.runBody(fn.Body, fc)
		if rerr != nil {
			if prop, ok := rerr.(*values.Propagate); ok {
				if absorbed, ok := absorbPropagate(prop, retTag); ok {
					return absorbed, nil
				}
			}
			return nil, rerr
		}
		cv, cerr := coerce(v, retTag)
		if cerr != nil {
			return nil, values.NewRuntimeError("return value: %s", cerr.Error()).WithSpan(span)
		}
		return cv, nil
	}

	if fn.Async {
		return e.Scheduler.Spawn(run), nil
	}
	return run()
}

// absorbPropagate converts a `?`-raised Propagate into the enclosing
// function's declared None/Err, when that function's return tag is
// Option or Result (spec §4.1 "Try", §7 "Propagate ... automatically
// reraised across function boundaries when the declared return tag is
// Option or Result"). Any other declared return tag cannot absorb the
// signal, so it keeps unwinding as an error.
func absorbPropagate(prop *values.Propagate, retTag types.Tag) (values.Value, bool) {
	switch rt := retTag.(type) {
	case types.Option:
		return values.None(rt.Elem), true
	case types.Result:
		return values.Err(prop.Payload, rt.Ok, rt.Err), true
	}
	return nil, false
}

func (e *Evaluator) applyNative(f values.NativeBinding, args []values.Value, span ast.Span) (values.Value, error) {
	if len(args) != len(f.Params) {
		return nil, values.NewRuntimeError("native binding %q expects %d argument(s), got %d", f.Symbol, len(f.Params), len(args)).WithSpan(span)
	}
	cargs := make([]values.Value, len(args))
	for i, a := range args {
		cv, err := coerce(a, f.Params[i])
		if err != nil {
			return nil, values.NewRuntimeError("native binding %q argument %d: %s", f.Symbol, i, err.Error()).WithSpan(span)
		}
		cargs[i] = cv
	}
	v, err := f.Call(cargs)
	if err != nil {
		return nil, err
	}
	return coerce(v, f.Return)
}

func (e *Evaluator) applyManaged(f values.ManagedBinding, args []values.Value, span ast.Span) (values.Value, error) {
	if len(args) != len(f.Params) {
		return nil, values.NewRuntimeError("managed binding %s.%s expects %d argument(s), got %d", f.Class, f.Method, len(f.Params), len(args)).WithSpan(span)
	}
	cargs := make([]values.Value, len(args))
	for i, a := range args {
		cv, err := coerce(a, f.Params[i])
		if err != nil {
			return nil, values.NewRuntimeError("managed binding %s.%s argument %d: %s", f.Class, f.Method, i, err.Error()).WithSpan(span)
		}
		cargs[i] = cv
	}
	v, err := f.Call(cargs)
	if err != nil {
		return nil, err
	}
	return coerce(v, f.Return)
}

func (e *Evaluator) applyEnumConstructor(f values.EnumConstructor, args []values.Value, span ast.Span) (values.Value, error) {
	if len(args) != f.Arity {
		return nil, values.NewRuntimeError("enum constructor %s::%s expects %d argument(s), got %d", f.TypeName, f.Variant, f.Arity, len(args)).WithSpan(span)
	}
	schema, ok := e.Schemas.GetEnum(f.TypeName)
	if !ok {
		return nil, values.NewRuntimeError("undefined enum %q", f.TypeName).WithSpan(span)
	}
	variant := schema.Variants[f.Variant]

	tp := map[string]types.Tag{}
	if len(f.TypeArgs) > 0 {
		for i, n := range schema.TypeParams {
			if i < len(f.TypeArgs) {
				tp[n] = f.TypeArgs[i]
			}
		}
	} else {
		free := namesSet(schema.TypeParams)
		for i, pt := range variant.Payload {
			if i < len(args) {
				unifyTypeParam(pt, args[i].Tag(), free, tp)
			}
		}
	}

	payload := make([]values.Value, len(args))
	for i, pt := range variant.Payload {
		rt, err := e.resolveType(pt, tp)
		if err != nil {
			return nil, err
		}
		cv, err := coerce(args[i], rt)
		if err != nil {
			return nil, values.NewRuntimeError("%s::%s payload %d: %s", f.TypeName, f.Variant, i, err.Error()).WithSpan(span)
		}
		payload[i] = cv
	}
	typeArgs := make([]types.Tag, len(schema.TypeParams))
	for i, n := range schema.TypeParams {
		if bound, ok := tp[n]; ok {
			typeArgs[i] = bound
		} else {
			typeArgs[i] = types.Unknown{}
		}
	}
	return values.Enum{TypeName: f.TypeName, Variant: f.Variant, Payload: payload, TypeArgs: typeArgs}, nil
}

// dispatchTraitMethod resolves a bare trait-method value (produced
// wherever a trait method is referenced without a receiver already
// applied) against its first argument's resolved type key.
func (e *Evaluator) dispatchTraitMethod(f values.TraitMethod, args []values.Value, span ast.Span) (values.Value, error) {
	if len(args) == 0 {
		return nil, values.NewRuntimeError("trait method %s::%s requires a receiver argument", f.Trait, f.Method).WithSpan(span)
	}
	typeKey := typeKeyOf(args[0].Tag())
	fn, ok := e.Schemas.LookupTraitImpl(f.Trait, typeKey, f.Method)
	if !ok {
		return nil, values.NewRuntimeError("no impl of trait %q for %s", f.Trait, args[0].Tag()).WithSpan(span)
	}
	return e.applyUserFunction(fn, args, span)
}
