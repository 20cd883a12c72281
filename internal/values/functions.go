package values

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
)

// Closure is an inline lambda: it captures its defining Environment by
// shared reference and always executes synchronously on application,
// even when Async is set (spec §4.1 "Lambda", §9 Open Questions: the
// async flag is advisory — use `spawn` to get asynchronous behavior).
type Closure struct {
	Params []string
	Body   []ast.Statement
	Env    *Environment
	Async  bool
}

func (c Closure) Tag() types.Tag { return types.Func{} }
func (Closure) Inspect() string  { return "<closure>" }

// UserFunction is a named, typed, possibly-generic function. When
// Async is set, calling it does not execute the body; instead the
// Evaluator wraps the call as a deferred invocation behind a Future
// (spec §4.1 "Function call").
//
// ReturnType is kept unresolved (an ast.TypeExpr) rather than a fixed
// types.Tag, the same way Params stays as []ast.Param: a generic
// function's return type may mention one of TypeParams, and that can
// only be resolved once a call site's inferred type-parameter
// bindings are known.
type UserFunction struct {
	Name           string
	TypeParams     []string
	Params         []ast.Param
	ReturnType     ast.TypeExpr
	Body           []ast.Statement
	Env            *Environment
	Async          bool
	ForcedTypeArgs []types.Tag
}

func (f UserFunction) Tag() types.Tag  { return types.Func{} }
func (f UserFunction) Inspect() string { return "<fn " + f.Name + ">" }

// BuiltinFn is the Go implementation of a built-in operation. inv
// lets a builtin call back into user code (e.g. Option.unwrapOrElse
// invoking a fallback closure) without a package import cycle.
type BuiltinFn func(inv Invoker, args []Value) (Value, error)

// Builtin is an opaque operation reference (spec §3).
type Builtin struct {
	Name string
	Fn   BuiltinFn
	Sig  types.Tag // optional declared signature, for documentation/checking
}

func (Builtin) Tag() types.Tag    { return types.Func{} }
func (b Builtin) Inspect() string { return "<builtin " + b.Name + ">" }

// NativeBinding is a dynamically-loaded foreign symbol bound through
// the native export path (spec §4.3). Call marshals Forge values to
// the foreign signature and back.
type NativeBinding struct {
	Symbol string
	Params []types.Tag
	Return types.Tag
	Call   func(args []Value) (Value, error)
}

func (NativeBinding) Tag() types.Tag    { return types.Func{} }
func (n NativeBinding) Inspect() string { return "<native " + n.Symbol + ">" }

// ManagedBinding is a foreign class method bound through the managed
// export path (spec §4.3).
type ManagedBinding struct {
	Class  string
	Method string
	Params []types.Tag
	Return types.Tag
	Call   func(args []Value) (Value, error)
}

func (ManagedBinding) Tag() types.Tag    { return types.Func{} }
func (m ManagedBinding) Inspect() string { return "<managed " + m.Class + "." + m.Method + ">" }

// Module is a namespace value whose fields are themselves values.
type Module struct {
	Name   string
	Fields map[string]Value
}

func (Module) Tag() types.Tag    { return types.Unknown{} }
func (m Module) Inspect() string { return "<module " + m.Name + ">" }

func (m Module) Get(field string) (Value, bool) {
	v, ok := m.Fields[field]
	return v, ok
}

// TraitMethod is dispatched by the first argument's resolved type key
// at call time (spec §3, §9 "Deep inheritance / method dispatch").
type TraitMethod struct {
	Trait  string
	Method string
}

func (TraitMethod) Tag() types.Tag { return types.Func{} }
func (t TraitMethod) Inspect() string {
	return "<trait method " + t.Trait + "::" + t.Method + ">"
}
