// Package builtins is the startup-populated global module tree (spec
// §4.3 rule 1, §6 "Module system contract"): log, print, panic, math,
// vec, str, result, option, async, map, set, ui, android, web, and the
// forge aggregator. Grounded on the teacher's evaluator/builtins*.go
// map-of-*Builtin registration style (internal/evaluator/builtins.go),
// adapted to the Value/Tag model of this interpreter instead of the
// teacher's Object/typesystem.Type pair.
package builtins

import (
	"io"
	"os"

	"github.com/forgelang/forge/internal/async"
	"github.com/forgelang/forge/internal/values"
)

// Registry is a flat (module, name) -> BuiltinFn table. It implements
// eval.BuiltinResolver structurally (Method(module, name)), and also
// hands the module loader a map[string]values.Module so `import math`
// resolves the same functions as a MethodCall dispatch does.
type Registry struct {
	Out       io.Writer
	Scheduler *async.Scheduler

	mods map[string]map[string]values.BuiltinFn
}

// New builds the full standard module tree. out is where print/log
// write; scheduler backs the async module's combinators.
func New(out io.Writer, scheduler *async.Scheduler) *Registry {
	if out == nil {
		out = os.Stdout
	}
	r := &Registry{Out: out, Scheduler: scheduler, mods: make(map[string]map[string]values.BuiltinFn)}
	r.registerTop()
	r.registerLog()
	r.registerMath()
	r.registerVec()
	r.registerStr()
	r.registerOption()
	r.registerResult()
	r.registerMap()
	r.registerSet()
	r.registerAsync()
	r.registerReflect()
	r.registerData()
	r.registerNetGRPC()
	r.registerDB()
	r.registerStubs()
	return r
}

func (r *Registry) def(module, name string, fn values.BuiltinFn) {
	m, ok := r.mods[module]
	if !ok {
		m = make(map[string]values.BuiltinFn)
		r.mods[module] = m
	}
	m[name] = fn
}

// Method implements eval.BuiltinResolver.
func (r *Registry) Method(module, name string) (values.BuiltinFn, bool) {
	m, ok := r.mods[module]
	if !ok {
		return nil, false
	}
	fn, ok := m[name]
	return fn, ok
}

// Modules builds the values.Module tree the loader serves for import
// statements naming a built-in path (spec §4.3 rule 1). "forge" gets
// every other module nested under its own field map (spec §6).
func (r *Registry) Modules() map[string]values.Module {
	out := make(map[string]values.Module, len(r.mods)+1)
	for name := range r.mods {
		out[name] = r.moduleValue(name)
	}

	forgeFields := make(map[string]values.Value, len(out))
	for name, mod := range out {
		forgeFields[name] = mod
	}
	out["forge"] = values.Module{Name: "forge", Fields: forgeFields}
	return out
}

func (r *Registry) moduleValue(name string) values.Module {
	fns := r.mods[name]
	fields := make(map[string]values.Value, len(fns))
	for fname, fn := range fns {
		fields[fname] = values.Builtin{Name: name + "." + fname, Fn: fn}
	}
	return values.Module{Name: name, Fields: fields}
}
