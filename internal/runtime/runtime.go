// Package runtime wires the Evaluator, async Scheduler, built-in
// module Registry, and module Loader into the single entry point
// spec §6 calls "run(program, args)", and supplies the Loader's
// ReadSource/RunProgram closures so internal/modules never has to
// import internal/eval (see that package's doc comment).
package runtime

import (
	"fmt"
	"os"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/async"
	"github.com/forgelang/forge/internal/builtins"
	"github.com/forgelang/forge/internal/config"
	"github.com/forgelang/forge/internal/eval"
	"github.com/forgelang/forge/internal/modules"
	"github.com/forgelang/forge/internal/schema"
	"github.com/forgelang/forge/internal/values"
)

// topLevelModules are bound directly into every Evaluator's global
// frame without requiring an explicit import statement (spec §6
// "Module system contract": "all required in the global
// environment"). Every other registered module is reachable only
// through `forge::<name>` or an explicit `import`.
var topLevelModules = []string{
	"log", "print", "panic", "math", "vec", "str",
	"result", "option", "async", "map", "set",
	"ui", "android", "web", "forge",
}

// Runtime holds the shared state one host process needs: a schema
// registry, a worker-pool scheduler, and the built-in module table.
// Every loaded module gets its own *eval.Evaluator (fresh global
// frame) sharing all three, per modules.RunProgram's contract.
type Runtime struct {
	Project   config.Project
	Schemas   *schema.Registry
	Scheduler *async.Scheduler
	Builtins  *builtins.Registry
	Loader    *modules.Loader
	Out       *os.File
	Err       *os.File
}

// New assembles a Runtime from a loaded project configuration. out
// and errw receive print/log output and top-level error reporting
// respectively.
func New(project config.Project, out, errw *os.File) *Runtime {
	values.FloatEpsilon = project.FloatEpsilon

	scheduler := async.NewScheduler(project.WorkerPoolSize)
	reg := builtins.New(out, scheduler)

	rt := &Runtime{
		Project:   project,
		Schemas:   schema.NewRegistry(),
		Scheduler: scheduler,
		Builtins:  reg,
		Out:       out,
		Err:       errw,
	}
	rt.Loader = modules.NewLoader(reg.Modules(), project.SourceDirs, rt.readSource, rt.runModule)
	return rt
}

// newEvaluator builds one *eval.Evaluator sharing this Runtime's
// schema registry, scheduler, and built-ins, with its own fresh
// global frame and every top-level module pre-bound (spec §6).
func (rt *Runtime) newEvaluator() (*eval.Evaluator, error) {
	e := eval.New(rt.Schemas, rt.Scheduler)
	e.Out = rt.Out
	e.Loader = rt.Loader
	e.Builtins = rt.Builtins

	mods := rt.Builtins.Modules()
	for _, name := range topLevelModules {
		mod, ok := mods[name]
		if !ok {
			continue
		}
		if err := e.Globals.Define(name, values.Let, mod.Tag(), mod); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (rt *Runtime) readSource(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ast.Decode(data)
}

// runModule is the modules.RunProgram closure: a fresh Evaluator over
// a fresh global frame, sharing this Runtime's schemas/scheduler/
// builtins/loader, returning its resulting bindings (spec §4.3 "a
// module is a dotted name binding to a field map").
func (rt *Runtime) runModule(prog *ast.Program) (map[string]values.Value, error) {
	e, err := rt.newEvaluator()
	if err != nil {
		return nil, err
	}
	return e.RunProgram(prog)
}

// Run executes prog as the host entry program (spec §6 "run(program,
// args)"): registers every top-level declaration, then invokes apex
// with args, awaiting the result if apex is async. It returns the
// process exit code (0 on success, 1 on an unhandled runtime error)
// together with the error that produced a non-zero code, if any.
func Run(rt *Runtime, prog *ast.Program, args []values.Value) (int, error) {
	e, err := rt.newEvaluator()
	if err != nil {
		return 1, err
	}
	if _, err := e.RunProgram(prog); err != nil {
		return 1, err
	}

	b, ok := e.Globals.Get(config.EntryFuncName)
	if !ok {
		return 1, values.NewRuntimeError("no %s function declared", config.EntryFuncName)
	}

	result, err := e.Invoke(b.Value, args)
	if err != nil {
		return 1, err
	}
	if fut, ok := values.IsFuture(result); ok {
		result, err = fut.Await()
		if err != nil {
			return 1, err
		}
	}
	_ = result
	return 0, nil
}

// FormatError renders a RuntimeError/Propagate for the top-level
// error stream, including its span when available (spec §6 "Exit
// codes").
func FormatError(err error) string {
	if re, ok := err.(*values.RuntimeError); ok {
		if re.Span.IsValid() {
			return fmt.Sprintf("error: %s (%s)", re.Message, re.Span)
		}
		return fmt.Sprintf("error: %s", re.Message)
	}
	if pe, ok := err.(*values.Propagate); ok {
		if pe.Span.IsValid() {
			return fmt.Sprintf("error: uncaught %s (%s)", pe.Payload.Inspect(), pe.Span)
		}
		return fmt.Sprintf("error: uncaught %s", pe.Payload.Inspect())
	}
	return "error: " + err.Error()
}
