package builtins

import (
	"fmt"

	"github.com/forgelang/forge/internal/values"
)

// registerTop wires the bare `print` module (spec §6) — a single
// callable surfaced at print.line, grounded on the teacher's
// config.PrintFuncName registration in evaluator/builtins.go, adapted
// so stdout goes through the Registry's injected io.Writer instead of
// a hardcoded os.Stdout.
func (r *Registry) registerTop() {
	r.def("print", "line", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(r.Out, " ")
			}
			fmt.Fprint(r.Out, a.Inspect())
		}
		fmt.Fprintln(r.Out)
		return values.NullValue, nil
	})

	r.def("panic", "raise", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		msg, err := argStr("panic", "raise", args, 0)
		if err != nil {
			return nil, err
		}
		return nil, values.NewRuntimeError("%s", msg)
	})

	r.def("error", "throw", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("error", "throw", args, 1); err != nil {
			return nil, err
		}
		return nil, &values.Propagate{Payload: args[0]}
	})
	r.def("error", "new", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		msg, err := argStr("error", "new", args, 0)
		if err != nil {
			return nil, err
		}
		return values.String{Value: msg}, nil
	})
}

// registerLog wires `log` (spec §6) with info/warn/error/debug levels,
// grounded on the teacher's level-tagged stdlib log style
// (internal/evaluator/builtins_std.go) — generalized so every level
// shares one formatting routine.
func (r *Registry) registerLog() {
	level := func(tag string) values.BuiltinFn {
		return func(_ values.Invoker, args []values.Value) (values.Value, error) {
			fmt.Fprintf(r.Out, "[%s] ", tag)
			for i, a := range args {
				if i > 0 {
					fmt.Fprint(r.Out, " ")
				}
				fmt.Fprint(r.Out, a.Inspect())
			}
			fmt.Fprintln(r.Out)
			return values.NullValue, nil
		}
	}
	r.def("log", "info", level("info"))
	r.def("log", "warn", level("warn"))
	r.def("log", "error", level("error"))
	r.def("log", "debug", level("debug"))
}
