package builtins

import (
	"time"

	"github.com/forgelang/forge/internal/async"
	"github.com/forgelang/forge/internal/values"
)

// registerAsync wires `async` (spec §4.2, §6): spawn/then/catch/
// finally/all/race/any/timeout/sleep/await, grounded on the scheduler
// combinators in internal/async (themselves adapted from the
// teacher's VM async handler, see internal/async/future.go's doc
// comment) and surfaced here the same way the teacher exposes its
// builtins: a flat Builtin-per-operation map.
func (r *Registry) registerAsync() {
	r.def("async", "spawn", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if len(args) < 1 {
			return nil, values.NewRuntimeError("async.spawn: missing function argument")
		}
		fn := args[0]
		callArgs := append([]values.Value(nil), args[1:]...)
		return r.Scheduler.Spawn(func() (values.Value, error) {
			return inv.Invoke(fn, callArgs)
		}), nil
	})

	r.def("async", "sleep", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		ms, err := argInt("async", "sleep", args, 0)
		if err != nil {
			return nil, err
		}
		return r.Scheduler.Sleep(time.Duration(ms.Value.Int64()) * time.Millisecond), nil
	})

	r.def("async", "timeout", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("async", "timeout", args, 2); err != nil {
			return nil, err
		}
		ms, err := argInt("async", "timeout", args, 0)
		if err != nil {
			return nil, err
		}
		fn := args[1]
		return r.Scheduler.Timeout(time.Duration(ms.Value.Int64())*time.Millisecond, func() (values.Value, error) {
			return inv.Invoke(fn, nil)
		}), nil
	})

	r.def("async", "await", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		f, err := argFuture("async", "await", args, 0)
		if err != nil {
			return nil, err
		}
		return f.Await()
	})

	r.def("async", "then", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("async", "then", args, 2); err != nil {
			return nil, err
		}
		f, err := argFuture("async", "then", args, 0)
		if err != nil {
			return nil, err
		}
		onOk := args[1]
		return r.Scheduler.Then(f, func(v values.Value) (values.Value, error) {
			return inv.Invoke(onOk, []values.Value{v})
		}), nil
	})

	r.def("async", "catch", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("async", "catch", args, 2); err != nil {
			return nil, err
		}
		f, err := argFuture("async", "catch", args, 0)
		if err != nil {
			return nil, err
		}
		onErr := args[1]
		return r.Scheduler.Catch(f, func(msg string) (values.Value, error) {
			return inv.Invoke(onErr, []values.Value{values.String{Value: msg}})
		}), nil
	})

	r.def("async", "finally", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("async", "finally", args, 2); err != nil {
			return nil, err
		}
		f, err := argFuture("async", "finally", args, 0)
		if err != nil {
			return nil, err
		}
		onFinal := args[1]
		return r.Scheduler.Finally(f, func() (values.Value, error) {
			return inv.Invoke(onFinal, nil)
		}), nil
	})

	futuresOf := func(module, name string, args []values.Value) ([]*async.Future, error) {
		v, err := argVec(module, name, args, 0)
		if err != nil {
			return nil, err
		}
		items := v.Cell.Snapshot()
		out := make([]*async.Future, len(items))
		for i, it := range items {
			f, ok := it.(*async.Future)
			if !ok {
				return nil, values.NewRuntimeError("%s.%s: element %d is not a Future, got %s", module, name, i, it.Tag())
			}
			out[i] = f
		}
		return out, nil
	}

	r.def("async", "all", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		tasks, err := futuresOf("async", "all", args)
		if err != nil {
			return nil, err
		}
		return r.Scheduler.All(tasks), nil
	})
	r.def("async", "race", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		tasks, err := futuresOf("async", "race", args)
		if err != nil {
			return nil, err
		}
		return r.Scheduler.Race(tasks), nil
	})
	r.def("async", "any", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		tasks, err := futuresOf("async", "any", args)
		if err != nil {
			return nil, err
		}
		return r.Scheduler.Any(tasks), nil
	})
}
