package builtins

import "github.com/forgelang/forge/internal/values"

// registerResult wires `result` (spec §6, idempotence law
// "result.ok(x).? == x"), grounded on the teacher's
// builtins_result.go Ok/Err helpers.
func (r *Registry) registerResult() {
	r.def("result", "ok", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("result", "ok", args, 1); err != nil {
			return nil, err
		}
		return values.Ok(args[0], args[0].Tag(), nil), nil
	})

	r.def("result", "err", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("result", "err", args, 1); err != nil {
			return nil, err
		}
		return values.Err(args[0], nil, args[0].Tag()), nil
	})

	r.def("result", "isOk", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		rv, err := argResult("result", "isOk", args, 0)
		if err != nil {
			return nil, err
		}
		return values.BoolOf(rv.IsOk), nil
	})

	r.def("result", "isErr", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		rv, err := argResult("result", "isErr", args, 0)
		if err != nil {
			return nil, err
		}
		return values.BoolOf(!rv.IsOk), nil
	})

	r.def("result", "unwrapOr", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("result", "unwrapOr", args, 2); err != nil {
			return nil, err
		}
		rv, err := argResult("result", "unwrapOr", args, 0)
		if err != nil {
			return nil, err
		}
		if rv.IsOk {
			return rv.Value, nil
		}
		return args[1], nil
	})

	r.def("result", "map", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("result", "map", args, 2); err != nil {
			return nil, err
		}
		rv, err := argResult("result", "map", args, 0)
		if err != nil {
			return nil, err
		}
		if !rv.IsOk {
			return rv, nil
		}
		mv, err := inv.Invoke(args[1], []values.Value{rv.Value})
		if err != nil {
			return nil, err
		}
		return values.Ok(mv, mv.Tag(), rv.Err), nil
	})

	r.def("result", "mapErr", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("result", "mapErr", args, 2); err != nil {
			return nil, err
		}
		rv, err := argResult("result", "mapErr", args, 0)
		if err != nil {
			return nil, err
		}
		if rv.IsOk {
			return rv, nil
		}
		mv, err := inv.Invoke(args[1], []values.Value{rv.Value})
		if err != nil {
			return nil, err
		}
		return values.Err(mv, rv.OkTag, mv.Tag()), nil
	})
}
