package builtins

import (
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// registerVec wires `vec` (spec §6, I5 "vec.push/vec.pop round-trip"),
// grounded on the teacher's list-builtin shape (VecCell mirrors the
// teacher's slice-backed List object) but operating on the shared
// VecCell interior instead of copying.
func (r *Registry) registerVec() {
	r.def("vec", "new", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		return values.NewVec(append([]values.Value(nil), args...), nil), nil
	})

	r.def("vec", "push", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("vec", "push", args, 2); err != nil {
			return nil, err
		}
		v, err := argVec("vec", "push", args, 0)
		if err != nil {
			return nil, err
		}
		v.Cell.Push(args[1], args[1].Tag())
		return values.NullValue, nil
	})

	r.def("vec", "pop", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		v, err := argVec("vec", "pop", args, 0)
		if err != nil {
			return nil, err
		}
		val, ok := v.Cell.Pop()
		if !ok {
			return values.None(vecElemTag(v)), nil
		}
		return values.Some(val, vecElemTag(v)), nil
	})

	r.def("vec", "len", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		v, err := argVec("vec", "len", args, 0)
		if err != nil {
			return nil, err
		}
		return intArg(int64(v.Cell.Len())), nil
	})

	r.def("vec", "get", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		v, err := argVec("vec", "get", args, 0)
		if err != nil {
			return nil, err
		}
		idx, err := argInt("vec", "get", args, 1)
		if err != nil {
			return nil, err
		}
		val, ok := v.Cell.Get(int(idx.Value.Int64()))
		if !ok {
			return values.None(vecElemTag(v)), nil
		}
		return values.Some(val, vecElemTag(v)), nil
	})

	r.def("vec", "set", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("vec", "set", args, 3); err != nil {
			return nil, err
		}
		v, err := argVec("vec", "set", args, 0)
		if err != nil {
			return nil, err
		}
		idx, err := argInt("vec", "set", args, 1)
		if err != nil {
			return nil, err
		}
		if !v.Cell.Set(int(idx.Value.Int64()), args[2]) {
			return nil, values.NewRuntimeError("vec.set: index %s out of range", idx.Value.String())
		}
		return values.NullValue, nil
	})

	r.def("vec", "map", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("vec", "map", args, 2); err != nil {
			return nil, err
		}
		v, err := argVec("vec", "map", args, 0)
		if err != nil {
			return nil, err
		}
		items := v.Cell.Snapshot()
		out := make([]values.Value, len(items))
		var elem types.Tag
		for i, it := range items {
			mv, err := inv.Invoke(args[1], []values.Value{it})
			if err != nil {
				return nil, err
			}
			out[i] = mv
			elem = mv.Tag()
		}
		return values.NewVec(out, elem), nil
	})

	r.def("vec", "filter", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("vec", "filter", args, 2); err != nil {
			return nil, err
		}
		v, err := argVec("vec", "filter", args, 0)
		if err != nil {
			return nil, err
		}
		items := v.Cell.Snapshot()
		var out []values.Value
		for _, it := range items {
			kv, err := inv.Invoke(args[1], []values.Value{it})
			if err != nil {
				return nil, err
			}
			keep, ok := kv.(values.Bool)
			if !ok {
				return nil, values.NewRuntimeError("vec.filter: predicate must return Bool, got %s", kv.Tag())
			}
			if keep.Value {
				out = append(out, it)
			}
		}
		return values.NewVec(out, vecElemTag(v)), nil
	})

	r.def("vec", "reduce", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("vec", "reduce", args, 3); err != nil {
			return nil, err
		}
		v, err := argVec("vec", "reduce", args, 0)
		if err != nil {
			return nil, err
		}
		acc := args[1]
		for _, it := range v.Cell.Snapshot() {
			acc, err = inv.Invoke(args[2], []values.Value{acc, it})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})
}
