package builtins

import "github.com/forgelang/forge/internal/values"

// registerMap wires `map` (spec §6, I6 "map.put/map.get round-trip"),
// grounded on the teacher's builtins_dictionaries.go put/get pair,
// rebuilt against the shared MapCell interior.
func (r *Registry) registerMap() {
	r.def("map", "new", func(_ values.Invoker, _ []values.Value) (values.Value, error) {
		return values.NewMap(nil, nil), nil
	})

	r.def("map", "put", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("map", "put", args, 3); err != nil {
			return nil, err
		}
		m, err := argMap("map", "put", args, 0)
		if err != nil {
			return nil, err
		}
		if err := m.Cell.Put(args[1], args[2], args[1].Tag(), args[2].Tag()); err != nil {
			return nil, values.NewRuntimeError("%s", err.Error())
		}
		return values.NullValue, nil
	})

	r.def("map", "get", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("map", "get", args, 2); err != nil {
			return nil, err
		}
		m, err := argMap("map", "get", args, 0)
		if err != nil {
			return nil, err
		}
		v, ok, err := m.Cell.Get(args[1])
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error())
		}
		if !ok {
			return values.None(m.Cell.ValueTag), nil
		}
		return values.Some(v, v.Tag()), nil
	})

	r.def("map", "delete", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("map", "delete", args, 2); err != nil {
			return nil, err
		}
		m, err := argMap("map", "delete", args, 0)
		if err != nil {
			return nil, err
		}
		ok, err := m.Cell.Delete(args[1])
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error())
		}
		return values.BoolOf(ok), nil
	})

	r.def("map", "len", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		m, err := argMap("map", "len", args, 0)
		if err != nil {
			return nil, err
		}
		return intArg(int64(m.Cell.Len())), nil
	})

	r.def("map", "keys", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		m, err := argMap("map", "keys", args, 0)
		if err != nil {
			return nil, err
		}
		keys, _ := m.Cell.Entries()
		return values.NewVec(keys, nil), nil
	})

	r.def("map", "values", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		m, err := argMap("map", "values", args, 0)
		if err != nil {
			return nil, err
		}
		_, vals := m.Cell.Entries()
		return values.NewVec(vals, nil), nil
	})
}

// registerSet wires `set` (spec §6), grounded on the same
// builtins_dictionaries.go source as map, generalized to the
// value-only SetCell interior.
func (r *Registry) registerSet() {
	r.def("set", "new", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s := values.NewSet(nil)
		for _, a := range args {
			if err := s.Cell.Add(a, a.Tag()); err != nil {
				return nil, values.NewRuntimeError("%s", err.Error())
			}
		}
		return s, nil
	})

	r.def("set", "add", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("set", "add", args, 2); err != nil {
			return nil, err
		}
		s, err := argSet("set", "add", args, 0)
		if err != nil {
			return nil, err
		}
		if err := s.Cell.Add(args[1], args[1].Tag()); err != nil {
			return nil, values.NewRuntimeError("%s", err.Error())
		}
		return values.NullValue, nil
	})

	r.def("set", "contains", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("set", "contains", args, 2); err != nil {
			return nil, err
		}
		s, err := argSet("set", "contains", args, 0)
		if err != nil {
			return nil, err
		}
		ok, err := s.Cell.Contains(args[1])
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error())
		}
		return values.BoolOf(ok), nil
	})

	r.def("set", "len", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argSet("set", "len", args, 0)
		if err != nil {
			return nil, err
		}
		return intArg(int64(s.Cell.Len())), nil
	})

	r.def("set", "items", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argSet("set", "items", args, 0)
		if err != nil {
			return nil, err
		}
		return values.NewVec(s.Cell.Items(), nil), nil
	})
}
