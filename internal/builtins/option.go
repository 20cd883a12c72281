package builtins

import "github.com/forgelang/forge/internal/values"

// registerOption wires `option` (spec §6, idempotence law
// "option.some(x).? == x"), grounded on the teacher's
// builtins_option.go Some/None helpers.
func (r *Registry) registerOption() {
	r.def("option", "some", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("option", "some", args, 1); err != nil {
			return nil, err
		}
		return values.Some(args[0], args[0].Tag()), nil
	})

	r.def("option", "none", func(_ values.Invoker, _ []values.Value) (values.Value, error) {
		return values.None(nil), nil
	})

	r.def("option", "isSome", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		o, err := argOption("option", "isSome", args, 0)
		if err != nil {
			return nil, err
		}
		return values.BoolOf(o.HasValue), nil
	})

	r.def("option", "isNone", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		o, err := argOption("option", "isNone", args, 0)
		if err != nil {
			return nil, err
		}
		return values.BoolOf(!o.HasValue), nil
	})

	r.def("option", "unwrapOr", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("option", "unwrapOr", args, 2); err != nil {
			return nil, err
		}
		o, err := argOption("option", "unwrapOr", args, 0)
		if err != nil {
			return nil, err
		}
		if o.HasValue {
			return o.Value, nil
		}
		return args[1], nil
	})

	r.def("option", "unwrapOrElse", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("option", "unwrapOrElse", args, 2); err != nil {
			return nil, err
		}
		o, err := argOption("option", "unwrapOrElse", args, 0)
		if err != nil {
			return nil, err
		}
		if o.HasValue {
			return o.Value, nil
		}
		return inv.Invoke(args[1], nil)
	})

	r.def("option", "map", func(inv values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("option", "map", args, 2); err != nil {
			return nil, err
		}
		o, err := argOption("option", "map", args, 0)
		if err != nil {
			return nil, err
		}
		if !o.HasValue {
			return o, nil
		}
		mv, err := inv.Invoke(args[1], []values.Value{o.Value})
		if err != nil {
			return nil, err
		}
		return values.Some(mv, mv.Tag()), nil
	})
}
