package builtins

import "github.com/forgelang/forge/internal/values"

// registerReflect wires the typeOf/kindOf/inspect/equals reflection
// builtins (SPEC_FULL §12), grounded on the teacher's
// builtins_reflection.go type-introspection helpers, adapted to
// surface a TypeValue instead of the teacher's typesystem.Type
// string rendering.
func (r *Registry) registerReflect() {
	r.def("reflect", "typeOf", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("reflect", "typeOf", args, 1); err != nil {
			return nil, err
		}
		return values.TypeValue{Tag_: args[0].Tag()}, nil
	})

	r.def("reflect", "kindOf", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("reflect", "kindOf", args, 1); err != nil {
			return nil, err
		}
		return values.String{Value: args[0].Tag().String()}, nil
	})

	r.def("reflect", "inspect", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("reflect", "inspect", args, 1); err != nil {
			return nil, err
		}
		return values.String{Value: args[0].Inspect()}, nil
	})

	r.def("reflect", "equals", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("reflect", "equals", args, 2); err != nil {
			return nil, err
		}
		return values.BoolOf(values.Equal(args[0], args[1])), nil
	})
}
