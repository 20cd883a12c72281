package builtins

import (
	stdmath "math"
	"math/big"

	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// registerMath wires `math` (spec §6). Every operation computes in
// Float arithmetic except `abs`, which keeps an Int argument an Int
// (spec §3 "Numeric model"); there is no third-party
// numeric library anywhere in the example pack, so this is the one
// module built directly on the standard library (see DESIGN.md).
func (r *Registry) registerMath() {
	unary := func(name string, fn func(float64) float64) {
		r.def("math", name, func(_ values.Invoker, args []values.Value) (values.Value, error) {
			x, err := argFloat("math", name, args, 0)
			if err != nil {
				return nil, err
			}
			return values.Float{Value: fn(x)}, nil
		})
	}
	unary("sqrt", stdmath.Sqrt)
	unary("floor", stdmath.Floor)
	unary("ceil", stdmath.Ceil)
	unary("round", stdmath.Round)
	unary("sin", stdmath.Sin)
	unary("cos", stdmath.Cos)
	unary("tan", stdmath.Tan)
	unary("log", stdmath.Log)
	unary("log2", stdmath.Log2)
	unary("log10", stdmath.Log10)
	unary("exp", stdmath.Exp)

	r.def("math", "abs", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		switch v := args[0].(type) {
		case values.Int:
			n := new(big.Int).Abs(v.Value)
			return values.Int{Value: n, Width: v.Width}, nil
		case values.Float:
			return values.Float{Value: stdmath.Abs(v.Value), Width: v.Width}, nil
		}
		return nil, values.NewRuntimeError("math.abs: argument must be a numeric value, got %s", args[0].Tag())
	})

	r.def("math", "pow", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("math", "pow", args, 2); err != nil {
			return nil, err
		}
		base, err := argFloat("math", "pow", args, 0)
		if err != nil {
			return nil, err
		}
		exp, err := argFloat("math", "pow", args, 1)
		if err != nil {
			return nil, err
		}
		return values.Float{Value: stdmath.Pow(base, exp)}, nil
	})

	r.def("math", "min", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("math", "min", args, 2); err != nil {
			return nil, err
		}
		a, err := argFloat("math", "min", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argFloat("math", "min", args, 1)
		if err != nil {
			return nil, err
		}
		return values.Float{Value: stdmath.Min(a, b)}, nil
	})
	r.def("math", "max", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("math", "max", args, 2); err != nil {
			return nil, err
		}
		a, err := argFloat("math", "max", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argFloat("math", "max", args, 1)
		if err != nil {
			return nil, err
		}
		return values.Float{Value: stdmath.Max(a, b)}, nil
	})

	r.def("math", "pi", func(_ values.Invoker, _ []values.Value) (values.Value, error) {
		return values.Float{Value: stdmath.Pi, Width: types.FloatWidth("f64")}, nil
	})
}
