package builtins

import (
	"strconv"
	"strings"

	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// registerStr wires `str` (spec §6), grounded on the teacher's
// string-builtin set (internal/evaluator/builtins_fp_transformers.go's
// string helpers), rebuilt against the immutable values.String type.
func (r *Registry) registerStr() {
	r.def("str", "len", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argStr("str", "len", args, 0)
		if err != nil {
			return nil, err
		}
		return intArg(int64(len([]rune(s)))), nil
	})

	r.def("str", "upper", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argStr("str", "upper", args, 0)
		if err != nil {
			return nil, err
		}
		return values.String{Value: strings.ToUpper(s)}, nil
	})

	r.def("str", "lower", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argStr("str", "lower", args, 0)
		if err != nil {
			return nil, err
		}
		return values.String{Value: strings.ToLower(s)}, nil
	})

	r.def("str", "trim", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argStr("str", "trim", args, 0)
		if err != nil {
			return nil, err
		}
		return values.String{Value: strings.TrimSpace(s)}, nil
	})

	r.def("str", "concat", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		var b strings.Builder
		for _, a := range args {
			s, ok := a.(values.String)
			if !ok {
				return nil, values.NewRuntimeError("str.concat: every argument must be a Str, got %s", a.Tag())
			}
			b.WriteString(s.Value)
		}
		return values.String{Value: b.String()}, nil
	})

	r.def("str", "split", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("str", "split", args, 2); err != nil {
			return nil, err
		}
		s, err := argStr("str", "split", args, 0)
		if err != nil {
			return nil, err
		}
		sep, err := argStr("str", "split", args, 1)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		items := make([]values.Value, len(parts))
		for i, p := range parts {
			items[i] = values.String{Value: p}
		}
		return values.NewVec(items, types.StringTag{}), nil
	})

	r.def("str", "contains", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("str", "contains", args, 2); err != nil {
			return nil, err
		}
		s, err := argStr("str", "contains", args, 0)
		if err != nil {
			return nil, err
		}
		sub, err := argStr("str", "contains", args, 1)
		if err != nil {
			return nil, err
		}
		return values.BoolOf(strings.Contains(s, sub)), nil
	})

	r.def("str", "replace", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("str", "replace", args, 3); err != nil {
			return nil, err
		}
		s, err := argStr("str", "replace", args, 0)
		if err != nil {
			return nil, err
		}
		old, err := argStr("str", "replace", args, 1)
		if err != nil {
			return nil, err
		}
		neu, err := argStr("str", "replace", args, 2)
		if err != nil {
			return nil, err
		}
		return values.String{Value: strings.ReplaceAll(s, old, neu)}, nil
	})

	r.def("str", "toInt", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argStr("str", "toInt", args, 0)
		if err != nil {
			return nil, err
		}
		n, perr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if perr != nil {
			return values.None(types.Int{Width: types.IntWidth("i64")}), nil
		}
		return values.Some(values.NewInt(n, types.IntWidth("i64")), types.Int{Width: types.IntWidth("i64")}), nil
	})

	r.def("str", "toFloat", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		s, err := argStr("str", "toFloat", args, 0)
		if err != nil {
			return nil, err
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			return values.None(types.Float{Width: types.FloatWidth("f64")}), nil
		}
		return values.Some(values.Float{Value: f, Width: types.FloatWidth("f64")}, types.Float{Width: types.FloatWidth("f64")}), nil
	})
}
