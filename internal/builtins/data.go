package builtins

import (
	"bytes"
	"encoding/csv"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// registerData wires `data` (SPEC_FULL §12 "CSV/YAML data builtins"),
// grounded on the teacher's builtins_csv.go/builtins_yaml.go pair but
// reusing this project's yaml.v3 dependency (SPEC_FULL §11) instead of
// the teacher's own CSV/YAML packages, which are not part of this
// repo's module graph.
func (r *Registry) registerData() {
	r.def("data", "csvParse", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		text, err := argStr("data", "csvParse", args, 0)
		if err != nil {
			return nil, err
		}
		rdr := csv.NewReader(strings.NewReader(text))
		rows, rerr := rdr.ReadAll()
		if rerr != nil {
			return values.Err(values.String{Value: rerr.Error()}, nil, types.StringTag{}), nil
		}
		out := make([]values.Value, len(rows))
		for i, row := range rows {
			cells := make([]values.Value, len(row))
			for j, c := range row {
				cells[j] = values.String{Value: c}
			}
			out[i] = values.NewVec(cells, types.StringTag{})
		}
		vec := values.NewVec(out, types.Vec{Elem: types.StringTag{}})
		return values.Ok(vec, vec.Tag(), types.StringTag{}), nil
	})

	r.def("data", "csvWrite", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		rows, err := argVec("data", "csvWrite", args, 0)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		for _, rv := range rows.Cell.Snapshot() {
			rowVec, ok := rv.(values.Vec)
			if !ok {
				return nil, values.NewRuntimeError("data.csvWrite: each row must be a Vec of Str, got %s", rv.Tag())
			}
			var record []string
			for _, cv := range rowVec.Cell.Snapshot() {
				s, ok := cv.(values.String)
				if !ok {
					return nil, values.NewRuntimeError("data.csvWrite: each cell must be a Str, got %s", cv.Tag())
				}
				record = append(record, s.Value)
			}
			if werr := w.Write(record); werr != nil {
				return values.Err(values.String{Value: werr.Error()}, nil, types.StringTag{}), nil
			}
		}
		w.Flush()
		return values.Ok(values.String{Value: buf.String()}, types.StringTag{}, nil), nil
	})

	r.def("data", "yamlParse", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		text, err := argStr("data", "yamlParse", args, 0)
		if err != nil {
			return nil, err
		}
		var node any
		if yerr := yaml.Unmarshal([]byte(text), &node); yerr != nil {
			return values.Err(values.String{Value: yerr.Error()}, nil, types.StringTag{}), nil
		}
		v := anyToValue(node)
		return values.Ok(v, v.Tag(), types.StringTag{}), nil
	})

	r.def("data", "yamlWrite", func(_ values.Invoker, args []values.Value) (values.Value, error) {
		if err := argc("data", "yamlWrite", args, 1); err != nil {
			return nil, err
		}
		native, err := valueToAny(args[0])
		if err != nil {
			return nil, err
		}
		out, yerr := yaml.Marshal(native)
		if yerr != nil {
			return values.Err(values.String{Value: yerr.Error()}, nil, types.StringTag{}), nil
		}
		return values.Ok(values.String{Value: string(out)}, types.StringTag{}, nil), nil
	})
}

// anyToValue converts a yaml.v3-decoded generic document into a Value
// tree: maps become Map(Str, ?), sequences become Vec(?), scalars map
// onto their nearest Forge primitive.
func anyToValue(x any) values.Value {
	switch v := x.(type) {
	case nil:
		return values.NullValue
	case bool:
		return values.BoolOf(v)
	case int:
		return values.NewInt(int64(v), types.IntWidth("i64"))
	case int64:
		return values.NewInt(v, types.IntWidth("i64"))
	case float64:
		return values.Float{Value: v, Width: types.FloatWidth("f64")}
	case string:
		return values.String{Value: v}
	case []any:
		items := make([]values.Value, len(v))
		for i, it := range v {
			items[i] = anyToValue(it)
		}
		return values.NewVec(items, nil)
	case map[string]any:
		m := values.NewMap(types.StringTag{}, nil)
		for k, val := range v {
			_ = m.Cell.Put(values.String{Value: k}, anyToValue(val), types.StringTag{}, nil)
		}
		return m
	case map[any]any:
		m := values.NewMap(types.StringTag{}, nil)
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			_ = m.Cell.Put(values.String{Value: ks}, anyToValue(val), types.StringTag{}, nil)
		}
		return m
	}
	return values.NullValue
}

// valueToAny converts a Value tree back into plain Go data suitable
// for yaml.Marshal.
func valueToAny(v values.Value) (any, error) {
	switch val := v.(type) {
	case values.Null:
		return nil, nil
	case values.Bool:
		return val.Value, nil
	case values.Int:
		if val.Value.IsInt64() {
			return val.Value.Int64(), nil
		}
		return new(big.Int).Set(val.Value).String(), nil
	case values.Float:
		return val.Value, nil
	case values.String:
		return val.Value, nil
	case values.Vec:
		items := val.Cell.Snapshot()
		out := make([]any, len(items))
		for i, it := range items {
			nv, err := valueToAny(it)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case values.Map:
		keys, vals := val.Cell.Entries()
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			ks, ok := k.(values.String)
			if !ok {
				return nil, values.NewRuntimeError("data.yamlWrite: only Str keys can serialize to YAML, got %s", k.Tag())
			}
			nv, err := valueToAny(vals[i])
			if err != nil {
				return nil, err
			}
			out[ks.Value] = nv
		}
		return out, nil
	}
	return nil, values.NewRuntimeError("data.yamlWrite: value of tag %s cannot be serialized", v.Tag())
}
