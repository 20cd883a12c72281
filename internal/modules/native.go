package modules

import (
	"fmt"
	"math/big"
	"plugin"
	"strings"

	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// parseSignature parses the native signature grammar of spec §4.3:
// `fn(T1, T2, ...) -> R?` where T/R is one of str, i32, i64, bool,
// bytes. A missing `-> R` means a Unit return.
func parseSignature(sig string) (params []types.Tag, ret types.Tag, err error) {
	sig = strings.TrimSpace(sig)
	if sig == "" {
		return nil, types.Unit{}, nil
	}
	if !strings.HasPrefix(sig, "fn(") {
		return nil, nil, fmt.Errorf("invalid native signature %q: must start with fn(", sig)
	}
	rest := sig[len("fn("):]
	close := strings.Index(rest, ")")
	if close < 0 {
		return nil, nil, fmt.Errorf("invalid native signature %q: missing )", sig)
	}
	argsPart := strings.TrimSpace(rest[:close])
	tail := strings.TrimSpace(rest[close+1:])

	if argsPart != "" {
		for _, p := range strings.Split(argsPart, ",") {
			t, err := nativeTypeTag(strings.TrimSpace(p))
			if err != nil {
				return nil, nil, err
			}
			params = append(params, t)
		}
	}

	ret = types.Unit{}
	if tail != "" {
		if !strings.HasPrefix(tail, "->") {
			return nil, nil, fmt.Errorf("invalid native signature %q: expected -> after )", sig)
		}
		retName := strings.TrimSpace(strings.TrimPrefix(tail, "->"))
		ret, err = nativeTypeTag(retName)
		if err != nil {
			return nil, nil, err
		}
	}
	return params, ret, nil
}

func nativeTypeTag(name string) (types.Tag, error) {
	switch name {
	case "str":
		return types.StringTag{}, nil
	case "i32":
		return types.Int{Width: types.I32}, nil
	case "i64":
		return types.Int{Width: types.I64}, nil
	case "bool":
		return types.Bool{}, nil
	case "bytes":
		return types.Vec{Elem: types.Int{Width: types.U8}}, nil
	}
	return nil, fmt.Errorf("unsupported native type %q (must be one of str, i32, i64, bool, bytes)", name)
}

// toNative marshals a Forge value to the Go value the foreign symbol
// expects, per the type it was declared with.
func toNative(v values.Value, t types.Tag) (interface{}, error) {
	switch tt := t.(type) {
	case types.StringTag:
		s, ok := v.(values.String)
		if !ok {
			return nil, fmt.Errorf("expected str, got %s", v.Tag())
		}
		return s.Value, nil
	case types.Bool:
		b, ok := v.(values.Bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %s", v.Tag())
		}
		return b.Value, nil
	case types.Int:
		iv, ok := v.(values.Int)
		if !ok {
			return nil, fmt.Errorf("expected %s, got %s", tt, v.Tag())
		}
		if tt.Width == types.I32 {
			return int32(iv.Value.Int64()), nil
		}
		return iv.Value.Int64(), nil
	case types.Vec:
		vec, ok := v.(values.Vec)
		if !ok {
			return nil, fmt.Errorf("expected bytes, got %s", v.Tag())
		}
		items := vec.Cell.Snapshot()
		buf := make([]byte, len(items))
		for i, el := range items {
			iv, ok := el.(values.Int)
			if !ok {
				return nil, fmt.Errorf("bytes element %d is not an int", i)
			}
			buf[i] = byte(iv.Value.Int64())
		}
		return buf, nil
	}
	return nil, fmt.Errorf("unsupported native marshal type %s", t)
}

// fromNative unmarshals a foreign call's raw Go result back into a
// Forge value of the declared return tag.
func fromNative(raw interface{}, t types.Tag) (values.Value, error) {
	switch tt := t.(type) {
	case types.Unit:
		return values.NullValue, nil
	case types.StringTag:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("native call did not return a string")
		}
		return values.String{Value: s}, nil
	case types.Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("native call did not return a bool")
		}
		return values.Bool{Value: b}, nil
	case types.Int:
		switch n := raw.(type) {
		case int32:
			return values.Int{Value: big.NewInt(int64(n)), Width: tt.Width}, nil
		case int64:
			return values.Int{Value: big.NewInt(n), Width: tt.Width}, nil
		}
		return nil, fmt.Errorf("native call did not return an integer")
	case types.Vec:
		buf, ok := raw.([]byte)
		if !ok {
			return nil, fmt.Errorf("native call did not return bytes")
		}
		items := make([]values.Value, len(buf))
		for i, b := range buf {
			items[i] = values.Int{Value: big.NewInt(int64(b)), Width: types.U8}
		}
		return values.NewVec(items, types.Int{Width: types.U8}), nil
	}
	return nil, fmt.Errorf("unsupported native unmarshal type %s", t)
}

// nativeSymbol is the calling convention a native plugin exports:
// every bound symbol is a Go function of this shape, letting the
// loader marshal through a single reflection-free path regardless of
// the declared signature's arity.
type nativeSymbol func(args []interface{}) (interface{}, error)

// loadNative opens a Go plugin (spec's "dynamic library") and binds
// each manifest export whose signature is present as a NativeBinding.
// Go's standard `plugin` package is the only dynamic-library loading
// mechanism available without a third-party dependency or cgo shim —
// none of the example repos pull in one, so this is the grounded
// choice (see DESIGN.md).
func loadNative(libPath string, exports []ExportRecord) (map[string]values.Value, error) {
	p, err := plugin.Open(libPath)
	if err != nil {
		return nil, fmt.Errorf("open native library %s: %w", libPath, err)
	}
	out := make(map[string]values.Value, len(exports))
	for _, rec := range exports {
		if rec.Signature == "" {
			continue
		}
		params, ret, err := parseSignature(rec.Signature)
		if err != nil {
			return nil, err
		}
		sym, err := p.Lookup(rec.Name)
		if err != nil {
			return nil, fmt.Errorf("native library %s: symbol %q not found: %w", libPath, rec.Name, err)
		}
		fn, ok := sym.(nativeSymbol)
		if !ok {
			fnPtr, ok := sym.(*nativeSymbol)
			if !ok {
				return nil, fmt.Errorf("native library %s: symbol %q has unexpected type", libPath, rec.Name)
			}
			fn = *fnPtr
		}
		name, p, r := rec.Name, params, ret
		out[name] = values.NativeBinding{
			Symbol: name,
			Params: p,
			Return: r,
			Call: func(args []values.Value) (values.Value, error) {
				raw := make([]interface{}, len(args))
				for i, a := range args {
					nv, err := toNative(a, p[i])
					if err != nil {
						return nil, fmt.Errorf("%s argument %d: %w", name, i, err)
					}
					raw[i] = nv
				}
				result, err := fn(raw)
				if err != nil {
					return nil, err
				}
				return fromNative(result, r)
			},
		}
	}
	return out, nil
}
