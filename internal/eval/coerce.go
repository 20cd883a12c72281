package eval

import (
	"math/big"

	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// coerce enforces spec §4.1 "Type checking policy" at a boundary
// crossing: binding initializer, assignment, parameter, field
// insertion, collection insert, or return. Integer literals may
// narrow to any width that contains them. A Float converts only when
// its width equals the declared width or is unset; Float values carry
// no literal flag, so an f64 float literal does not narrow to f32.
// Everything else is checked structurally via types.Satisfies.
func coerce(v values.Value, declared types.Tag) (values.Value, error) {
	if declared == nil {
		return v, nil
	}
	if _, ok := declared.(types.Unknown); ok {
		return v, nil
	}

	switch want := declared.(type) {
	case types.Int:
		iv, ok := v.(values.Int)
		if !ok {
			return nil, values.NewRuntimeError("expected %s, got %s", want, v.Tag())
		}
		if iv.Width == want.Width {
			return v, nil
		}
		if !iv.IsLiteral {
			return nil, values.NewRuntimeError("cast out of range")
		}
		if !want.Width.Fits(iv.Value) {
			return nil, values.NewRuntimeError("cast out of range")
		}
		return values.Int{Value: new(big.Int).Set(iv.Value), Width: want.Width}, nil
	case types.Float:
		fv, ok := v.(values.Float)
		if !ok {
			return nil, values.NewRuntimeError("expected %s, got %s", want, v.Tag())
		}
		if fv.Width == want.Width || fv.Width == "" {
			return values.Float{Value: fv.Value, Width: want.Width}, nil
		}
		return nil, values.NewRuntimeError("cast out of range")
	}

	if types.Satisfies(v.Tag(), declared) {
		return v, nil
	}
	return nil, values.NewRuntimeError("type mismatch: expected %s, got %s", declared, v.Tag())
}

// overflowCheck wraps a signed arithmetic result at the host 128-bit
// representation before range-checking it against width (spec §4.1
// "Arithmetic"). Unsigned results that go negative fail.
func overflowCheck(v *big.Int, width types.IntWidth) (*big.Int, error) {
	wrapped := types.Wrap(v)
	if width.Unsigned() && wrapped.Sign() < 0 {
		return nil, values.NewRuntimeError("cast out of range")
	}
	if !width.Fits(wrapped) {
		return nil, values.NewRuntimeError("cast out of range")
	}
	return wrapped, nil
}
