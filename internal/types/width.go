// Package types implements the parallel type-tag lattice used to
// check and coerce values at every boundary crossing (spec §3 "Type
// tags", §4.1 "Type checking policy").
package types

import "math/big"

// IntWidth is one of the ten signed/unsigned integer widths spec.md
// §3 allows on a Primitive(Int) tag.
type IntWidth string

const (
	I8   IntWidth = "i8"
	I16  IntWidth = "i16"
	I32  IntWidth = "i32"
	I64  IntWidth = "i64"
	I128 IntWidth = "i128"
	U8   IntWidth = "u8"
	U16  IntWidth = "u16"
	U32  IntWidth = "u32"
	U64  IntWidth = "u64"
	U128 IntWidth = "u128"
)

// FloatWidth is f32 or f64.
type FloatWidth string

const (
	F32 FloatWidth = "f32"
	F64 FloatWidth = "f64"
)

func (w IntWidth) Unsigned() bool {
	switch w {
	case U8, U16, U32, U64, U128:
		return true
	}
	return false
}

// Bounds returns the inclusive [min, max] range representable by w.
func (w IntWidth) Bounds() (min, max *big.Int) {
	bits, ok := intBits[w]
	if !ok {
		bits = 64
	}
	if w.Unsigned() {
		min = big.NewInt(0)
		max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
		return
	}
	max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
	min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
	return
}

var intBits = map[IntWidth]int{
	I8: 8, I16: 16, I32: 32, I64: 64, I128: 128,
	U8: 8, U16: 16, U32: 32, U64: 64, U128: 128,
}

// Bits returns the bit width of w.
func (w IntWidth) Bits() int {
	if b, ok := intBits[w]; ok {
		return b
	}
	return 64
}

// Fits reports whether v is within w's representable range.
func (w IntWidth) Fits(v *big.Int) bool {
	min, max := w.Bounds()
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// Wrap reduces v into the signed 128-bit host range using two's-complement
// wraparound; callers range-check the result against a width, matching spec.md
// §4.1 "Signed overflow wraps at the host 128-bit representation
// before range-check".
func Wrap(v *big.Int) *big.Int {
	const hostBits = 128
	mod := new(big.Int).Lsh(big.NewInt(1), hostBits)
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	half := new(big.Int).Lsh(big.NewInt(1), hostBits-1)
	if r.Cmp(half) >= 0 {
		r.Sub(r, mod)
	}
	return r
}
