package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualIgnoresUnknownAndMatchesWidths(t *testing.T) {
	assert.True(t, Equal(Unknown{}, Int{Width: I32}))
	assert.True(t, Equal(Int{Width: I32}, Unknown{}))
	assert.True(t, Equal(Int{Width: I64}, Int{Width: I64}))
	assert.False(t, Equal(Int{Width: I64}, Int{Width: I32}))

	assert.True(t, Equal(Vec{Elem: StringTag{}}, Vec{Elem: StringTag{}}))
	assert.False(t, Equal(Vec{Elem: StringTag{}}, Vec{Elem: Bool{}}))
}

func TestEqualStructAndEnumCompareNameAndArgs(t *testing.T) {
	assert.True(t, Equal(Struct{Name: "Point"}, Struct{Name: "Point"}))
	assert.False(t, Equal(Struct{Name: "Point"}, Struct{Name: "Line"}))

	assert.True(t, Equal(
		Struct{Name: "Box", Args: []Tag{Int{Width: I32}}},
		Struct{Name: "Box", Args: []Tag{Int{Width: I32}}},
	))
	assert.False(t, Equal(
		Struct{Name: "Box", Args: []Tag{Int{Width: I32}}},
		Struct{Name: "Box", Args: []Tag{Int{Width: I64}}},
	))
	// absent type args on either side are "not specified", not a mismatch.
	assert.True(t, Equal(Struct{Name: "Box"}, Struct{Name: "Box", Args: []Tag{Int{Width: I32}}}))
}

func TestSatisfiesAcceptsArrayOrVecForSlice(t *testing.T) {
	decl := Slice{Elem: Int{Width: I32}}
	assert.True(t, Satisfies(Array{Elem: Int{Width: I32}, Size: 3}, decl))
	assert.True(t, Satisfies(Vec{Elem: Int{Width: I32}}, decl))
	assert.True(t, Satisfies(Slice{Elem: Int{Width: I32}}, decl))
	assert.False(t, Satisfies(Vec{Elem: Bool{}}, decl))
	assert.False(t, Satisfies(StringTag{}, decl))
}

func TestSatisfiesRecursesThroughOptionAndResult(t *testing.T) {
	assert.True(t, Satisfies(Option{Elem: Int{Width: I32}}, Option{Elem: Unknown{}}))
	assert.True(t, Satisfies(Result{Ok: Int{Width: I32}, Err: StringTag{}}, Result{Ok: Unknown{}, Err: StringTag{}}))
	assert.False(t, Satisfies(Result{Ok: Int{Width: I32}, Err: StringTag{}}, Result{Ok: Bool{}, Err: StringTag{}}))
}

func TestIsNumericAndIsSignedInt(t *testing.T) {
	assert.True(t, IsNumeric(Int{Width: I32}))
	assert.True(t, IsNumeric(Float{Width: F64}))
	assert.False(t, IsNumeric(StringTag{}))

	assert.True(t, IsSignedInt(Int{Width: I32}))
	assert.False(t, IsSignedInt(Int{Width: U32}))
	assert.False(t, IsSignedInt(Float{Width: F64}))
}

func TestIntWidthBoundsFitsAndWrap(t *testing.T) {
	min, max := I8.Bounds()
	assert.Equal(t, big.NewInt(-128), min)
	assert.Equal(t, big.NewInt(127), max)
	assert.True(t, I8.Fits(big.NewInt(127)))
	assert.False(t, I8.Fits(big.NewInt(128)))

	umin, umax := U8.Bounds()
	assert.Equal(t, big.NewInt(0), umin)
	assert.Equal(t, big.NewInt(255), umax)

	assert.Equal(t, 32, I32.Bits())
	assert.True(t, U32.Unsigned())
	assert.False(t, I32.Unsigned())

	wrapped := Wrap(new(big.Int).Lsh(big.NewInt(1), 128))
	assert.Equal(t, big.NewInt(0), wrapped)
}
