package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/values"
)

func TestDefineStructRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.DefineStruct(&StructSchema{Name: "Point"}))
	err := r.DefineStruct(&StructSchema{Name: "Point"})
	assert.Error(t, err)

	got, ok := r.GetStruct("Point")
	require.True(t, ok)
	assert.Equal(t, "Point", got.Name)

	_, ok = r.GetStruct("Missing")
	assert.False(t, ok)
}

func TestDefineEnumAndTraitRejectDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.DefineEnum(&EnumSchema{Name: "Shape"}))
	assert.Error(t, r.DefineEnum(&EnumSchema{Name: "Shape"}))

	require.NoError(t, r.DefineTrait(&TraitSchema{Name: "Speak"}))
	assert.Error(t, r.DefineTrait(&TraitSchema{Name: "Speak"}))

	assert.ElementsMatch(t, []string{"Speak"}, r.TraitNames())
}

func TestInherentAndTraitMethodDispatch(t *testing.T) {
	r := NewRegistry()
	fn := &values.UserFunction{Name: "area"}
	r.RegisterInherent("Point", "area", fn)

	got, ok := r.LookupInherent("Point", "area")
	require.True(t, ok)
	assert.Same(t, fn, got)

	_, ok = r.LookupInherent("Point", "missing")
	assert.False(t, ok)

	traitFn := &values.UserFunction{Name: "say"}
	r.RegisterTraitImpl("Speak", "Point", "say", traitFn)
	got2, ok := r.LookupTraitImpl("Speak", "Point", "say")
	require.True(t, ok)
	assert.Same(t, traitFn, got2)

	_, ok = r.LookupTraitImpl("Speak", "Other", "say")
	assert.False(t, ok)
}
