package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/types"
)

func TestEnvironmentDefineGetAndDuplicateRejection(t *testing.T) {
	e := NewEnvironment()
	require.NoError(t, e.Define("x", Let, types.Int{Width: types.I32}, NewInt(1, types.I32)))

	b, ok := e.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), b.Value.(Int).Value.Int64())

	err := e.Define("x", Let, nil, NewInt(2, types.I32))
	assert.Error(t, err)

	_, ok = e.Get("missing")
	assert.False(t, ok)
}

func TestEnvironmentRejectsNonASCIIIdentifiers(t *testing.T) {
	e := NewEnvironment()
	err := e.Define("café", Let, nil, NullValue)
	assert.Error(t, err)
}

func TestEnclosedEnvironmentWalksOuterChain(t *testing.T) {
	outer := NewEnvironment()
	require.NoError(t, outer.Define("g", Let, nil, String{Value: "global"}))
	inner := NewEnclosedEnvironment(outer)

	b, ok := inner.Get("g")
	require.True(t, ok)
	assert.Equal(t, "global", b.Value.(String).Value)
}

func TestAssignRequiresVarBindingAndWalksOuter(t *testing.T) {
	outer := NewEnvironment()
	require.NoError(t, outer.Define("counter", Var, nil, NewInt(0, types.I64)))
	require.NoError(t, outer.Define("fixed", Let, nil, NewInt(0, types.I64)))
	inner := NewEnclosedEnvironment(outer)

	require.NoError(t, inner.Assign("counter", NewInt(1, types.I64)))
	b, _ := outer.Get("counter")
	assert.Equal(t, int64(1), b.Value.(Int).Value.Int64())

	assert.Error(t, inner.Assign("fixed", NewInt(1, types.I64)))
	assert.Error(t, inner.Assign("nope", NewInt(1, types.I64)))
}

func TestGetStoreReturnsShallowCopyOfTopFrameOnly(t *testing.T) {
	outer := NewEnvironment()
	require.NoError(t, outer.Define("g", Let, nil, NullValue))
	inner := NewEnclosedEnvironment(outer)
	require.NoError(t, inner.Define("local", Let, nil, NullValue))

	store := inner.GetStore()
	_, hasLocal := store["local"]
	_, hasGlobal := store["g"]
	assert.True(t, hasLocal)
	assert.False(t, hasGlobal)
}
