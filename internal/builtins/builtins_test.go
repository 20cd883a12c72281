package builtins

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/async"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// fnInvoker lets tests supply a callback Value for builtins that call
// back into user code (vec.map, option.unwrapOrElse, result.mapErr...).
type fnInvoker struct{}

func (fnInvoker) Invoke(fn values.Value, args []values.Value) (values.Value, error) {
	nb, ok := fn.(values.NativeBinding)
	if !ok {
		return nil, values.NewRuntimeError("fnInvoker: not callable: %s", fn.Tag())
	}
	return nb.Call(args)
}

func nativeFn(call func(args []values.Value) (values.Value, error)) values.NativeBinding {
	return values.NativeBinding{Symbol: "test", Call: call}
}

func newTestRegistry() (*Registry, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, async.NewScheduler(2)), &buf
}

func call(t *testing.T, r *Registry, module, name string, args ...values.Value) (values.Value, error) {
	t.Helper()
	fn, ok := r.Method(module, name)
	require.Truef(t, ok, "%s.%s not registered", module, name)
	return fn(fnInvoker{}, args)
}

func TestVecBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	v, err := call(t, r, "vec", "new", values.NewInt(1, types.I64), values.NewInt(2, types.I64))
	require.NoError(t, err)
	vec := v.(values.Vec)
	assert.Equal(t, 2, vec.Cell.Len())

	_, err = call(t, r, "vec", "push", vec, values.NewInt(3, types.I64))
	require.NoError(t, err)
	assert.Equal(t, 3, vec.Cell.Len())

	got, err := call(t, r, "vec", "get", vec, values.NewInt(0, types.I64))
	require.NoError(t, err)
	opt := got.(values.Option)
	assert.True(t, opt.HasValue)
	assert.Equal(t, int64(1), opt.Value.(values.Int).Value.Int64())

	popped, err := call(t, r, "vec", "pop", vec)
	require.NoError(t, err)
	assert.True(t, popped.(values.Option).HasValue)
	assert.Equal(t, 2, vec.Cell.Len())

	mapped, err := call(t, r, "vec", "map", vec, nativeFn(func(args []values.Value) (values.Value, error) {
		n := args[0].(values.Int)
		return values.NewInt(n.Value.Int64()*10, types.I64), nil
	}))
	require.NoError(t, err)
	mv := mapped.(values.Vec)
	assert.Equal(t, 2, mv.Cell.Len())
	first, _ := mv.Cell.Get(0)
	assert.Equal(t, int64(10), first.(values.Int).Value.Int64())

	filtered, err := call(t, r, "vec", "filter", vec, nativeFn(func(args []values.Value) (values.Value, error) {
		n := args[0].(values.Int)
		return values.BoolOf(n.Value.Int64() > 1), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.(values.Vec).Cell.Len())

	reduced, err := call(t, r, "vec", "reduce", vec, values.NewInt(0, types.I64), nativeFn(func(args []values.Value) (values.Value, error) {
		acc := args[0].(values.Int)
		n := args[1].(values.Int)
		return values.NewInt(acc.Value.Int64()+n.Value.Int64(), types.I64), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), reduced.(values.Int).Value.Int64())
}

func TestStrBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	n, err := call(t, r, "str", "len", values.String{Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n.(values.Int).Value.Int64())

	up, err := call(t, r, "str", "upper", values.String{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "HI", up.(values.String).Value)

	c, err := call(t, r, "str", "contains", values.String{Value: "hello"}, values.String{Value: "ell"})
	require.NoError(t, err)
	assert.True(t, c.(values.Bool).Value)

	replaced, err := call(t, r, "str", "replace", values.String{Value: "aba"}, values.String{Value: "a"}, values.String{Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, "xbx", replaced.(values.String).Value)

	parsed, err := call(t, r, "str", "toInt", values.String{Value: "42"})
	require.NoError(t, err)
	assert.True(t, parsed.(values.Option).HasValue)

	bad, err := call(t, r, "str", "toInt", values.String{Value: "nope"})
	require.NoError(t, err)
	assert.False(t, bad.(values.Option).HasValue)
}

func TestOptionBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	some, err := call(t, r, "option", "some", values.NewInt(7, types.I64))
	require.NoError(t, err)
	assert.True(t, some.(values.Option).HasValue)

	none, err := call(t, r, "option", "none")
	require.NoError(t, err)
	assert.False(t, none.(values.Option).HasValue)

	unwrapped, err := call(t, r, "option", "unwrapOr", none, values.NewInt(9, types.I64))
	require.NoError(t, err)
	assert.Equal(t, int64(9), unwrapped.(values.Int).Value.Int64())

	viaElse, err := call(t, r, "option", "unwrapOrElse", none, nativeFn(func(args []values.Value) (values.Value, error) {
		return values.NewInt(99, types.I64), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(99), viaElse.(values.Int).Value.Int64())

	mapped, err := call(t, r, "option", "map", some, nativeFn(func(args []values.Value) (values.Value, error) {
		n := args[0].(values.Int)
		return values.NewInt(n.Value.Int64()+1, types.I64), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(8), mapped.(values.Option).Value.(values.Int).Value.Int64())
}

func TestResultBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	ok, err := call(t, r, "result", "ok", values.NewInt(1, types.I64))
	require.NoError(t, err)
	assert.True(t, ok.(values.Result).IsOk)

	bad, err := call(t, r, "result", "err", values.String{Value: "boom"})
	require.NoError(t, err)
	assert.False(t, bad.(values.Result).IsOk)

	unwrapped, err := call(t, r, "result", "unwrapOr", bad, values.NewInt(5, types.I64))
	require.NoError(t, err)
	assert.Equal(t, int64(5), unwrapped.(values.Int).Value.Int64())

	mapped, err := call(t, r, "result", "map", ok, nativeFn(func(args []values.Value) (values.Value, error) {
		n := args[0].(values.Int)
		return values.NewInt(n.Value.Int64()*2, types.I64), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), mapped.(values.Result).Value.(values.Int).Value.Int64())
}

func TestMapSetBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	m, err := call(t, r, "map", "new")
	require.NoError(t, err)
	mp := m.(values.Map)

	_, err = call(t, r, "map", "put", mp, values.String{Value: "k"}, values.NewInt(1, types.I64))
	require.NoError(t, err)

	got, err := call(t, r, "map", "get", mp, values.String{Value: "k"})
	require.NoError(t, err)
	assert.True(t, got.(values.Option).HasValue)

	ln, err := call(t, r, "map", "len", mp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ln.(values.Int).Value.Int64())

	deleted, err := call(t, r, "map", "delete", mp, values.String{Value: "k"})
	require.NoError(t, err)
	assert.True(t, deleted.(values.Bool).Value)

	s, err := call(t, r, "set", "new")
	require.NoError(t, err)
	set := s.(values.Set)

	_, err = call(t, r, "set", "add", set, values.NewInt(1, types.I64))
	require.NoError(t, err)

	contains, err := call(t, r, "set", "contains", set, values.NewInt(1, types.I64))
	require.NoError(t, err)
	assert.True(t, contains.(values.Bool).Value)
}

func TestMathBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	sq, err := call(t, r, "math", "sqrt", values.Float{Value: 9})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, sq.(values.Float).Value, 1e-9)

	mx, err := call(t, r, "math", "max", values.Float{Value: 1}, values.Float{Value: 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, mx.(values.Float).Value)

	abs, err := call(t, r, "math", "abs", values.NewInt(-5, types.I64))
	require.NoError(t, err)
	assert.Equal(t, int64(5), abs.(values.Int).Value.Int64())
}

func TestPrintLogPanicError(t *testing.T) {
	r, buf := newTestRegistry()

	_, err := call(t, r, "print", "line", values.String{Value: "hi"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hi")

	buf.Reset()
	_, err = call(t, r, "log", "warn", values.String{Value: "careful"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[warn] careful")

	_, err = call(t, r, "panic", "raise", values.String{Value: "oops"})
	require.Error(t, err)
	_, isRuntime := err.(*values.RuntimeError)
	assert.True(t, isRuntime)

	_, err = call(t, r, "error", "throw", values.String{Value: "thrown"})
	require.Error(t, err)
	prop, isProp := err.(*values.Propagate)
	require.True(t, isProp)
	assert.Equal(t, "thrown", prop.Payload.(values.String).Value)
}

func TestReflectBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	tv, err := call(t, r, "reflect", "typeOf", values.NewInt(1, types.I64))
	require.NoError(t, err)
	assert.NotNil(t, tv.(values.TypeValue).Tag_)

	eq, err := call(t, r, "reflect", "equals", values.NewInt(1, types.I64), values.NewInt(1, types.I64))
	require.NoError(t, err)
	assert.True(t, eq.(values.Bool).Value)
}

func TestAsyncBuiltins(t *testing.T) {
	r, _ := newTestRegistry()

	spawned, err := call(t, r, "async", "spawn", nativeFn(func(args []values.Value) (values.Value, error) {
		return values.NewInt(3, types.I64), nil
	}))
	require.NoError(t, err)
	fut := spawned.(*async.Future)
	result, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.(values.Int).Value.Int64())

	thenFut, err := call(t, r, "async", "then", fut, nativeFn(func(args []values.Value) (values.Value, error) {
		n := args[0].(values.Int)
		return values.NewInt(n.Value.Int64()+1, types.I64), nil
	}))
	require.NoError(t, err)
	thenResult, err := thenFut.(*async.Future).Await()
	require.NoError(t, err)
	assert.Equal(t, int64(4), thenResult.(values.Int).Value.Int64())
}
