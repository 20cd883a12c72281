package builtins

import (
	"math/big"

	"github.com/forgelang/forge/internal/async"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

func argc(module, name string, args []values.Value, want int) error {
	if len(args) != want {
		return values.NewRuntimeError("%s.%s expects %d argument(s), got %d", module, name, want, len(args))
	}
	return nil
}

func argInt(module, name string, args []values.Value, i int) (values.Int, error) {
	if i >= len(args) {
		return values.Int{}, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.Int)
	if !ok {
		return values.Int{}, values.NewRuntimeError("%s.%s: argument %d must be an Int, got %s", module, name, i, args[i].Tag())
	}
	return v, nil
}

func argFloat(module, name string, args []values.Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	switch v := args[i].(type) {
	case values.Float:
		return v.Value, nil
	case values.Int:
		f, _ := new(big.Float).SetInt(v.Value).Float64()
		return f, nil
	}
	return 0, values.NewRuntimeError("%s.%s: argument %d must be a Float, got %s", module, name, i, args[i].Tag())
}

func argStr(module, name string, args []values.Value, i int) (string, error) {
	if i >= len(args) {
		return "", values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.String)
	if !ok {
		return "", values.NewRuntimeError("%s.%s: argument %d must be a Str, got %s", module, name, i, args[i].Tag())
	}
	return v.Value, nil
}

func argBool(module, name string, args []values.Value, i int) (bool, error) {
	if i >= len(args) {
		return false, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.Bool)
	if !ok {
		return false, values.NewRuntimeError("%s.%s: argument %d must be a Bool, got %s", module, name, i, args[i].Tag())
	}
	return v.Value, nil
}

func argVec(module, name string, args []values.Value, i int) (values.Vec, error) {
	if i >= len(args) {
		return values.Vec{}, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.Vec)
	if !ok {
		return values.Vec{}, values.NewRuntimeError("%s.%s: argument %d must be a Vec, got %s", module, name, i, args[i].Tag())
	}
	return v, nil
}

func argMap(module, name string, args []values.Value, i int) (values.Map, error) {
	if i >= len(args) {
		return values.Map{}, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.Map)
	if !ok {
		return values.Map{}, values.NewRuntimeError("%s.%s: argument %d must be a Map, got %s", module, name, i, args[i].Tag())
	}
	return v, nil
}

func argSet(module, name string, args []values.Value, i int) (values.Set, error) {
	if i >= len(args) {
		return values.Set{}, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.Set)
	if !ok {
		return values.Set{}, values.NewRuntimeError("%s.%s: argument %d must be a Set, got %s", module, name, i, args[i].Tag())
	}
	return v, nil
}

func argOption(module, name string, args []values.Value, i int) (values.Option, error) {
	if i >= len(args) {
		return values.Option{}, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.Option)
	if !ok {
		return values.Option{}, values.NewRuntimeError("%s.%s: argument %d must be an Option, got %s", module, name, i, args[i].Tag())
	}
	return v, nil
}

func argResult(module, name string, args []values.Value, i int) (values.Result, error) {
	if i >= len(args) {
		return values.Result{}, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(values.Result)
	if !ok {
		return values.Result{}, values.NewRuntimeError("%s.%s: argument %d must be a Result, got %s", module, name, i, args[i].Tag())
	}
	return v, nil
}

func argFuture(module, name string, args []values.Value, i int) (*async.Future, error) {
	if i >= len(args) {
		return nil, values.NewRuntimeError("%s.%s: missing argument %d", module, name, i)
	}
	v, ok := args[i].(*async.Future)
	if !ok {
		return nil, values.NewRuntimeError("%s.%s: argument %d must be a Future, got %s", module, name, i, args[i].Tag())
	}
	return v, nil
}

func intArg(i int64) values.Int { return values.NewInt(i, types.IntWidth("i64")) }

// vecElemTag reads a Vec's element tag through its exported Tag()
// method, since VecCell's own elemTag helper is unexported to the
// values package.
func vecElemTag(v values.Vec) types.Tag {
	return v.Tag().(types.Vec).Elem
}
