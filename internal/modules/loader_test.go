package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/values"
)

func TestResolveBuiltinModule(t *testing.T) {
	builtin := values.Module{Name: "math", Fields: map[string]values.Value{
		"pi": values.Float{Value: 3.14},
	}}
	l := NewLoader(map[string]values.Module{"forge.math": builtin}, nil, nil, nil)

	v, err := l.Resolve([]string{"forge", "math"})
	require.NoError(t, err)
	mod := v.(values.Module)
	got, ok := mod.Get("pi")
	require.True(t, ok)
	assert.Equal(t, 3.14, got.(values.Float).Value)
}

func TestResolveSourceFileEvaluatesOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "util"), 0o755))
	path := filepath.Join(dir, "util", "strings.fgast")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	runs := 0
	read := func(p string) (*ast.Program, error) { return &ast.Program{}, nil }
	run := func(prog *ast.Program) (map[string]values.Value, error) {
		runs++
		return map[string]values.Value{"shout": values.String{Value: "LOUD"}}, nil
	}
	l := NewLoader(nil, []string{dir}, read, run)

	v, err := l.Resolve([]string{"util", "strings"})
	require.NoError(t, err)
	mod := v.(values.Module)
	got, ok := mod.Get("shout")
	require.True(t, ok)
	assert.Equal(t, "LOUD", got.(values.String).Value)

	_, err = l.Resolve([]string{"util", "strings"})
	require.NoError(t, err)
	assert.Equal(t, 1, runs, "second resolve should hit the cache, not re-run the module")
}

func TestResolveManifestWithNoMatchingRuntime(t *testing.T) {
	dir := t.TempDir()
	manifest := `
package: geo
runtimes: []
exports:
  - name: distance
    signature: "fn(i64, i64) -> i64"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geo.manifest.yaml"), []byte(manifest), 0o644))
	l := NewLoader(nil, []string{dir}, nil, nil)

	v, err := l.Resolve([]string{"geo"})
	require.NoError(t, err)
	mod := v.(values.Module)
	assert.Equal(t, "geo", mod.Name)
	assert.Empty(t, mod.Fields)
}

func TestResolveUnknownPathStubs(t *testing.T) {
	l := NewLoader(nil, nil, nil, nil)
	v, err := l.Resolve([]string{"nowhere", "module"})
	require.NoError(t, err)
	mod := v.(values.Module)
	assert.Equal(t, "nowhere.module", mod.Name)
	assert.Empty(t, mod.Fields)
}

func TestResolveDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cyclic.fgast")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var l *Loader
	read := func(p string) (*ast.Program, error) { return &ast.Program{}, nil }
	run := func(prog *ast.Program) (map[string]values.Value, error) {
		return l.Resolve([]string{"cyclic"})
	}
	l = NewLoader(nil, []string{dir}, read, run)

	_, err := l.Resolve([]string{"cyclic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular import")
}

func TestParseNativeSignature(t *testing.T) {
	params, ret, err := parseSignature("fn(str, i64) -> bool")
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "Bool", ret.String())

	_, _, err = parseSignature("fn(unknown) -> bool")
	assert.Error(t, err)

	params, ret, err = parseSignature("")
	require.NoError(t, err)
	assert.Nil(t, params)
	assert.Equal(t, "Unit", ret.String())
}
