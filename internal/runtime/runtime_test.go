package runtime

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/config"
	"github.com/forgelang/forge/internal/values"
)

func testRuntime(t *testing.T) *Runtime {
	t.Helper()
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { devNull.Close() })
	return New(config.DefaultProject(), devNull, devNull)
}

func TestRunInvokesEntryFunction(t *testing.T) {
	rt := testRuntime(t)
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name: config.EntryFuncName,
			Body: []ast.Statement{
				&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitInt, Text: "0"}},
			},
		},
	}}

	code, err := Run(rt, prog, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunFailsWithoutEntryFunction(t *testing.T) {
	rt := testRuntime(t)
	prog := &ast.Program{Statements: []ast.Statement{}}

	code, err := Run(rt, prog, nil)
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), config.EntryFuncName)
}

func TestRunPropagatesUncaughtRuntimeError(t *testing.T) {
	rt := testRuntime(t)
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name: config.EntryFuncName,
			Body: []ast.Statement{
				&ast.ExprStmt{X: &ast.Binary{
					Op:    "+",
					Left:  &ast.Literal{Kind: ast.LitInt, Text: "1"},
					Right: &ast.Literal{Kind: ast.LitBool, Bool: true},
				}},
			},
		},
	}}

	code, err := Run(rt, prog, nil)
	require.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestFormatErrorRendersRuntimeErrorAndPropagate(t *testing.T) {
	re := values.NewRuntimeError("boom")
	assert.Equal(t, "error: boom", FormatError(re))

	p := &values.Propagate{Payload: values.String{Value: "oops"}}
	assert.Contains(t, FormatError(p), "oops")
}
