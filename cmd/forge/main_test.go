package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/config"
)

func writeEntryProgram(t *testing.T, dir string) string {
	t.Helper()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name: config.EntryFuncName,
			Body: []ast.Statement{
				&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitInt, Text: "0"}},
			},
		},
	}}
	data, err := ast.Encode(prog)
	require.NoError(t, err)

	path := filepath.Join(dir, "entry.fgast")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunWithMissingArgsUsage(t *testing.T) {
	assert.Equal(t, 1, run(nil))
}

func TestRunWithUnreadableEntryFile(t *testing.T) {
	assert.Equal(t, 1, run([]string{filepath.Join(t.TempDir(), "missing.fgast")}))
}

func TestRunExecutesEntryProgram(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	entry := writeEntryProgram(t, dir)
	assert.Equal(t, 0, run([]string{entry, "hello"}))
}
