package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/ast"
)

func TestValidateRejectsDuplicateImportAlias(t *testing.T) {
	prog := &ast.Program{
		Imports: []*ast.ImportStmt{
			{Path: []string{"forge", "math"}, Alias: "m"},
			{Path: []string{"forge", "str"}, Alias: "m"},
		},
	}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate import alias")
}

func TestValidateRejectsDuplicateBindingInUnreachedBranch(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.IfStmt{
			Cond: boolLit(true),
			Then: []ast.Statement{&ast.ExprStmt{X: intLit("1")}},
			Else: []ast.Statement{
				&ast.VarDecl{Kind: ast.BindLet, Name: "x", Value: intLit("1")},
				&ast.VarDecl{Kind: ast.BindLet, Name: "x", Value: intLit("2")},
			},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already bound")
}

func TestValidateRejectsEmptySwitchInUnreachedBranch(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.IfStmt{
			Cond: boolLit(true),
			Then: []ast.Statement{&ast.ExprStmt{X: intLit("1")}},
			Else: []ast.Statement{
				&ast.SwitchStmt{Scrutinee: intLit("1"), Arms: nil},
			},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "switch must have at least one arm")
}

func TestValidateRejectsBreakOutsideLoop(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.BreakStmt{},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "break")
}

func TestValidateRejectsContinueOutsideLoop(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.WhileStmt{
			Cond: boolLit(true),
			Body: []ast.Statement{
				&ast.FuncDecl{
					Name: "helper",
					Body: []ast.Statement{&ast.ContinueStmt{}},
				},
			},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "continue")
}

func TestValidateAllowsBreakInsideLoop(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.WhileStmt{Cond: boolLit(true), Body: []ast.Statement{&ast.BreakStmt{}}},
	}}
	assert.NoError(t, Validate(prog))
}

func TestValidateRejectsAwaitOutsideAsyncFunction(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name: "sync",
			Body: []ast.Statement{
				&ast.ExprStmt{X: &ast.Await{X: id("fut")}},
			},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "await")
}

func TestValidateAllowsAwaitInsideAsyncFunction(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name:  "fetch",
			Async: true,
			Body: []ast.Statement{
				&ast.ExprStmt{X: &ast.Await{X: id("fut")}},
			},
		},
	}}
	assert.NoError(t, Validate(prog))
}

func TestValidateRejectsAwaitInsideLambdaEvenWhenEnclosingFunctionIsAsync(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name:  "outer",
			Async: true,
			Body: []ast.Statement{
				&ast.VarDecl{Kind: ast.BindLet, Name: "f", Value: &ast.Lambda{
					Body: []ast.Statement{&ast.ExprStmt{X: &ast.Await{X: id("fut")}}},
				}},
			},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "await")
}

func TestValidateRejectsImplMethodWithNoReceiver(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.StructDecl{Name: "Point"},
		&ast.ImplDecl{
			Target: &ast.NamedType{Name: "Point"},
			Methods: []*ast.FuncDecl{
				{Name: "describe", Body: []ast.Statement{&ast.ReturnStmt{Value: intLit("0")}}},
			},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must declare `self`")
}

func TestValidateRejectsImplMethodWithWrongReceiverName(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.StructDecl{Name: "Point"},
		&ast.ImplDecl{
			Target: &ast.NamedType{Name: "Point"},
			Methods: []*ast.FuncDecl{
				{Name: "describe", Self: "this", Body: []ast.Statement{&ast.ReturnStmt{Value: intLit("0")}}},
			},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be named `self`")
}

func TestValidateAllowsWellFormedImplMethod(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.StructDecl{Name: "Point"},
		&ast.ImplDecl{
			Target: &ast.NamedType{Name: "Point"},
			Methods: []*ast.FuncDecl{
				{Name: "describe", Self: "self", Body: []ast.Statement{&ast.ReturnStmt{Value: intLit("0")}}},
			},
		},
	}}
	assert.NoError(t, Validate(prog))
}

func TestValidateRejectsSelfParamInFreeFunction(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name:   "oops",
			Params: []ast.Param{{Name: "self"}},
			Body:   []ast.Statement{&ast.ReturnStmt{Value: intLit("0")}},
		},
	}}
	err := Validate(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only allowed as the first parameter of methods")
}

func TestRunProgramRejectsInvalidProgramBeforeExecuting(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.BindVar, Name: "ran", Value: boolLit(false)},
		&ast.BreakStmt{},
		&ast.ExprStmt{X: &ast.Assign{Target: id("ran"), Value: boolLit(true)}},
	}}
	_, err := e.RunProgram(prog)
	require.Error(t, err)
	_, ok := e.Globals.Get("ran")
	assert.False(t, ok, "RunProgram must validate before registering any declaration")
}
