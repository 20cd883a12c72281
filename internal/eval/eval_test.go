package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/async"
	"github.com/forgelang/forge/internal/schema"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

func newTestEvaluator() *Evaluator {
	return New(schema.NewRegistry(), async.NewScheduler(2))
}

func intLit(n string) *ast.Literal { return &ast.Literal{Kind: ast.LitInt, Text: n} }
func strLit(s string) *ast.Literal { return &ast.Literal{Kind: ast.LitString, Text: s} }
func boolLit(b bool) *ast.Literal  { return &ast.Literal{Kind: ast.LitBool, Bool: b} }
func id(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func runProgram(t *testing.T, e *Evaluator, prog *ast.Program) {
	t.Helper()
	_, err := e.RunProgram(prog)
	require.NoError(t, err)
}

func TestArithmeticAndVarDecl(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.BindLet, Name: "x", Value: &ast.Binary{Op: "+", Left: intLit("1"), Right: intLit("2")}},
	}}
	runProgram(t, e, prog)
	b, ok := e.Globals.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(3), b.Value.(values.Int).Value.Int64())
}

func TestIfElseBranching(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.BindVar, Name: "result", Value: strLit("")},
		&ast.IfStmt{
			Cond: boolLit(true),
			Then: []ast.Statement{&ast.ExprStmt{X: &ast.Assign{Target: id("result"), Value: strLit("yes")}}},
			Else: []ast.Statement{&ast.ExprStmt{X: &ast.Assign{Target: id("result"), Value: strLit("no")}}},
		},
	}}
	runProgram(t, e, prog)
	b, _ := e.Globals.Get("result")
	assert.Equal(t, "yes", b.Value.(values.String).Value)
}

func TestWhileLoopAccumulates(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.BindVar, Name: "i", Value: intLit("0")},
		&ast.VarDecl{Kind: ast.BindVar, Name: "sum", Value: intLit("0")},
		&ast.WhileStmt{
			Cond: &ast.Binary{Op: "<", Left: id("i"), Right: intLit("5")},
			Body: []ast.Statement{
				&ast.ExprStmt{X: &ast.Assign{Target: id("sum"), Value: &ast.Binary{Op: "+", Left: id("sum"), Right: id("i")}}},
				&ast.ExprStmt{X: &ast.Assign{Target: id("i"), Value: &ast.Binary{Op: "+", Left: id("i"), Right: intLit("1")}}},
			},
		},
	}}
	runProgram(t, e, prog)
	b, _ := e.Globals.Get("sum")
	assert.Equal(t, int64(10), b.Value.(values.Int).Value.Int64())
}

func TestVecLiteralAndIndex(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.BindLet, Name: "v", Value: &ast.VecLiteral{Elements: []ast.Expression{intLit("10"), intLit("20"), intLit("30")}}},
		&ast.VarDecl{Kind: ast.BindLet, Name: "second", Value: &ast.Index{X: id("v"), Index: intLit("1")}},
	}}
	runProgram(t, e, prog)
	b, _ := e.Globals.Get("second")
	assert.Equal(t, int64(20), b.Value.(values.Int).Value.Int64())
}

func TestStructDeclLiteralAndFieldAccess(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.StructDecl{Name: "Point", FieldName: []string{"x", "y"}, FieldType: []ast.TypeExpr{
			&ast.NamedType{Name: "i32"}, &ast.NamedType{Name: "i32"},
		}},
		&ast.VarDecl{Kind: ast.BindLet, Name: "p", Value: &ast.StructLiteral{
			Name: "Point", FieldName: []string{"x", "y"}, FieldVal: []ast.Expression{intLit("3"), intLit("4")},
		}},
		&ast.VarDecl{Kind: ast.BindLet, Name: "px", Value: &ast.FieldAccess{X: id("p"), Field: "x"}},
	}}
	runProgram(t, e, prog)
	b, _ := e.Globals.Get("px")
	assert.Equal(t, int64(3), b.Value.(values.Int).Value.Int64())
}

func TestFunctionCallWithReturn(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FuncDecl{
			Name:   "double",
			Params: []ast.Param{{Name: "n", TypeExpr: &ast.NamedType{Name: "i32"}}},
			Body: []ast.Statement{
				&ast.ReturnStmt{Value: &ast.Binary{Op: "*", Left: id("n"), Right: intLit("2")}},
			},
		},
	}}
	runProgram(t, e, prog)
	fn, ok := e.Globals.Get("double")
	require.True(t, ok)
	result, err := e.Invoke(fn.Value, []values.Value{values.NewInt(21, types.I32)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.(values.Int).Value.Int64())
}

func TestClosureCapturesEnclosingScope(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.BindLet, Name: "base", Value: intLit("10")},
		&ast.VarDecl{Kind: ast.BindLet, Name: "addBase", Value: &ast.Lambda{
			Params: []string{"n"},
			Body:   []ast.Statement{&ast.ReturnStmt{Value: &ast.Binary{Op: "+", Left: id("n"), Right: id("base")}}},
		}},
		&ast.VarDecl{Kind: ast.BindLet, Name: "result", Value: &ast.Call{Callee: id("addBase"), Args: []ast.Expression{intLit("5")}}},
	}}
	runProgram(t, e, prog)
	b, _ := e.Globals.Get("result")
	assert.Equal(t, int64(15), b.Value.(values.Int).Value.Int64())
}

func TestTryCatchRecoversPropagate(t *testing.T) {
	e := newTestEvaluator()
	thrower := values.NativeBinding{
		Symbol: "thrower",
		Params: nil,
		Return: types.Unknown{},
		Call: func(args []values.Value) (values.Value, error) {
			return nil, &values.Propagate{Payload: values.String{Value: "bad thing"}}
		},
	}
	require.NoError(t, e.Globals.Define("thrower", values.Let, types.Func{}, thrower))

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.BindVar, Name: "caught", Value: strLit("")},
		&ast.TryCatchStmt{
			Try:      []ast.Statement{&ast.ExprStmt{X: &ast.Call{Callee: id("thrower")}}},
			CatchVar: "e",
			Catch:    []ast.Statement{&ast.ExprStmt{X: &ast.Assign{Target: id("caught"), Value: id("e")}}},
		},
	}}
	runProgram(t, e, prog)
	b, _ := e.Globals.Get("caught")
	assert.Equal(t, "bad thing", b.Value.(values.String).Value)
}

func TestSwitchMatchesEnumVariant(t *testing.T) {
	e := newTestEvaluator()
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.EnumDecl{Name: "Shape", Variants: []ast.EnumVariant{
			{Name: "Circle", Payload: []ast.TypeExpr{&ast.NamedType{Name: "i32"}}},
			{Name: "Square"},
		}},
		&ast.VarDecl{Kind: ast.BindLet, Name: "s", Value: &ast.Call{
			Callee: &ast.PathAccess{Segments: []string{"Shape", "Circle"}},
			Args:   []ast.Expression{intLit("7")},
		}},
		&ast.VarDecl{Kind: ast.BindVar, Name: "radius", Value: intLit("0")},
		&ast.SwitchStmt{
			Scrutinee: id("s"),
			Arms: []ast.SwitchArm{
				{
					Pattern: &ast.EnumPattern{Path: []string{"Shape", "Circle"}, Bindings: []ast.Pattern{&ast.BindingPattern{Name: "r"}}},
					Body:    []ast.Statement{&ast.ExprStmt{X: &ast.Assign{Target: id("radius"), Value: id("r")}}},
				},
				{Pattern: &ast.WildcardPattern{}, Body: nil},
			},
		},
	}}
	runProgram(t, e, prog)
	b, _ := e.Globals.Get("radius")
	assert.Equal(t, int64(7), b.Value.(values.Int).Value.Int64())
}
