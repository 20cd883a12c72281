package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(line int) Span { return Span{Line: line, Column: 1} }

func TestEncodeDecodeRoundTripsExpressions(t *testing.T) {
	prog := &Program{
		Statements: []Statement{
			&VarDecl{
				base:     base{sp(1)},
				Kind:     BindLet,
				Name:     "x",
				TypeExpr: &NamedType{base: base{sp(1)}, Name: "Int"},
				Value: &Binary{
					base:  base{sp(1)},
					Op:    "+",
					Left:  &Literal{base: base{sp(1)}, Kind: LitInt, Text: "1"},
					Right: &Literal{base: base{sp(1)}, Kind: LitInt, Text: "2"},
				},
			},
			&ExprStmt{
				base: base{sp(2)},
				X: &Call{
					base:   base{sp(2)},
					Callee: &Identifier{base: base{sp(2)}, Name: "apex"},
					Args: []Expression{
						&VecLiteral{base: base{sp(2)}, Elements: []Expression{
							&Literal{base: base{sp(2)}, Kind: LitString, Text: "a"},
						}},
						&Lambda{base: base{sp(2)}, Params: []string{"y"}, Async: true, Body: []Statement{
							&ReturnStmt{base: base{sp(2)}, Value: &Identifier{base: base{sp(2)}, Name: "y"}},
						}},
					},
				},
			},
			&IfStmt{
				base: base{sp(3)},
				Cond: &Unary{base: base{sp(3)}, Op: "!", X: &Identifier{base: base{sp(3)}, Name: "ok"}},
				Then: []Statement{&BreakStmt{base: base{sp(3)}}},
				Else: []Statement{&ContinueStmt{base: base{sp(3)}}},
			},
			&WhileStmt{
				base: base{sp(4)},
				Cond: &Literal{base: base{sp(4)}, Kind: LitBool, Bool: true},
				Body: []Statement{&ExprStmt{base: base{sp(4)}, X: &Await{base: base{sp(4)}, X: &Identifier{base: base{sp(4)}, Name: "f"}}}},
			},
			&ForStmt{
				base:     base{sp(5)},
				Var:      "item",
				Iterable: &Identifier{base: base{sp(5)}, Name: "items"},
				Body: []Statement{&ExprStmt{base: base{sp(5)}, X: &Try{base: base{sp(5)}, X: &Identifier{base: base{sp(5)}, Name: "item"}}}},
			},
			&SwitchStmt{
				base:      base{sp(6)},
				Scrutinee: &Identifier{base: base{sp(6)}, Name: "v"},
				Arms: []SwitchArm{
					{Pattern: &LiteralPattern{base: base{sp(6)}, Value: &Literal{base: base{sp(6)}, Kind: LitInt, Text: "1"}}, Body: []Statement{&BreakStmt{base: base{sp(6)}}}},
					{Pattern: &EnumPattern{base: base{sp(6)}, Path: []string{"Option", "Some"}, Bindings: []Pattern{&BindingPattern{base: base{sp(6)}, Name: "x"}}}, Body: nil},
					{Pattern: &WildcardPattern{base: base{sp(6)}}, Body: nil},
				},
			},
			&TryCatchStmt{
				base:     base{sp(7)},
				Try:      []Statement{&ExprStmt{base: base{sp(7)}, X: &Identifier{base: base{sp(7)}, Name: "risky"}}},
				CatchVar: "e",
				Catch:    []Statement{&ExprStmt{base: base{sp(7)}, X: &Identifier{base: base{sp(7)}, Name: "e"}}},
				Finally:  []Statement{&ExprStmt{base: base{sp(7)}, X: &Identifier{base: base{sp(7)}, Name: "cleanup"}}},
			},
			&UnsafeStmt{base: base{sp(8)}, Body: []Statement{&AssemblyStmt{base: base{sp(8)}, Text: "nop"}}},
			&StructDecl{base: base{sp(9)}, Name: "Point", FieldName: []string{"x", "y"}, FieldType: []TypeExpr{&NamedType{base: base{sp(9)}, Name: "Int"}, &NamedType{base: base{sp(9)}, Name: "Int"}}},
			&EnumDecl{base: base{sp(10)}, Name: "Shape", Variants: []EnumVariant{{Name: "Circle", Payload: []TypeExpr{&NamedType{base: base{sp(10)}, Name: "Float"}}}, {Name: "None"}}},
			&TraitDecl{base: base{sp(11)}, Name: "Speak", Methods: []TraitMethodSig{{Name: "say", Params: []Param{{Name: "x", TypeExpr: &NamedType{base: base{sp(11)}, Name: "Str"}}}, ReturnType: &NamedType{base: base{sp(11)}, Name: "Unit"}}}},
			&ImplDecl{base: base{sp(12)}, Trait: "Speak", Target: &NamedType{base: base{sp(12)}, Name: "Point"}, Methods: []*FuncDecl{
				{base: base{sp(12)}, Name: "say", Self: "self", SelfType: &NamedType{base: base{sp(12)}, Name: "Point"}, Params: []Param{{Name: "x", TypeExpr: &NamedType{base: base{sp(12)}, Name: "Str"}}}, ReturnType: &NamedType{base: base{sp(12)}, Name: "Unit"}, Body: []Statement{&ReturnStmt{base: base{sp(12)}}}},
			}},
			&FuncDecl{
				base: base{sp(13)}, Name: "apex", TypeParams: []string{"T"},
				Params:     []Param{{Name: "args", TypeExpr: &VecType{base: base{sp(13)}, Elem: &NamedType{base: base{sp(13)}, Name: "Str"}}}},
				ReturnType: &ResultType{base: base{sp(13)}, Ok: &NamedType{base: base{sp(13)}, Name: "Unit"}, Err: &NamedType{base: base{sp(13)}, Name: "Str"}},
				Async:      true,
				Body: []Statement{
					&ReturnStmt{base: base{sp(13)}, Value: &IfExpr{
						base: base{sp(13)},
						Cond: &Literal{base: base{sp(13)}, Kind: LitBool, Bool: true},
						Then: []Statement{&ExprStmt{base: base{sp(13)}, X: &Literal{base: base{sp(13)}, Kind: LitNull}}},
						Else: []Statement{&ExprStmt{base: base{sp(13)}, X: &TupleLiteral{base: base{sp(13)}, Elements: []Expression{&Literal{base: base{sp(13)}, Kind: LitInt, Text: "1"}}}}},
					}},
				},
			},
		},
		Imports: []*ImportStmt{
			{base: base{sp(0)}, Path: []string{"forge", "math"}, Alias: "m", Members: []string{"sqrt"}},
		},
	}

	data, err := Encode(prog)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded.Imports, 1)
	assert.Equal(t, []string{"forge", "math"}, decoded.Imports[0].Path)
	assert.Equal(t, "m", decoded.Imports[0].Alias)

	require.Len(t, decoded.Statements, len(prog.Statements))

	vd, ok := decoded.Statements[0].(*VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", vd.Name)
	assert.Equal(t, BindLet, vd.Kind)
	bin, ok := vd.Value.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)

	exprStmt, ok := decoded.Statements[1].(*ExprStmt)
	require.True(t, ok)
	callExpr, ok := exprStmt.X.(*Call)
	require.True(t, ok)
	require.Len(t, callExpr.Args, 2)
	lambda, ok := callExpr.Args[1].(*Lambda)
	require.True(t, ok)
	assert.True(t, lambda.Async)
	assert.Equal(t, []string{"y"}, lambda.Params)

	ifStmt, ok := decoded.Statements[2].(*IfStmt)
	require.True(t, ok)
	_, ok = ifStmt.Cond.(*Unary)
	assert.True(t, ok)

	fd, ok := decoded.Statements[len(decoded.Statements)-1].(*FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "apex", fd.Name)
	assert.True(t, fd.Async)
	assert.Equal(t, []string{"T"}, fd.TypeParams)
	_, ok = fd.ReturnType.(*ResultType)
	assert.True(t, ok)

	switchStmt, ok := decoded.Statements[5].(*SwitchStmt)
	require.True(t, ok)
	require.Len(t, switchStmt.Arms, 3)
	_, ok = switchStmt.Arms[1].Pattern.(*EnumPattern)
	assert.True(t, ok)
	_, ok = switchStmt.Arms[2].Pattern.(*WildcardPattern)
	assert.True(t, ok)

	implDecl, ok := decoded.Statements[11].(*ImplDecl)
	require.True(t, ok)
	assert.Equal(t, "Speak", implDecl.Trait)
	require.Len(t, implDecl.Methods, 1)
	assert.Equal(t, "say", implDecl.Methods[0].Name)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"imports":[],"statements":[{"kind":"Bogus"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bogus")
}
