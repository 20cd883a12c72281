package ast

// TypeExpr is an unresolved, declared type expression as it appears in
// source: a binding annotation, a parameter, a field, or a return type.
// It is resolved against the active type-parameter bindings at use
// time (spec §3 "Schemas").
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a primitive name ("i32", "bool", "string", ...), a
// struct/enum name, or a type-parameter variable (e.g. "T") — which
// one it is can only be decided once schemas are in scope.
type NamedType struct {
	base
	Name string
	Args []TypeExpr // resolved type arguments for a parameterized struct/enum
}

func (*NamedType) typeExprNode() {}

type VecType struct {
	base
	Elem TypeExpr
}

func (*VecType) typeExprNode() {}

type ArrayType struct {
	base
	Elem TypeExpr
	Size int
}

func (*ArrayType) typeExprNode() {}

type SliceType struct {
	base
	Elem TypeExpr
}

func (*SliceType) typeExprNode() {}

type SetType struct {
	base
	Elem TypeExpr
}

func (*SetType) typeExprNode() {}

type MapType struct {
	base
	Key TypeExpr
	Val TypeExpr
}

func (*MapType) typeExprNode() {}

type OptionType struct {
	base
	Elem TypeExpr
}

func (*OptionType) typeExprNode() {}

type ResultType struct {
	base
	Ok  TypeExpr
	Err TypeExpr
}

func (*ResultType) typeExprNode() {}

type TupleType struct {
	base
	Elems []TypeExpr
}

func (*TupleType) typeExprNode() {}
