package ast

// BindKind is the mutability kind of an environment binding (spec §3
// "Environment").
type BindKind int

const (
	BindLet BindKind = iota
	BindVar
	BindConst
)

// VarDecl declares a new binding in the current frame.
type VarDecl struct {
	base
	Kind     BindKind
	Name     string
	Pattern  Pattern // set instead of Name for destructuring declarations
	TypeExpr TypeExpr // nil if the tag should be inferred from Value
	Value    Expression
}

func (*VarDecl) stmtNode() {}

// ExprStmt evaluates X and discards the result.
type ExprStmt struct {
	base
	X Expression
}

func (*ExprStmt) stmtNode() {}

// ReturnStmt signals return propagation. Value is nil for a bare
// `return`.
type ReturnStmt struct {
	base
	Value Expression
}

func (*ReturnStmt) stmtNode() {}

// IfStmt runs Then or Else depending on Cond. Else-if chains are
// represented as a single nested IfStmt in Else.
type IfStmt struct {
	base
	Cond Expression
	Then []Statement
	Else []Statement
}

func (*IfStmt) stmtNode() {}

// WhileStmt loops while Cond is true.
type WhileStmt struct {
	base
	Cond Expression
	Body []Statement
}

func (*WhileStmt) stmtNode() {}

// ForStmt binds Var to each element of Iterable in turn.
type ForStmt struct {
	base
	Var      string
	Iterable Expression
	Body     []Statement
}

func (*ForStmt) stmtNode() {}

// BreakStmt exits the nearest enclosing loop.
type BreakStmt struct{ base }

func (*BreakStmt) stmtNode() {}

// ContinueStmt skips to the next iteration of the nearest enclosing
// loop.
type ContinueStmt struct{ base }

func (*ContinueStmt) stmtNode() {}

// SwitchStmt evaluates Scrutinee once and tries Arms top-down.
type SwitchStmt struct {
	base
	Scrutinee Expression
	Arms      []SwitchArm
}

func (*SwitchStmt) stmtNode() {}

// TryCatchStmt runs Try; on a recoverable error (propagated or
// message) runs Catch with CatchVar bound to the payload.
type TryCatchStmt struct {
	base
	Try      []Statement
	CatchVar string
	Catch    []Statement
	Finally  []Statement // may be empty
}

func (*TryCatchStmt) stmtNode() {}

// UnsafeStmt is semantically transparent; it exists only so source
// can mark a block as reviewed for unchecked operations.
type UnsafeStmt struct {
	base
	Body []Statement
}

func (*UnsafeStmt) stmtNode() {}

// AssemblyStmt is never executable; validation accepts it and
// evaluating it fails with a runtime error (spec §4.1).
type AssemblyStmt struct {
	base
	Text string
}

func (*AssemblyStmt) stmtNode() {}

// ImportStmt declares a dotted import path with an optional alias and
// optional member selection (spec §4.3).
type ImportStmt struct {
	base
	Path    []string
	Alias   string   // "" if unaliased
	Members []string // non-empty for `from x import a, b`
}

func (*ImportStmt) stmtNode() {}

// Param is one declared function/method parameter.
type Param struct {
	Name     string
	TypeExpr TypeExpr
}

// FuncDecl declares a named function, optionally generic, optionally
// async, optionally a method (Self != "").
type FuncDecl struct {
	base
	Name       string
	TypeParams []string
	Params     []Param
	ReturnType TypeExpr // nil for Unit
	Body       []Statement
	Async      bool
	Self       string // "self"/"self_mut" for impl methods, "" otherwise
	SelfType   TypeExpr
}

func (*FuncDecl) stmtNode() {}

// StructDecl declares a product-type schema.
type StructDecl struct {
	base
	Name       string
	TypeParams []string
	FieldName  []string
	FieldType  []TypeExpr
}

func (*StructDecl) stmtNode() {}

// EnumVariant is one constructor of an EnumDecl.
type EnumVariant struct {
	Name    string
	Payload []TypeExpr
}

// EnumDecl declares a sum-type schema.
type EnumDecl struct {
	base
	Name       string
	TypeParams []string
	Variants   []EnumVariant
}

func (*EnumDecl) stmtNode() {}

// TraitMethodSig is a method signature declared by a trait.
type TraitMethodSig struct {
	Name       string
	Params     []Param
	ReturnType TypeExpr
}

// TraitDecl declares a trait (method signature set).
type TraitDecl struct {
	base
	Name    string
	Methods []TraitMethodSig
}

func (*TraitDecl) stmtNode() {}

// ImplDecl attaches a set of method bodies to a target type, either
// inherently (Trait == "") or for a named trait.
type ImplDecl struct {
	base
	Trait   string // "" for an inherent impl
	Target  TypeExpr
	Methods []*FuncDecl
}

func (*ImplDecl) stmtNode() {}

// Program is the root of every tree handed to the Evaluator.
type Program struct {
	Imports    []*ImportStmt
	Statements []Statement
}
