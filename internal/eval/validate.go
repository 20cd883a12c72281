package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/values"
)

// Validate walks an entire program tree up front and rejects anything
// spec §4.4 calls a validation error, regardless of whether execution
// would ever actually reach the offending statement: duplicate import
// aliases, a binding that shadows another in the same frame, break/
// continue outside a loop, await outside an async function, a switch
// with no arms, and an impl method that does not declare (or
// misdeclares) its self receiver. RunProgram runs this before
// registering a single top-level declaration.
func Validate(prog *ast.Program) error {
	v := &validator{}
	if err := v.imports(prog.Imports); err != nil {
		return err
	}
	v.pushScope()
	defer v.popScope()
	return v.stmts(prog.Statements, 0, false)
}

// validator walks an ast.Program the way a lexical scope resolver
// would, tracking only what validation needs: a stack of name sets (to
// catch a duplicate binding in the same frame) plus the ambient loop
// depth and async-ness a Break/Continue/Await needs to check itself
// against.
type validator struct {
	scopes []map[string]bool
}

func (v *validator) imports(imports []*ast.ImportStmt) error {
	seen := map[string]bool{}
	for _, im := range imports {
		if im.Alias == "" {
			continue
		}
		if seen[im.Alias] {
			return values.NewRuntimeError("duplicate import alias %q", im.Alias).WithSpan(im.Span())
		}
		seen[im.Alias] = true
	}
	return nil
}

func (v *validator) pushScope() { v.scopes = append(v.scopes, map[string]bool{}) }
func (v *validator) popScope()  { v.scopes = v.scopes[:len(v.scopes)-1] }

// define binds name in the current frame, failing if it is already
// bound there.
func (v *validator) define(name string, sp ast.Span) error {
	if name == "" {
		return nil
	}
	top := v.scopes[len(v.scopes)-1]
	if top[name] {
		return values.NewRuntimeError("%q is already bound in this scope", name).WithSpan(sp)
	}
	top[name] = true
	return nil
}

// bind inserts name into the current frame without a duplicate check,
// mirroring how a switch arm's pattern bindings are scoped fresh per
// arm rather than accumulated across arms.
func (v *validator) bind(name string) {
	if name == "" || len(v.scopes) == 0 {
		return
	}
	v.scopes[len(v.scopes)-1][name] = true
}

func (v *validator) bindPattern(p ast.Pattern) {
	switch pp := p.(type) {
	case *ast.BindingPattern:
		v.bind(pp.Name)
	case *ast.EnumPattern:
		for _, b := range pp.Bindings {
			v.bindPattern(b)
		}
	}
}

func (v *validator) stmts(sts []ast.Statement, loopDepth int, inAsync bool) error {
	for _, s := range sts {
		if err := v.stmt(s, loopDepth, inAsync); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) block(sts []ast.Statement, loopDepth int, inAsync bool) error {
	v.pushScope()
	defer v.popScope()
	return v.stmts(sts, loopDepth, inAsync)
}

func (v *validator) stmt(s ast.Statement, loopDepth int, inAsync bool) error {
	switch st := s.(type) {
	case *ast.VarDecl:
		if st.Pattern != nil {
			if err := v.expr(st.Value, loopDepth, inAsync); err != nil {
				return err
			}
			v.bindPattern(st.Pattern)
			return nil
		}
		if err := v.expr(st.Value, loopDepth, inAsync); err != nil {
			return err
		}
		return v.define(st.Name, st.Span())
	case *ast.ExprStmt:
		return v.expr(st.X, loopDepth, inAsync)
	case *ast.ReturnStmt:
		return v.expr(st.Value, loopDepth, inAsync)
	case *ast.IfStmt:
		if err := v.expr(st.Cond, loopDepth, inAsync); err != nil {
			return err
		}
		if err := v.block(st.Then, loopDepth, inAsync); err != nil {
			return err
		}
		return v.block(st.Else, loopDepth, inAsync)
	case *ast.WhileStmt:
		if err := v.expr(st.Cond, loopDepth, inAsync); err != nil {
			return err
		}
		return v.block(st.Body, loopDepth+1, inAsync)
	case *ast.ForStmt:
		if err := v.expr(st.Iterable, loopDepth, inAsync); err != nil {
			return err
		}
		v.pushScope()
		defer v.popScope()
		v.bind(st.Var)
		return v.stmts(st.Body, loopDepth+1, inAsync)
	case *ast.SwitchStmt:
		if len(st.Arms) == 0 {
			return values.NewRuntimeError("switch must have at least one arm").WithSpan(st.Span())
		}
		if err := v.expr(st.Scrutinee, loopDepth, inAsync); err != nil {
			return err
		}
		for _, arm := range st.Arms {
			v.pushScope()
			v.bindPattern(arm.Pattern)
			err := v.stmts(arm.Body, loopDepth, inAsync)
			v.popScope()
			if err != nil {
				return err
			}
		}
		return nil
	case *ast.TryCatchStmt:
		if err := v.block(st.Try, loopDepth, inAsync); err != nil {
			return err
		}
		v.pushScope()
		v.bind(st.CatchVar)
		err := v.stmts(st.Catch, loopDepth, inAsync)
		v.popScope()
		if err != nil {
			return err
		}
		return v.block(st.Finally, loopDepth, inAsync)
	case *ast.UnsafeStmt:
		return v.block(st.Body, loopDepth, inAsync)
	case *ast.AssemblyStmt:
		return nil
	case *ast.BreakStmt:
		if loopDepth == 0 {
			return values.NewRuntimeError("`break` used outside of a loop").WithSpan(st.Span())
		}
		return nil
	case *ast.ContinueStmt:
		if loopDepth == 0 {
			return values.NewRuntimeError("`continue` used outside of a loop").WithSpan(st.Span())
		}
		return nil
	case *ast.FuncDecl:
		return v.function(st)
	case *ast.ImplDecl:
		return v.impl(st)
	case *ast.StructDecl, *ast.EnumDecl, *ast.TraitDecl, *ast.ImportStmt:
		return nil
	}
	return nil
}

func (v *validator) expr(x ast.Expression, loopDepth int, inAsync bool) error {
	if x == nil {
		return nil
	}
	switch e := x.(type) {
	case *ast.Literal, *ast.Identifier, *ast.PathAccess:
		return nil
	case *ast.Binary:
		if err := v.expr(e.Left, loopDepth, inAsync); err != nil {
			return err
		}
		return v.expr(e.Right, loopDepth, inAsync)
	case *ast.Unary:
		return v.expr(e.X, loopDepth, inAsync)
	case *ast.VecLiteral:
		return v.exprs(e.Elements, loopDepth, inAsync)
	case *ast.TupleLiteral:
		return v.exprs(e.Elements, loopDepth, inAsync)
	case *ast.StructLiteral:
		return v.exprs(e.FieldVal, loopDepth, inAsync)
	case *ast.Lambda:
		// A lambda's Async flag is advisory (see applyClosure in
		// functions.go): validate its body as a plain
		// synchronous, unlooped scope no matter what encloses it.
		return v.block(e.Body, 0, false)
	case *ast.Call:
		if err := v.expr(e.Callee, loopDepth, inAsync); err != nil {
			return err
		}
		return v.exprs(e.Args, loopDepth, inAsync)
	case *ast.Index:
		if err := v.expr(e.X, loopDepth, inAsync); err != nil {
			return err
		}
		return v.expr(e.Index, loopDepth, inAsync)
	case *ast.FieldAccess:
		return v.expr(e.X, loopDepth, inAsync)
	case *ast.MethodCall:
		if err := v.expr(e.Receiver, loopDepth, inAsync); err != nil {
			return err
		}
		return v.exprs(e.Args, loopDepth, inAsync)
	case *ast.Assign:
		if err := v.expr(e.Target, loopDepth, inAsync); err != nil {
			return err
		}
		return v.expr(e.Value, loopDepth, inAsync)
	case *ast.Try:
		return v.expr(e.X, loopDepth, inAsync)
	case *ast.Await:
		if !inAsync {
			return values.NewRuntimeError("`await` is only allowed inside an async function").WithSpan(e.Span())
		}
		return v.expr(e.X, loopDepth, inAsync)
	case *ast.IfExpr:
		if err := v.expr(e.Cond, loopDepth, inAsync); err != nil {
			return err
		}
		if err := v.block(e.Then, loopDepth, inAsync); err != nil {
			return err
		}
		return v.block(e.Else, loopDepth, inAsync)
	}
	return nil
}

func (v *validator) exprs(xs []ast.Expression, loopDepth int, inAsync bool) error {
	for _, x := range xs {
		if err := v.expr(x, loopDepth, inAsync); err != nil {
			return err
		}
	}
	return nil
}

// function validates a free (non-method) declaration: its body starts
// at loop depth 0 with in-async set from its own Async flag, and none
// of its parameters may claim the `self`/`self_mut` names reserved for
// impl methods.
func (v *validator) function(fd *ast.FuncDecl) error {
	if fd.Self != "" {
		return v.method(nil, fd)
	}
	if err := validateNotSelf(fd.Params, fd.Span()); err != nil {
		return err
	}
	v.pushScope()
	defer v.popScope()
	for _, p := range fd.Params {
		v.bind(p.Name)
	}
	return v.stmts(fd.Body, 0, fd.Async)
}

func validateNotSelf(params []ast.Param, sp ast.Span) error {
	for _, p := range params {
		if p.Name == "self" || p.Name == "self_mut" {
			return values.NewRuntimeError("%q is only allowed as the first parameter of methods inside impl blocks", p.Name).WithSpan(sp)
		}
	}
	return nil
}

// impl validates every method of an impl block. A method declared
// with no receiver at all, or one whose receiver is declared with an
// explicit type that names something other than the impl's own
// target, is rejected before any method ever runs.
func (v *validator) impl(id *ast.ImplDecl) error {
	for _, m := range id.Methods {
		if err := v.method(id, m); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) method(id *ast.ImplDecl, m *ast.FuncDecl) error {
	if m.Self == "" {
		return values.NewRuntimeError("method %q must declare `self` or `self_mut` as its receiver", m.Name).WithSpan(m.Span())
	}
	if m.Self != "self" && m.Self != "self_mut" {
		return values.NewRuntimeError("impl method %q receiver must be named `self` or `self_mut`, got %q", m.Name, m.Self).WithSpan(m.Span())
	}
	if id != nil && m.SelfType != nil {
		if recvName, ok := typeExprName(m.SelfType); ok {
			if targetName, ok := typeExprName(id.Target); ok && recvName != targetName {
				return values.NewRuntimeError("%s receiver of method %q must match impl target type %q, got %q", m.Self, m.Name, targetName, recvName).WithSpan(m.Span())
			}
		}
	}
	if err := validateNotSelf(m.Params, m.Span()); err != nil {
		return err
	}
	v.pushScope()
	defer v.popScope()
	v.bind(m.Self)
	for _, p := range m.Params {
		v.bind(p.Name)
	}
	return v.stmts(m.Body, 0, m.Async)
}

// typeExprName extracts the bare name of a declared type expression,
// the way an impl target or a self parameter's annotation names a
// struct/enum/primitive. It reports ok=false for any TypeExpr shape
// that has no single name (vec/array/map/tuple/option/result types).
func typeExprName(t ast.TypeExpr) (string, bool) {
	nt, ok := t.(*ast.NamedType)
	if !ok {
		return "", false
	}
	return nt.Name, true
}
