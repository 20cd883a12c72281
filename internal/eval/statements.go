package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// execBlock runs stmts in order, short-circuiting on the first error
// or control signal (return/break/continue).
func (e *Evaluator) execBlock(stmts []ast.Statement, c *ctx) (values.Value, error) {
	var last values.Value = values.NullValue
	for _, s := range stmts {
		v, err := e.execStmt(s, c)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (e *Evaluator) execStmt(s ast.Statement, c *ctx) (values.Value, error) {
	switch st := s.(type) {
	case *ast.VarDecl:
		return e.execVarDecl(st, c)
	case *ast.ExprStmt:
		_, err := e.evalExpr(st.X, c)
		return values.NullValue, err
	case *ast.ReturnStmt:
		var v values.Value = values.NullValue
		if st.Value != nil {
			var err error
			v, err = e.evalExpr(st.Value, c)
			if err != nil {
				return nil, err
			}
		}
		return nil, values.ReturnSignal{Value: v}
	case *ast.IfStmt:
		return e.execIf(st.Cond, st.Then, st.Else, c)
	case *ast.WhileStmt:
		return e.execWhile(st, c)
	case *ast.ForStmt:
		return e.execFor(st, c)
	case *ast.BreakStmt:
		return nil, values.BreakSignal{}
	case *ast.ContinueStmt:
		return nil, values.ContinueSignal{}
	case *ast.SwitchStmt:
		return e.execSwitch(st, c)
	case *ast.TryCatchStmt:
		return e.execTryCatch(st, c)
	case *ast.UnsafeStmt:
		return e.execBlock(st.Body, c.child(values.NewEnclosedEnvironment(c.env)))
	case *ast.AssemblyStmt:
		return nil, values.NewRuntimeError("assembly blocks are not executable").WithSpan(st.Span())
	case *ast.FuncDecl:
		return values.NullValue, e.defineFunc(st, c)
	case *ast.StructDecl:
		return values.NullValue, e.defineStruct(st)
	case *ast.EnumDecl:
		return values.NullValue, e.defineEnum(st)
	case *ast.TraitDecl:
		return values.NullValue, e.defineTrait(st)
	case *ast.ImplDecl:
		return values.NullValue, e.defineImpl(st, c)
	case *ast.ImportStmt:
		return values.NullValue, e.execImport(st, c)
	}
	return nil, values.NewRuntimeError("unhandled statement %T", s)
}

func (e *Evaluator) execVarDecl(st *ast.VarDecl, c *ctx) (values.Value, error) {
	if st.Kind == ast.BindConst {
		// Const values must be literal expressions and are evaluated
		// without environment lookup (spec §4.1).
		if !isLiteralExpr(st.Value) {
			return nil, values.NewRuntimeError("const initializer must be a literal").WithSpan(st.Span())
		}
	}
	val, err := e.evalExpr(st.Value, c)
	if err != nil {
		return nil, err
	}

	var tag types.Tag
	if st.TypeExpr != nil {
		tag, err = e.resolveType(st.TypeExpr, c.typeParams)
		if err != nil {
			return nil, err
		}
		val, err = coerce(val, tag)
		if err != nil {
			return nil, err
		}
	} else {
		tag = val.Tag()
	}

	kind := bindKindOf(st.Kind)
	if st.Pattern != nil {
		return values.NullValue, e.bindPattern(st.Pattern, val, kind, c)
	}
	if err := c.env.Define(st.Name, kind, tag, val); err != nil {
		return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(st.Span())
	}
	return values.NullValue, nil
}

func bindKindOf(k ast.BindKind) values.BindKind {
	switch k {
	case ast.BindVar:
		return values.Var
	case ast.BindConst:
		return values.Const
	default:
		return values.Let
	}
}

func isLiteralExpr(x ast.Expression) bool {
	_, ok := x.(*ast.Literal)
	return ok
}

func (e *Evaluator) execIf(cond ast.Expression, then, els []ast.Statement, c *ctx) (values.Value, error) {
	cv, err := e.evalExpr(cond, c)
	if err != nil {
		return nil, err
	}
	b, ok := cv.(values.Bool)
	if !ok {
		return nil, values.NewRuntimeError("if condition must be Bool, got %s", cv.Tag())
	}
	if b.Value {
		return e.execBlock(then, c.child(values.NewEnclosedEnvironment(c.env)))
	}
	return e.execBlock(els, c.child(values.NewEnclosedEnvironment(c.env)))
}

func (e *Evaluator) execWhile(st *ast.WhileStmt, c *ctx) (values.Value, error) {
	loopCtx := c.child(c.env)
	loopCtx.inLoop = true
	for {
		cv, err := e.evalExpr(st.Cond, c)
		if err != nil {
			return nil, err
		}
		b, ok := cv.(values.Bool)
		if !ok {
			return nil, values.NewRuntimeError("while condition must be Bool, got %s", cv.Tag())
		}
		if !b.Value {
			break
		}
		_, err = e.execBlock(st.Body, loopCtx.child(values.NewEnclosedEnvironment(c.env)))
		if err != nil {
			if _, ok := err.(values.BreakSignal); ok {
				break
			}
			if _, ok := err.(values.ContinueSignal); ok {
				continue
			}
			return nil, err
		}
	}
	return values.NullValue, nil
}

// execFor evaluates the iterable and binds Var to each element in
// turn (spec §4.1 "For"). Accepted iterables: Vec, Array, and integer
// ranges of identical width (already materialized as a Vec by the
// range binary operator).
func (e *Evaluator) execFor(st *ast.ForStmt, c *ctx) (values.Value, error) {
	iv, err := e.evalExpr(st.Iterable, c)
	if err != nil {
		return nil, err
	}
	var items []values.Value
	switch it := iv.(type) {
	case values.Vec:
		items = it.Cell.Snapshot()
	case values.Array:
		items = it.Cell.Snapshot()
	default:
		return nil, values.NewRuntimeError("for loop requires a vec or array, got %s", iv.Tag())
	}
	loopCtx := c.child(c.env)
	loopCtx.inLoop = true
	for _, item := range items {
		iterEnv := values.NewEnclosedEnvironment(c.env)
		if err := iterEnv.Define(st.Var, values.Let, item.Tag(), item); err != nil {
			return nil, values.NewRuntimeError("%s", err.Error())
		}
		_, err := e.execBlock(st.Body, loopCtx.child(iterEnv))
		if err != nil {
			if _, ok := err.(values.BreakSignal); ok {
				break
			}
			if _, ok := err.(values.ContinueSignal); ok {
				continue
			}
			return nil, err
		}
	}
	return values.NullValue, nil
}

func (e *Evaluator) execSwitch(st *ast.SwitchStmt, c *ctx) (values.Value, error) {
	if len(st.Arms) == 0 {
		return nil, values.NewRuntimeError("switch with no arms is invalid").WithSpan(st.Span())
	}
	scrutinee, err := e.evalExpr(st.Scrutinee, c)
	if err != nil {
		return nil, err
	}
	for _, arm := range st.Arms {
		armEnv := values.NewEnclosedEnvironment(c.env)
		matched, err := e.matchPattern(arm.Pattern, scrutinee, armEnv)
		if err != nil {
			return nil, err
		}
		if matched {
			return e.execBlock(arm.Body, c.child(armEnv))
		}
	}
	return values.NullValue, nil
}

func (e *Evaluator) execTryCatch(st *ast.TryCatchStmt, c *ctx) (values.Value, error) {
	v, err := e.execBlock(st.Try, c.child(values.NewEnclosedEnvironment(c.env)))
	if err != nil {
		payload, recoverable := recoverableErrorPayload(err)
		if !recoverable {
			return nil, e.runFinally(st.Finally, c, v, err)
		}
		catchEnv := values.NewEnclosedEnvironment(c.env)
		if st.CatchVar != "" {
			if derr := catchEnv.Define(st.CatchVar, values.Let, payload.Tag(), payload); derr != nil {
				return nil, values.NewRuntimeError("%s", derr.Error())
			}
		}
		cv, cerr := e.execBlock(st.Catch, c.child(catchEnv))
		return cv, e.runFinally(st.Finally, c, cv, cerr)
	}
	return v, e.runFinally(st.Finally, c, v, nil)
}

func (e *Evaluator) runFinally(finally []ast.Statement, c *ctx, v values.Value, err error) error {
	if len(finally) == 0 {
		return err
	}
	if _, ferr := e.execBlock(finally, c.child(values.NewEnclosedEnvironment(c.env))); ferr != nil {
		return ferr
	}
	return err
}

// recoverableErrorPayload extracts the value a catch block binds to,
// for both Propagate (the carried payload) and Message (a string
// rendering) errors (spec §4.1 "Try/Catch"). Control signals
// (return/break/continue) are never recoverable.
func recoverableErrorPayload(err error) (values.Value, bool) {
	switch e := err.(type) {
	case *values.Propagate:
		return e.Payload, true
	case *values.RuntimeError:
		return values.String{Value: e.Error()}, true
	}
	if _, ok := err.(values.Signal); ok {
		return nil, false
	}
	return values.String{Value: err.Error()}, true
}
