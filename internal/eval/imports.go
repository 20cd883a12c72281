package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/values"
)

// execImport resolves an import path through the Loader and binds it
// into the current frame, either as a whole module (under its alias
// or last path segment) or as individually-named members (spec §4.3
// "Module & Binding Loader").
func (e *Evaluator) execImport(st *ast.ImportStmt, c *ctx) error {
	if e.Loader == nil {
		return values.NewRuntimeError("no module loader configured").WithSpan(st.Span())
	}
	v, err := e.Loader.Resolve(st.Path)
	if err != nil {
		return values.NewRuntimeError("%s", err.Error()).WithSpan(st.Span())
	}

	if len(st.Members) > 0 {
		mod, ok := v.(values.Module)
		if !ok {
			return values.NewRuntimeError("cannot import members from a non-module value").WithSpan(st.Span())
		}
		for _, member := range st.Members {
			mv, ok := mod.Get(member)
			if !ok {
				return values.NewRuntimeError("module %q has no member %q", mod.Name, member).WithSpan(st.Span())
			}
			if err := c.env.Define(member, values.Let, mv.Tag(), mv); err != nil {
				return values.NewRuntimeError("%s", err.Error()).WithSpan(st.Span())
			}
		}
		return nil
	}

	name := st.Alias
	if name == "" {
		name = st.Path[len(st.Path)-1]
	}
	if err := c.env.Define(name, values.Let, v.Tag(), v); err != nil {
		return values.NewRuntimeError("%s", err.Error()).WithSpan(st.Span())
	}
	return nil
}
