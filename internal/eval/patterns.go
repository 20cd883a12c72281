package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/values"
)

// matchPattern tries to unify pattern against scrutinee, binding any
// names the pattern introduces into env (spec §4.1 "Pattern
// matching"). Binding patterns always shadow in a fresh per-arm frame,
// which callers provide via env.
func (e *Evaluator) matchPattern(p ast.Pattern, scrutinee values.Value, env *values.Environment) (bool, error) {
	switch pp := p.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.BindingPattern:
		if err := env.Define(pp.Name, values.Let, scrutinee.Tag(), scrutinee); err != nil {
			return false, values.NewRuntimeError("%s", err.Error()).WithSpan(pp.Span())
		}
		return true, nil
	case *ast.LiteralPattern:
		lv, _, err := e.evalLiteral(pp.Value)
		if err != nil {
			return false, err
		}
		return values.Equal(lv, scrutinee), nil
	case *ast.PathPattern:
		en, ok := scrutinee.(values.Enum)
		if !ok || len(en.Payload) != 0 {
			return false, nil
		}
		return pathMatchesEnum(pp.Path, en), nil
	case *ast.EnumPattern:
		en, ok := scrutinee.(values.Enum)
		if !ok {
			return false, nil
		}
		if !pathMatchesEnum(pp.Path, en) {
			return false, nil
		}
		if len(pp.Bindings) != len(en.Payload) {
			return false, nil
		}
		for i, bp := range pp.Bindings {
			ok, err := e.matchPattern(bp, en.Payload[i], env)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
	return false, values.NewRuntimeError("unhandled pattern %T", p).WithSpan(p.Span())
}

// pathMatchesEnum reports whether a pattern path (either a bare
// variant name or TypeName::Variant) names en's constructor.
func pathMatchesEnum(path []string, en values.Enum) bool {
	switch len(path) {
	case 1:
		return path[0] == en.Variant
	case 2:
		return path[0] == en.TypeName && path[1] == en.Variant
	default:
		return false
	}
}

// bindPattern handles the destructuring form of a variable declaration
// (spec §4.1 "Variable declaration"). Only Wildcard/Binding patterns
// have a defined meaning at a var-decl position; anything else (a
// Path/Enum/Literal pattern) belongs to a switch arm, not a binding.
func (e *Evaluator) bindPattern(p ast.Pattern, val values.Value, kind values.BindKind, c *ctx) error {
	switch pp := p.(type) {
	case *ast.WildcardPattern:
		return nil
	case *ast.BindingPattern:
		if err := c.env.Define(pp.Name, kind, val.Tag(), val); err != nil {
			return values.NewRuntimeError("%s", err.Error()).WithSpan(pp.Span())
		}
		return nil
	}
	return values.NewRuntimeError("pattern %T is not valid in a variable declaration", p).WithSpan(p.Span())
}
