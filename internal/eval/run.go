package eval

import (
	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// RunProgram first statically validates prog in its entirety (spec
// §4.4), then registers its imports and top-level declarations against
// this Evaluator's global frame, in source order (spec §4.1 "top-level
// declarations run once, in order, before apex"). It is used both for
// the host's entry program and, via a fresh per-module Evaluator, for
// internal/modules.Loader's RunProgram closure.
func (e *Evaluator) RunProgram(prog *ast.Program) (map[string]values.Value, error) {
	if err := Validate(prog); err != nil {
		return nil, err
	}
	c := &ctx{env: e.Globals, typeParams: map[string]types.Tag{}}
	for _, im := range prog.Imports {
		if _, err := e.execStmt(im, c); err != nil {
			return nil, err
		}
	}
	for _, st := range prog.Statements {
		if _, err := e.execStmt(st, c); err != nil {
			return nil, err
		}
	}
	store := e.Globals.GetStore()
	out := make(map[string]values.Value, len(store))
	for name, b := range store {
		out[name] = b.Value
	}
	return out, nil
}
