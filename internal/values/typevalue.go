package values

import "github.com/forgelang/forge/internal/types"

// TypeValue is a first-class reification of a resolved type tag,
// surfaced by the `typeOf`/`kindOf` reflection built-ins (SPEC_FULL
// §12, grounded on the teacher's builtins_reflection.go).
type TypeValue struct{ Tag_ types.Tag }

func (TypeValue) Tag() types.Tag    { return types.Unknown{} }
func (t TypeValue) Inspect() string { return t.Tag_.String() }
