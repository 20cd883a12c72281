package values

import (
	"fmt"
	"math/big"

	"github.com/forgelang/forge/internal/types"
)

// Int is the Integer value: a 128-bit signed, widening host
// representation (spec §3). Following the teacher's BigInt object
// (internal/evaluator/object_primitives.go), the host value is stored
// as a math/big.Int so every declared width from i8 to u128 shares one
// representation; Width records the declared/narrowed tag and
// IsLiteral marks a value that came from a source literal and may
// still be narrowed (spec §4.1 "literal flag").
type Int struct {
	Value     *big.Int
	Width     types.IntWidth
	IsLiteral bool
}

func NewInt(v int64, width types.IntWidth) Int {
	return Int{Value: big.NewInt(v), Width: width}
}

func (i Int) Tag() types.Tag   { return types.Int{Width: i.Width} }
func (i Int) Inspect() string  { return i.Value.String() }

// Float is the Float value (IEEE 64-bit, narrowed to f32 on demand by
// the caller via Width).
type Float struct {
	Value float64
	Width types.FloatWidth
}

func (f Float) Tag() types.Tag   { return types.Float{Width: f.Width} }
func (f Float) Inspect() string  { return fmt.Sprintf("%g", f.Value) }

// FloatEpsilon is the documented tolerance for Float equality (spec §9
// Open Questions: "must be documented and consistent across Float
// arithmetic and Float map keys"). It defaults to 1e-9 and may be
// overridden once at startup from forge.yaml's floatEpsilon.
var FloatEpsilon = 1e-9
