package eval

import (
	"math/big"
	"strconv"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// defaultIntWidth / defaultFloatWidth are the tags an un-annotated
// numeric literal carries until a boundary crossing narrows it (spec
// §4.1 "literal flag").
const (
	defaultIntWidth   = types.I32
	defaultFloatWidth = types.F64
)

// evalLiteral evaluates a Literal node (spec §3 "Values"). Numeric
// literals are parsed from their raw source text and marked
// IsLiteral so a consumer's declared width can narrow them later.
func (e *Evaluator) evalLiteral(lit *ast.Literal) (values.Value, types.Tag, error) {
	switch lit.Kind {
	case ast.LitNull:
		return values.NullValue, types.Unit{}, nil
	case ast.LitBool:
		return values.BoolOf(lit.Bool), types.Bool{}, nil
	case ast.LitChar:
		r := []rune(lit.Text)
		if len(r) == 0 {
			return nil, nil, values.NewRuntimeError("empty char literal").WithSpan(lit.Span())
		}
		return values.Char{Value: r[0]}, types.Char{}, nil
	case ast.LitString:
		return values.String{Value: lit.Text}, types.StringTag{}, nil
	case ast.LitInt:
		n, ok := new(big.Int).SetString(lit.Text, 0)
		if !ok {
			return nil, nil, values.NewRuntimeError("invalid integer literal %q", lit.Text).WithSpan(lit.Span())
		}
		v := values.Int{Value: n, Width: defaultIntWidth, IsLiteral: true}
		return v, v.Tag(), nil
	case ast.LitFloat:
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return nil, nil, values.NewRuntimeError("invalid float literal %q", lit.Text).WithSpan(lit.Span())
		}
		v := values.Float{Value: f, Width: defaultFloatWidth}
		return v, v.Tag(), nil
	}
	return nil, nil, values.NewRuntimeError("unhandled literal kind %d", lit.Kind).WithSpan(lit.Span())
}
