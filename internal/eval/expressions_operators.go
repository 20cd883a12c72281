package eval

import (
	"math"
	"math/big"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

func (e *Evaluator) evalBinary(b *ast.Binary, c *ctx) (values.Value, error) {
	if b.Op == "and" || b.Op == "or" {
		return e.evalShortCircuit(b, c)
	}
	if b.Op == ".." {
		return e.evalRange(b, c)
	}

	lv, err := e.evalExpr(b.Left, c)
	if err != nil {
		return nil, err
	}
	rv, err := e.evalExpr(b.Right, c)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "==", "!=":
		return evalEquality(b.Op, lv, rv, b.Span())
	case "<", "<=", ">", ">=":
		return evalOrdering(b.Op, lv, rv, b.Span())
	case "+", "-", "*", "/", "%":
		return evalArithmetic(b.Op, lv, rv, b.Span())
	}
	return nil, values.NewRuntimeError("unhandled binary operator %q", b.Op).WithSpan(b.Span())
}

func (e *Evaluator) evalShortCircuit(b *ast.Binary, c *ctx) (values.Value, error) {
	lv, err := e.evalExpr(b.Left, c)
	if err != nil {
		return nil, err
	}
	lb, ok := lv.(values.Bool)
	if !ok {
		return nil, values.NewRuntimeError("%q operand must be Bool, got %s", b.Op, lv.Tag()).WithSpan(b.Span())
	}
	if b.Op == "and" && !lb.Value {
		return values.False, nil
	}
	if b.Op == "or" && lb.Value {
		return values.True, nil
	}
	rv, err := e.evalExpr(b.Right, c)
	if err != nil {
		return nil, err
	}
	rb, ok := rv.(values.Bool)
	if !ok {
		return nil, values.NewRuntimeError("%q operand must be Bool, got %s", b.Op, rv.Tag()).WithSpan(b.Span())
	}
	return rb, nil
}

// evalRange implements `a..b`: a Vec of integers in [a, b) of the
// shared width (spec §4.1 "Range").
func (e *Evaluator) evalRange(b *ast.Binary, c *ctx) (values.Value, error) {
	lv, err := e.evalExpr(b.Left, c)
	if err != nil {
		return nil, err
	}
	rv, err := e.evalExpr(b.Right, c)
	if err != nil {
		return nil, err
	}
	li, ok := lv.(values.Int)
	if !ok {
		return nil, values.NewRuntimeError("range bound must be Int, got %s", lv.Tag()).WithSpan(b.Span())
	}
	ri, ok := rv.(values.Int)
	if !ok {
		return nil, values.NewRuntimeError("range bound must be Int, got %s", rv.Tag()).WithSpan(b.Span())
	}
	li, ri, err = unifyInts(li, ri)
	if err != nil {
		return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(b.Span())
	}
	var items []values.Value
	for n := new(big.Int).Set(li.Value); n.Cmp(ri.Value) < 0; n.Add(n, big.NewInt(1)) {
		items = append(items, values.Int{Value: new(big.Int).Set(n), Width: li.Width})
	}
	return values.NewVec(items, types.Int{Width: li.Width}), nil
}

// unifyInts reconciles two Int operands to a shared width per spec
// §4.1: an exact width match always works; otherwise a literal operand
// may narrow/widen to the other's width if it still fits.
func unifyInts(a, b values.Int) (values.Int, values.Int, error) {
	if a.Width == b.Width {
		return a, b, nil
	}
	if a.IsLiteral && !b.IsLiteral {
		if !b.Width.Fits(a.Value) {
			return a, b, values.NewRuntimeError("cast out of range")
		}
		return values.Int{Value: a.Value, Width: b.Width, IsLiteral: true}, b, nil
	}
	if b.IsLiteral && !a.IsLiteral {
		if !a.Width.Fits(b.Value) {
			return a, b, values.NewRuntimeError("cast out of range")
		}
		return a, values.Int{Value: b.Value, Width: a.Width, IsLiteral: true}, nil
	}
	if a.IsLiteral && b.IsLiteral {
		w := a.Width
		if b.Width.Bits() > a.Width.Bits() {
			w = b.Width
		}
		if !w.Fits(a.Value) || !w.Fits(b.Value) {
			return a, b, values.NewRuntimeError("cast out of range")
		}
		return values.Int{Value: a.Value, Width: w, IsLiteral: true}, values.Int{Value: b.Value, Width: w, IsLiteral: true}, nil
	}
	return a, b, values.NewRuntimeError("operands must share a numeric tag of matching width (got %s and %s)", a.Tag(), b.Tag())
}

func evalEquality(op string, lv, rv values.Value, span ast.Span) (values.Value, error) {
	if !sameEqualityTag(lv, rv) {
		return nil, values.NewRuntimeError("equality operands must share a tag (got %s and %s)", lv.Tag(), rv.Tag()).WithSpan(span)
	}
	eq := values.Equal(lv, rv)
	if op == "!=" {
		eq = !eq
	}
	return values.BoolOf(eq), nil
}

// sameEqualityTag allows literal integers of differing width to
// compare, otherwise requires the tags to agree modulo Unknown (spec
// §4.1 "Equality": "operands must share a tag (modulo Unknown)").
func sameEqualityTag(lv, rv values.Value) bool {
	li, lok := lv.(values.Int)
	ri, rok := rv.(values.Int)
	if lok && rok {
		return li.Width == ri.Width || li.IsLiteral || ri.IsLiteral
	}
	return types.Equal(lv.Tag(), rv.Tag())
}

func evalOrdering(op string, lv, rv values.Value, span ast.Span) (values.Value, error) {
	switch l := lv.(type) {
	case values.Int:
		r, ok := rv.(values.Int)
		if !ok {
			return nil, values.NewRuntimeError("ordering operands must both be numeric, got %s and %s", lv.Tag(), rv.Tag()).WithSpan(span)
		}
		l, r, err := unifyInts(l, r)
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(span)
		}
		return values.BoolOf(cmpResult(op, l.Value.Cmp(r.Value))), nil
	case values.Float:
		r, ok := rv.(values.Float)
		if !ok {
			return nil, values.NewRuntimeError("ordering operands must both be numeric, got %s and %s", lv.Tag(), rv.Tag()).WithSpan(span)
		}
		cmp := 0
		switch {
		case l.Value < r.Value:
			cmp = -1
		case l.Value > r.Value:
			cmp = 1
		}
		return values.BoolOf(cmpResult(op, cmp)), nil
	}
	return nil, values.NewRuntimeError("ordering requires numeric operands, got %s", lv.Tag()).WithSpan(span)
}

func cmpResult(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func evalArithmetic(op string, lv, rv values.Value, span ast.Span) (values.Value, error) {
	switch l := lv.(type) {
	case values.Int:
		r, ok := rv.(values.Int)
		if !ok {
			return nil, values.NewRuntimeError("arithmetic operands must share a numeric tag, got %s and %s", lv.Tag(), rv.Tag()).WithSpan(span)
		}
		l, r, err := unifyInts(l, r)
		if err != nil {
			return nil, values.NewRuntimeError("%s", err.Error()).WithSpan(span)
		}
		return evalIntArithmetic(op, l, r, span)
	case values.Float:
		r, ok := rv.(values.Float)
		if !ok {
			return nil, values.NewRuntimeError("arithmetic operands must share a numeric tag, got %s and %s", lv.Tag(), rv.Tag()).WithSpan(span)
		}
		return evalFloatArithmetic(op, l, r), nil
	}
	return nil, values.NewRuntimeError("arithmetic requires numeric operands, got %s", lv.Tag()).WithSpan(span)
}

func evalIntArithmetic(op string, l, r values.Int, span ast.Span) (values.Value, error) {
	var raw *big.Int
	switch op {
	case "+":
		raw = new(big.Int).Add(l.Value, r.Value)
	case "-":
		raw = new(big.Int).Sub(l.Value, r.Value)
	case "*":
		raw = new(big.Int).Mul(l.Value, r.Value)
	case "/":
		if r.Value.Sign() == 0 {
			return nil, values.NewRuntimeError("Division by zero").WithSpan(span)
		}
		raw = new(big.Int).Quo(l.Value, r.Value)
	case "%":
		if r.Value.Sign() == 0 {
			return nil, values.NewRuntimeError("Division by zero").WithSpan(span)
		}
		raw = new(big.Int).Rem(l.Value, r.Value)
	}
	wrapped, err := overflowCheck(raw, l.Width)
	if err != nil {
		return nil, err
	}
	return values.Int{Value: wrapped, Width: l.Width, IsLiteral: l.IsLiteral && r.IsLiteral}, nil
}

func evalFloatArithmetic(op string, l, r values.Float) values.Value {
	var res float64
	switch op {
	case "+":
		res = l.Value + r.Value
	case "-":
		res = l.Value - r.Value
	case "*":
		res = l.Value * r.Value
	case "/":
		res = l.Value / r.Value
	case "%":
		res = math.Mod(l.Value, r.Value)
	}
	return values.Float{Value: res, Width: l.Width}
}

func (e *Evaluator) evalUnary(u *ast.Unary, c *ctx) (values.Value, error) {
	if u.Op == "borrow" {
		return nil, values.NewRuntimeError("`borrow` is reserved").WithSpan(u.Span())
	}
	v, err := e.evalExpr(u.X, c)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "-":
		switch vv := v.(type) {
		case values.Int:
			if vv.Width.Unsigned() {
				return nil, values.NewRuntimeError("cannot negate an unsigned integer").WithSpan(u.Span())
			}
			wrapped, err := overflowCheck(new(big.Int).Neg(vv.Value), vv.Width)
			if err != nil {
				return nil, err
			}
			return values.Int{Value: wrapped, Width: vv.Width, IsLiteral: vv.IsLiteral}, nil
		case values.Float:
			return values.Float{Value: -vv.Value, Width: vv.Width}, nil
		}
		return nil, values.NewRuntimeError("unary `-` requires a signed numeric, got %s", v.Tag()).WithSpan(u.Span())
	case "!":
		b, ok := v.(values.Bool)
		if !ok {
			return nil, values.NewRuntimeError("unary `!` requires Bool, got %s", v.Tag()).WithSpan(u.Span())
		}
		return values.BoolOf(!b.Value), nil
	}
	return nil, values.NewRuntimeError("unhandled unary operator %q", u.Op).WithSpan(u.Span())
}
