package values

import "math"

// Equal performs the deep structural equality spec §3/§8 (I7) and
// §4.1 require: ε-tolerant for floats, reference-agnostic (by
// content) for collections, adapted from the teacher's
// ObjectsEqual (internal/evaluator/objects_equal.go).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Char:
		bv, ok := b.(Char)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	case Int:
		bv, ok := b.(Int)
		return ok && av.Value.Cmp(bv.Value) == 0
	case Float:
		bv, ok := b.(Float)
		return ok && math.Abs(av.Value-bv.Value) <= FloatEpsilon
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case Vec:
		bv, ok := b.(Vec)
		if !ok {
			return false
		}
		as, bs := av.Cell.Snapshot(), bv.Cell.Snapshot()
		return equalSlices(as, bs)
	case Array:
		bv, ok := b.(Array)
		if !ok {
			return false
		}
		as, bs := av.Cell.Snapshot(), bv.Cell.Snapshot()
		return equalSlices(as, bs)
	case Set:
		bv, ok := b.(Set)
		if !ok || av.Cell.Len() != bv.Cell.Len() {
			return false
		}
		for _, item := range av.Cell.Items() {
			ok, _ := bv.Cell.Contains(item)
			if !ok {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || av.Cell.Len() != bv.Cell.Len() {
			return false
		}
		keys, vals := av.Cell.Entries()
		for i, k := range keys {
			bval, ok, err := bv.Cell.Get(k)
			if err != nil || !ok || !Equal(vals[i], bval) {
				return false
			}
		}
		return true
	case Option:
		bv, ok := b.(Option)
		if !ok || av.HasValue != bv.HasValue {
			return false
		}
		if !av.HasValue {
			return true
		}
		return Equal(av.Value, bv.Value)
	case Result:
		bv, ok := b.(Result)
		if !ok || av.IsOk != bv.IsOk {
			return false
		}
		return Equal(av.Value, bv.Value)
	case Struct:
		bv, ok := b.(Struct)
		if !ok || av.Name != bv.Name {
			return false
		}
		for _, f := range av.FieldOrd {
			afv, _ := av.Get(f)
			bfv, ok := bv.Get(f)
			if !ok || !Equal(afv, bfv) {
				return false
			}
		}
		return true
	case Enum:
		bv, ok := b.(Enum)
		if !ok || av.TypeName != bv.TypeName || av.Variant != bv.Variant || len(av.Payload) != len(bv.Payload) {
			return false
		}
		for i := range av.Payload {
			if !Equal(av.Payload[i], bv.Payload[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
