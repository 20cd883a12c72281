package types

// Equal reports structural tag equality, modulo Unknown which equals
// anything (spec §4.1).
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return true
	}
	if _, ok := a.(Unknown); ok {
		return true
	}
	if _, ok := b.(Unknown); ok {
		return true
	}
	switch av := a.(type) {
	case Bool:
		_, ok := b.(Bool)
		return ok
	case Char:
		_, ok := b.(Char)
		return ok
	case Unit:
		_, ok := b.(Unit)
		return ok
	case StringTag:
		_, ok := b.(StringTag)
		return ok
	case Int:
		bv, ok := b.(Int)
		return ok && av.Width == bv.Width
	case Float:
		bv, ok := b.(Float)
		return ok && av.Width == bv.Width
	case Vec:
		bv, ok := b.(Vec)
		return ok && Equal(av.Elem, bv.Elem)
	case Array:
		bv, ok := b.(Array)
		return ok && av.Size == bv.Size && Equal(av.Elem, bv.Elem)
	case Slice:
		bv, ok := b.(Slice)
		return ok && Equal(av.Elem, bv.Elem)
	case Set:
		bv, ok := b.(Set)
		return ok && Equal(av.Elem, bv.Elem)
	case Map:
		bv, ok := b.(Map)
		return ok && Equal(av.Key, bv.Key) && Equal(av.Val, bv.Val)
	case Option:
		bv, ok := b.(Option)
		return ok && Equal(av.Elem, bv.Elem)
	case Result:
		bv, ok := b.(Result)
		return ok && Equal(av.Ok, bv.Ok) && Equal(av.Err, bv.Err)
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case Struct:
		bv, ok := b.(Struct)
		if !ok || av.Name != bv.Name {
			return false
		}
		return argsEqual(av.Args, bv.Args)
	case Enum:
		bv, ok := b.(Enum)
		if !ok || av.Name != bv.Name {
			return false
		}
		return argsEqual(av.Args, bv.Args)
	case Func:
		bv, ok := b.(Func)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Return, bv.Return)
	}
	return false
}

// argsEqual matches type-argument lists only when both sides declare
// them; an empty list on either side is treated as "not specified"
// (spec §4.1: "when type arguments are present on both sides").
func argsEqual(a, b []Tag) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
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

// Satisfies reports whether a value tagged `actual` may occupy a
// position declared with `declared`, per spec §4.1. Slice accepts
// either an Array or a Vec with a matching element tag (so this is
// intentionally asymmetric: call Satisfies(actualValueTag, declaredTag)).
func Satisfies(actual, declared Tag) bool {
	if declared == nil {
		return true
	}
	if _, ok := declared.(Unknown); ok {
		return true
	}
	if _, ok := actual.(Unknown); ok {
		return true
	}
	if sl, ok := declared.(Slice); ok {
		switch av := actual.(type) {
		case Array:
			return Satisfies(av.Elem, sl.Elem)
		case Vec:
			return Satisfies(av.Elem, sl.Elem)
		case Slice:
			return Satisfies(av.Elem, sl.Elem)
		}
		return false
	}
	// Structural recursion mirrors Equal but lets nested element tags
	// satisfy rather than require exact Equal, so Unknown propagates.
	switch dv := declared.(type) {
	case Vec:
		av, ok := actual.(Vec)
		return ok && Satisfies(av.Elem, dv.Elem)
	case Array:
		av, ok := actual.(Array)
		return ok && av.Size == dv.Size && Satisfies(av.Elem, dv.Elem)
	case Set:
		av, ok := actual.(Set)
		return ok && Satisfies(av.Elem, dv.Elem)
	case Map:
		av, ok := actual.(Map)
		return ok && Satisfies(av.Key, dv.Key) && Satisfies(av.Val, dv.Val)
	case Option:
		av, ok := actual.(Option)
		return ok && Satisfies(av.Elem, dv.Elem)
	case Result:
		av, ok := actual.(Result)
		return ok && Satisfies(av.Ok, dv.Ok) && Satisfies(av.Err, dv.Err)
	case Tuple:
		av, ok := actual.(Tuple)
		if !ok || len(av.Elems) != len(dv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Satisfies(av.Elems[i], dv.Elems[i]) {
				return false
			}
		}
		return true
	}
	return Equal(actual, declared)
}

// IsNumeric reports whether t is an Int or Float tag.
func IsNumeric(t Tag) bool {
	switch t.(type) {
	case Int, Float:
		return true
	}
	return false
}

// IsSignedInt reports whether t is a signed Int tag.
func IsSignedInt(t Tag) bool {
	iv, ok := t.(Int)
	return ok && !iv.Width.Unsigned()
}
