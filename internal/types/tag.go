package types

import "fmt"

// Tag is the runtime description of a value's intended type (spec
// §3 "Type tags"). Tags are compared structurally, never by pointer.
type Tag interface {
	String() string
	tagNode()
}

// Unknown is the tag of uninitialized or abstract positions; it
// silently satisfies any check in either direction (spec §3).
type Unknown struct{}

func (Unknown) tagNode()        {}
func (Unknown) String() string  { return "?" }

// Bool, Char, Unit are nullary primitives.
type Bool struct{}

func (Bool) tagNode()       {}
func (Bool) String() string { return "Bool" }

type Char struct{}

func (Char) tagNode()       {}
func (Char) String() string { return "Char" }

type Unit struct{}

func (Unit) tagNode()       {}
func (Unit) String() string { return "Unit" }

type StringTag struct{}

func (StringTag) tagNode()       {}
func (StringTag) String() string { return "String" }

// Int is Primitive(Int(width)).
type Int struct{ Width IntWidth }

func (Int) tagNode() {}
func (t Int) String() string { return string(t.Width) }

// Float is Primitive(Float(width)).
type Float struct{ Width FloatWidth }

func (Float) tagNode() {}
func (t Float) String() string { return string(t.Width) }

type Vec struct{ Elem Tag }

func (Vec) tagNode() {}
func (t Vec) String() string { return fmt.Sprintf("vec<%s>", show(t.Elem)) }

type Array struct {
	Elem Tag
	Size int
}

func (Array) tagNode() {}
func (t Array) String() string { return fmt.Sprintf("array<%s,%d>", show(t.Elem), t.Size) }

type Slice struct{ Elem Tag }

func (Slice) tagNode() {}
func (t Slice) String() string { return fmt.Sprintf("slice<%s>", show(t.Elem)) }

type Set struct{ Elem Tag }

func (Set) tagNode() {}
func (t Set) String() string { return fmt.Sprintf("set<%s>", show(t.Elem)) }

type Map struct{ Key, Val Tag }

func (Map) tagNode() {}
func (t Map) String() string { return fmt.Sprintf("map<%s,%s>", show(t.Key), show(t.Val)) }

type Option struct{ Elem Tag }

func (Option) tagNode() {}
func (t Option) String() string { return fmt.Sprintf("option<%s>", show(t.Elem)) }

type Result struct{ Ok, Err Tag }

func (Result) tagNode() {}
func (t Result) String() string { return fmt.Sprintf("result<%s,%s>", show(t.Ok), show(t.Err)) }

type Tuple struct{ Elems []Tag }

func (Tuple) tagNode() {}
func (t Tuple) String() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += show(e)
	}
	return s + ")"
}

// Struct and Enum match by Name and, when Args is non-empty on both
// sides, by matching type-argument list (spec §4.1).
type Struct struct {
	Name string
	Args []Tag
}

func (Struct) tagNode() {}
func (t Struct) String() string { return nameWithArgs(t.Name, t.Args) }

type Enum struct {
	Name string
	Args []Tag
}

func (Enum) tagNode() {}
func (t Enum) String() string { return nameWithArgs(t.Name, t.Args) }

// Func is the tag of a callable value; used for parameter/return
// checking of higher-order values.
type Func struct {
	Params []Tag
	Return Tag
}

func (Func) tagNode() {}
func (t Func) String() string {
	s := "fn("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += show(p)
	}
	return s + ") -> " + show(t.Return)
}

func show(t Tag) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

func nameWithArgs(name string, args []Tag) string {
	if len(args) == 0 {
		return name
	}
	s := name + "<"
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += show(a)
	}
	return s + ">"
}
