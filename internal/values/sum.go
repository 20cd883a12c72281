package values

import "github.com/forgelang/forge/internal/types"

// Option is Some(value) or None, carrying the element tag so None can
// still be checked against a declared Option(T).
type Option struct {
	HasValue bool
	Value    Value
	Elem     types.Tag
}

func Some(v Value, elem types.Tag) Option { return Option{HasValue: true, Value: v, Elem: elem} }
func None(elem types.Tag) Option          { return Option{Elem: elem} }

func (o Option) Tag() types.Tag {
	elem := o.Elem
	if elem == nil {
		elem = types.Unknown{}
	}
	return types.Option{Elem: elem}
}

func (o Option) Inspect() string {
	if o.HasValue {
		return "Some(" + o.Value.Inspect() + ")"
	}
	return "None"
}

// Result is Ok(value) or Err(value), carrying ok and err tags.
type Result struct {
	IsOk  bool
	Value Value
	OkTag types.Tag
	Err   types.Tag
}

func Ok(v Value, okTag, errTag types.Tag) Result {
	return Result{IsOk: true, Value: v, OkTag: okTag, Err: errTag}
}
func Err(v Value, okTag, errTag types.Tag) Result {
	return Result{IsOk: false, Value: v, OkTag: okTag, Err: errTag}
}

func (r Result) Tag() types.Tag {
	ok, err := r.OkTag, r.Err
	if ok == nil {
		ok = types.Unknown{}
	}
	if err == nil {
		err = types.Unknown{}
	}
	return types.Result{Ok: ok, Err: err}
}

func (r Result) Inspect() string {
	if r.IsOk {
		return "Ok(" + r.Value.Inspect() + ")"
	}
	return "Err(" + r.Value.Inspect() + ")"
}
