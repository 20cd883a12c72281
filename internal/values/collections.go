package values

import (
	"strings"
	"sync"

	"github.com/forgelang/forge/internal/types"
)

// VecCell is the shared mutable interior of a Vec (spec §3
// "Ownership"): every alias of the same Vec observes the same
// mutations. The mutex mirrors the Environment store's RWMutex.
type VecCell struct {
	mu    sync.RWMutex
	Items []Value
	Elem  types.Tag // Unknown until the first recorded element
}

// Vec is a shared, mutable, ordered sequence.
type Vec struct{ Cell *VecCell }

func NewVec(items []Value, elem types.Tag) Vec {
	return Vec{Cell: &VecCell{Items: items, Elem: elem}}
}

func (v Vec) Tag() types.Tag { return types.Vec{Elem: v.Cell.elemTag()} }
func (v Vec) Inspect() string {
	v.Cell.mu.RLock()
	defer v.Cell.mu.RUnlock()
	return inspectSlice("[", v.Cell.Items, "]")
}

func (c *VecCell) elemTag() types.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Elem == nil {
		return types.Unknown{}
	}
	return c.Elem
}

// Len returns the current element count.
func (c *VecCell) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Items)
}

// Get returns element i; ok is false when i is out of bounds.
func (c *VecCell) Get(i int) (Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.Items) {
		return nil, false
	}
	return c.Items[i], true
}

// Set replaces element i in place; ok is false when i is out of
// bounds.
func (c *VecCell) Set(i int, val Value) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.Items) {
		return false
	}
	c.Items[i] = val
	return true
}

// Push appends val, recording the element tag on the first push into
// an untyped empty vec (spec §3 "Lifecycle & invariants").
func (c *VecCell) Push(val Value, tag types.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Elem == nil {
		c.Elem = tag
	}
	c.Items = append(c.Items, val)
}

// Pop removes and returns the last element.
func (c *VecCell) Pop() (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.Items)
	if n == 0 {
		return nil, false
	}
	v := c.Items[n-1]
	c.Items = c.Items[:n-1]
	return v, true
}

// Snapshot returns a copy of the current elements, safe to range over
// without holding the lock.
func (c *VecCell) Snapshot() []Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Value, len(c.Items))
	copy(out, c.Items)
	return out
}

// ArrayCell is the shared mutable interior of an Array: like VecCell
// but with a fixed, recorded length (spec §3).
type ArrayCell struct {
	mu    sync.RWMutex
	Items []Value
	Elem  types.Tag
}

type Array struct{ Cell *ArrayCell }

func NewArray(items []Value, elem types.Tag) Array {
	return Array{Cell: &ArrayCell{Items: items, Elem: elem}}
}

func (a Array) Tag() types.Tag {
	a.Cell.mu.RLock()
	defer a.Cell.mu.RUnlock()
	elem := a.Cell.Elem
	if elem == nil {
		elem = types.Unknown{}
	}
	return types.Array{Elem: elem, Size: len(a.Cell.Items)}
}

func (a Array) Inspect() string {
	a.Cell.mu.RLock()
	defer a.Cell.mu.RUnlock()
	return inspectSlice("[", a.Cell.Items, "]")
}

func (c *ArrayCell) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Items)
}

func (c *ArrayCell) Get(i int) (Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.Items) {
		return nil, false
	}
	return c.Items[i], true
}

func (c *ArrayCell) Set(i int, val Value) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.Items) {
		return false
	}
	c.Items[i] = val
	return true
}

func (c *ArrayCell) Snapshot() []Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Value, len(c.Items))
	copy(out, c.Items)
	return out
}

// Tuple is an immutable, finite, ordered, heterogeneous sequence.
type Tuple struct{ Elements []Value }

func (t Tuple) Tag() types.Tag {
	elems := make([]types.Tag, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.Tag()
	}
	return types.Tuple{Elems: elems}
}

func (t Tuple) Inspect() string { return inspectSlice("(", t.Elements, ")") }

func inspectSlice(open string, items []Value, close string) string {
	var b strings.Builder
	b.WriteString(open)
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it.Inspect())
	}
	b.WriteString(close)
	return b.String()
}
