package values

import (
	"fmt"
	"sync"

	"github.com/forgelang/forge/internal/types"
)

// KeyDomainError is returned when a value outside {String, Int, Bool}
// is used as a Map/Set key (spec §3 "Map key encoding",
// §8 "map/set key type not supported").
type KeyDomainError struct{ Got types.Tag }

func (e *KeyDomainError) Error() string {
	return "map/set key type not supported"
}

// EncodeKey normalizes a value into its map-key representative, per
// spec §3: "A map key is the normalized representative of its value
// (Str, Int, or Bool)." Two values compare-equal as keys iff their
// representatives compare-equal.
func EncodeKey(v Value) (string, error) {
	switch k := v.(type) {
	case String:
		return "s:" + k.Value, nil
	case Int:
		return "i:" + k.Value.String(), nil
	case Bool:
		if k.Value {
			return "b:true", nil
		}
		return "b:false", nil
	default:
		return "", &KeyDomainError{Got: v.Tag()}
	}
}

// MapCell is the shared mutable interior of a Map.
type MapCell struct {
	mu       sync.RWMutex
	keys     map[string]Value // encoded key -> original key value
	vals     map[string]Value // encoded key -> value
	order    []string         // insertion order of encoded keys
	KeyTag   types.Tag
	ValueTag types.Tag
}

type Map struct{ Cell *MapCell }

func NewMap(keyTag, valTag types.Tag) Map {
	return Map{Cell: &MapCell{
		keys: make(map[string]Value),
		vals: make(map[string]Value),
		KeyTag: keyTag, ValueTag: valTag,
	}}
}

func (m Map) Tag() types.Tag {
	m.Cell.mu.RLock()
	defer m.Cell.mu.RUnlock()
	k, v := m.Cell.KeyTag, m.Cell.ValueTag
	if k == nil {
		k = types.Unknown{}
	}
	if v == nil {
		v = types.Unknown{}
	}
	return types.Map{Key: k, Val: v}
}

func (m Map) Inspect() string {
	m.Cell.mu.RLock()
	defer m.Cell.mu.RUnlock()
	s := "{"
	for i, ek := range m.Cell.order {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", m.Cell.keys[ek].Inspect(), m.Cell.vals[ek].Inspect())
	}
	return s + "}"
}

// Put inserts or overwrites key -> val, recording key/value tags on
// first insert into an untyped empty map.
func (c *MapCell) Put(key, val Value, keyTag, valTag types.Tag) error {
	enc, err := EncodeKey(key)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.KeyTag == nil {
		c.KeyTag = keyTag
	}
	if c.ValueTag == nil {
		c.ValueTag = valTag
	}
	if _, exists := c.keys[enc]; !exists {
		c.order = append(c.order, enc)
	}
	c.keys[enc] = key
	c.vals[enc] = val
	return nil
}

func (c *MapCell) Get(key Value) (Value, bool, error) {
	enc, err := EncodeKey(key)
	if err != nil {
		return nil, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vals[enc]
	return v, ok, nil
}

func (c *MapCell) Delete(key Value) (bool, error) {
	enc, err := EncodeKey(key)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vals[enc]; !ok {
		return false, nil
	}
	delete(c.vals, enc)
	delete(c.keys, enc)
	for i, k := range c.order {
		if k == enc {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (c *MapCell) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Entries returns a stable-ordered snapshot of (key, value) pairs.
func (c *MapCell) Entries() ([]Value, []Value) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]Value, len(c.order))
	vals := make([]Value, len(c.order))
	for i, ek := range c.order {
		keys[i] = c.keys[ek]
		vals[i] = c.vals[ek]
	}
	return keys, vals
}

// SetCell is the shared mutable interior of a Set.
type SetCell struct {
	mu    sync.RWMutex
	items map[string]Value
	order []string
	Elem  types.Tag
}

type Set struct{ Cell *SetCell }

func NewSet(elem types.Tag) Set {
	return Set{Cell: &SetCell{items: make(map[string]Value), Elem: elem}}
}

func (s Set) Tag() types.Tag {
	s.Cell.mu.RLock()
	defer s.Cell.mu.RUnlock()
	elem := s.Cell.Elem
	if elem == nil {
		elem = types.Unknown{}
	}
	return types.Set{Elem: elem}
}

func (s Set) Inspect() string {
	s.Cell.mu.RLock()
	defer s.Cell.mu.RUnlock()
	out := "{"
	for i, ek := range s.Cell.order {
		if i > 0 {
			out += ", "
		}
		out += s.Cell.items[ek].Inspect()
	}
	return out + "}"
}

func (c *SetCell) Add(v Value, elemTag types.Tag) error {
	enc, err := EncodeKey(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Elem == nil {
		c.Elem = elemTag
	}
	if _, exists := c.items[enc]; !exists {
		c.order = append(c.order, enc)
	}
	c.items[enc] = v
	return nil
}

func (c *SetCell) Contains(v Value) (bool, error) {
	enc, err := EncodeKey(v)
	if err != nil {
		return false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[enc]
	return ok, nil
}

func (c *SetCell) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *SetCell) Items() []Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Value, len(c.order))
	for i, ek := range c.order {
		out[i] = c.items[ek]
	}
	return out
}
