package tree

import (
	"bytes"
	"fmt"
	"iter"
	"math"
	"reflect"
	"slices"
)

// Map is a string keyed map which remembers insertion order. The zero value
// is an empty map ready to use.
type Map struct {
	keys []string
	vals map[string]any
}

func NewMap() *Map {
	return &Map{vals: map[string]any{}}
}

// Of builds a map from alternating keys and values. It panics if a key is
// not a string or a value is missing.
func Of(kvs ...any) *Map {
	if len(kvs)%2 != 0 {
		panic("tree.Of: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kvs); i += 2 {
		k, ok := kvs[i].(string)
		if !ok {
			panic(fmt.Sprintf("tree.Of: key %v is %T, not string", kvs[i], kvs[i]))
		}
		m.Set(k, kvs[i+1])
	}
	return m
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

func (m *Map) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

func (m *Map) Get(k string) (any, bool) {
	if m == nil || m.vals == nil {
		return nil, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Map returns the value at k when it is a *Map, nil otherwise.
func (m *Map) Map(k string) *Map {
	v, _ := m.Get(k)
	sub, _ := v.(*Map)
	return sub
}

// Set stores v at k. A new key is appended; an existing key keeps its
// position.
func (m *Map) Set(k string, v any) {
	if m.vals == nil {
		m.vals = map[string]any{}
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

func (m *Map) Delete(k string) bool {
	if m == nil || m.vals == nil {
		return false
	}
	if _, ok := m.vals[k]; !ok {
		return false
	}
	delete(m.vals, k)
	i := slices.Index(m.keys, k)
	m.keys = slices.Delete(m.keys, i, i+1)
	return true
}

// All iterates over the entries in order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of m. Nested maps, lists and byte slices are
// copied; other values are shared.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	res := &Map{keys: slices.Clone(m.keys), vals: make(map[string]any, len(m.vals))}
	for k, v := range m.vals {
		res.vals[k] = CloneValue(v)
	}
	return res
}

func CloneValue(v any) any {
	switch x := v.(type) {
	case *Map:
		return x.Clone()
	case []any:
		res := make([]any, len(x))
		for i := range x {
			res[i] = CloneValue(x[i])
		}
		return res
	case []byte:
		return bytes.Clone(x)
	default:
		return v
	}
}

// Equal reports whether m and o hold equal values under the same keys in
// the same order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i := range m.Len() {
		k := m.keys[i]
		if o.keys[i] != k {
			return false
		}
		if !ValueEqual(m.vals[k], o.vals[k]) {
			return false
		}
	}
	return true
}

// ValueEqual compares two tree values. Integers of different Go kinds are
// equal when their values are, likewise floats.
func ValueEqual(a, b any) bool {
	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !ValueEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	}
	if i, ok := AsInt(a); ok {
		j, ok := AsInt(b)
		return ok && i == j
	}
	if f, ok := AsFloat(a); ok {
		g, ok := AsFloat(b)
		return ok && f == g
	}
	return reflect.DeepEqual(a, b)
}

// AsInt converts any Go integer kind to int64. Unsigned values beyond the
// int64 range are refused.
func AsInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

// AsFloat converts float32 and float64 to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func (m *Map) String() string {
	d, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("tree.Map(%d keys)", m.Len())
	}
	return string(d)
}
