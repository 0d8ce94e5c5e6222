package tree

import (
	"strconv"

	"github.com/samber/oops"
)

// Get walks m along a. It fails with ErrKeyNotFound naming the first
// segment that is absent.
func Get(m *Map, a Address) (any, error) {
	var cur any = m
	for i, k := range a {
		next, ok := child(cur, k)
		if !ok {
			return nil, oops.Errorf("%w: %s", ErrKeyNotFound, a[:i+1])
		}
		cur = next
	}
	return cur, nil
}

func child(v any, k string) (any, bool) {
	switch x := v.(type) {
	case *Map:
		return x.Get(k)
	case []any:
		i, ok := index(k, len(x))
		if !ok {
			return nil, false
		}
		return x[i], true
	}
	return nil, false
}

func index(k string, n int) (int, bool) {
	if !isIndex(k) {
		return 0, false
	}
	i, err := strconv.Atoi(k)
	if err != nil || i >= n {
		return 0, false
	}
	return i, true
}

// Set stores v at a, creating intermediate maps where keys are absent. The
// value is not validated. It fails with ErrNotMap when an intermediate
// value exists and is neither a map nor a list.
func Set(m *Map, a Address, v any) error {
	if len(a) == 0 {
		return oops.Errorf("%w: empty address", ErrBadAddress)
	}
	if m == nil {
		return oops.Errorf("%w: nil root", ErrNotMap)
	}
	var cur any = m
	for i, k := range a[:len(a)-1] {
		switch x := cur.(type) {
		case *Map:
			next, ok := x.Get(k)
			if !ok || next == nil {
				sub := NewMap()
				x.Set(k, sub)
				next = sub
			}
			cur = next
		case []any:
			j, ok := index(k, len(x))
			if !ok {
				return oops.Errorf("%w: %s", ErrKeyNotFound, a[:i+1])
			}
			cur = x[j]
		default:
			return oops.Errorf("%w: %s holds %T", ErrNotMap, a[:i], cur)
		}
	}
	last := a[len(a)-1]
	switch x := cur.(type) {
	case *Map:
		x.Set(last, v)
	case []any:
		j, ok := index(last, len(x))
		if !ok {
			return oops.Errorf("%w: %s", ErrKeyNotFound, a)
		}
		x[j] = v
	default:
		return oops.Errorf("%w: %s holds %T", ErrNotMap, a[:len(a)-1], cur)
	}
	return nil
}

// Update deep merges patch into dst. Keys absent from patch are untouched.
// Where both sides hold maps the merge recurses, otherwise a copy of the
// patch value replaces the destination value.
func Update(dst, patch *Map) {
	for k, pv := range patch.All() {
		if pm, ok := pv.(*Map); ok {
			if dm := dst.Map(k); dm != nil {
				Update(dm, pm)
				continue
			}
		}
		dst.Set(k, CloneValue(pv))
	}
}

// MergePatch applies patch to dst with JSON merge patch semantics: a nil
// patch value deletes the key.
func MergePatch(dst, patch *Map) {
	for k, pv := range patch.All() {
		switch x := pv.(type) {
		case nil:
			dst.Delete(k)
		case *Map:
			dm := dst.Map(k)
			if dm == nil {
				dm = NewMap()
				dst.Set(k, dm)
			}
			MergePatch(dm, x)
		default:
			dst.Set(k, CloneValue(pv))
		}
	}
}

// Leaf is a non-map value together with its address.
type Leaf struct {
	Address Address
	Value   any
}

// Flatten lists every non-map value of m in order. Lists are leaves.
func Flatten(m *Map) []Leaf {
	var res []Leaf
	flatten(m, nil, &res)
	return res
}

func flatten(m *Map, at Address, res *[]Leaf) {
	for k, v := range m.All() {
		here := at.Append(k)
		if sub, ok := v.(*Map); ok {
			flatten(sub, here, res)
			continue
		}
		*res = append(*res, Leaf{Address: here, Value: v})
	}
}

// Nest wraps v in maps so that Get(Nest(a, v), a) yields v.
func Nest(a Address, v any) *Map {
	if len(a) == 0 {
		if m, ok := v.(*Map); ok {
			return m
		}
		return NewMap()
	}
	m := NewMap()
	cur := m
	for _, k := range a[:len(a)-1] {
		sub := NewMap()
		cur.Set(k, sub)
		cur = sub
	}
	cur.Set(a[len(a)-1], v)
	return m
}

// Unflatten is the inverse of Flatten.
func Unflatten(leaves []Leaf) (*Map, error) {
	m := NewMap()
	for _, l := range leaves {
		if err := Set(m, l.Address, l.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}
