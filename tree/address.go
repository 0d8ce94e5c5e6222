package tree

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/samber/oops"
)

// Address is a flat sequence of keys naming a position in a tree, for
// example {"namelists", "output", "jules_output", "output_dir"}. A key made
// of digits also indexes a list.
type Address []string

func Addr(keys ...string) Address {
	return Address(keys)
}

// Append returns a new address extended by keys; a is not modified.
func (a Address) Append(keys ...string) Address {
	res := make(Address, 0, len(a)+len(keys))
	res = append(res, a...)
	return append(res, keys...)
}

func (a Address) Equal(b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether p is a leading part of a.
func (a Address) HasPrefix(p Address) bool {
	return len(p) <= len(a) && a[:len(p)].Equal(p)
}

// String renders a as JSONPath text accepted by ParseAddress.
func (a Address) String() string {
	buf := &strings.Builder{}
	buf.WriteByte('$')
	for _, k := range a {
		switch {
		case isIndex(k):
			buf.WriteString("[" + k + "]")
		case isIdent(k):
			buf.WriteString("." + k)
		default:
			buf.WriteString("['")
			buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(k, `\`, `\\`), "'", `\'`))
			buf.WriteString("']")
		}
	}
	return buf.String()
}

func isIdent(k string) bool {
	if k == "" {
		return false
	}
	for i, r := range k {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func isIndex(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseAddress parses JSONPath-like text into an Address. The leading "$"
// is optional. Only child names and non-negative indices are accepted.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "$" {
		return Address{}, nil
	}
	src := s
	switch s[0] {
	case '$':
	case '[':
		src = "$" + s
	default:
		src = "$." + s
	}
	x, err := jp.ParseString(src)
	if err != nil {
		return nil, oops.Errorf("%w %q: %v", ErrBadAddress, s, err)
	}
	res := Address{}
	for _, frag := range x {
		switch f := frag.(type) {
		case jp.Root, jp.Bracket:
		case jp.Child:
			res = append(res, string(f))
		case jp.Nth:
			if f < 0 {
				return nil, oops.Errorf("%w %q: negative index %d", ErrBadAddress, s, int(f))
			}
			res = append(res, strconv.Itoa(int(f)))
		default:
			return nil, oops.Errorf("%w %q: unsupported segment %T", ErrBadAddress, s, frag)
		}
	}
	return res, nil
}
