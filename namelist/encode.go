package namelist

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/land-surface/dirconf/tree"
)

type EncodeOption func(*encState)

type encState struct {
	indent string
}

// Indent sets the number of spaces before each parameter. The default is 4.
func Indent(n int) EncodeOption {
	return func(es *encState) {
		if n < 0 {
			n = 0
		}
		es.indent = strings.Repeat(" ", n)
	}
}

// Encode writes m as a namelist file. Each top level entry must be a group
// (*tree.Map) or a list of groups; groups are written in key order
// separated by a blank line.
func Encode(m *tree.Map, w io.Writer, opts ...EncodeOption) error {
	es := &encState{indent: "    "}
	for _, opt := range opts {
		opt(es)
	}
	buf := bytes.NewBuffer(nil)
	n := 0
	for name, v := range m.All() {
		var groups []*tree.Map
		switch x := v.(type) {
		case *tree.Map:
			groups = []*tree.Map{x}
		case []any:
			for i, elt := range x {
				g, ok := elt.(*tree.Map)
				if !ok {
					return fmt.Errorf("%w: group %s[%d] is %T, not a map", ErrFormat, name, i, elt)
				}
				groups = append(groups, g)
			}
		default:
			return fmt.Errorf("%w: group %s is %T, not a map", ErrFormat, name, v)
		}
		for _, g := range groups {
			if n > 0 {
				buf.WriteByte('\n')
			}
			if err := es.group(buf, name, g); err != nil {
				return err
			}
			n++
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (es *encState) group(buf *bytes.Buffer, name string, g *tree.Map) error {
	buf.WriteString("&" + name + "\n")
	for k, v := range g.All() {
		s, err := formatValue(v)
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrFormat, name, k, err)
		}
		buf.WriteString(es.indent + k + " =")
		if s != "" {
			buf.WriteString(" " + s)
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("/\n")
	return nil
}

func formatValue(v any) (string, error) {
	list, isList := asList(v)
	if !isList {
		return formatScalar(v)
	}
	if len(list) == 0 {
		return "", fmt.Errorf("empty list")
	}
	parts := make([]string, len(list))
	for i, elt := range list {
		s, err := formatScalar(elt)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		return toAny(x), true
	case []int:
		return toAny(x), true
	case []int64:
		return toAny(x), true
	case []float64:
		return toAny(x), true
	case []bool:
		return toAny(x), true
	}
	return nil, false
}

func toAny[T any](xs []T) []any {
	res := make([]any, len(xs))
	for i := range xs {
		res[i] = xs[i]
	}
	return res
}

func formatScalar(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case bool:
		if x {
			return ".true.", nil
		}
		return ".false.", nil
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'", nil
	}
	if i, ok := tree.AsInt(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if f, ok := tree.AsFloat(v); ok {
		return formatReal(f)
	}
	return "", fmt.Errorf("cannot encode %T", v)
}

// formatReal gives the shortest text that reads back as f, always marked
// as real by a decimal point or exponent.
func formatReal(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("cannot encode %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}
