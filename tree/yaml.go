package tree

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// FromYAML decodes a YAML mapping document into an ordered map. Integers
// become int64 and floats float64, matching what the codecs produce.
func FromYAML(data []byte) (*Map, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	if doc == nil {
		return NewMap(), nil
	}
	v, err := FromYAMLValue(doc)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("%w: yaml document is %T", ErrNotMap, doc)
	}
	return m, nil
}

// FromYAMLValue converts a value decoded by go-yaml with ordered maps into
// tree values.
func FromYAMLValue(v any) (any, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		m := NewMap()
		for _, item := range x {
			k, ok := item.Key.(string)
			if !ok {
				k = fmt.Sprint(item.Key)
			}
			sub, err := FromYAMLValue(item.Value)
			if err != nil {
				return nil, err
			}
			m.Set(k, sub)
		}
		return m, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			sub, err := FromYAMLValue(x[k])
			if err != nil {
				return nil, err
			}
			m.Set(k, sub)
		}
		return m, nil
	case []any:
		res := make([]any, len(x))
		for i := range x {
			sub, err := FromYAMLValue(x[i])
			if err != nil {
				return nil, err
			}
			res[i] = sub
		}
		return res, nil
	}
	if i, ok := AsInt(v); ok {
		return i, nil
	}
	if f, ok := AsFloat(v); ok {
		return f, nil
	}
	return v, nil
}
