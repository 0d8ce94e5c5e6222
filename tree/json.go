package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	buf := bytes.NewBuffer(nil)
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kd, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kd)
		buf.WriteByte(':')
		vd, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vd)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of m with a JSON object, keeping the
// document's key order. Integral numbers decode as int64, others as float64.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object, got %v", ErrNotMap, tok)
	}
	*m = Map{vals: map[string]any{}}
	if err := decodeObject(dec, m); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after object")
	}
	return nil
}

func decodeObject(dec *json.Decoder, m *Map) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		k, ok := tok.(string)
		if !ok {
			return fmt.Errorf("object key %v is not a string", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return err
		}
		m.Set(k, v)
	}
	_, err := dec.Token()
	return err
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			sub := NewMap()
			if err := decodeObject(dec, sub); err != nil {
				return nil, err
			}
			return sub, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		return x.Float64()
	default:
		return x, nil
	}
}
