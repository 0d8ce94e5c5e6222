// Package codec defines how a leaf file's bytes become a tree value and
// back.
//
// Codecs are pure translators: they never open files. The reader and writer
// in package dirconf own every file handle and pass whole file contents in
// and out.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrFormat reports a value with no textual form in a codec's format.
var ErrFormat = errors.New("format error")

type Codec interface {
	Decode(data []byte) (any, error)
	Encode(v any) ([]byte, error)
}

// JSONDecoder is implemented by codecs whose values do not come back from
// JSON as tree values, such as byte payloads and tables. DecodeJSON turns
// the JSON form of a value back into the value Decode would produce.
type JSONDecoder interface {
	DecodeJSON(data []byte) (any, error)
}

// Func adapts a pair of functions to a Codec.
type Func struct {
	DecodeFunc func([]byte) (any, error)
	EncodeFunc func(any) ([]byte, error)
}

func (f Func) Decode(data []byte) (any, error) { return f.DecodeFunc(data) }
func (f Func) Encode(v any) ([]byte, error)    { return f.EncodeFunc(v) }

// Raw passes file contents through untouched. It serves formats whose
// contents are opaque, such as NetCDF.
var Raw Codec = raw{}

type raw struct{}

func (raw) Decode(data []byte) (any, error) {
	return bytes.Clone(data), nil
}

func (raw) Encode(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return bytes.Clone(x), nil
	case string:
		return []byte(x), nil
	}
	return nil, fmt.Errorf("%w: raw payload must be []byte, got %T", ErrFormat, v)
}

// DecodeJSON reads the base64 string encoding/json makes of a []byte.
func (raw) DecodeJSON(data []byte) (any, error) {
	var b []byte
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: raw payload: %v", ErrFormat, err)
	}
	return b, nil
}
