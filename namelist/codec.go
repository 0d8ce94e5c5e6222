package namelist

import (
	"bytes"
	"fmt"

	"github.com/land-surface/dirconf/tree"
)

// Codec adapts Parse and Encode to codec.Codec.
type Codec struct {
	opts []EncodeOption
}

func NewCodec(opts ...EncodeOption) *Codec {
	return &Codec{opts: opts}
}

func (c *Codec) Decode(data []byte) (any, error) {
	return Parse(data)
}

func (c *Codec) Encode(v any) ([]byte, error) {
	m, ok := v.(*tree.Map)
	if !ok {
		return nil, fmt.Errorf("%w: namelist file must be a map of groups, got %T", ErrFormat, v)
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(m, buf, c.opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
