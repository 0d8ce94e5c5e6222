package namelist

import (
	"errors"

	"github.com/land-surface/dirconf/codec"
)

var (
	ErrParse  = errors.New("namelist parse error")
	ErrFormat = codec.ErrFormat
)
