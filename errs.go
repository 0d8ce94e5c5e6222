package dirconf

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/land-surface/dirconf/codec"
	"github.com/land-surface/dirconf/schema"
	"github.com/land-surface/dirconf/tree"
)

var (
	ErrMissingFile    = errors.New("missing file")
	ErrDetachedTree   = errors.New("detached tree")
	ErrFileExists     = fmt.Errorf("refusing to overwrite: %w", fs.ErrExist)
	ErrSchemaMismatch = errors.New("schema mismatch")

	ErrUnresolvableSchema = schema.ErrUnresolvableSchema
	ErrInvalidSchema      = schema.ErrInvalidSchema
	ErrFormat             = codec.ErrFormat
	ErrKeyNotFound        = tree.ErrKeyNotFound
)
