package tree

import "errors"

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrNotMap      = errors.New("not a map")
	ErrBadAddress  = errors.New("bad address")
)
