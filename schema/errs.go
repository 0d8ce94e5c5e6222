package schema

import "errors"

var (
	// ErrUnresolvableSchema reports a declaration whose kind or codec cannot
	// be determined, such as a literal path missing from disk.
	ErrUnresolvableSchema = errors.New("unresolvable schema")
	// ErrInvalidSchema reports a malformed declaration.
	ErrInvalidSchema = errors.New("invalid schema")
)
