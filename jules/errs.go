package jules

import "errors"

var (
	ErrNamelistsNotFound  = errors.New("namelists not found")
	ErrAmbiguousNamelists = errors.New("more than one namelists directory")
	ErrInvalidPath        = errors.New("invalid input path")
)
