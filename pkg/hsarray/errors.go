package hsarray

import "errors"

// The error kinds. Every error returned by this module wraps exactly one of
// these, so callers can test with errors.Is.
var(
	ErrShape  = errors.New("shape error")  // not a [rows, cols, channels] array
	ErrType   = errors.New("type error")   // unsupported or narrowing element type
	ErrBounds = errors.New("bounds error") // geometry exceeds the image extents
	ErrParam  = errors.New("param error")  // invalid transform parameter
)
