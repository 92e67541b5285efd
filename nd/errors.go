package nd

import (
	"github.com/pkg/errors"
)

// Errors returned by Assign, ToLiteral and view creation are wrappers of
// these, carrying the path to the offending element. Use errors.Cause or
// errors.Is to classify them.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrStructArity       = errors.New("struct arity mismatch")
	ErrMissingField      = errors.New("missing struct field")
	ErrUnexpectedField   = errors.New("unexpected struct field")
	ErrConversion        = errors.New("conversion error")
	ErrFieldNotFound     = errors.New("field not found")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrNotIndexable      = errors.New("not indexable")
	ErrReadOnly          = errors.New("array is read-only")
)
