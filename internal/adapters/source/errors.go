package source

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMissingColumn     = errors.New("missing column")
	ErrInvalidNumber     = errors.New("invalid number")
	ErrInvalidRow        = errors.New("invalid row")
	ErrMissingSheet      = errors.New("missing sheet")
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrFetch             = errors.New("fetch source failed")
)
