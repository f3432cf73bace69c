package sweep

import "errors"

// Sentinel kinds for sweep errors.
var (
	ErrInvalidRange  = errors.New("invalid sweep range")
	ErrTooManyPoints = errors.New("sweep range has too many points")
)
