package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrInvalidWeights = errors.New("invalid weights")
	ErrNonFinite      = errors.New("non-finite account field")
)
