package assign

import "errors"

// Sentinel kinds for assignment errors.
var (
	ErrNoReps         = errors.New("no reps available")
	ErrDuplicateRep   = errors.New("duplicate rep name")
	ErrUnknownSegment = errors.New("unknown rep segment")
)
