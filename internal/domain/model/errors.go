package model

import "errors"

// ErrUnknownSegment is returned when a label maps to no Segment.
var ErrUnknownSegment = errors.New("unknown segment")
