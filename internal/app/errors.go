package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidThreshold  = errors.New("invalid threshold")
	ErrUnknownRep        = errors.New("unknown rep")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNoSources         = errors.New("no dataset sources configured")
)
