package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrNoDataset = errors.New("no dataset loaded")
)
