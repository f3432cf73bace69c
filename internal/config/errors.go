package config

import (
	"errors"
)

// Config errors. Load wraps ErrLoadConfig around provider and decode
// failures and Validate wraps ErrInvalidConfig around rule violations.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
