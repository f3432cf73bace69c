package export

import "errors"

// ErrWrite wraps every failure to produce an export.
var ErrWrite = errors.New("export write failed")
