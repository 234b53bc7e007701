package records

import "errors"

// ErrNotFound indicates no record exists for the requested filename.
var ErrNotFound = errors.New("record not found")
