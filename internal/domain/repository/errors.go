package repository

import "errors"

// ErrNotFound is returned when a record does not exist or is not
// visible to the requesting owner. Callers must not be able to tell
// the two cases apart.
var ErrNotFound = errors.New("not found")
