package domain

import "errors"

// ErrNotFound is returned by collaborators when a job or build does not exist.
var ErrNotFound = errors.New("not found")
