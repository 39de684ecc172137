// Package repositories defines error values that are reused across the
// repository layer. Sentinel errors let the service and handler layers
// distinguish failure scenarios with errors.Is instead of string
// matching.
package repositories

import "errors"

// ErrNotFound is returned when an entity reference does not resolve.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert would violate primary key or
// uniqueness constraints, e.g. registering an email twice.
var ErrDuplicate = errors.New("already exists")

// ErrConflict is returned when an operation cannot proceed because of
// dependent records, such as deleting a flight that still has sold
// tickets without forcing the cascade.
var ErrConflict = errors.New("conflict")
