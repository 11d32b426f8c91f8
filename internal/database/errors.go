package database

import "errors"

// ErrNotFound is returned when a lookup matches no row. Callers use
// errors.Is to distinguish missing records from storage failures.
var ErrNotFound = errors.New("record not found")
