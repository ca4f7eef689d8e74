package store

import "errors"

// ErrNotFound is returned when no row matches the requested id and owner
// constraints. Callers decide whether that surfaces as NOT_FOUND or, for
// delete, PERMISSION_DENIED.
var ErrNotFound = errors.New("not found")
