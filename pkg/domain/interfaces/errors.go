package interfaces

import "errors"

// ErrNotFound is wrapped by repository implementations when a lookup
// matches no stored record. Callers detect absence with errors.Is.
var ErrNotFound = errors.New("record not found")
