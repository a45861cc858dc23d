package cache

import "errors"

// ErrNotFound is returned by [LoadSnapshot] when no snapshot is stored
// under the key.
var ErrNotFound = errors.New("snapshot not found")
