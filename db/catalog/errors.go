package catalog

import "errors"

// ErrNotFound is returned when a part id does not exist.
var ErrNotFound = errors.New("part not found")
