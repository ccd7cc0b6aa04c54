package sqlite

import "errors"

// ErrEmptyCatalog indicates no catalog has been stored yet.
var ErrEmptyCatalog = errors.New("no catalog stored")
