package catalog

import "errors"

var (
	// ErrAssetRoot indicates the asset root could not be read.
	ErrAssetRoot = errors.New("asset root unreadable")
	// ErrSnapshot indicates a precomputed catalog snapshot is unreadable or malformed.
	ErrSnapshot = errors.New("invalid catalog snapshot")
	// ErrProjectNotFound indicates no project carries the requested slug.
	ErrProjectNotFound = errors.New("project not found")
)
