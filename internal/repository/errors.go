package repository

import "errors"

// Sentinel errors shared by all repository implementations. Services
// match on these with errors.Is instead of inspecting driver errors.
var (
	// ErrNotFound reports that no row matched the lookup.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate reports that an insert hit a uniqueness constraint.
	ErrDuplicate = errors.New("repository: duplicate")
)
