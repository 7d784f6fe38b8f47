package repositories

import "errors"

// Sentinel errors returned (wrapped) by every repository implementation.
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record conflicts with an existing one")
	ErrReferenced = errors.New("record is referenced by another record")
)
