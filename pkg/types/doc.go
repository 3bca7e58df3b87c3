// Package types defines the entity types, configuration, and standard
// errors for the boltstore persistence layer. Entities are plain structs;
// all storage behavior lives in internal/schema and internal/store.
package types

import "errors"

// Store operation errors shared by every repository.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidID        = errors.New("invalid entity ID")
	ErrInvalidData      = errors.New("invalid entity data")
	ErrStoreUnavailable = errors.New("store unavailable")
)
