package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCriteria signals criteria that could not be decoded at all.
	ErrInvalidCriteria = errors.New("invalid criteria")
	// ErrInvalidRecord signals a record that fails validation on write.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrStoreUnavailable signals that the record store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
