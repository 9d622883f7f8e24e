package store

import "errors"

// Errors returned by store implementations.
var (
	// ErrIntegrity is returned when a source id can be neither created nor found.
	// Under a working uniqueness constraint this cannot happen.
	ErrIntegrity = errors.New("source integrity violation")

	// ErrEmptySourceKey is returned when resolving a source with both halves absent.
	ErrEmptySourceKey = errors.New("source ip and endpoint are both empty")

	// ErrRejected wraps a write the schema refused, such as an over-long level.
	ErrRejected = errors.New("value rejected by schema")
)
