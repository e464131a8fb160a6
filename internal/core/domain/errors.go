package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfiguration indicates bad chunk/overlap sizing or
	// otherwise unusable pipeline settings.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDimensionMismatch indicates a vector's dimensionality disagrees
	// with the index's fixed dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch indicates a persisted index was built with a
	// different embedding model than the one currently configured.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrEmptyIndex indicates a query against an index with no entries.
	// An exhausted result set on a populated index is not an error.
	ErrEmptyIndex = errors.New("vector index is empty")

	// ErrInvalidLambda indicates an MMR lambda outside [0, 1].
	ErrInvalidLambda = errors.New("mmr lambda must be in [0, 1]")

	// ErrDisallowedContent indicates an outbound query contained a token
	// outside the configured keyword allow-list.
	ErrDisallowedContent = errors.New("query contains disallowed content")
)

// CoverageError is returned by strict-mode validation when any paragraph
// is unsourced or any citation dangles. It carries the full report so the
// caller can show exactly which paragraphs failed.
type CoverageError struct {
	Report ValidationReport
}

// Error implements the error interface.
func (e *CoverageError) Error() string {
	return e.Report.Summary()
}

// Is makes CoverageError match errors.Is(err, ErrCoverageFailure).
func (e *CoverageError) Is(target error) bool {
	return target == ErrCoverageFailure
}

// ErrCoverageFailure is the sentinel for strict-mode validation failure.
// The concrete error is always a *CoverageError carrying the report.
var ErrCoverageFailure = errors.New("citation coverage failure")
