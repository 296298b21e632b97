package rowset

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common boundary conditions.
var (
	// ErrMissingDriver is returned when no database driver is supplied to a
	// constructor.
	ErrMissingDriver = errors.New("rowset: no database driver supplied")

	// ErrRowRange is returned when a row index is past the stored row count.
	ErrRowRange = errors.New("rowset: row index out of range")

	// ErrNoData is returned when a query succeeded but produced zero rows in
	// the requested window.
	ErrNoData = errors.New("rowset: no data")
)

// NoDataError reports that a load or refresh query succeeded but produced
// zero rows in the requested window. An empty entity is never a valid
// result.
type NoDataError struct {
	entity string
}

// Error returns the error string.
func (e *NoDataError) Error() string {
	return fmt.Sprintf("rowset: %s: query matched no rows in the requested window", e.entity)
}

// Is reports whether the target error matches NoDataError.
// This allows errors.Is(err, ErrNoData) to return true.
func (e *NoDataError) Is(err error) bool {
	return err == ErrNoData
}

// Entity returns the entity-type name.
func (e *NoDataError) Entity() string { return e.entity }

// NewNoDataError returns a new NoDataError for the given entity type.
func NewNoDataError(entity string) *NoDataError {
	return &NoDataError{entity: entity}
}

// IsNoData returns true if the error is a NoDataError.
func IsNoData(err error) bool {
	if err == nil {
		return false
	}
	var e *NoDataError
	return errors.As(err, &e) || errors.Is(err, ErrNoData)
}

// QueryError reports a prepare or execute failure at the driver boundary.
type QueryError struct {
	entity string
	query  string
	err    error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("rowset: %s: query failed: %v", e.entity, e.err)
}

// Unwrap returns the driver failure.
func (e *QueryError) Unwrap() error { return e.err }

// Query returns the SQL text that failed.
func (e *QueryError) Query() string { return e.query }

// NewQueryError returns a new QueryError.
func NewQueryError(entity, query string, err error) *QueryError {
	return &QueryError{entity: entity, query: query, err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	var e *QueryError
	return errors.As(err, &e)
}

// ImmutableColumnError reports a write attempted on an immutable, foreign or
// special column.
type ImmutableColumnError struct {
	column string
}

// Error returns the error string.
func (e *ImmutableColumnError) Error() string {
	return fmt.Sprintf("rowset: column %q is immutable", e.column)
}

// Column returns the offending column name.
func (e *ImmutableColumnError) Column() string { return e.column }

// NewImmutableColumnError returns a new ImmutableColumnError.
func NewImmutableColumnError(column string) *ImmutableColumnError {
	return &ImmutableColumnError{column: column}
}

// IsImmutableColumn returns true if the error is an ImmutableColumnError.
func IsImmutableColumn(err error) bool {
	var e *ImmutableColumnError
	return errors.As(err, &e)
}

// UnknownRelationError reports a related-load against an undeclared
// relation.
type UnknownRelationError struct {
	entity string
	target string
}

// Error returns the error string.
func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("rowset: no relation from %s to %s", e.entity, e.target)
}

// NewUnknownRelationError returns a new UnknownRelationError.
func NewUnknownRelationError(entity, target string) *UnknownRelationError {
	return &UnknownRelationError{entity: entity, target: target}
}

// IsUnknownRelation returns true if the error is an UnknownRelationError.
func IsUnknownRelation(err error) bool {
	var e *UnknownRelationError
	return errors.As(err, &e)
}
