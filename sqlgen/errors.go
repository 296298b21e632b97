package sqlgen

import (
	"errors"
	"fmt"
)

// UnknownColumnError reports a reference to a column absent from the schema.
type UnknownColumnError struct {
	column string
}

// Error returns the error string.
func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("sqlgen: unknown column %q", e.column)
}

// Column returns the offending column name.
func (e *UnknownColumnError) Column() string { return e.column }

// NewUnknownColumnError returns a new UnknownColumnError.
func NewUnknownColumnError(column string) *UnknownColumnError {
	return &UnknownColumnError{column: column}
}

// IsUnknownColumn returns true if the error is an UnknownColumnError.
func IsUnknownColumn(err error) bool {
	var e *UnknownColumnError
	return errors.As(err, &e)
}

// InvalidColumnSetError reports an undeclared name inside a requested
// column set.
type InvalidColumnSetError struct {
	column string
}

// Error returns the error string.
func (e *InvalidColumnSetError) Error() string {
	return fmt.Sprintf("sqlgen: column set references unknown column %q", e.column)
}

// Column returns the offending column name.
func (e *InvalidColumnSetError) Column() string { return e.column }

// NewInvalidColumnSetError returns a new InvalidColumnSetError.
func NewInvalidColumnSetError(column string) *InvalidColumnSetError {
	return &InvalidColumnSetError{column: column}
}

// IsInvalidColumnSet returns true if the error is an InvalidColumnSetError.
func IsInvalidColumnSet(err error) bool {
	var e *InvalidColumnSetError
	return errors.As(err, &e)
}

// ConflictingGroupByError reports two incompatible GROUP BY sources: a
// special column's groupby fragment and an explicit argument.
type ConflictingGroupByError struct {
	special  string
	explicit string
}

// Error returns the error string.
func (e *ConflictingGroupByError) Error() string {
	return fmt.Sprintf("sqlgen: conflicting GROUP BY sources %q and %q", e.special, e.explicit)
}

// NewConflictingGroupByError returns a new ConflictingGroupByError.
func NewConflictingGroupByError(special, explicit string) *ConflictingGroupByError {
	return &ConflictingGroupByError{special: special, explicit: explicit}
}

// IsConflictingGroupBy returns true if the error is a ConflictingGroupByError.
func IsConflictingGroupBy(err error) bool {
	var e *ConflictingGroupByError
	return errors.As(err, &e)
}

// MissingRequiredValueError reports a non-nullable column with neither a
// value nor a default on INSERT.
type MissingRequiredValueError struct {
	column string
}

// Error returns the error string.
func (e *MissingRequiredValueError) Error() string {
	return fmt.Sprintf("sqlgen: column %q requires a value and has no default", e.column)
}

// Column returns the offending column name.
func (e *MissingRequiredValueError) Column() string { return e.column }

// NewMissingRequiredValueError returns a new MissingRequiredValueError.
func NewMissingRequiredValueError(column string) *MissingRequiredValueError {
	return &MissingRequiredValueError{column: column}
}

// IsMissingRequiredValue returns true if the error is a MissingRequiredValueError.
func IsMissingRequiredValue(err error) bool {
	var e *MissingRequiredValueError
	return errors.As(err, &e)
}

// NoUsableUniqueKeyError reports that no declared unique-key group can safely
// identify the target row: every group has an absent or dirty member.
type NoUsableUniqueKeyError struct {
	table string
}

// Error returns the error string.
func (e *NoUsableUniqueKeyError) Error() string {
	return fmt.Sprintf("sqlgen: no usable unique key for table %q", e.table)
}

// NewNoUsableUniqueKeyError returns a new NoUsableUniqueKeyError.
func NewNoUsableUniqueKeyError(table string) *NoUsableUniqueKeyError {
	return &NoUsableUniqueKeyError{table: table}
}

// IsNoUsableUniqueKey returns true if the error is a NoUsableUniqueKeyError.
func IsNoUsableUniqueKey(err error) bool {
	var e *NoUsableUniqueKeyError
	return errors.As(err, &e)
}
