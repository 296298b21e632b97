package schema

import (
	"errors"
	"fmt"

	"github.com/go-openapi/inflect"
)

// ConfigurationError reports that a descriptor failed validation at
// construction time.
type ConfigurationError struct {
	entity string
	err    error
}

// Error returns the error string.
func (e *ConfigurationError) Error() string {
	if e.entity == "" {
		return fmt.Sprintf("schema: %v", e.err)
	}
	return fmt.Sprintf("schema: %s: %v", e.entity, e.err)
}

// Unwrap returns the underlying validation failure.
func (e *ConfigurationError) Unwrap() error { return e.err }

// NewConfigurationError returns a ConfigurationError for the given entity type.
func NewConfigurationError(entity string, err error) *ConfigurationError {
	return &ConfigurationError{entity: entity, err: err}
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// TableName derives a table name from an entity-type name, e.g.
// "ChannelGroup" becomes "channel_groups".
func TableName(entity string) string {
	return inflect.Pluralize(inflect.Underscore(entity))
}
