package errors

import (
	stdErrors "errors"
	"fmt"
)

// SchemaError is an upstream payload that failed validation at the boundary.
// Sources fail closed on it: the payload is treated as unavailable rather
// than let malformed data into the canonical model.
type SchemaError struct {
	Source string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected payload at %q: %v", e.Source, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: unexpected payload at %q", e.Source, e.Field)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrUnavailable }

// NewSchemaError creates a SchemaError for the named field.
func NewSchemaError(source, field string, err error) *SchemaError {
	return &SchemaError{Source: source, Field: field, Err: err}
}

// IsSchemaError checks if err is a SchemaError (even when wrapped).
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return stdErrors.As(err, &schemaErr)
}
