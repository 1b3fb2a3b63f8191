package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrSchemaNotFound = fmt.Errorf("%w: schema", ErrNotFound)
	ErrRecordNotFound = fmt.Errorf("%w: record", ErrNotFound)

	// Schema definition errors
	ErrEmptySchemaName  = errors.New("schema name cannot be empty")
	ErrEmptyFieldName   = errors.New("field name cannot be empty")
	ErrEmptyFieldList   = errors.New("schema requires at least one field")
	ErrDuplicateField   = errors.New("duplicate field name")
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrOptionsForbidden = errors.New("options are only valid for select fields")
	ErrOptionsRequired  = errors.New("select fields require a non-empty option list")

	// Record errors
	ErrSchemaIDMismatch = errors.New("record does not belong to schema")
	ErrValidationFailed = errors.New("record validation failed")
)

// NewNotFoundError wraps ErrNotFound with resource context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewSchemaDefinitionError wraps a schema construction failure with field context
func NewSchemaDefinitionError(field string, err error) error {
	return fmt.Errorf("field %q: %w", field, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSchemaDefinitionError(err error) bool {
	return errors.Is(err, ErrEmptySchemaName) ||
		errors.Is(err, ErrEmptyFieldName) ||
		errors.Is(err, ErrEmptyFieldList) ||
		errors.Is(err, ErrDuplicateField) ||
		errors.Is(err, ErrInvalidFieldType) ||
		errors.Is(err, ErrOptionsForbidden) ||
		errors.Is(err, ErrOptionsRequired)
}
