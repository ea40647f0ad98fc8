package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned by Register once the registration phase ended.
	ErrFrozen = errors.New("registry: frozen, registration is only allowed during startup")
	// ErrNotFound marks lookups of unknown slugs where a schema is mandatory.
	ErrNotFound = errors.New("registry: schema not found")
)

// SchemaError reports a malformed schema or a missing one.
type SchemaError struct {
	Slug   string
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("registry: schema %q", e.Slug)
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// DuplicateSchemaError is returned in strict mode when a slug is registered
// twice.
type DuplicateSchemaError struct {
	Slug string
}

func (e *DuplicateSchemaError) Error() string {
	return fmt.Sprintf("registry: schema %q already registered", e.Slug)
}
