package schemaresolver

import "errors"

var (
	// ErrInvalidSchema is returned when a schema cannot be parsed or compiled.
	ErrInvalidSchema = errors.New("schemaresolver: invalid schema")

	// ErrInvalidData is returned when form data cannot be converted to a JSON instance.
	ErrInvalidData = errors.New("schemaresolver: invalid data")
)
