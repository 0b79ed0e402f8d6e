package validator

import "errors"

var (
	// ErrMissingParam is returned by rules that need a parameter they were not given.
	ErrMissingParam = errors.New("missing rule parameter")

	// ErrInvalidParam is returned when a rule parameter cannot be parsed.
	ErrInvalidParam = errors.New("invalid rule parameter")
)
