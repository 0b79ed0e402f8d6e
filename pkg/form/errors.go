package form

import "errors"

// FaultMessage is recorded on a field whose validator failed to run.
const FaultMessage = "Validation could not be completed."

// RootErrorKey holds resolver errors that do not name a field.
const RootErrorKey = "_root"

var (
	ErrMissingFieldName  = errors.New("form: missing field name")
	ErrFieldNotFound     = errors.New("form: field not found")
	ErrValidatorFault    = errors.New("form: validator fault")
	ErrNilCallback       = errors.New("form: nil submit callback")
	ErrInvalidDefinition = errors.New("form: invalid definition")
	ErrClosed            = errors.New("form: closed")
)
