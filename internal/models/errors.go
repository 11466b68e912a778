package models

import "errors"

var (
	// ErrDuplicateIdentity is returned when a username or email is already taken.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrValidation is returned when a field violates a static constraint.
	ErrValidation = errors.New("validation error")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// FieldError is a user-correctable rejection attached to one input field.
// Kind is ErrDuplicateIdentity or ErrValidation.
type FieldError struct {
	Field   string
	Message string
	Kind    error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewDuplicateError builds a FieldError of kind ErrDuplicateIdentity.
func NewDuplicateError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Kind: ErrDuplicateIdentity}
}

// NewValidationError builds a FieldError of kind ErrValidation.
func NewValidationError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Kind: ErrValidation}
}
