package model

import (
	"errors"
	"fmt"
)

var (
	ErrProductTeamNotFound         = errors.New("product team not found")
	ErrProductNotFound             = errors.New("product not found")
	ErrDeviceNotFound              = errors.New("device not found")
	ErrDeviceReferenceDataNotFound = errors.New("device reference data not found")
	ErrQuestionnaireNotFound       = errors.New("questionnaire not found")
	ErrDuplicateKey                = errors.New("duplicate device key")
	ErrDuplicateTag                = errors.New("duplicate device tag")
	ErrDuplicateResponse           = errors.New("duplicate questionnaire response")
	ErrDatabaseQuery               = errors.New("database query failed")
)

type (
	// ImmutableFieldError signals an attempted mutation of a field that is
	// protected from modification.
	ImmutableFieldError struct {
		Field string
	}

	// UnexpectedModificationError signals a modification that routes to no
	// valid target document or requests a forbidden operation.
	UnexpectedModificationError struct {
		Message string
	}

	// ValidationError signals structural invalidity: a missing mandatory
	// field, a type mismatch, or a cardinality or consistency violation.
	ValidationError struct {
		Message string
	}
)

func (e ImmutableFieldError) Error() string {
	return fmt.Sprintf("field '%s' is immutable and cannot be modified", e.Field)
}

func NewUnexpectedModification(format string, args ...any) UnexpectedModificationError {
	return UnexpectedModificationError{Message: fmt.Sprintf(format, args...)}
}

func (e UnexpectedModificationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e ValidationError) Error() string {
	return e.Message
}
