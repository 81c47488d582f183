package domain

import (
	"errors"
	"fmt"
)

// ValidationError is the single business-rule error kind. Every rule
// violation (missing field, bad quantity, exceeded ceiling, wrong state)
// aborts the current operation with one of these; the caller corrects the
// input and resubmits.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
