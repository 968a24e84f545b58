package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("recharge method not found")

// ValidationError reports a rejected create request. Error() is the
// message shown to the caller, e.g. "Missing title".
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Missing %s", field)}
}

func invalidField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid %s", field)}
}
