package validate

import (
	"errors"
	"strings"
)

// ValidationError reports every rule a payload violated, in the order the
// checks ran. Details is never empty.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// Details returns the violation messages carried by err, or nil if err is not
// a validation failure.
func Details(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Details
	}
	return nil
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// collector accumulates violations across checks.
type collector struct {
	details []string
}

func (c *collector) add(msg string) {
	c.details = append(c.details, msg)
}

func (c *collector) err() error {
	if len(c.details) == 0 {
		return nil
	}
	return &ValidationError{Details: c.details}
}

func invalidBody() error {
	return &ValidationError{Details: []string{"Invalid request body"}}
}
