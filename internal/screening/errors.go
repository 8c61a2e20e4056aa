// Package screening implements the job and application workflows: validate
// the payload, score once, persist and report.
package screening

import (
	"errors"
	"fmt"

	"github.com/applyscore/applyscore/internal/store"
)

// NotFoundError reports a missing job or application.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// notFound translates the storage sentinel into a NotFoundError for the
// given resource. Other errors pass through.
func notFound(err error, resource, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}
