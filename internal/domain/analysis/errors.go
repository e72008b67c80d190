package analysis

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no request/result pair exists for the given id.
var ErrNotFound = errors.New("analysis not found")

// ValidationError rejects a submission before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
