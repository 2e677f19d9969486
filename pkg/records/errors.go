package records

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record ID does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError describes a rejected request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
