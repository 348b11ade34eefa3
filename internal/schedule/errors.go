package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel matched by every InvalidInputError.
var ErrInvalidInput = errors.New("invalid schedule input")

// InvalidInputError reports a week-clock component out of range or a
// schedule that breaks the ordering, overlap or wrap rules.
type InvalidInputError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%v: %s=%d %s", ErrInvalidInput, e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidComponent(field string, value, max int) error {
	return &InvalidInputError{Field: field, Value: value, Reason: fmt.Sprintf("must be in [0, %d]", max)}
}

func invalidSchedule(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
