package internal

import "errors"

// ErrUnavailable is returned when the durable message store cannot be
// reached. The engine never retries internally; callers retry the whole
// request if they care.
var ErrUnavailable = errors.New("message store unavailable")

// ValidationError reports a rejected append or touch. The operation leaves
// no partial state behind when one of these comes back.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
