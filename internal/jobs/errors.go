package jobs

import "errors"

// ErrUnknownFile is returned when a flow names a file not in the list.
var ErrUnknownFile = errors.New("file is not in the list")

// ValidationError is a client-side precondition failure.
// No request is sent when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation error"
	}
	return e.Message
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
