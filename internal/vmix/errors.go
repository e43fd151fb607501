package vmix

import (
	"errors"
	"fmt"
)

// StatusError captures a non-2xx response from the vMix API.
type StatusError struct {
	Function     string
	SelectedName string
	StatusCode   int
	Body         string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("vmix: %s %s: unexpected status %d", e.Function, e.SelectedName, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// AsStatusError attempts to unwrap an error into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
