package webhook

import (
	"errors"
	"net/http"
)

// Error kinds surfaced by the webhook endpoint.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrBadRequest    = errors.New("bad request")
	ErrVerification  = errors.New("verification error")
	ErrMutation      = errors.New("mutation error")
)

// Error is a failure that has already been mapped to an HTTP status and a
// client-facing message. Cause holds the underlying error, if any, for logs.
type Error struct {
	Kind    error
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func configurationError(msg string) *Error {
	return &Error{Kind: ErrConfiguration, Status: http.StatusInternalServerError, Message: msg}
}

func badRequest(msg string, cause error) *Error {
	return &Error{Kind: ErrBadRequest, Status: http.StatusBadRequest, Message: msg, Cause: cause}
}

func verificationError(cause error) *Error {
	return &Error{Kind: ErrVerification, Status: http.StatusBadRequest, Message: "Webhook verification failed", Cause: cause}
}

func mutationError(msg string, cause error) *Error {
	return &Error{Kind: ErrMutation, Status: http.StatusInternalServerError, Message: msg, Cause: cause}
}
