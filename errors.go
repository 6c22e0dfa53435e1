package leadscout

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes client errors by failure origin.
type ErrorCode string

const (
	// CodeNetworkError marks requests that were sent but never answered.
	CodeNetworkError ErrorCode = "NETWORK_ERROR"
	// CodeUnknownError marks requests that could not be constructed or sent.
	CodeUnknownError ErrorCode = "UNKNOWN_ERROR"
)

// APIError is the normalized error every client operation returns on failure.
// Status carries the server's HTTP status for server errors, 0 for network
// errors, and 500 for client-side construction errors.
type APIError struct {
	Message string
	Status  int
	Code    ErrorCode
	Details map[string]any
	wrapped error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.wrapped }

// ErrorOption mutates an APIError during construction.
type ErrorOption func(*APIError)

// WithCode sets the machine-readable error code.
func WithCode(code ErrorCode) ErrorOption {
	return func(e *APIError) { e.Code = code }
}

// WithDetails attaches the decoded server error body.
func WithDetails(details map[string]any) ErrorOption {
	return func(e *APIError) { e.Details = details }
}

// WithWrapped attaches an underlying error.
func WithWrapped(err error) ErrorOption {
	return func(e *APIError) { e.wrapped = err }
}

// NewError builds an APIError explicitly.
func NewError(status int, message string, opts ...ErrorOption) *APIError {
	e := &APIError{Status: status, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func networkError(err error) *APIError {
	return NewError(0, "Network error. Please check your connection.",
		WithCode(CodeNetworkError), WithWrapped(err))
}

func unknownError(err error) *APIError {
	msg := "An unexpected error occurred"
	if err != nil {
		msg = err.Error()
	}
	return NewError(500, msg, WithCode(CodeUnknownError), WithWrapped(err))
}

// serverError normalizes an error-status response. The message is sourced
// from the body's "detail" or "message" field when present.
func serverError(status int, body []byte) *APIError {
	msg := "An error occurred"
	var code ErrorCode
	details := decodeObject(body)
	if details != nil {
		if s, ok := details["detail"].(string); ok && s != "" {
			msg = s
		} else if s, ok := details["message"].(string); ok && s != "" {
			msg = s
		}
		if s, ok := details["code"].(string); ok {
			code = ErrorCode(s)
		}
	}
	e := NewError(status, msg, WithDetails(details))
	e.Code = code
	return e
}

func statusIs(status int) func(error) bool {
	return func(err error) bool {
		var api *APIError
		if errors.As(err, &api) {
			return api.Status == status
		}
		return false
	}
}

// Helper predicates for common error handling patterns.
var (
	IsUnauthorized = statusIs(401)
	IsForbidden    = statusIs(403)
	IsNotFound     = statusIs(404)
)

// IsNetworkError reports whether err is a normalized transport failure.
func IsNetworkError(err error) bool {
	var api *APIError
	return errors.As(err, &api) && api.Code == CodeNetworkError
}
