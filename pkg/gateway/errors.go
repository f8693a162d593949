package gateway

import (
	"errors"
	"fmt"
)

// Common errors returned by the gateway.
var (
	// ErrCircuitOpen is returned when the backend circuit breaker rejects
	// a request without sending it.
	ErrCircuitOpen = errors.New("backend circuit open")
)

// FailureKind classifies a failed backend call.
type FailureKind string

const (
	// KindUnauthenticated marks 401 responses. The stored credential has
	// been cleared by the time the caller sees this error.
	KindUnauthenticated FailureKind = "unauthenticated"

	// KindNotFound marks 404 responses. For lookups this is usually a
	// benign "no data" case.
	KindNotFound FailureKind = "not_found"

	// KindValidation marks all other non-2xx responses: the server
	// rejected the request or faulted.
	KindValidation FailureKind = "validation_or_server"

	// KindNetwork marks transport failures and malformed response bodies.
	KindNetwork FailureKind = "network"
)

// APIError is a classified backend failure with the server-supplied
// message when one was present.
type APIError struct {
	StatusCode int
	Kind       FailureKind
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s error (status %d): %s: %v",
			e.Kind, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("backend %s error (status %d): %s",
		e.Kind, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" if err is not an APIError.
func KindOf(err error) FailureKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsUnauthenticated reports whether err is a 401 failure.
func IsUnauthenticated(err error) bool {
	return KindOf(err) == KindUnauthenticated
}

// IsNotFound reports whether err is a 404 failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
