package companieshouse

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the closed set of failure categories a registry call can end in.
type ErrorKind string

const (
	// KindConfiguration means no credential was available at call time.
	KindConfiguration ErrorKind = "CONFIGURATION_ERROR"
	// KindNotFound maps an upstream 404.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindUnauthorised maps an upstream 401.
	KindUnauthorised ErrorKind = "UNAUTHORISED"
	// KindRateLimit maps an upstream 429.
	KindRateLimit ErrorKind = "RATE_LIMIT"
	// KindAPI covers every other non-2xx status and carries the status code.
	KindAPI ErrorKind = "API_ERROR"
	// KindException covers network, cancellation and decoding failures.
	KindException ErrorKind = "EXCEPTION"
)

// APIError is the failure side of a registry call. It marshals to the tagged
// object surfaced by every tool: {"error": KIND, "message": ..., "status": N}.
type APIError struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
	Status  int       `json:"status,omitempty"`

	cause error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying transport error, if any, so callers can test
// for context.Canceled or context.DeadlineExceeded with errors.Is.
func (e *APIError) Unwrap() error {
	return e.cause
}

// AsAPIError returns err as an *APIError. Errors that did not come from the
// normalizer are reported as KindException.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return exception(err)
}

// KindOf returns the ErrorKind of err, or the empty kind for a nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return AsAPIError(err).Kind
}

func exception(err error) *APIError {
	return &APIError{Kind: KindException, Message: err.Error(), cause: err}
}

func missingCredential() *APIError {
	return &APIError{
		Kind:    KindConfiguration,
		Message: "No Companies House API key provided. Pass it as an argument or set COMPANIES_HOUSE_API_KEY env var.",
	}
}

// statusError maps a non-2xx upstream status to its ErrorKind.
func statusError(status int, body []byte) *APIError {
	switch status {
	case http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Message: "Resource not found."}
	case http.StatusUnauthorized:
		return &APIError{Kind: KindUnauthorised, Message: "Invalid API Key."}
	case http.StatusTooManyRequests:
		return &APIError{Kind: KindRateLimit, Message: "Too many requests."}
	default:
		return &APIError{Kind: KindAPI, Status: status, Message: string(body)}
	}
}
