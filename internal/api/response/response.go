// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses, standardized error responses and
// registry failures.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// RespondAPIError sends a registry failure as its tagged object, with the
// HTTP status from StatusForKind. Errors that are not *companieshouse.APIError
// are reported as EXCEPTION.
func RespondAPIError(w http.ResponseWriter, err error) {
	apiErr := companieshouse.AsAPIError(err)
	RespondJSON(w, StatusForKind(apiErr.Kind), apiErr)
}

// StatusForKind maps a registry error kind to the status returned to REST
// clients. Upstream failures that are not the caller's fault become 502.
func StatusForKind(kind companieshouse.ErrorKind) int {
	switch kind {
	case companieshouse.KindNotFound:
		return http.StatusNotFound
	case companieshouse.KindUnauthorised:
		return http.StatusUnauthorized
	case companieshouse.KindRateLimit:
		return http.StatusTooManyRequests
	case companieshouse.KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
