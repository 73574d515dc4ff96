// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/api/response"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/validation"
)

// ValidateCompanyNumberMiddleware validates that the companyNumber URL parameter is present and not blank.
// Returns 400 Bad Request otherwise.
// This middleware should be applied to routes that require a company number in the URL path.
//
// Example usage in router:
//
//	r.Route("/{companyNumber}", func(r chi.Router) {
//	    r.Use(middleware.ValidateCompanyNumberMiddleware)
//	    r.Get("/", handler.Profile)
//	    r.Get("/report", handler.Report)
//	})
func ValidateCompanyNumberMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		companyNumber := chi.URLParam(r, "companyNumber")

		if err := validation.ValidateCompanyNumber(companyNumber); err != nil {
			response.RespondError(w, http.StatusBadRequest, "valid company number is required", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
