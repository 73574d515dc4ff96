package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/companies/12345678/report",
//	    map[string]string{"companyNumber": "12345678"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/companies/search",
//	    map[string]string{"q": "Barclays"},
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}

// NewRegistryServer starts an httptest server that behaves like the registry
// API, answering from mock. The basic-auth username is recorded as the call
// credential, and requests without one get 401 like the real service.
// The server is closed when the test ends.
func NewRegistryServer(t *testing.T, mock *MockFetcher) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		body, err := mock.Fetch(r.Context(), user, r.URL.Path, r.URL.Query())
		if err != nil {
			w.WriteHeader(upstreamStatus(err))
			var apiErr *companieshouse.APIError
			if errors.As(err, &apiErr) {
				w.Write([]byte(apiErr.Message))
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	return server
}

func upstreamStatus(err error) int {
	var apiErr *companieshouse.APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case companieshouse.KindNotFound:
		return http.StatusNotFound
	case companieshouse.KindUnauthorised:
		return http.StatusUnauthorized
	case companieshouse.KindRateLimit:
		return http.StatusTooManyRequests
	case companieshouse.KindAPI:
		if apiErr.Status != 0 {
			return apiErr.Status
		}
	}
	return http.StatusInternalServerError
}
