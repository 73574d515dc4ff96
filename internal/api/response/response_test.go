package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRespondJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, http.StatusBadRequest, "invalid arguments", "search query is required")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid arguments","details":"search query is required"}`, w.Body.String())
}

func TestRespondAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			err:        &companieshouse.APIError{Kind: companieshouse.KindNotFound, Message: "Resource not found."},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"NOT_FOUND","message":"Resource not found."}`,
		},
		{
			name:       "unauthorised",
			err:        &companieshouse.APIError{Kind: companieshouse.KindUnauthorised, Message: "Invalid API Key."},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"UNAUTHORISED","message":"Invalid API Key."}`,
		},
		{
			name:       "rate limit",
			err:        &companieshouse.APIError{Kind: companieshouse.KindRateLimit, Message: "Too many requests."},
			wantStatus: http.StatusTooManyRequests,
			wantBody:   `{"error":"RATE_LIMIT","message":"Too many requests."}`,
		},
		{
			name:       "api error keeps upstream status in body",
			err:        &companieshouse.APIError{Kind: companieshouse.KindAPI, Status: 503, Message: "unavailable"},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"API_ERROR","message":"unavailable","status":503}`,
		},
		{
			name:       "configuration",
			err:        &companieshouse.APIError{Kind: companieshouse.KindConfiguration, Message: "no key"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"CONFIGURATION_ERROR","message":"no key"}`,
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("report: %w", &companieshouse.APIError{Kind: companieshouse.KindNotFound, Message: "Resource not found."}),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"NOT_FOUND","message":"Resource not found."}`,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"EXCEPTION","message":"boom"}`,
		},
		{
			name:       "cancellation",
			err:        context.Canceled,
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"EXCEPTION","message":"context canceled"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondAPIError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body, "error")
		})
	}
}
