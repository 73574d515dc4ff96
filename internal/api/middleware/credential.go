package middleware

import (
	"context"
	"net/http"
	"strings"
)

// CredentialHeader carries a per-request registry API key that overrides the
// server's configured key.
const CredentialHeader = "X-Companies-House-Key"

type credentialKey struct{}

// CredentialMiddleware copies the CredentialHeader value into the request
// context. Requests without the header use the configured default key.
func CredentialMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := strings.TrimSpace(r.Header.Get(CredentialHeader)); key != "" {
			r = r.WithContext(context.WithValue(r.Context(), credentialKey{}, key))
		}
		next.ServeHTTP(w, r)
	})
}

// CredentialFromContext returns the per-request key, or "" for the default.
func CredentialFromContext(ctx context.Context) string {
	key, _ := ctx.Value(credentialKey{}).(string)
	return key
}
