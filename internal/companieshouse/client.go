// Package companieshouse is the transport to the Companies House public data
// API. Every call is a single authenticated GET whose outcome is normalized
// into either the raw JSON body or an *APIError.
package companieshouse

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public origin of the registry API.
	DefaultBaseURL = "https://api.company-information.service.gov.uk"
	// DefaultTimeout bounds a single registry request.
	DefaultTimeout = 10 * time.Second
)

// Fetcher performs one registry read. An empty credential falls back to the
// implementation's default. The returned error is always an *APIError.
type Fetcher interface {
	Fetch(ctx context.Context, credential, path string, params url.Values) (json.RawMessage, error)
}

// Client is the HTTP implementation of Fetcher. It holds no mutable state and
// is safe for concurrent use.
type Client struct {
	baseURL           string
	defaultCredential string
	httpClient        *http.Client
	log               zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another origin, such as a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a registry client. defaultCredential is used whenever a
// call does not supply its own and may be empty.
func NewClient(defaultCredential string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:           DefaultBaseURL,
		defaultCredential: defaultCredential,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: log.With().Str("component", "companieshouse").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasDefaultCredential reports whether a process-wide credential is configured.
func (c *Client) HasDefaultCredential() bool {
	return c.defaultCredential != ""
}

// Fetch issues GET baseURL+path?params. The key is sent as the basic-auth
// username with an empty password. No retry is attempted.
func (c *Client) Fetch(ctx context.Context, credential, path string, params url.Values) (json.RawMessage, error) {
	token := ResolveCredential(credential, c.defaultCredential)
	if token == "" {
		return nil, missingCredential()
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, exception(err)
	}
	req.SetBasicAuth(token, "")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("Registry request failed")
		return nil, exception(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exception(err)
	}

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Registry request completed")

	return normalize(resp.StatusCode, data)
}

// ResolveCredential picks the per-call credential when present, otherwise the
// default.
func ResolveCredential(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// normalize turns a status and body into the discriminated result.
func normalize(status int, body []byte) (json.RawMessage, error) {
	if status < 200 || status > 299 {
		return nil, statusError(status, body)
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, exception(err)
	}
	return payload, nil
}
