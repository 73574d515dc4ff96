package testutil

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

// FetchCall records one call made to a MockFetcher.
type FetchCall struct {
	Credential string
	Path       string
	Params     url.Values
}

type mockResult struct {
	body json.RawMessage
	err  error
}

// MockFetcher is an in-memory companieshouse.Fetcher for testing.
// Responses are keyed by path; unconfigured paths answer NOT_FOUND.
type MockFetcher struct {
	mu      sync.Mutex
	results map[string]mockResult
	calls   []FetchCall

	// AfterFetch, when set, runs after every call with the requested path.
	AfterFetch func(path string)
}

// NewMockFetcher creates a mock with no configured responses.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		results: make(map[string]mockResult),
	}
}

// WithJSON configures the raw JSON body returned for path.
func (m *MockFetcher) WithJSON(path, body string) *MockFetcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[path] = mockResult{body: json.RawMessage(body)}
	return m
}

// WithValue configures path to return v encoded as JSON.
func (m *MockFetcher) WithValue(path string, v any) *MockFetcher {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return m.WithJSON(path, string(data))
}

// WithError configures path to fail with err.
func (m *MockFetcher) WithError(path string, err error) *MockFetcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[path] = mockResult{err: err}
	return m
}

// WithErrorKind configures path to fail with an *APIError of the given kind.
func (m *MockFetcher) WithErrorKind(path string, kind companieshouse.ErrorKind) *MockFetcher {
	return m.WithError(path, &companieshouse.APIError{Kind: kind, Message: string(kind)})
}

// Fetch returns the configured response for path and records the call.
func (m *MockFetcher) Fetch(_ context.Context, credential, path string, params url.Values) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, FetchCall{Credential: credential, Path: path, Params: params})
	result, ok := m.results[path]
	hook := m.AfterFetch
	m.mu.Unlock()

	if hook != nil {
		hook(path)
	}

	if !ok {
		return nil, &companieshouse.APIError{Kind: companieshouse.KindNotFound, Message: "Resource not found."}
	}
	if result.err != nil {
		return nil, result.err
	}
	return result.body, nil
}

// Calls returns a copy of the recorded calls in order.
func (m *MockFetcher) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

// CallCount returns how many times Fetch was called.
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Paths returns the requested paths in call order.
func (m *MockFetcher) Paths() []string {
	calls := m.Calls()
	paths := make([]string, len(calls))
	for i, c := range calls {
		paths[i] = c.Path
	}
	return paths
}

var _ companieshouse.Fetcher = (*MockFetcher)(nil)
