package mcp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/mcp"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/testutil"
)

func newServer(t *testing.T, fetcher companieshouse.Fetcher) *mcp.Server {
	t.Helper()
	tools := mcp.NewToolset(
		testutil.NewTestRegistryService(t, fetcher),
		testutil.NewTestReportService(t, fetcher),
		zerolog.Nop(),
	)
	return mcp.NewServer(tools, zerolog.Nop())
}

// rpcResponse mirrors mcp.Response with a raw result for decoding.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *mcp.Error      `json:"error"`
}

func post(t *testing.T, srv http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func rpc(t *testing.T, srv http.Handler, body string) rpcResponse {
	t.Helper()
	w := post(t, srv, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2.0", resp.JSONRPC)
	return resp
}

func callTool(t *testing.T, srv http.Handler, name string, args any) mcp.CallToolResult {
	t.Helper()
	params, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	require.NoError(t, err)

	resp := rpc(t, srv, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":`+string(params)+`}`)
	require.Nil(t, resp.Error, "unexpected protocol error")

	var result mcp.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	return result
}

func TestServer_Initialize(t *testing.T) {
	srv := newServer(t, testutil.NewMockFetcher())

	tests := []struct {
		requested string
		want      string
	}{
		{requested: "2024-11-05", want: "2024-11-05"},
		{requested: "2025-03-26", want: "2025-03-26"},
		{requested: "2025-06-18", want: "2025-06-18"},
		{requested: "1999-01-01", want: mcp.LatestProtocolVersion},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			resp := rpc(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"`+tt.requested+`","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
			require.Nil(t, resp.Error)
			assert.JSONEq(t, `1`, string(resp.ID))

			var result mcp.InitializeResult
			require.NoError(t, json.Unmarshal(resp.Result, &result))
			assert.Equal(t, tt.want, result.ProtocolVersion)
			assert.Equal(t, "CompaniesHouseTools", result.ServerInfo.Name)
			assert.Contains(t, result.Capabilities, "tools")
		})
	}
}

func TestServer_Ping(t *testing.T) {
	srv := newServer(t, testutil.NewMockFetcher())

	resp := rpc(t, srv, `{"jsonrpc":"2.0","id":"abc","method":"ping"}`)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `"abc"`, string(resp.ID))
	assert.JSONEq(t, `{}`, string(resp.Result))
}

func TestServer_ToolsList(t *testing.T) {
	srv := newServer(t, testutil.NewMockFetcher())

	resp := rpc(t, srv, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	var result struct {
		Tools []mcp.ToolSchema `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
		assert.NotEmpty(t, tool.Description, tool.Name)

		var schema struct {
			Type       string                     `json:"type"`
			Properties map[string]json.RawMessage `json:"properties"`
			Required   []string                   `json:"required"`
		}
		require.NoError(t, json.Unmarshal(tool.InputSchema, &schema), tool.Name)
		assert.Equal(t, "object", schema.Type)
		assert.Contains(t, schema.Properties, "api_key", "%s accepts a per-call key", tool.Name)
		assert.Len(t, schema.Required, 1)
	}

	assert.Equal(t, []string{
		"search_companies",
		"get_company_profile",
		"get_company_officers",
		"get_filing_history",
		"get_company_charges",
		"get_company_insolvency",
		"get_persons_with_significant_control",
		"get_registered_office_address",
		"generate_company_report",
	}, names)
}

func TestServer_ToolsCall(t *testing.T) {
	t.Run("pass-through result", func(t *testing.T) {
		mock := testutil.NewMockFetcher().WithJSON(companieshouse.PathSearchCompanies, `{"items":[{"company_number":"00445790"}]}`)
		srv := newServer(t, mock)

		result := callTool(t, srv, "search_companies", map[string]any{"q": "Tesco", "api_key": "per-call"})

		assert.False(t, result.IsError)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "text", result.Content[0].Type)
		assert.JSONEq(t, `{"items":[{"company_number":"00445790"}]}`, result.Content[0].Text)
		assert.JSONEq(t, `{"items":[{"company_number":"00445790"}]}`, string(result.StructuredContent))

		calls := mock.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "per-call", calls[0].Credential)
		assert.Equal(t, "5", calls[0].Params.Get("items_per_page"))
		assert.Equal(t, "0", calls[0].Params.Get("start_index"))
	})

	t.Run("report", func(t *testing.T) {
		company := testutil.NewCompany().
			WithOfficer("JOHN SMITH", "director").
			WithPSC("JOHN SMITH", "ownership-of-shares-75-to-100-percent")
		srv := newServer(t, company.BuildMock())

		result := callTool(t, srv, "generate_company_report", map[string]any{"company_number": company.Number})
		require.False(t, result.IsError)

		var report map[string]any
		require.NoError(t, json.Unmarshal(result.StructuredContent, &report))
		assert.Equal(t, company.Name, report["company_name"])
		directors := report["active_directors"].([]any)
		require.Len(t, directors, 1)
		assert.Equal(t, "75% - 100%", directors[0].(map[string]any)["ownership_percentage"])
	})

	t.Run("registry failure is a tool error", func(t *testing.T) {
		company := testutil.NewCompany().Failing(companieshouse.SuffixProfile, companieshouse.KindNotFound)
		mock := company.BuildMock()
		srv := newServer(t, mock)

		result := callTool(t, srv, "generate_company_report", map[string]any{"company_number": company.Number})

		assert.True(t, result.IsError)
		var tagged map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &tagged))
		assert.Equal(t, "NOT_FOUND", tagged["error"])
		assert.Equal(t, 1, mock.CallCount())
	})

	t.Run("optional arguments reach the registry", func(t *testing.T) {
		company := testutil.NewCompany()
		mock := testutil.NewMockFetcher().
			WithJSON(companieshouse.CompanyPath(company.Number, companieshouse.SuffixFilingHistory), `{"items":[]}`)
		srv := newServer(t, mock)

		result := callTool(t, srv, "get_filing_history", map[string]any{
			"company_number": company.Number,
			"category":       "accounts",
			"items_per_page": 3,
		})
		require.False(t, result.IsError)

		params := mock.Calls()[0].Params
		assert.Equal(t, "accounts", params.Get("category"))
		assert.Equal(t, "3", params.Get("items_per_page"))
	})

	t.Run("array results have no structured content", func(t *testing.T) {
		company := testutil.NewCompany()
		mock := testutil.NewMockFetcher().
			WithJSON(companieshouse.CompanyPath(company.Number, companieshouse.SuffixInsolvency), `[1,2]`)
		srv := newServer(t, mock)

		result := callTool(t, srv, "get_company_insolvency", map[string]any{"company_number": company.Number})
		assert.Empty(t, result.StructuredContent)
		assert.Equal(t, "[1,2]", result.Content[0].Text)
	})
}

func TestServer_ProtocolErrors(t *testing.T) {
	srv := newServer(t, testutil.NewMockFetcher())

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "malformed json", body: `{"jsonrpc":`, code: mcp.CodeParseError},
		{name: "wrong version", body: `{"jsonrpc":"1.0","id":1,"method":"ping"}`, code: mcp.CodeInvalidRequest},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`, code: mcp.CodeInvalidRequest},
		{name: "batch", body: `[{"jsonrpc":"2.0","id":1,"method":"ping"}]`, code: mcp.CodeInvalidRequest},
		{name: "unknown method", body: `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, code: mcp.CodeMethodNotFound},
		{name: "unknown tool", body: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"delete_company","arguments":{}}}`, code: mcp.CodeInvalidParams},
		{name: "missing tool name", body: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{}}`, code: mcp.CodeInvalidParams},
		{name: "missing company number", body: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_company_profile","arguments":{}}}`, code: mcp.CodeInvalidParams},
		{name: "wrong argument type", body: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search_companies","arguments":{"q":"x","items_per_page":"five"}}}`, code: mcp.CodeInvalidParams},
		{name: "non-positive page size", body: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_company_officers","arguments":{"company_number":"1","items_per_page":0}}}`, code: mcp.CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := rpc(t, srv, tt.body)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Empty(t, resp.Result)
		})
	}
}

func TestServer_Notifications(t *testing.T) {
	srv := newServer(t, testutil.NewMockFetcher())

	w := post(t, srv, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, w.Body.String())

	w = post(t, srv, `{"jsonrpc":"2.0","id":9,"result":{}}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestServer_RejectsGet(t *testing.T) {
	srv := newServer(t, testutil.NewMockFetcher())

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestServer_Handle(t *testing.T) {
	srv := newServer(t, testutil.NewMockFetcher())

	result, rpcErr := srv.Handle(context.Background(), "tools/call", json.RawMessage(`{"name":"get_company_charges","arguments":{"company_number":"404"}}`))
	require.Nil(t, rpcErr)

	callResult, ok := result.(mcp.CallToolResult)
	require.True(t, ok)
	assert.True(t, callResult.IsError)
	assert.JSONEq(t, `{"error":"NOT_FOUND","message":"Resource not found."}`, callResult.Content[0].Text)
}

func TestNegotiateProtocolVersion(t *testing.T) {
	assert.Equal(t, "2024-11-05", mcp.NegotiateProtocolVersion("2024-11-05"))
	assert.Equal(t, mcp.LatestProtocolVersion, mcp.NegotiateProtocolVersion(""))
}
