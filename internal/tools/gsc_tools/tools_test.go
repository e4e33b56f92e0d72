package gsc_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/server"
)

type testEnv struct {
	mcp   *mcpserver.MCPServer
	calls atomic.Int32
}

// newTestEnv registers the tools against a fake Search Console API served
// by handler.
func newTestEnv(t *testing.T, readOnly bool, provider google.TokenProvider, handler http.HandlerFunc) *testEnv {
	t.Helper()

	env := &testEnv{}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(api.Close)

	if provider == nil {
		provider = google.NewStaticTokenProvider("ya29.test")
	}
	sc, err := server.NewServerContext(context.Background(), server.Config{
		TokenProvider: provider,
		ReadOnly:      readOnly,
		ClientOptions: []option.ClientOption{option.WithEndpoint(api.URL + "/")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	env.mcp = mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterGSCTools(env.mcp, sc, readOnly))
	return env
}

func (e *testEnv) call(t *testing.T, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()

	tool, ok := e.mcp.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return result, text.Text
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestRegisterGSCTools_ReadOnly(t *testing.T) {
	env := newTestEnv(t, true, nil, func(http.ResponseWriter, *http.Request) {})
	tools := env.mcp.ListTools()

	assert.Len(t, tools, 6)
	for _, name := range WriteTools {
		assert.NotContains(t, tools, name)
	}
	assert.Contains(t, tools, ToolQuerySearchAnalytics)
	assert.Contains(t, tools, ToolInspectURL)
}

func TestRegisterGSCTools_Yolo(t *testing.T) {
	env := newTestEnv(t, false, nil, func(http.ResponseWriter, *http.Request) {})
	tools := env.mcp.ListTools()

	assert.Len(t, tools, len(Categories))
	for name := range Categories {
		assert.Contains(t, tools, name)
	}

	deleteSite := tools[ToolDeleteSite].Tool
	require.NotNil(t, deleteSite.Annotations.DestructiveHint)
	assert.True(t, *deleteSite.Annotations.DestructiveHint)

	listSites := tools[ToolListSites].Tool
	require.NotNil(t, listSites.Annotations.ReadOnlyHint)
	assert.True(t, *listSites.Annotations.ReadOnlyHint)
}

func TestToolsInCategory(t *testing.T) {
	assert.Equal(t, []string{ToolDeleteSitemap, ToolGetSitemap, ToolListSitemaps, ToolSubmitSitemap}, ToolsInCategory(CategorySitemaps))
	assert.Equal(t, []string{ToolQuerySearchAnalytics}, ToolsInCategory(CategoryAnalytics))

	total := 0
	for _, c := range CategoryNames() {
		total += len(ToolsInCategory(c))
	}
	assert.Equal(t, len(Categories), total)
}

func TestQuerySearchAnalytics(t *testing.T) {
	var body map[string]any
	env := newTestEnv(t, true, nil, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, `{"rows":[{"keys":["shoes","mobile"],"clicks":10,"impressions":100,"ctr":0.1,"position":3.14}]}`)
	})

	result, text := env.call(t, ToolQuerySearchAnalytics, map[string]any{
		"site_url":   "https://example.com/",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
		"dimensions": []any{"query", "device"},
		"row_limit":  float64(100000),
	})

	assert.False(t, result.IsError, text)
	assert.EqualValues(t, 25000, body["rowLimit"])

	var got struct {
		Rows      []map[string]any `json:"rows"`
		TotalRows int              `json:"total_rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	require.Equal(t, 1, got.TotalRows)
	assert.Equal(t, "shoes", got.Rows[0]["dimension_0"])
	assert.Equal(t, "mobile", got.Rows[0]["dimension_1"])
	assert.EqualValues(t, 10, got.Rows[0]["ctr"])
	assert.EqualValues(t, 3.1, got.Rows[0]["position"])
}

func TestQuerySearchAnalytics_Validation(t *testing.T) {
	env := newTestEnv(t, true, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{}`)
	})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "missing start date",
			args: map[string]any{"site_url": "https://example.com/", "end_date": "2024-01-31"},
			want: "start_date is required",
		},
		{
			name: "bad date",
			args: map[string]any{"site_url": "https://example.com/", "start_date": "2024/01/01", "end_date": "2024-01-31"},
			want: `Dates must be in YYYY-MM-DD format, got "2024/01/01"`,
		},
		{
			name: "unknown dimension",
			args: map[string]any{
				"site_url": "https://example.com/", "start_date": "2024-01-01", "end_date": "2024-01-31",
				"dimensions": []any{"browser"},
			},
			want: `invalid dimension "browser", must be one of: query, page, country, device, date, searchAppearance`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, text := env.call(t, ToolQuerySearchAnalytics, tt.args)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.want, text)
		})
	}
	assert.Zero(t, env.calls.Load(), "validation failures must not reach the API")
}

func TestTools_NoCredentials(t *testing.T) {
	env := newTestEnv(t, true, &google.ContextTokenProvider{}, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{}`)
	})

	result, text := env.call(t, ToolListSites, nil)
	assert.True(t, result.IsError)
	assert.Equal(t, "Authentication failed. Please re-authenticate with Google.", text)
	assert.Zero(t, env.calls.Load())
}

func TestGetSitemap_NotFound(t *testing.T) {
	env := newTestEnv(t, true, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
	})

	result, text := env.call(t, ToolGetSitemap, map[string]any{
		"site_url": "https://example.com/",
		"feedpath": "https://example.com/sitemap.xml",
	})
	assert.True(t, result.IsError)
	assert.Equal(t, "Resource not found. Please verify the site URL or resource path.", text)
}

func TestListSitemaps(t *testing.T) {
	var gotIndex string
	env := newTestEnv(t, true, nil, func(w http.ResponseWriter, r *http.Request) {
		gotIndex = r.URL.Query().Get("sitemapIndex")
		writeJSON(w, `{"sitemap":[{"path":"https://example.com/sitemap.xml","isPending":false,"errors":"0","warnings":"2"}]}`)
	})

	_, text := env.call(t, ToolListSitemaps, map[string]any{
		"site_url":      "https://example.com/",
		"sitemap_index": "https://example.com/index.xml",
	})

	assert.Equal(t, "https://example.com/index.xml", gotIndex)
	assert.Contains(t, text, `"total": 1`)
	assert.Contains(t, text, `"path": "https://example.com/sitemap.xml"`)
}

func TestWriteTools(t *testing.T) {
	var methods []string
	env := newTestEnv(t, false, nil, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{ToolAddSite, map[string]any{"site_url": "https://example.com/"}, "Site https://example.com/ added successfully"},
		{ToolDeleteSite, map[string]any{"site_url": "https://example.com/"}, "Site https://example.com/ deleted successfully"},
		{ToolSubmitSitemap, map[string]any{"site_url": "https://example.com/", "feedpath": "https://example.com/s.xml"}, "Sitemap https://example.com/s.xml submitted successfully"},
		{ToolDeleteSitemap, map[string]any{"site_url": "https://example.com/", "feedpath": "https://example.com/s.xml"}, "Sitemap https://example.com/s.xml deleted successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			result, text := env.call(t, tt.tool, tt.args)
			require.False(t, result.IsError, text)

			var status struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal([]byte(text), &status))
			assert.Equal(t, "success", status.Status)
			assert.Equal(t, tt.want, status.Message)
		})
	}
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete, http.MethodPut, http.MethodDelete}, methods)
}

func TestInspectURL_DefaultLanguage(t *testing.T) {
	var body map[string]any
	env := newTestEnv(t, true, nil, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, `{"inspectionResult":{"indexStatusResult":{"verdict":"PASS"}}}`)
	})

	result, text := env.call(t, ToolInspectURL, map[string]any{
		"inspection_url": "https://example.com/page",
		"site_url":       "https://example.com/",
	})

	require.False(t, result.IsError, text)
	assert.Equal(t, "en-US", body["languageCode"])
	assert.Contains(t, text, `"verdict": "PASS"`)
}
