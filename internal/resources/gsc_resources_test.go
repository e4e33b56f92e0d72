package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/server"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newResourceServer(t *testing.T, provider google.TokenProvider, handler http.HandlerFunc) *mcpserver.MCPServer {
	t.Helper()

	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	if provider == nil {
		provider = google.NewStaticTokenProvider("ya29.test")
	}
	sc, err := server.NewServerContext(context.Background(), server.Config{
		Version:       "1.0.0",
		TokenProvider: provider,
		AuthMethod:    google.MethodAccessToken,
		ReadOnly:      true,
		ClientOptions: []option.ClientOption{option.WithEndpoint(api.URL + "/")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithResourceCapabilities(false, false))
	require.NoError(t, register(s, sc, func() time.Time { return fixedNow }))
	return s
}

// readResource reads uri through the MCP message handler and returns the
// decoded JSON body of the single text content.
func readResource(t *testing.T, s *mcpserver.MCPServer, uri string) map[string]any {
	t.Helper()

	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":%q}}`, uri)
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var rpc struct {
		Result struct {
			Contents []struct {
				URI      string `json:"uri"`
				MIMEType string `json:"mimeType"`
				Text     string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &rpc))
	require.Nil(t, rpc.Error, "unexpected JSON-RPC error")
	require.Len(t, rpc.Result.Contents, 1)
	assert.Equal(t, uri, rpc.Result.Contents[0].URI)
	assert.Equal(t, "application/json", rpc.Result.Contents[0].MIMEType)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(rpc.Result.Contents[0].Text), &body))
	return body
}

func TestSitesResource(t *testing.T) {
	s := newResourceServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"siteEntry":[{"siteUrl":"https://example.com/","permissionLevel":"siteOwner"}]}`))
	})

	body := readResource(t, s, URISites)
	assert.EqualValues(t, 1, body["total"])
	sites := body["sites"].([]any)
	assert.Equal(t, "https://example.com/", sites[0].(map[string]any)["siteUrl"])
}

func TestConfigResource(t *testing.T) {
	s := newResourceServer(t, nil, func(http.ResponseWriter, *http.Request) {
		t.Error("config must not call the API")
	})

	body := readResource(t, s, URIConfig)
	assert.Equal(t, "Google Search Console MCP", body["server"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "v1", body["api_version"])
	assert.Equal(t, google.MethodAccessToken, body["authentication"])
	assert.Equal(t, []any{google.ScopeWebmastersReadOnly}, body["scopes"])
}

func TestTopQueriesResource(t *testing.T) {
	var query map[string]any
	var path string
	s := newResourceServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		_ = json.NewDecoder(r.Body).Decode(&query)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[
			{"keys":["shoes"],"clicks":50,"impressions":500,"ctr":0.1,"position":2.345},
			{"keys":["boots"],"clicks":20,"impressions":400,"ctr":0.05,"position":5.0}
		]}`))
	})

	body := readResource(t, s, "gsc://sites/https%3A%2F%2Fexample.com%2F/top-queries")

	assert.Contains(t, path, "https%3A%2F%2Fexample.com%2F")
	assert.Equal(t, "2024-06-05", query["startDate"])
	assert.Equal(t, "2024-06-12", query["endDate"])
	assert.Equal(t, []any{"query"}, query["dimensions"])
	assert.EqualValues(t, 10, query["rowLimit"])

	assert.Equal(t, "https://example.com/", body["site_url"])
	assert.Equal(t, "2024-06-05 to 2024-06-12", body["period"])

	rows := body["top_queries"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "shoes", first["dimension_0"])
	assert.EqualValues(t, 50, first["clicks"])
	assert.EqualValues(t, 10, first["ctr"])
	assert.EqualValues(t, 2.3, first["position"])
	assert.Equal(t, "boots", rows[1].(map[string]any)["dimension_0"])
}

func TestTopPagesResource(t *testing.T) {
	s := newResourceServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	body := readResource(t, s, "gsc://sites/sc-domain%3Aexample.com/top-pages")
	assert.Equal(t, "sc-domain:example.com", body["site_url"])
	assert.Equal(t, []any{}, body["top_pages"])
}

func TestAnalyticsSummaryResource(t *testing.T) {
	var query map[string]any
	s := newResourceServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&query)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[{"clicks":1200,"impressions":48000,"ctr":0.025,"position":11.87}]}`))
	})

	body := readResource(t, s, "gsc://sites/https%3A%2F%2Fexample.com%2F/analytics/summary")

	assert.Equal(t, "2024-05-15", query["startDate"])
	assert.EqualValues(t, 1, query["rowLimit"])
	assert.Equal(t, "2024-05-15 to 2024-06-12", body["period"])
	assert.EqualValues(t, 1200, body["total_clicks"])
	assert.EqualValues(t, 48000, body["total_impressions"])
	assert.EqualValues(t, 2.5, body["average_ctr"])
	assert.EqualValues(t, 11.9, body["average_position"])
}

func TestSitemapsResource(t *testing.T) {
	s := newResourceServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sitemap":[{"path":"https://example.com/sitemap.xml"}]}`))
	})

	body := readResource(t, s, "gsc://sites/https%3A%2F%2Fexample.com%2F/sitemaps")
	assert.Equal(t, "https://example.com/", body["site_url"])
	assert.EqualValues(t, 1, body["total"])
}

func TestResource_ErrorEnvelope(t *testing.T) {
	s := newResourceServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"User does not have sufficient permission"}}`))
	})

	body := readResource(t, s, "gsc://sites/https%3A%2F%2Fexample.com%2F/sitemaps")
	assert.Equal(t, map[string]any{
		"error": "Permission denied. Please check that you have access to this site in Google Search Console.",
	}, body)
}

func TestResource_NoCredentials(t *testing.T) {
	s := newResourceServer(t, &google.ContextTokenProvider{}, func(http.ResponseWriter, *http.Request) {
		t.Error("API must not be called without credentials")
	})

	body := readResource(t, s, URISites)
	assert.Equal(t, "Authentication failed. Please re-authenticate with Google.", body["error"])
}

func TestSiteFromURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{uri: "gsc://sites/https%3A%2F%2Fexample.com%2F/sitemaps", want: "https://example.com/"},
		{uri: "gsc://sites/sc-domain%3Aexample.com/top-pages", want: "sc-domain:example.com"},
		{uri: "gsc://sites/https%3A%2F%2Fexample.com%2Fa%20b/analytics/summary", want: "https://example.com/a b"},
		{uri: "gsc://sites//sitemaps", wantErr: true},
		{uri: "gsc://sites/%zz/sitemaps", want: "%zz"},
		{uri: "gsc://sites/sc-domain%3Aexample.com%zz/sitemaps", want: "sc-domain:example.com%zz"},
		{uri: "other://sites/x/sitemaps", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := SiteFromURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
