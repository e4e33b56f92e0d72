package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gsc-mcp/internal/google"
)

// newWhoamiServer returns an MCP server with one tool that reports the
// caller's access token.
func newWhoamiServer() *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	s.AddTool(mcp.NewTool("whoami"), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		token, ok := google.AccessTokenFromContext(ctx)
		if !ok {
			return mcp.NewToolResultError("no token"), nil
		}
		return mcp.NewToolResultText(token), nil
	})
	return s
}

func newTestHTTPServer(t *testing.T, requireAuth bool) *httptest.Server {
	t.Helper()

	h, err := NewHTTPServer(newWhoamiServer(), newTestServerContext(t, Config{Version: "test"}), HTTPServerConfig{
		BaseURL:          "http://localhost:8080",
		DisableStreaming: true,
		RequireAuth:      requireAuth,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Shutdown(context.Background()) })

	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSONRPC(t *testing.T, url, token, sessionID string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestNewHTTPServer_Validation(t *testing.T) {
	_, err := NewHTTPServer(nil, nil, HTTPServerConfig{})
	assert.Error(t, err)

	_, err = NewHTTPServer(newWhoamiServer(), nil, HTTPServerConfig{})
	assert.Error(t, err)
}

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	h, err := NewHTTPServer(newWhoamiServer(), newTestServerContext(t, Config{Version: "test"}), HTTPServerConfig{})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- h.Serve(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, h.Shutdown(context.Background()))
	select {
	case err := <-served:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}

func TestHTTPServer_ShutdownBeforeStart(t *testing.T) {
	h, err := NewHTTPServer(newWhoamiServer(), newTestServerContext(t, Config{}), HTTPServerConfig{})
	require.NoError(t, err)

	require.NoError(t, h.Shutdown(context.Background()))
	assert.ErrorIs(t, h.Start("127.0.0.1:0"), http.ErrServerClosed)
}

func TestHTTPServer_StartInvalidAddr(t *testing.T) {
	h, err := NewHTTPServer(newWhoamiServer(), newTestServerContext(t, Config{}), HTTPServerConfig{})
	require.NoError(t, err)

	assert.Error(t, h.Start("127.0.0.1:-1"))
}

func TestHTTPServer_Health(t *testing.T) {
	srv := newTestHTTPServer(t, true)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"healthy","service":"Google Search Console MCP Server","version":"test"}`, string(body))
}

func TestHTTPServer_RequiresBearer(t *testing.T) {
	srv := newTestHTTPServer(t, true)

	resp := postJSONRPC(t, srv.URL+MCPEndpointPath, "", "", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "ping",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), `realm="http://localhost:8080"`)
}

func TestHTTPServer_TokenReachesTools(t *testing.T) {
	srv := newTestHTTPServer(t, true)
	endpoint := srv.URL + MCPEndpointPath

	initResp := postJSONRPC(t, endpoint, "ya29.caller", "", map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
			"capabilities":    map[string]any{},
			"clientInfo":      map[string]any{"name": "test", "version": "1.0.0"},
		},
	})
	_, _ = io.Copy(io.Discard, initResp.Body)
	initResp.Body.Close()
	require.Equal(t, http.StatusOK, initResp.StatusCode)

	sessionID := initResp.Header.Get("Mcp-Session-Id")
	require.NotEmpty(t, sessionID)

	callResp := postJSONRPC(t, endpoint, "ya29.caller", sessionID, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/call",
		"params":  map[string]any{"name": "whoami", "arguments": map[string]any{}},
	})
	defer callResp.Body.Close()
	require.Equal(t, http.StatusOK, callResp.StatusCode)

	var rpc struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(callResp.Body).Decode(&rpc))
	require.Len(t, rpc.Result.Content, 1)
	assert.False(t, rpc.Result.IsError)
	assert.Equal(t, "ya29.caller", rpc.Result.Content[0].Text)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/mcp", routeLabel("/mcp"))
	assert.Equal(t, "/healthz", routeLabel("/healthz"))
	assert.Equal(t, "other", routeLabel("/wp-admin"))
}
