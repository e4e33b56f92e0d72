package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/server"
	"github.com/teemow/gsc-mcp/internal/tools/gsc_tools"
)

func newTestServerContext(t *testing.T, readOnly bool) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Config{
		Version:       "test",
		TokenProvider: google.NewStaticTokenProvider(""),
		AuthMethod:    google.MethodBearer,
		ReadOnly:      readOnly,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestNewMCPServer_ReadOnly(t *testing.T) {
	mcpSrv, err := newMCPServer(newTestServerContext(t, true))
	require.NoError(t, err)

	tools := mcpSrv.ListTools()
	assert.Len(t, tools, 6)
	for _, name := range gsc_tools.WriteTools {
		assert.NotContains(t, tools, name, "write tool registered in read-only mode")
	}
}

func TestNewMCPServer_Yolo(t *testing.T) {
	mcpSrv, err := newMCPServer(newTestServerContext(t, false))
	require.NoError(t, err)

	tools := mcpSrv.ListTools()
	assert.Len(t, tools, len(gsc_tools.Categories))
	for name := range gsc_tools.Categories {
		assert.Contains(t, tools, name)
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	tools, err := registeredTools()
	require.NoError(t, err)
	require.Len(t, tools, len(gsc_tools.Categories))

	md := generateToolsMarkdown(tools)

	assert.Contains(t, md, "# MCP Tools Reference")
	assert.Contains(t, md, "- [Analytics](#analytics)")
	assert.Contains(t, md, "## Sitemaps\n\n")
	assert.Contains(t, md, "### query_search_analytics\n\n")
	assert.Contains(t, md, "- `site_url` (string, required): ")
	assert.Contains(t, md, "- `delete_site`\n")
	assert.NotContains(t, md, "## Other")

	// Categories appear in their fixed order.
	prev := -1
	for _, category := range gsc_tools.CategoryNames() {
		idx := strings.Index(md, "## "+category+"\n")
		require.Greater(t, idx, prev, "category %s out of order", category)
		prev = idx
	}
}
