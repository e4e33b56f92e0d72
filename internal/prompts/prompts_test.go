package prompts

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gsc-mcp/internal/resources"
)

func TestAnalyzeSearchPerformance(t *testing.T) {
	text := AnalyzeSearchPerformance("https://example.com/", "")

	assert.True(t, strings.HasPrefix(text,
		"Please analyze the search performance for https://example.com/ over last 30 days."))
	assert.Contains(t, text, "`query_search_analytics`")
	assert.Contains(t, text, "`gsc://sites/https%3A%2F%2Fexample.com%2F/analytics/summary`")
	assert.Contains(t, text, "`gsc://sites/https%3A%2F%2Fexample.com%2F/top-queries`")
	assert.Contains(t, text, "`gsc://sites/https%3A%2F%2Fexample.com%2F/top-pages`")

	text = AnalyzeSearchPerformance("sc-domain:example.com", "Q1 2024")
	assert.Contains(t, text, "for sc-domain:example.com over Q1 2024.")
}

func TestSiteResourceURI_RoundTrips(t *testing.T) {
	for _, site := range []string{"https://example.com/", "sc-domain:example.com", "https://example.com/a b?x=1"} {
		uri := SiteResourceURI(site, "top-pages")
		got, err := resources.SiteFromURI(uri)
		require.NoError(t, err)
		assert.Equal(t, site, got, uri)
	}
}

func TestSEORecommendations_FocusArea(t *testing.T) {
	tests := []struct {
		focus string
		want  string
	}{
		{focus: "queries", want: FocusGuidance["queries"]},
		{focus: "pages", want: FocusGuidance["pages"]},
		{focus: "technical", want: FocusGuidance["technical"]},
		{focus: "general", want: FocusGuidance["general"]},
		{focus: "", want: FocusGuidance["general"]},
		{focus: "backlinks", want: FocusGuidance["general"]},
	}

	for _, tt := range tests {
		t.Run(tt.focus, func(t *testing.T) {
			text := SEORecommendations("https://example.com/", tt.focus)
			assert.Contains(t, text, "Please provide SEO recommendations for https://example.com/.\n\n"+tt.want+"\n")
			assert.Contains(t, text, "`inspect_url`")
		})
	}
}

func TestComparePeriods(t *testing.T) {
	text := ComparePeriods(ComparePeriodsArgs{
		SiteURL:      "https://example.com/",
		Period1Start: "2024-01-01",
		Period1End:   "2024-01-31",
		Period2Start: "2024-02-01",
		Period2End:   "2024-02-29",
	})

	assert.Contains(t, text, "**Period 1**: 2024-01-01 to 2024-01-31")
	assert.Contains(t, text, "**Period 2**: 2024-02-01 to 2024-02-29")
	assert.Contains(t, text, "1. First call with dates 2024-01-01 to 2024-01-31")
	assert.Contains(t, text, "2. Second call with dates 2024-02-01 to 2024-02-29")
}

func TestIndexingHealthCheck(t *testing.T) {
	text := IndexingHealthCheck("https://example.com/")

	assert.True(t, strings.HasPrefix(text, "Please perform an indexing health check for https://example.com/."))
	for _, tool := range []string{"list_sitemaps", "get_sitemap", "get_site", "inspect_url"} {
		assert.Contains(t, text, "`"+tool+"`")
	}
}

type promptResponse struct {
	Result struct {
		Description string `json:"description"`
		Messages    []struct {
			Role    string `json:"role"`
			Content struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func getPrompt(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]string) promptResponse {
	t.Helper()

	params, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	require.NoError(t, err)
	msg := `{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":` + string(params) + `}`

	data, err := json.Marshal(s.HandleMessage(context.Background(), json.RawMessage(msg)))
	require.NoError(t, err)

	var resp promptResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func newPromptServer(t *testing.T) *mcpserver.MCPServer {
	t.Helper()
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithPromptCapabilities(false))
	require.NoError(t, RegisterPrompts(s))
	return s
}

func TestRegisterPrompts_Get(t *testing.T) {
	s := newPromptServer(t)

	resp := getPrompt(t, s, PromptSEORecommendations, map[string]string{
		"site_url":   "https://example.com/",
		"focus_area": "technical",
	})
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Messages, 1)

	msg := resp.Result.Messages[0]
	assert.Equal(t, "user", msg.Role)
	assert.Equal(t, "text", msg.Content.Type)
	assert.Equal(t, SEORecommendations("https://example.com/", "technical"), msg.Content.Text)
}

func TestRegisterPrompts_AllNames(t *testing.T) {
	s := newPromptServer(t)

	args := map[string]string{
		"site_url":      "https://example.com/",
		"period1_start": "2024-01-01",
		"period1_end":   "2024-01-31",
		"period2_start": "2024-02-01",
		"period2_end":   "2024-02-29",
	}
	for _, name := range []string{
		PromptAnalyzeSearchPerformance,
		PromptSEORecommendations,
		PromptComparePeriods,
		PromptIndexingHealthCheck,
	} {
		t.Run(name, func(t *testing.T) {
			resp := getPrompt(t, s, name, args)
			require.Nil(t, resp.Error)
			require.Len(t, resp.Result.Messages, 1)
			assert.Contains(t, resp.Result.Messages[0].Content.Text, "https://example.com/")
		})
	}
}

func TestRegisterPrompts_MissingArgument(t *testing.T) {
	s := newPromptServer(t)

	resp := getPrompt(t, s, PromptComparePeriods, map[string]string{
		"site_url":      "https://example.com/",
		"period1_start": "2024-01-01",
	})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "period1_end is required")
}
