package gsc_tools

import (
	"sort"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/server"
)

// Tool categories, used to group tools in generated documentation.
const (
	CategoryAnalytics  = "Analytics"
	CategorySitemaps   = "Sitemaps"
	CategorySites      = "Sites"
	CategoryInspection = "Inspection"
)

// Tool names.
const (
	ToolQuerySearchAnalytics = "query_search_analytics"
	ToolListSitemaps         = "list_sitemaps"
	ToolGetSitemap           = "get_sitemap"
	ToolSubmitSitemap        = "submit_sitemap"
	ToolDeleteSitemap        = "delete_sitemap"
	ToolListSites            = "list_sites"
	ToolGetSite              = "get_site"
	ToolAddSite              = "add_site"
	ToolDeleteSite           = "delete_site"
	ToolInspectURL           = "inspect_url"
)

// Categories maps every tool to its category.
var Categories = map[string]string{
	ToolQuerySearchAnalytics: CategoryAnalytics,
	ToolListSitemaps:         CategorySitemaps,
	ToolGetSitemap:           CategorySitemaps,
	ToolSubmitSitemap:        CategorySitemaps,
	ToolDeleteSitemap:        CategorySitemaps,
	ToolListSites:            CategorySites,
	ToolGetSite:              CategorySites,
	ToolAddSite:              CategorySites,
	ToolDeleteSite:           CategorySites,
	ToolInspectURL:           CategoryInspection,
}

// WriteTools lists the tools that modify the account.
var WriteTools = []string{ToolSubmitSitemap, ToolDeleteSitemap, ToolAddSite, ToolDeleteSite}

// CategoryNames returns the categories in display order.
func CategoryNames() []string {
	return []string{CategoryAnalytics, CategorySitemaps, CategorySites, CategoryInspection}
}

// ToolsInCategory returns the sorted tool names of a category.
func ToolsInCategory(category string) []string {
	var names []string
	for name, c := range Categories {
		if c == category {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RegisterGSCTools registers all Search Console tools with the MCP server.
// Write tools are skipped when readOnly is set.
func RegisterGSCTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerAnalyticsTools(s, sc)
	registerSitemapTools(s, sc, readOnly)
	registerSiteTools(s, sc, readOnly)
	registerInspectionTools(s, sc)
	return nil
}
