package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/logging"
	"github.com/teemow/gsc-mcp/internal/searchconsole"
	"github.com/teemow/gsc-mcp/internal/server"
)

// Resource URIs.
const (
	URISites  = "gsc://sites"
	URIConfig = "gsc://config"

	sitePrefix = "gsc://sites/"

	TemplateAnalyticsSummary = "gsc://sites/{site_url}/analytics/summary"
	TemplateSitemaps         = "gsc://sites/{site_url}/sitemaps"
	TemplateTopQueries       = "gsc://sites/{site_url}/top-queries"
	TemplateTopPages         = "gsc://sites/{site_url}/top-pages"
)

const (
	mimeJSON = "application/json"

	configServerName = "Google Search Console MCP"
	configAPIVersion = "v1"
)

// ConfigInfo is the body of gsc://config.
type ConfigInfo struct {
	Server         string   `json:"server"`
	Version        string   `json:"version"`
	APIVersion     string   `json:"api_version"`
	Authentication string   `json:"authentication"`
	ReadOnly       bool     `json:"read_only"`
	Scopes         []string `json:"scopes"`
}

type topQueries struct {
	SiteURL    string                       `json:"site_url"`
	Period     string                       `json:"period"`
	TopQueries []searchconsole.AnalyticsRow `json:"top_queries"`
}

type topPages struct {
	SiteURL  string                       `json:"site_url"`
	Period   string                       `json:"period"`
	TopPages []searchconsole.AnalyticsRow `json:"top_pages"`
}

type errorDocument struct {
	Error string `json:"error"`
}

// siteReader produces a resource body for one decoded property.
type siteReader func(ctx context.Context, client *searchconsole.Client, siteURL string) (any, error)

type registry struct {
	sc  *server.ServerContext
	now func() time.Time
}

// RegisterResources registers the Search Console resources and templates.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	return register(s, sc, time.Now)
}

func register(s *mcpserver.MCPServer, sc *server.ServerContext, now func() time.Time) error {
	r := &registry{sc: sc, now: now}

	s.AddResource(mcp.NewResource(URISites, "Search Console sites",
		mcp.WithResourceDescription("All properties in the Search Console account with their permission levels"),
		mcp.WithMIMEType(mimeJSON),
	), r.handleSites)

	s.AddResource(mcp.NewResource(URIConfig, "Server configuration",
		mcp.WithResourceDescription("Server version, authentication method and OAuth scopes"),
		mcp.WithMIMEType(mimeJSON),
	), r.handleConfig)

	s.AddResourceTemplate(mcp.NewResourceTemplate(TemplateAnalyticsSummary, "Analytics summary",
		mcp.WithTemplateDescription("Clicks, impressions, CTR and position totals for the last 28 days"),
		mcp.WithTemplateMIMEType(mimeJSON),
	), r.siteHandler(func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error) {
		return c.AnalyticsSummary(ctx, siteURL, r.now())
	}))

	s.AddResourceTemplate(mcp.NewResourceTemplate(TemplateSitemaps, "Site sitemaps",
		mcp.WithTemplateDescription("All sitemaps submitted for the property"),
		mcp.WithTemplateMIMEType(mimeJSON),
	), r.siteHandler(func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error) {
		result, err := c.ListSitemaps(ctx, siteURL, "")
		if err != nil {
			return nil, err
		}
		result.SiteURL = siteURL
		return result, nil
	}))

	s.AddResourceTemplate(mcp.NewResourceTemplate(TemplateTopQueries, "Top queries",
		mcp.WithTemplateDescription("The 10 best performing queries of the last 7 days"),
		mcp.WithTemplateMIMEType(mimeJSON),
	), r.siteHandler(func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error) {
		top, err := c.TopRows(ctx, siteURL, "query", r.now())
		if err != nil {
			return nil, err
		}
		return topQueries{SiteURL: top.SiteURL, Period: top.Period, TopQueries: top.Rows}, nil
	}))

	s.AddResourceTemplate(mcp.NewResourceTemplate(TemplateTopPages, "Top pages",
		mcp.WithTemplateDescription("The 10 best performing pages of the last 7 days"),
		mcp.WithTemplateMIMEType(mimeJSON),
	), r.siteHandler(func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error) {
		top, err := c.TopRows(ctx, siteURL, "page", r.now())
		if err != nil {
			return nil, err
		}
		return topPages{SiteURL: top.SiteURL, Period: top.Period, TopPages: top.Rows}, nil
	}))

	return nil
}

func (r *registry) handleSites(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	client, err := r.sc.ClientForRequest(ctx)
	if err != nil {
		return r.errorContents(request.Params.URI, err)
	}

	sites, err := client.ListSites(ctx)
	if err != nil {
		return r.errorContents(request.Params.URI, err)
	}
	return jsonContents(request.Params.URI, sites)
}

func (r *registry) handleConfig(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(request.Params.URI, ConfigInfo{
		Server:         configServerName,
		Version:        r.sc.Version(),
		APIVersion:     configAPIVersion,
		Authentication: r.sc.AuthMethod(),
		ReadOnly:       r.sc.ReadOnly(),
		Scopes:         r.sc.Scopes(),
	})
}

// siteHandler decodes the {site_url} segment and runs read against it.
func (r *registry) siteHandler(read siteReader) mcpserver.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI

		siteURL, err := SiteFromURI(uri)
		if err != nil {
			return r.errorContents(uri, err)
		}

		client, err := r.sc.ClientForRequest(ctx)
		if err != nil {
			return r.errorContents(uri, err)
		}

		body, err := read(ctx, client, siteURL)
		if err != nil {
			return r.errorContents(uri, err)
		}
		return jsonContents(uri, body)
	}
}

// SiteFromURI extracts and decodes the property from a
// gsc://sites/{site_url}/... URI.
func SiteFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, sitePrefix)
	if !ok {
		return "", searchconsole.NewValidationError("unsupported resource URI %q", uri)
	}

	encoded, _, _ := strings.Cut(rest, "/")
	if encoded == "" {
		return "", searchconsole.NewValidationError("resource URI %q has no site_url", uri)
	}

	return searchconsole.DecodeSiteURL(encoded), nil
}

func (r *registry) errorContents(uri string, err error) ([]mcp.ResourceContents, error) {
	cerr := searchconsole.Categorize(err)
	r.sc.Logger().Debug("resource read failed",
		"uri", uri,
		logging.Category(string(cerr.Kind)),
		logging.Err(err))
	return jsonContents(uri, errorDocument{Error: cerr.Message})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		},
	}, nil
}
