package prompts

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/searchconsole"
)

// Prompt names.
const (
	PromptAnalyzeSearchPerformance = "analyze_search_performance"
	PromptSEORecommendations       = "seo_recommendations"
	PromptComparePeriods           = "compare_periods"
	PromptIndexingHealthCheck      = "indexing_health_check"
)

// Argument defaults.
const (
	DefaultTimePeriod = "last 30 days"
	DefaultFocusArea  = "general"
)

// FocusGuidance maps the seo_recommendations focus areas to the guidance
// sentence placed in the prompt.
var FocusGuidance = map[string]string{
	"queries":   "Focus specifically on query optimization, keyword targeting, and search intent alignment.",
	"pages":     "Focus on page-level optimization, content quality, and on-page SEO factors.",
	"technical": "Focus on technical SEO aspects like indexing, crawlability, and site structure.",
	"general":   "Provide comprehensive SEO recommendations across all areas.",
}

var funcs = template.FuncMap{
	// code renders an inline code span.
	"code": func(s string) string { return "`" + s + "`" },
	// siteResource builds a gsc://sites URI with the site encoded as one segment.
	"siteResource": SiteResourceURI,
}

// SiteResourceURI returns the gsc://sites resource URI for siteURL and the
// given sub path.
func SiteResourceURI(siteURL, path string) string {
	return "gsc://sites/" + searchconsole.EncodeSiteURL(siteURL) + "/" + path
}

var (
	analyzeTmpl = template.Must(template.New(PromptAnalyzeSearchPerformance).Funcs(funcs).Parse(
		`Please analyze the search performance for {{.SiteURL}} over {{.TimePeriod}}.

Focus on the following aspects:
1. **Traffic Trends**: Analyze clicks and impressions trends
2. **Click-Through Rate (CTR)**: Evaluate CTR performance and identify opportunities
3. **Average Position**: Review ranking positions and identify pages that need improvement
4. **Top Queries**: Identify which queries are driving the most traffic
5. **Top Pages**: Determine which pages are performing best
6. **Opportunities**: Suggest specific opportunities for improvement

Please provide:
- Key insights and observations
- Specific recommendations for improvement
- Priority actions to take

Use the available MCP tools to gather the necessary data:
- Use {{code "query_search_analytics"}} to get detailed analytics data
- Use the resource {{code (siteResource .SiteURL "analytics/summary")}} for a quick overview
- Use the resource {{code (siteResource .SiteURL "top-queries")}} for top queries
- Use the resource {{code (siteResource .SiteURL "top-pages")}} for top pages
`))

	seoTmpl = template.Must(template.New(PromptSEORecommendations).Funcs(funcs).Parse(
		`Please provide SEO recommendations for {{.SiteURL}}.

{{.Guidance}}

Your analysis should include:
1. **Current Performance Assessment**: Review current search performance metrics
2. **Strengths**: Identify what's working well
3. **Weaknesses**: Identify areas that need improvement
4. **Opportunities**: Suggest specific opportunities to capture more traffic
5. **Threats**: Identify potential issues or risks
6. **Action Plan**: Provide prioritized, actionable recommendations

Use the available MCP tools to gather data:
- Use {{code "query_search_analytics"}} with different dimensions (query, page, country, device)
- Use {{code "list_sitemaps"}} to check sitemap status
- Use {{code "inspect_url"}} to check indexing status of key pages
- Use resources for quick overviews

Provide specific, actionable recommendations with expected impact.
`))

	compareTmpl = template.Must(template.New(PromptComparePeriods).Funcs(funcs).Parse(
		`Please compare search performance for {{.SiteURL}} between two time periods:

**Period 1**: {{.Period1Start}} to {{.Period1End}}
**Period 2**: {{.Period2Start}} to {{.Period2End}}

Your comparison should include:

1. **Overall Metrics Comparison**:
   - Total clicks (change and % change)
   - Total impressions (change and % change)
   - Average CTR (change and % change)
   - Average position (change and % change)

2. **Query Analysis**:
   - New queries that appeared in Period 2
   - Queries that disappeared from Period 1
   - Queries with significant performance changes
   - Top gaining and losing queries

3. **Page Analysis**:
   - Pages with the biggest improvements
   - Pages with the biggest declines
   - New pages gaining traffic

4. **Insights**:
   - What changed and why (if identifiable)
   - Seasonal factors to consider
   - Recommendations based on the comparison

Use the {{code "query_search_analytics"}} tool twice:
1. First call with dates {{.Period1Start}} to {{.Period1End}}
2. Second call with dates {{.Period2Start}} to {{.Period2End}}

Then compare the results and provide detailed insights.
`))

	indexingTmpl = template.Must(template.New(PromptIndexingHealthCheck).Funcs(funcs).Parse(
		`Please perform an indexing health check for {{.SiteURL}}.

Your analysis should cover:

1. **Sitemap Status**:
   - List all submitted sitemaps
   - Check for errors or warnings
   - Verify sitemap submission dates
   - Identify any issues

2. **Site Verification**:
   - Confirm site is properly added to Search Console
   - Check permission level

3. **URL Inspection** (for key pages):
   - Check indexing status of important pages
   - Identify any indexing issues
   - Review mobile usability
   - Check for rich results eligibility

4. **Recommendations**:
   - Suggest fixes for any issues found
   - Recommend sitemap improvements
   - Suggest pages to inspect if issues are found

Use the following MCP tools:
- {{code "list_sitemaps"}} to get all sitemaps
- {{code "get_sitemap"}} to check individual sitemap details
- {{code "get_site"}} to verify site status
- {{code "inspect_url"}} to check specific URLs (ask user for important URLs to check)

Provide a comprehensive health report with actionable recommendations.
`))
)

// ComparePeriodsArgs holds the two date ranges of compare_periods.
type ComparePeriodsArgs struct {
	SiteURL      string
	Period1Start string
	Period1End   string
	Period2Start string
	Period2End   string
}

// AnalyzeSearchPerformance renders the search performance analysis prompt.
// An empty timePeriod selects DefaultTimePeriod.
func AnalyzeSearchPerformance(siteURL, timePeriod string) string {
	if timePeriod == "" {
		timePeriod = DefaultTimePeriod
	}
	return render(analyzeTmpl, struct{ SiteURL, TimePeriod string }{siteURL, timePeriod})
}

// SEORecommendations renders the SEO recommendations prompt. Unknown or
// empty focus areas fall back to the general guidance.
func SEORecommendations(siteURL, focusArea string) string {
	guidance, ok := FocusGuidance[focusArea]
	if !ok {
		guidance = FocusGuidance[DefaultFocusArea]
	}
	return render(seoTmpl, struct{ SiteURL, Guidance string }{siteURL, guidance})
}

// ComparePeriods renders the period-over-period comparison prompt.
func ComparePeriods(args ComparePeriodsArgs) string {
	return render(compareTmpl, args)
}

// IndexingHealthCheck renders the indexing health check prompt.
func IndexingHealthCheck(siteURL string) string {
	return render(indexingTmpl, struct{ SiteURL string }{siteURL})
}

// render executes a parsed template. The templates only reference fields
// of the data they are given, so execution cannot fail.
func render(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		panic(fmt.Sprintf("prompt template %s: %v", t.Name(), err))
	}
	return b.String()
}

// RegisterPrompts registers all prompts with the MCP server.
func RegisterPrompts(s *mcpserver.MCPServer) error {
	s.AddPrompt(mcp.NewPrompt(PromptAnalyzeSearchPerformance,
		mcp.WithPromptDescription("Analyze search performance for a site over a time period"),
		mcp.WithArgument("site_url",
			mcp.ArgumentDescription("The property to analyze (e.g. https://example.com/ or sc-domain:example.com)"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("time_period",
			mcp.ArgumentDescription("Time period description (default: last 30 days)"),
		),
	), func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		siteURL, err := requiredArgument(request, "site_url")
		if err != nil {
			return nil, err
		}
		return userPrompt("Search performance analysis",
			AnalyzeSearchPerformance(siteURL, argument(request, "time_period"))), nil
	})

	s.AddPrompt(mcp.NewPrompt(PromptSEORecommendations,
		mcp.WithPromptDescription("Generate SEO recommendations for a site"),
		mcp.WithArgument("site_url",
			mcp.ArgumentDescription("The property to analyze"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("focus_area",
			mcp.ArgumentDescription("Area to focus on: queries, pages, technical or general (default: general)"),
		),
	), func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		siteURL, err := requiredArgument(request, "site_url")
		if err != nil {
			return nil, err
		}
		return userPrompt("SEO recommendations",
			SEORecommendations(siteURL, argument(request, "focus_area"))), nil
	})

	s.AddPrompt(mcp.NewPrompt(PromptComparePeriods,
		mcp.WithPromptDescription("Compare search performance between two date ranges"),
		mcp.WithArgument("site_url", mcp.ArgumentDescription("The property to analyze"), mcp.RequiredArgument()),
		mcp.WithArgument("period1_start", mcp.ArgumentDescription("First period start date (YYYY-MM-DD)"), mcp.RequiredArgument()),
		mcp.WithArgument("period1_end", mcp.ArgumentDescription("First period end date (YYYY-MM-DD)"), mcp.RequiredArgument()),
		mcp.WithArgument("period2_start", mcp.ArgumentDescription("Second period start date (YYYY-MM-DD)"), mcp.RequiredArgument()),
		mcp.WithArgument("period2_end", mcp.ArgumentDescription("Second period end date (YYYY-MM-DD)"), mcp.RequiredArgument()),
	), func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args ComparePeriodsArgs
		fields := []struct {
			name string
			dst  *string
		}{
			{"site_url", &args.SiteURL},
			{"period1_start", &args.Period1Start},
			{"period1_end", &args.Period1End},
			{"period2_start", &args.Period2Start},
			{"period2_end", &args.Period2End},
		}
		for _, f := range fields {
			v, err := requiredArgument(request, f.name)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		return userPrompt("Period comparison", ComparePeriods(args)), nil
	})

	s.AddPrompt(mcp.NewPrompt(PromptIndexingHealthCheck,
		mcp.WithPromptDescription("Check sitemaps, verification and indexing status of a site"),
		mcp.WithArgument("site_url", mcp.ArgumentDescription("The property to check"), mcp.RequiredArgument()),
	), func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		siteURL, err := requiredArgument(request, "site_url")
		if err != nil {
			return nil, err
		}
		return userPrompt("Indexing health check", IndexingHealthCheck(siteURL)), nil
	})

	return nil
}

func argument(request mcp.GetPromptRequest, name string) string {
	return strings.TrimSpace(request.Params.Arguments[name])
}

func requiredArgument(request mcp.GetPromptRequest, name string) (string, error) {
	v := argument(request, name)
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
