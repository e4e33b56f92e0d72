package gsc_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/searchconsole"
	"github.com/teemow/gsc-mcp/internal/server"
	"github.com/teemow/gsc-mcp/internal/tools/common"
)

func registerAnalyticsTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	queryTool := mcp.NewTool(ToolQuerySearchAnalytics,
		mcp.WithDescription("Query search analytics data for a site. Returns clicks, impressions, CTR (percent) and average position, one row per combination of the requested dimensions."),
		mcp.WithTitleAnnotation("Query search analytics"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("site_url",
			mcp.Required(),
			mcp.Description("The site URL (e.g., \"https://example.com/\" or \"sc-domain:example.com\")"),
		),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Start date in YYYY-MM-DD format"),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("End date in YYYY-MM-DD format"),
		),
		mcp.WithArray("dimensions",
			mcp.Description("Dimensions to group by: "+strings.Join(searchconsole.Dimensions, ", ")),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("row_limit",
			mcp.Description("Maximum rows to return (default: 1000, max: 25000)"),
			mcp.DefaultNumber(searchconsole.DefaultRowLimit),
		),
		mcp.WithNumber("start_row",
			mcp.Description("Zero-based index of the first row to return"),
			mcp.DefaultNumber(0),
		),
		mcp.WithString("search_type",
			mcp.Description("Search type to filter on (default: web)"),
			mcp.Enum(searchconsole.SearchTypes...),
		),
	)

	s.AddTool(queryTool, common.InstrumentedToolHandler(ToolQuerySearchAnalytics, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			q, err := analyticsQueryFromRequest(request)
			if err != nil {
				return nil, err
			}

			client, err := sc.ClientForRequest(ctx)
			if err != nil {
				return nil, err
			}

			result, err := client.QuerySearchAnalytics(ctx, q)
			if err != nil {
				return nil, err
			}
			return common.JSONResult(result)
		}))
}

func analyticsQueryFromRequest(request mcp.CallToolRequest) (searchconsole.AnalyticsQuery, error) {
	var q searchconsole.AnalyticsQuery
	var err error

	if q.SiteURL, err = common.RequiredString(request, "site_url"); err != nil {
		return q, err
	}
	if q.StartDate, err = common.RequiredString(request, "start_date"); err != nil {
		return q, err
	}
	if q.EndDate, err = common.RequiredString(request, "end_date"); err != nil {
		return q, err
	}

	q.Dimensions = common.StringList(request, "dimensions")
	q.RowLimit = common.OptionalInt(request, "row_limit", searchconsole.DefaultRowLimit)
	q.StartRow = common.OptionalInt(request, "start_row", 0)
	q.SearchType = common.OptionalString(request, "search_type", "")

	return q, q.Validate()
}
