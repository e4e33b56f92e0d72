package gsc_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/server"
	"github.com/teemow/gsc-mcp/internal/tools/common"
)

func siteURLParam() mcp.ToolOption {
	return mcp.WithString("site_url",
		mcp.Required(),
		mcp.Description("The site URL (e.g., \"https://example.com/\" or \"sc-domain:example.com\")"),
	)
}

func feedpathParam(desc string) mcp.ToolOption {
	return mcp.WithString("feedpath",
		mcp.Required(),
		mcp.Description(desc),
	)
}

// siteAndFeedpath reads the two arguments shared by the per-sitemap tools.
func siteAndFeedpath(request mcp.CallToolRequest) (string, string, error) {
	siteURL, err := common.RequiredString(request, "site_url")
	if err != nil {
		return "", "", err
	}
	feedpath, err := common.RequiredString(request, "feedpath")
	if err != nil {
		return "", "", err
	}
	return siteURL, feedpath, nil
}

func registerSitemapTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	listTool := mcp.NewTool(ToolListSitemaps,
		mcp.WithDescription("List all sitemaps for a site, with submission status, warnings and errors"),
		mcp.WithTitleAnnotation("List sitemaps"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		siteURLParam(),
		mcp.WithString("sitemap_index",
			mcp.Description("Only list the sitemaps contained in this sitemap index"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandler(ToolListSitemaps, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			siteURL, err := common.RequiredString(request, "site_url")
			if err != nil {
				return nil, err
			}

			client, err := sc.ClientForRequest(ctx)
			if err != nil {
				return nil, err
			}

			result, err := client.ListSitemaps(ctx, siteURL, common.OptionalString(request, "sitemap_index", ""))
			if err != nil {
				return nil, err
			}
			return common.JSONResult(result)
		}))

	getTool := mcp.NewTool(ToolGetSitemap,
		mcp.WithDescription("Get information about a specific sitemap, including submission date, errors and warnings"),
		mcp.WithTitleAnnotation("Get sitemap"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		siteURLParam(),
		feedpathParam("The sitemap URL"),
	)

	s.AddTool(getTool, common.InstrumentedToolHandler(ToolGetSitemap, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			siteURL, feedpath, err := siteAndFeedpath(request)
			if err != nil {
				return nil, err
			}

			client, err := sc.ClientForRequest(ctx)
			if err != nil {
				return nil, err
			}

			sitemap, err := client.GetSitemap(ctx, siteURL, feedpath)
			if err != nil {
				return nil, err
			}
			return common.JSONResult(sitemap)
		}))

	if readOnly {
		return
	}

	submitTool := mcp.NewTool(ToolSubmitSitemap,
		mcp.WithDescription("Submit a sitemap to Google"),
		mcp.WithTitleAnnotation("Submit sitemap"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		siteURLParam(),
		feedpathParam("The sitemap URL to submit"),
	)

	s.AddTool(submitTool, common.InstrumentedToolHandler(ToolSubmitSitemap, instrumentation.OperationSubmit, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			siteURL, feedpath, err := siteAndFeedpath(request)
			if err != nil {
				return nil, err
			}

			client, err := sc.ClientForRequest(ctx)
			if err != nil {
				return nil, err
			}

			result, err := client.SubmitSitemap(ctx, siteURL, feedpath)
			if err != nil {
				return nil, err
			}
			return common.JSONResult(result)
		}))

	deleteTool := mcp.NewTool(ToolDeleteSitemap,
		mcp.WithDescription("Delete a sitemap from Google Search Console"),
		mcp.WithTitleAnnotation("Delete sitemap"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		siteURLParam(),
		feedpathParam("The sitemap URL to delete"),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandler(ToolDeleteSitemap, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			siteURL, feedpath, err := siteAndFeedpath(request)
			if err != nil {
				return nil, err
			}

			client, err := sc.ClientForRequest(ctx)
			if err != nil {
				return nil, err
			}

			result, err := client.DeleteSitemap(ctx, siteURL, feedpath)
			if err != nil {
				return nil, err
			}
			return common.JSONResult(result)
		}))
}
