package gsc_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/searchconsole"
	"github.com/teemow/gsc-mcp/internal/server"
	"github.com/teemow/gsc-mcp/internal/tools/common"
)

// siteHandler builds a handler for the tools that take only site_url.
func siteHandler(sc *server.ServerContext, op func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error)) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		siteURL, err := common.RequiredString(request, "site_url")
		if err != nil {
			return nil, err
		}

		client, err := sc.ClientForRequest(ctx)
		if err != nil {
			return nil, err
		}

		result, err := op(ctx, client, siteURL)
		if err != nil {
			return nil, err
		}
		return common.JSONResult(result)
	}
}

func registerSiteTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	listTool := mcp.NewTool(ToolListSites,
		mcp.WithDescription("List all sites in the user's Search Console account with their permission levels"),
		mcp.WithTitleAnnotation("List sites"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(listTool, common.InstrumentedToolHandler(ToolListSites, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := sc.ClientForRequest(ctx)
			if err != nil {
				return nil, err
			}

			result, err := client.ListSites(ctx)
			if err != nil {
				return nil, err
			}
			return common.JSONResult(result)
		}))

	getTool := mcp.NewTool(ToolGetSite,
		mcp.WithDescription("Get information about a specific site, including the caller's permission level"),
		mcp.WithTitleAnnotation("Get site"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		siteURLParam(),
	)

	s.AddTool(getTool, common.InstrumentedToolHandler(ToolGetSite, instrumentation.OperationGet, sc,
		siteHandler(sc, func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error) {
			return c.GetSite(ctx, siteURL)
		})))

	if readOnly {
		return
	}

	addTool := mcp.NewTool(ToolAddSite,
		mcp.WithDescription("Add a site to the Search Console account"),
		mcp.WithTitleAnnotation("Add site"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("site_url",
			mcp.Required(),
			mcp.Description("The site URL to add"),
		),
	)

	s.AddTool(addTool, common.InstrumentedToolHandler(ToolAddSite, instrumentation.OperationAdd, sc,
		siteHandler(sc, func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error) {
			return c.AddSite(ctx, siteURL)
		})))

	deleteTool := mcp.NewTool(ToolDeleteSite,
		mcp.WithDescription("Remove a site from the Search Console account"),
		mcp.WithTitleAnnotation("Delete site"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("site_url",
			mcp.Required(),
			mcp.Description("The site URL to remove"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandler(ToolDeleteSite, instrumentation.OperationDelete, sc,
		siteHandler(sc, func(ctx context.Context, c *searchconsole.Client, siteURL string) (any, error) {
			return c.DeleteSite(ctx, siteURL)
		})))
}
