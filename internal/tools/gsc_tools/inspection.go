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

func registerInspectionTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	inspectTool := mcp.NewTool(ToolInspectURL,
		mcp.WithDescription("Inspect the Google index status of a specific URL: coverage, indexing issues, mobile usability and rich results"),
		mcp.WithTitleAnnotation("Inspect URL"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("inspection_url",
			mcp.Required(),
			mcp.Description("The fully qualified URL to inspect"),
		),
		mcp.WithString("site_url",
			mcp.Required(),
			mcp.Description("The site URL that owns the inspection URL"),
		),
		mcp.WithString("language_code",
			mcp.Description("Language for translated issue messages (default: en-US)"),
			mcp.DefaultString(searchconsole.DefaultLanguageCode),
		),
	)

	s.AddTool(inspectTool, common.InstrumentedToolHandler(ToolInspectURL, instrumentation.OperationInspect, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			inspectionURL, err := common.RequiredString(request, "inspection_url")
			if err != nil {
				return nil, err
			}
			siteURL, err := common.RequiredString(request, "site_url")
			if err != nil {
				return nil, err
			}
			languageCode := common.OptionalString(request, "language_code", searchconsole.DefaultLanguageCode)

			client, err := sc.ClientForRequest(ctx)
			if err != nil {
				return nil, err
			}

			result, err := client.InspectURL(ctx, inspectionURL, siteURL, languageCode)
			if err != nil {
				return nil, err
			}
			return common.JSONResult(result)
		}))
}
