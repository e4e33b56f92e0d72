package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/logging"
	"github.com/teemow/gsc-mcp/internal/searchconsole"
	"github.com/teemow/gsc-mcp/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging.
//
// A Go error returned by handler is turned into an IsError tool result
// carrying the categorized message, so the MCP client always sees a tool
// result rather than a protocol error.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("list_sites", instrumentation.OperationList, sc, handler))
func InstrumentedToolHandler(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		siteURL := request.GetString("site_url", "")

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithService(instrumentation.ServiceSearchConsole).
				WithOperation(operation).
				WithSite(siteURL).
				WithReadOnly(sc.ReadOnly()).
				Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(instrumentation.ServiceSearchConsole, operation).
			WithSite(siteURL).
			WithCaller(Caller(ctx))

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			cerr := searchconsole.Categorize(err)
			status = instrumentation.StatusError
			invocation.CompleteWithError(err, string(cerr.Kind))
			span.SetAttributes(instrumentation.NewSpanAttributeBuilder().WithErrorCategory(string(cerr.Kind)).Build()...)
			instrumentation.SetSpanError(span, cerr)
			sc.Logger().Debug("tool failed",
				logging.Tool(toolName),
				logging.Category(string(cerr.Kind)),
				logging.Err(err))
			result, err = mcp.NewToolResultError(cerr.Message), nil
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			instrumentation.SetSpanError(span, errToolResult)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordToolInvocationWithSite(ctx, toolName, status, siteURL, duration)
		}

		if auditLogger := sc.AuditLogger(); auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
