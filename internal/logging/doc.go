// Package logging provides structured logging helpers for gsc-mcp.
//
// Logging goes through the standard library's slog package. Components that
// log on behalf of an operation receive an explicit Logger; NopLogger is
// available for callers that do not want output.
//
// # Usage Patterns
//
//	logger := logging.WithOperation(slog.Default(), "searchanalytics.query")
//	logger.Info("query completed",
//	    logging.Site("https://example.com/"),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// Bearer tokens are never logged. Use TokenHash to correlate requests from
// the same caller and SanitizeToken to log only a length indicator.
//
// In stdio mode stdout carries the MCP protocol, so loggers must write to
// stderr.
package logging
