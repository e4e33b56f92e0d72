package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/logging"
)

// errToolResult marks spans of handlers that built their own error result.
var errToolResult = errors.New("tool returned an error result")

// JSONResult renders v as indented JSON text.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Caller identifies the caller for audit records without exposing the
// token: a hash of the request's bearer token, or "server" when the
// server's own credentials are used.
func Caller(ctx context.Context) string {
	if token, ok := google.AccessTokenFromContext(ctx); ok {
		return logging.HashToken(token)
	}
	return "server"
}
