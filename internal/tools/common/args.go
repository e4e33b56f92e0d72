package common

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/gsc-mcp/internal/searchconsole"
)

// RequiredString returns a non-empty string argument or a validation error.
func RequiredString(request mcp.CallToolRequest, name string) (string, error) {
	value := strings.TrimSpace(request.GetString(name, ""))
	if value == "" {
		return "", searchconsole.NewValidationError("%s is required", name)
	}
	return value, nil
}

// OptionalString returns a string argument, or def when absent or blank.
func OptionalString(request mcp.CallToolRequest, name, def string) string {
	value := strings.TrimSpace(request.GetString(name, ""))
	if value == "" {
		return def
	}
	return value
}

// OptionalInt returns an integer argument, or def when absent.
func OptionalInt(request mcp.CallToolRequest, name string, def int) int {
	return request.GetInt(name, def)
}

// StringList returns a list argument. Both JSON arrays and comma separated
// strings are accepted; blank entries are dropped.
func StringList(request mcp.CallToolRequest, name string) []string {
	values := request.GetStringSlice(name, nil)
	if len(values) == 0 {
		if joined := request.GetString(name, ""); joined != "" {
			values = strings.Split(joined, ",")
		}
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
