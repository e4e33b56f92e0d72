package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gsc-mcp/internal/searchconsole"
)

func TestRequiredString(t *testing.T) {
	req := callTool(map[string]any{"site_url": " https://example.com/ ", "blank": "  "})

	got, err := RequiredString(req, "site_url")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got)

	_, err = RequiredString(req, "blank")
	assert.Equal(t, searchconsole.KindValidation, searchconsole.KindOf(err))
	assert.EqualError(t, err, "blank is required")

	_, err = RequiredString(req, "missing")
	assert.EqualError(t, err, "missing is required")
}

func TestOptionalArgs(t *testing.T) {
	req := callTool(map[string]any{"row_limit": float64(500), "search_type": "image"})

	assert.Equal(t, 500, OptionalInt(req, "row_limit", 1000))
	assert.Equal(t, 0, OptionalInt(req, "start_row", 0))
	assert.Equal(t, "image", OptionalString(req, "search_type", ""))
	assert.Equal(t, "en-US", OptionalString(req, "language_code", "en-US"))
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"array", map[string]any{"dimensions": []any{"query", "page"}}, []string{"query", "page"}},
		{"comma separated", map[string]any{"dimensions": "query, device"}, []string{"query", "device"}},
		{"blank entries dropped", map[string]any{"dimensions": []any{"query", " "}}, []string{"query"}},
		{"missing", map[string]any{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StringList(callTool(tt.args), "dimensions"))
		})
	}
}

func TestJSONResult(t *testing.T) {
	result, err := JSONResult(map[string]int{"total": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"total\": 2\n}", resultText(t, result))
}
