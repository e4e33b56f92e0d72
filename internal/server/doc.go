// Package server provides the MCP server context, HTTP transport and
// operational endpoints for gsc-mcp.
//
// # Key Components
//
// ServerContext holds the credential provider and observability hooks and
// builds a Search Console client per request with ClientForRequest.
//
// HTTPServer mounts the streamable HTTP transport at /mcp behind
// BearerAuthMiddleware, which copies the caller's Google access token
// (Authorization: Bearer or X-Google-Access-Token) into the request
// context. SessionIDManager issues UUID session IDs and expires idle ones.
//
// HealthChecker serves /health, /healthz, /readyz and /healthz/detailed.
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
