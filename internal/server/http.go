package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/instrumentation"
)

// MCPEndpointPath is where the streamable HTTP transport is mounted.
const MCPEndpointPath = "/mcp"

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	// BaseURL is the public URL of the server, used as the auth realm.
	BaseURL string

	// DisableStreaming answers every request with a single JSON response.
	DisableStreaming bool

	// RequireAuth rejects /mcp requests without a bearer token.
	RequireAuth bool
}

// HTTPServer serves MCP over streamable HTTP next to the health endpoints.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	serverContext *ServerContext
	config        HTTPServerConfig
	health        *HealthChecker
	sessions      *SessionIDManager
	httpServer    *http.Server
}

// NewHTTPServer creates the HTTP transport for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("MCP server is required")
	}
	if sc == nil {
		return nil, fmt.Errorf("server context is required")
	}

	s := &HTTPServer{
		mcpServer:     mcpServer,
		serverContext: sc,
		config:        config,
		health:        NewHealthChecker(sc),
		sessions:      NewSessionIDManager(sc.Logger(), sc.Metrics()),
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// HealthChecker returns the server's health checker.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.health
}

// Handler builds the routes: the MCP endpoint behind bearer auth, and the
// unauthenticated health endpoints.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(MCPEndpointPath),
		mcpserver.WithSessionIdManager(s.sessions),
		mcpserver.WithHTTPContextFunc(accessTokenContext),
	}
	if s.config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer, opts...)

	mux.Handle(MCPEndpointPath, BearerAuthMiddleware(AuthConfig{
		Required: s.config.RequireAuth,
		Realm:    s.config.BaseURL,
		Metrics:  s.serverContext.Metrics(),
		Logger:   s.serverContext.Logger(),
	}, streamable))

	s.health.RegisterHealthEndpoints(mux)

	return HTTPMetricsMiddleware(s.serverContext.Metrics(), mux)
}

// Start listens on addr and blocks until the server stops.
func (s *HTTPServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln and blocks until the server stops.
func (s *HTTPServer) Serve(ln net.Listener) error {
	s.serverContext.Logger().Info("starting HTTP server", "addr", ln.Addr().String(), "endpoint", MCPEndpointPath)
	return s.httpServer.Serve(ln)
}

// Shutdown marks the server not ready and drains connections. It is safe
// to call concurrently with Start.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	s.sessions.Stop()
	return s.httpServer.Shutdown(ctx)
}

// accessTokenContext carries the token stored by BearerAuthMiddleware into
// the context tool handlers receive.
func accessTokenContext(ctx context.Context, r *http.Request) context.Context {
	if token, ok := google.AccessTokenFromContext(r.Context()); ok {
		return google.ContextWithAccessToken(ctx, token)
	}
	return ctx
}

// HTTPMetricsMiddleware records request count and duration per route.
// A nil recorder returns next unchanged.
func HTTPMetricsMiddleware(m *instrumentation.Metrics, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.RecordHTTPRequest(r.Context(), r.Method, routeLabel(r.URL.Path), rec.status, time.Since(start))
	})
}

// routeLabel keeps the path label bounded to the routes this server owns.
func routeLabel(path string) string {
	switch path {
	case MCPEndpointPath, "/health", "/healthz", "/readyz", "/healthz/detailed":
		return path
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE responses streaming through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
