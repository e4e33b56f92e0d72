package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/api/option"

	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/logging"
	"github.com/teemow/gsc-mcp/internal/searchconsole"
)

// Config holds the dependencies of a ServerContext.
type Config struct {
	// Version is reported by /health and the gsc://config resource.
	Version string

	// TokenProvider resolves the Google access token for each call.
	TokenProvider google.TokenProvider

	// AuthMethod names the configured credential source.
	AuthMethod string

	// ReadOnly disables write tools and narrows the OAuth scopes.
	ReadOnly bool

	Logger      *slog.Logger
	Metrics     *instrumentation.Metrics
	AuditLogger *instrumentation.AuditLogger

	// ClientOptions are appended to every Search Console client, after the
	// authenticated HTTP client.
	ClientOptions []option.ClientOption
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
	logger *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, cfg Config) (*ServerContext, error) {
	if cfg.TokenProvider == nil {
		return nil, fmt.Errorf("token provider is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Version returns the server version.
func (sc *ServerContext) Version() string {
	return sc.cfg.Version
}

// ReadOnly reports whether write tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.cfg.ReadOnly
}

// AuthMethod returns the configured credential source.
func (sc *ServerContext) AuthMethod() string {
	return sc.cfg.AuthMethod
}

// Scopes returns the OAuth scopes in effect.
func (sc *ServerContext) Scopes() []string {
	return google.Scopes(sc.cfg.ReadOnly)
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.cfg.Metrics
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.cfg.AuditLogger
}

// ClientForRequest builds a Search Console client bound to the token that
// applies to ctx. A token that cannot be resolved fails with an
// unauthenticated error before any API call.
func (sc *ServerContext) ClientForRequest(ctx context.Context) (*searchconsole.Client, error) {
	if sc.IsShutdown() {
		return nil, fmt.Errorf("server is shutting down")
	}

	httpClient, err := google.ResolveHTTPClient(ctx, sc.cfg.TokenProvider)
	if err != nil {
		sc.logger.Debug("failed to resolve Google token", logging.Err(err))
		return nil, searchconsole.NewAuthError(err)
	}

	opts := make([]option.ClientOption, 0, len(sc.cfg.ClientOptions)+1)
	opts = append(opts, option.WithHTTPClient(httpClient))
	opts = append(opts, sc.cfg.ClientOptions...)

	return searchconsole.NewClient(ctx, searchconsole.Config{
		Logger:        logging.NewSlogAdapter(sc.logger),
		Metrics:       sc.cfg.Metrics,
		ClientOptions: opts,
	})
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	google.CloseIdleConnections()
	return nil
}
