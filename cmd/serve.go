package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gsc-mcp/internal/config"
	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/logging"
	"github.com/teemow/gsc-mcp/internal/prompts"
	"github.com/teemow/gsc-mcp/internal/resources"
	"github.com/teemow/gsc-mcp/internal/server"
	"github.com/teemow/gsc-mcp/internal/tools/gsc_tools"
)

const serverName = "gsc-mcp"

const serverInstructions = `Provides programmatic access to Google Search Console. Capabilities include
querying search analytics, managing sitemaps, inspecting URL indexing status,
and managing sites.

Site URLs are either URL-prefix properties ("https://example.com/") or
domain properties ("sc-domain:example.com"). Search analytics data lags
about three days behind today. CTR values are percentages and positions
are rounded to one decimal.`

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Google Search
Console tools, resources and prompts for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode and requests the
  webmasters.readonly scope. Use --yolo to enable write operations
  (submit_sitemap, delete_sitemap, add_site, delete_site).

Authentication (first match wins):
  --access-token / GOOGLE_ACCESS_TOKEN          a ready OAuth access token
  --credentials-file / GOOGLE_APPLICATION_CREDENTIALS
                                                service account or authorized user JSON
  --refresh-token with --client-id and --client-secret
                                                refresh token exchange
  HTTP transport only: a per-request "Authorization: Bearer <token>" or
  "X-Google-Access-Token" header overrides the configured credentials.
  Without configured credentials every /mcp request must carry a token.

All flags can also be set through GSC_* environment variables
(e.g. GSC_TRANSPORT, GSC_HTTP_ADDR) or a .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	config.AddServerFlags(cmd.Flags())
	config.AddCredentialFlags(cmd.Flags())

	return cmd
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout belongs to the stdio transport, so logs always go to stderr.
	logger := logging.New(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	tokenProvider, authMethod, err := google.NewTokenProvider(shutdownCtx, cfg.ProviderConfig())
	if err != nil {
		return fmt.Errorf("failed to configure Google credentials: %w", err)
	}
	if cfg.Transport == config.TransportStreamableHTTP {
		tokenProvider = &google.ContextTokenProvider{Fallback: tokenProvider}
	}

	serverConfig := server.Config{
		Version:       version,
		TokenProvider: tokenProvider,
		AuthMethod:    authMethod,
		ReadOnly:      cfg.ReadOnly(),
		Logger:        logger,
	}
	if provider.Enabled() {
		serverConfig.Metrics = provider.Metrics()
		serverConfig.AuditLogger = instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)
	}

	serverContext, err := server.NewServerContext(shutdownCtx, serverConfig)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	if cfg.ReadOnly() {
		logger.Info("starting server in read-only mode (use --yolo to enable write operations)",
			"transport", cfg.Transport, "auth", authMethod)
	} else {
		logger.Info("starting server with write operations enabled (--yolo flag is set)",
			"transport", cfg.Transport, "auth", authMethod)
	}

	// Start the appropriate server based on transport type
	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		metricsServer := startMetricsServer(cfg, provider, logger)
		if metricsServer != nil {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(ctx); err != nil {
					logger.Warn("metrics server shutdown failed", logging.Err(err))
				}
			}()
		}
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, authMethod == google.MethodBearer)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

// newMCPServer creates the MCP server and registers every tool, resource
// and prompt.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithPromptCapabilities(false),
		mcpserver.WithInstructions(serverInstructions),
	)

	if err := registerAll(mcpSrv, sc); err != nil {
		return nil, err
	}
	return mcpSrv, nil
}

// registerAll registers all MCP tools, resources and prompts
func registerAll(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type registration struct {
		name     string
		register func() error
	}

	registrations := []registration{
		{
			name: "Search Console tools",
			register: func() error {
				return gsc_tools.RegisterGSCTools(mcpSrv, sc, sc.ReadOnly())
			},
		},
		{
			name: "resources",
			register: func() error {
				return resources.RegisterResources(mcpSrv, sc)
			},
		},
		{
			name: "prompts",
			register: func() error {
				return prompts.RegisterPrompts(mcpSrv)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// startMetricsServer starts the Prometheus endpoint on its own port. It
// returns nil when metrics are disabled or not exported to Prometheus.
func startMetricsServer(cfg *config.Config, provider *instrumentation.Provider, logger *slog.Logger) *server.MetricsServer {
	if !cfg.MetricsEnabled || !provider.Enabled() || provider.MetricsHandler() == nil {
		return nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.MetricsAddr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		logger.Warn("metrics server disabled", logging.Err(err))
		return nil
	}

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", logging.Err(err))
		}
	}()
	return metricsServer
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg *config.Config, requireAuth bool) error {
	baseURL := cfg.ResolvedBaseURL()

	httpServer, err := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{
		BaseURL:          baseURL,
		DisableStreaming: cfg.DisableStreaming,
		RequireAuth:      requireAuth,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	sc.Logger().Info("streamable HTTP server starting",
		"addr", cfg.HTTPAddr,
		"base_url", baseURL,
		"endpoint", server.MCPEndpointPath,
		"health", "/health, /healthz, /readyz",
		"require_auth", requireAuth)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		sc.Logger().Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	sc.Logger().Info("HTTP server gracefully stopped")
	return nil
}
