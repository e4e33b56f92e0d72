package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one MCP tool call for the audit log.
//
// # Privacy Considerations
//
// SiteURL may name properties an operator would rather not spread across
// general logs. LogAttrs only carries the property host; LogAuditAttrs
// carries the full URL and the caller's token hash.
type ToolInvocation struct {
	// Tool name
	Tool string

	// Caller is a hash of the caller's bearer token (see logging.HashToken).
	Caller string

	// Target information
	SiteURL     string
	ServiceName string // Google service (searchconsole)
	Operation   string // Operation type (query, list, get, submit, add, delete, inspect)

	// Execution details
	StartTime     time.Time
	Duration      time.Duration
	Success       bool
	Error         string
	ErrorCategory string

	// Tracing context
	TraceID string
	SpanID  string
}

// SiteHost returns the host portion of SiteURL for lower-cardinality logging.
func (ti *ToolInvocation) SiteHost() string {
	return SiteHost(ti.SiteURL)
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for operational logging. Only the
// property host is included.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.SiteURL != "" {
		attrs = append(attrs, slog.String("site_host", ti.SiteHost()))
	}
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.ErrorCategory != "" {
		attrs = append(attrs, slog.String("category", ti.ErrorCategory))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging, including
// the complete property URL and the caller hash.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Caller != "" {
		attrs = append(attrs, slog.String("caller", ti.Caller))
	}
	if ti.SiteURL != "" {
		attrs = append(attrs, slog.String("site_url", ti.SiteURL))
	}
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.ErrorCategory != "" {
		attrs = append(attrs, slog.String("category", ti.ErrorCategory))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithCaller sets the caller hash.
func (ti *ToolInvocation) WithCaller(caller string) *ToolInvocation {
	ti.Caller = caller
	return ti
}

// WithSite sets the target property.
func (ti *ToolInvocation) WithSite(siteURL string) *ToolInvocation {
	ti.SiteURL = siteURL
	return ti
}

// WithService sets the Google service and operation.
func (ti *ToolInvocation) WithService(serviceName, operation string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Operation = operation
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
// Returns the same ToolInvocation for method chaining.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error
// and category.
func (ti *ToolInvocation) CompleteWithError(err error, category string) *ToolInvocation {
	ti.ErrorCategory = category
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger          *slog.Logger
	includeSiteURLs bool
	enabled         bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// Full property URLs are not logged by default.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:          logger,
		includeSiteURLs: config.IncludeSiteURLs,
		enabled:         config.Enabled,
	}
}

// SetIncludeSiteURLs sets whether full property URLs and caller hashes are logged.
func (al *AuditLogger) SetIncludeSiteURLs(include bool) {
	al.includeSiteURLs = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation logs a tool invocation as "tool_executed" or
// "tool_failed".
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includeSiteURLs {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}
