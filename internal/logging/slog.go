package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
)

// Common log attribute keys.
const (
	KeyOperation = "operation"
	KeyService   = "service"
	KeySite      = "site_url"
	KeyTokenHash = "token_hash"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyCategory  = "category"
	KeyTool      = "tool"
)

// Status values for the status attribute.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// New returns a text slog.Logger writing to w. Debug enables slog.LevelDebug.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Service returns a slog attribute for the service name.
func Service(svc string) slog.Attr {
	return slog.String(KeyService, svc)
}

// Site returns a slog attribute for a Search Console property.
func Site(siteURL string) slog.Attr {
	return slog.String(KeySite, siteURL)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Category returns a slog attribute for an error category.
func Category(category string) slog.Attr {
	return slog.String(KeyCategory, category)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group, which slog omits from output:
//
//	logger.Info("operation", logging.Err(err)) // safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// HashToken returns a short, stable identifier for a bearer token so log
// lines from the same caller can be correlated without exposing the token.
func HashToken(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return "token:" + hex.EncodeToString(hash[:8])
}

// TokenHash returns a slog attribute with the hashed token.
func TokenHash(token string) slog.Attr {
	return slog.String(KeyTokenHash, HashToken(token))
}

// SanitizeToken returns a length indicator for a token. No token content is
// included, not even a prefix.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
