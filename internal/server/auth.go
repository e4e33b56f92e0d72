package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/logging"
)

// HeaderGoogleAccessToken carries a Google access token for clients that
// reserve the Authorization header for their own gateway.
const HeaderGoogleAccessToken = "X-Google-Access-Token"

// ErrNoAuthorizationHeader is returned when no Authorization header is provided
var ErrNoAuthorizationHeader = errors.New("no authorization header provided")

// ErrInvalidAuthorizationHeader is returned for anything but a non-empty
// Bearer credential.
var ErrInvalidAuthorizationHeader = errors.New("authorization header must use the Bearer scheme")

// BearerToken extracts the caller's Google access token from r.
// X-Google-Access-Token takes precedence over Authorization.
func BearerToken(r *http.Request) (string, error) {
	if token := strings.TrimSpace(r.Header.Get(HeaderGoogleAccessToken)); token != "" {
		return token, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoAuthorizationHeader
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidAuthorizationHeader
	}
	return token, nil
}

// AuthConfig configures BearerAuthMiddleware.
type AuthConfig struct {
	// Required rejects requests without a token. When false, such requests
	// fall through to the server's own credentials.
	Required bool

	// Realm is advertised in the WWW-Authenticate challenge.
	Realm string

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// BearerAuthMiddleware stores the caller's token in the request context
// for google.ContextTokenProvider. The token is not validated here; Google
// rejects bad tokens and the tool reports an unauthenticated error.
func BearerAuthMiddleware(cfg AuthConfig, next http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	realm := cfg.Realm
	if realm == "" {
		realm = "gsc-mcp"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := BearerToken(r)
		switch {
		case err == nil:
			recordAuth(r, cfg.Metrics, instrumentation.AuthResultSuccess)
			logger.Debug("bearer token accepted", logging.TokenHash(token))
			next.ServeHTTP(w, r.WithContext(google.ContextWithAccessToken(r.Context(), token)))

		case errors.Is(err, ErrNoAuthorizationHeader) && !cfg.Required:
			next.ServeHTTP(w, r)

		case errors.Is(err, ErrNoAuthorizationHeader):
			recordAuth(r, cfg.Metrics, instrumentation.AuthResultMissing)
			writeUnauthorized(w, realm, "", err)

		default:
			recordAuth(r, cfg.Metrics, instrumentation.AuthResultInvalid)
			logger.Debug("rejected authorization header", logging.Err(err))
			writeUnauthorized(w, realm, "invalid_token", err)
		}
	})
}

func recordAuth(r *http.Request, m *instrumentation.Metrics, result string) {
	if m != nil {
		m.RecordAuthRequest(r.Context(), result)
	}
}

func writeUnauthorized(w http.ResponseWriter, realm, code string, err error) {
	challenge := fmt.Sprintf("Bearer realm=%q", realm)
	if code != "" {
		challenge += fmt.Sprintf(", error=%q", code)
	}
	w.Header().Set("WWW-Authenticate", challenge)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
