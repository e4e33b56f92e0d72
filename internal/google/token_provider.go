package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoToken is returned when a provider has no access token to hand out.
var ErrNoToken = errors.New("no Google access token available")

// TokenProvider supplies OAuth tokens for Google API calls.
type TokenProvider interface {
	// Token returns a valid access token. Implementations may refresh or
	// read the token from ctx.
	Token(ctx context.Context) (*oauth2.Token, error)
}

// Authentication method names reported by Method.
const (
	MethodAccessToken  = "access_token"
	MethodRefreshToken = "refresh_token"
	MethodCredentials  = "credentials_file"
	MethodBearer       = "bearer"
)

// StaticTokenProvider always returns the same access token.
type StaticTokenProvider struct {
	token *oauth2.Token
}

// NewStaticTokenProvider creates a provider for a fixed access token.
func NewStaticTokenProvider(accessToken string) *StaticTokenProvider {
	return &StaticTokenProvider{
		token: &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"},
	}
}

// Token returns the configured token.
func (p *StaticTokenProvider) Token(_ context.Context) (*oauth2.Token, error) {
	if p.token.AccessToken == "" {
		return nil, ErrNoToken
	}
	return p.token, nil
}

// RefreshTokenProvider exchanges a refresh token for access tokens. The
// access token is reused until it expires.
type RefreshTokenProvider struct {
	source oauth2.TokenSource
}

// NewRefreshTokenProvider creates a provider backed by Google's token
// endpoint.
func NewRefreshTokenProvider(ctx context.Context, clientID, clientSecret, refreshToken string, scopes []string) (*RefreshTokenProvider, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("client ID, client secret and refresh token are all required")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}

	return &RefreshTokenProvider{
		source: oauth2.ReuseTokenSource(nil, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})),
	}, nil
}

// Token returns a cached or freshly exchanged access token.
func (p *RefreshTokenProvider) Token(_ context.Context) (*oauth2.Token, error) {
	t, err := p.source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}
	return t, nil
}

// CredentialsFileProvider reads an authorized-user or service-account JSON
// credentials file.
type CredentialsFileProvider struct {
	source oauth2.TokenSource
}

// NewCredentialsFileProvider loads the credentials file at path.
func NewCredentialsFileProvider(ctx context.Context, path string, scopes []string) (*CredentialsFileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return &CredentialsFileProvider{source: creds.TokenSource}, nil
}

// Token returns an access token derived from the credentials.
func (p *CredentialsFileProvider) Token(_ context.Context) (*oauth2.Token, error) {
	t, err := p.source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain token from credentials: %w", err)
	}
	return t, nil
}

type accessTokenKey struct{}

// ContextWithAccessToken returns a context carrying the caller's bearer token.
func ContextWithAccessToken(ctx context.Context, accessToken string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, accessToken)
}

// AccessTokenFromContext returns the bearer token stored by
// ContextWithAccessToken.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok && token != ""
}

// ContextTokenProvider reads the token an HTTP caller attached to the
// request context. Fallback, when set, serves callers without one (stdio).
type ContextTokenProvider struct {
	Fallback TokenProvider
}

// Token returns the request's bearer token.
func (p *ContextTokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	if accessToken, ok := AccessTokenFromContext(ctx); ok {
		return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
	}
	if p.Fallback != nil {
		return p.Fallback.Token(ctx)
	}
	return nil, ErrNoToken
}

// ProviderConfig selects and configures a TokenProvider.
type ProviderConfig struct {
	AccessToken     string
	CredentialsFile string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	Scopes          []string
}

// NewTokenProvider picks a provider from cfg. An access token wins over a
// credentials file, which wins over a refresh token. With nothing
// configured the returned provider fails every call with ErrNoToken; HTTP
// transports wrap it in a ContextTokenProvider.
func NewTokenProvider(ctx context.Context, cfg ProviderConfig) (TokenProvider, string, error) {
	switch {
	case strings.TrimSpace(cfg.AccessToken) != "":
		return NewStaticTokenProvider(strings.TrimSpace(cfg.AccessToken)), MethodAccessToken, nil
	case cfg.CredentialsFile != "":
		p, err := NewCredentialsFileProvider(ctx, cfg.CredentialsFile, cfg.Scopes)
		if err != nil {
			return nil, "", err
		}
		return p, MethodCredentials, nil
	case cfg.RefreshToken != "":
		p, err := NewRefreshTokenProvider(ctx, cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken, cfg.Scopes)
		if err != nil {
			return nil, "", err
		}
		return p, MethodRefreshToken, nil
	default:
		return NewStaticTokenProvider(""), MethodBearer, nil
	}
}
