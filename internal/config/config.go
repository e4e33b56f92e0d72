// Package config loads the gsc-mcp settings from command-line flags,
// GSC_* environment variables and built-in defaults, in that order of
// precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teemow/gsc-mcp/internal/google"
)

// EnvPrefix is prepended to every setting's environment variable, so
// --http-addr is read from GSC_HTTP_ADDR.
const EnvPrefix = "GSC"

// Transports.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Setting keys. They double as flag names.
const (
	KeyTransport        = "transport"
	KeyHTTPAddr         = "http-addr"
	KeyDebug            = "debug"
	KeyYolo             = "yolo"
	KeyDisableStreaming = "disable-streaming"
	KeyBaseURL          = "base-url"
	KeyMetricsEnabled   = "metrics-enabled"
	KeyMetricsAddr      = "metrics-addr"
	KeyAccessToken      = "access-token"
	KeyCredentialsFile  = "credentials-file"
	KeyClientID         = "client-id"
	KeyClientSecret     = "client-secret"
	KeyRefreshToken     = "refresh-token"
)

// Config holds the settings of the serve and report commands.
type Config struct {
	Transport        string `mapstructure:"transport"`
	HTTPAddr         string `mapstructure:"http-addr"`
	Debug            bool   `mapstructure:"debug"`
	Yolo             bool   `mapstructure:"yolo"`
	DisableStreaming bool   `mapstructure:"disable-streaming"`
	BaseURL          string `mapstructure:"base-url"`

	MetricsEnabled bool   `mapstructure:"metrics-enabled"`
	MetricsAddr    string `mapstructure:"metrics-addr"`

	Credentials Credentials `mapstructure:",squash"`
}

// Credentials selects how Search Console requests are authenticated.
type Credentials struct {
	AccessToken     string `mapstructure:"access-token"`
	CredentialsFile string `mapstructure:"credentials-file"`
	ClientID        string `mapstructure:"client-id"`
	ClientSecret    string `mapstructure:"client-secret"`
	RefreshToken    string `mapstructure:"refresh-token"`
}

// legacyEnv lists additional environment variables honoured for a key,
// checked after the GSC_ prefixed one.
var legacyEnv = map[string][]string{
	KeyBaseURL:         {"MCP_BASE_URL"},
	KeyMetricsEnabled:  {"METRICS_ENABLED"},
	KeyMetricsAddr:     {"METRICS_ADDR"},
	KeyAccessToken:     {"GOOGLE_ACCESS_TOKEN"},
	KeyCredentialsFile: {"GOOGLE_APPLICATION_CREDENTIALS"},
	KeyClientID:        {"GOOGLE_CLIENT_ID"},
	KeyClientSecret:    {"GOOGLE_CLIENT_SECRET"},
	KeyRefreshToken:    {"GOOGLE_REFRESH_TOKEN"},
}

// AddServerFlags registers the flags of the serve command.
func AddServerFlags(fs *pflag.FlagSet) {
	fs.String(KeyTransport, TransportStdio, "Transport type: stdio or streamable-http")
	fs.String(KeyHTTPAddr, ":8080", "HTTP server address (for streamable-http transport)")
	fs.Bool(KeyDebug, false, "Enable debug logging")
	fs.Bool(KeyYolo, false, "Enable write operations (submit/delete sitemaps, add/delete sites). Default is read-only mode.")
	fs.Bool(KeyDisableStreaming, false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	fs.String(KeyBaseURL, "", "Public base URL of the server, used in authentication challenges. Can also use MCP_BASE_URL env var.")
	fs.Bool(KeyMetricsEnabled, true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	fs.String(KeyMetricsAddr, ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")
}

// AddCredentialFlags registers the Google credential flags.
func AddCredentialFlags(fs *pflag.FlagSet) {
	fs.String(KeyAccessToken, "", "Google OAuth access token. Can also use GOOGLE_ACCESS_TOKEN env var.")
	fs.String(KeyCredentialsFile, "", "Path to a service account or authorized user JSON file. Can also use GOOGLE_APPLICATION_CREDENTIALS env var.")
	fs.String(KeyClientID, "", "Google OAuth client ID for refresh token exchange. Can also use GOOGLE_CLIENT_ID env var.")
	fs.String(KeyClientSecret, "", "Google OAuth client secret for refresh token exchange. Can also use GOOGLE_CLIENT_SECRET env var.")
	fs.String(KeyRefreshToken, "", "Google OAuth refresh token. Can also use GOOGLE_REFRESH_TOKEN env var.")
}

// Load resolves the configuration. Flags registered on fs take precedence
// over the environment; keys without a registered flag fall back to the
// environment and then to the defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, names := range legacyEnv {
		envs := append([]string{envName(key)}, names...)
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			if err := v.BindPFlag(f.Name, f); err != nil {
				bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	cfg.Credentials.AccessToken = strings.TrimSpace(cfg.Credentials.AccessToken)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyTransport, TransportStdio)
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyYolo, false)
	v.SetDefault(KeyDisableStreaming, false)
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyMetricsEnabled, true)
	v.SetDefault(KeyMetricsAddr, ":9090")
	v.SetDefault(KeyAccessToken, "")
	v.SetDefault(KeyCredentialsFile, "")
	v.SetDefault(KeyClientID, "")
	v.SetDefault(KeyClientSecret, "")
	v.SetDefault(KeyRefreshToken, "")
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Validate checks the transport settings.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio:
	case TransportStreamableHTTP:
		if c.HTTPAddr == "" {
			return fmt.Errorf("%s is required for the %s transport", KeyHTTPAddr, TransportStreamableHTTP)
		}
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)",
			c.Transport, TransportStdio, TransportStreamableHTTP)
	}
	return nil
}

// ReadOnly reports whether write tools are disabled.
func (c *Config) ReadOnly() bool {
	return !c.Yolo
}

// ResolvedBaseURL returns BaseURL, or a localhost URL derived from
// HTTPAddr when none is configured.
func (c *Config) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	if strings.HasPrefix(c.HTTPAddr, ":") {
		return "http://localhost" + c.HTTPAddr
	}
	return "http://" + c.HTTPAddr
}

// ProviderConfig maps the credentials onto a token provider configuration
// requesting the scopes that match the read-only mode.
func (c *Config) ProviderConfig() google.ProviderConfig {
	return google.ProviderConfig{
		AccessToken:     c.Credentials.AccessToken,
		CredentialsFile: c.Credentials.CredentialsFile,
		ClientID:        c.Credentials.ClientID,
		ClientSecret:    c.Credentials.ClientSecret,
		RefreshToken:    c.Credentials.RefreshToken,
		Scopes:          google.Scopes(c.ReadOnly()),
	}
}
