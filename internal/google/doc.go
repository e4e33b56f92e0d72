// Package google resolves OAuth2 access tokens for the Search Console API.
//
// A TokenProvider hands out one bearer token per call. Four sources are
// supported:
//
//   - StaticTokenProvider: a fixed access token (GSC_ACCESS_TOKEN)
//   - RefreshTokenProvider: a refresh token exchanged against Google's token
//     endpoint with client credentials, cached until expiry
//   - CredentialsFileProvider: an authorized-user or service-account JSON file
//   - ContextTokenProvider: the bearer token an HTTP caller attached to the
//     request context
//
// NewHTTPClient wraps a token in an HTTP/1.1 client suitable for
// google.golang.org/api services.
package google
