package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/gsc-mcp/internal/google"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
		wantErr error
	}{
		{
			name:    "bearer",
			headers: map[string]string{"Authorization": "Bearer ya29.abc"},
			want:    "ya29.abc",
		},
		{
			name:    "scheme is case insensitive",
			headers: map[string]string{"Authorization": "bearer ya29.abc"},
			want:    "ya29.abc",
		},
		{
			name: "google header wins",
			headers: map[string]string{
				"Authorization":         "Bearer gateway-token",
				HeaderGoogleAccessToken: "ya29.google",
			},
			want: "ya29.google",
		},
		{
			name:    "missing",
			wantErr: ErrNoAuthorizationHeader,
		},
		{
			name:    "basic scheme",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			wantErr: ErrInvalidAuthorizationHeader,
		},
		{
			name:    "empty bearer",
			headers: map[string]string{"Authorization": "Bearer   "},
			wantErr: ErrInvalidAuthorizationHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			got, err := BearerToken(r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBearerAuthMiddleware(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = google.AccessTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name          string
		required      bool
		authorization string
		wantStatus    int
		wantToken     string
		wantChallenge string
	}{
		{
			name:          "token stored in context",
			required:      true,
			authorization: "Bearer ya29.abc",
			wantStatus:    http.StatusNoContent,
			wantToken:     "ya29.abc",
		},
		{
			name:          "missing token rejected",
			required:      true,
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: `Bearer realm="https://gsc.example.com"`,
		},
		{
			name:       "missing token allowed",
			required:   false,
			wantStatus: http.StatusNoContent,
		},
		{
			name:          "malformed header rejected even when optional",
			required:      false,
			authorization: "Token abc",
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: `Bearer realm="https://gsc.example.com", error="invalid_token"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			h := BearerAuthMiddleware(AuthConfig{Required: tt.required, Realm: "https://gsc.example.com"}, next)

			r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.authorization != "" {
				r.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantToken, seen)
			assert.Equal(t, tt.wantChallenge, rec.Header().Get("WWW-Authenticate"))
		})
	}
}
