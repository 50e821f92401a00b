package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultAuthConfig(t *testing.T) {
	config := DefaultAuthConfig()
	assert.False(t, config.Enabled)
	assert.Equal(t, EditKeyHeader, config.HeaderName)
	assert.Contains(t, config.PublicPaths, "/health")
}

func TestAuth(t *testing.T) {
	logger := zerolog.Nop()
	enabled := AuthConfig{Enabled: true, Key: "secret", PublicPaths: []string{"/api/v1/health"}}

	tests := []struct {
		name    string
		config  AuthConfig
		method  string
		path    string
		headers map[string]string
		want    int
	}{
		{"disabled", AuthConfig{Key: "secret"}, "PATCH", "/api/v1/items/A", nil, http.StatusOK},
		{"reads are open", enabled, "GET", "/api/v1/items", nil, http.StatusOK},
		{"public path", enabled, "POST", "/api/v1/health", nil, http.StatusOK},
		{"missing key", enabled, "PATCH", "/api/v1/items/A", nil, http.StatusUnauthorized},
		{"wrong key", enabled, "POST", "/api/v1/items", map[string]string{EditKeyHeader: "nope"}, http.StatusUnauthorized},
		{"edit key header", enabled, "POST", "/api/v1/items", map[string]string{EditKeyHeader: "secret"}, http.StatusOK},
		{"bearer token", enabled, "DELETE", "/api/v1/patches", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Auth(tt.config, &logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}
