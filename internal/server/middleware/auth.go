package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/pkg/logging"
)

// EditKeyHeader carries the edit key.
const EditKeyHeader = "X-Edit-Key"

// AuthConfig guards the mutating endpoints with a shared edit key.
// Reads stay open so a viewer never needs the key.
type AuthConfig struct {
	Enabled     bool
	Key         string
	HeaderName  string
	PublicPaths []string
}

// DefaultAuthConfig returns a disabled configuration.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		HeaderName:  EditKeyHeader,
		PublicPaths: []string{"/health", "/metrics"},
	}
}

// Auth rejects mutating requests that do not carry the edit key.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	if config.HeaderName == "" {
		config.HeaderName = EditKeyHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || isSafeMethod(r.Method) || isPublicPath(r.URL.Path, config.PublicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			key := extractKey(r, config.HeaderName)
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(config.Key)) != 1 {
				l := logger
				if logging.RequestID(r.Context()) != "" {
					l = logging.FromContext(r.Context())
				}
				l.Warn().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", key != "").
					Msg("Edit rejected")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"data":null,"error":{"code":"UNAUTHORIZED","message":"Invalid or missing edit key","details":"Provide the edit key in the ` + config.HeaderName + ` header"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func isPublicPath(path string, publicPaths []string) bool {
	return slices.Contains(publicPaths, path)
}

// extractKey reads the custom header, then a bearer token.
func extractKey(r *http.Request, header string) string {
	if key := r.Header.Get(header); key != "" {
		return key
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}
