package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomstock/inventory/pkg/logging"
)

func TestChain_ExecutionOrder(t *testing.T) {
	var log []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log = append(log, "start-"+name)
				next.ServeHTTP(w, r)
				log = append(log, "end-"+name)
			})
		}
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log = append(log, "handler")
	})

	Chain(mw("1"), mw("2"))(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"start-1", "start-2", "handler", "end-2", "end-1"}, log)
}

func TestChain_Empty(t *testing.T) {
	called := false
	h := Chain()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.True(t, called)
}

func TestRequestID(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("mints a uuid", func(t *testing.T) {
		var seen string
		h := RequestID(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logging.RequestID(r.Context())
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses the caller's id", func(t *testing.T) {
		var seen string
		h := RequestID(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logging.RequestID(r.Context())
		}))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		level  string
	}{
		{"list", "GET", "/api/v1/items", http.StatusOK, "info"},
		{"create", "POST", "/api/v1/items", http.StatusCreated, "info"},
		{"unknown item", "GET", "/api/v1/items/X", http.StatusNotFound, "info"},
		{"failure", "POST", "/api/v1/save", http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			h := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "192.168.1.1:12345", entry["remote_addr"])
			assert.Contains(t, entry, "duration_ms")
		})
	}
}

func TestLogger_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := Chain(RequestID(&logger), Logger(&logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-7", entry["request_id"])
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name     string
		panics   bool
		status   int
		loggedIt bool
	}{
		{"normal execution", false, http.StatusOK, false},
		{"panic", true, http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			h := Recovery(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.panics {
					panic("boom")
				}
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.loggedIt, bytes.Contains(buf.Bytes(), []byte("Panic recovered")))
			if tt.panics {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Nil(t, body["data"])
				assert.Equal(t, "INTERNAL_ERROR", body["error"].(map[string]any)["code"])
			}
		})
	}
}
