package server

import (
	"net/http"

	"github.com/roomstock/inventory/internal/server/handlers"
	"github.com/roomstock/inventory/internal/server/middleware"
	"github.com/roomstock/inventory/internal/server/response"
)

// Handler returns the configured http.Handler with the middleware chain
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	h := handlers.New(s.engine, s.reload, s.metrics, s.logger)
	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Items
	mux.HandleFunc("GET "+prefix+"/items", h.HandleListItems)
	mux.HandleFunc("POST "+prefix+"/items", h.HandleCreateItem)
	mux.HandleFunc("GET "+prefix+"/items/{id}", h.HandleGetItem)
	mux.HandleFunc("PUT "+prefix+"/items/{id}", h.HandleApplyItem)
	mux.HandleFunc("PATCH "+prefix+"/items/{id}/fields/{field}", h.HandleEditField)
	mux.HandleFunc("POST "+prefix+"/items/{id}/images", h.HandleAddImage)
	mux.HandleFunc("POST "+prefix+"/items/{id}/tags", h.HandleAddTag)
	mux.HandleFunc("GET "+prefix+"/facets", h.HandleFacets)
	mux.HandleFunc("GET "+prefix+"/summary", h.HandleSummary)

	// Local edits
	mux.HandleFunc("GET "+prefix+"/patches", h.HandleExport)
	mux.HandleFunc("DELETE "+prefix+"/patches", h.HandleReset)
	mux.HandleFunc("GET "+prefix+"/patches/{id}", h.HandleGetPatch)
	mux.HandleFunc("POST "+prefix+"/patches/import", h.HandleImport)
	mux.HandleFunc("POST "+prefix+"/save", h.HandleSave)
	mux.HandleFunc("POST "+prefix+"/reload", h.HandleReload)

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "No route for "+r.Method+" "+r.URL.Path, "")
	})
}

// applyMiddleware wraps handler with the middleware chain. Recovery is
// outermost so a panic anywhere still yields an envelope.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID(s.logger),
		middleware.Logger(s.logger),
	}
	if cfg.MetricsEnabled {
		chain = append(chain, s.metrics.Middleware)
	}
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}
	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.Key = cfg.EditKey
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		authConfig.PublicPaths = append(authConfig.PublicPaths, cfg.PathPrefix+"/health")
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	return middleware.Chain(chain...)(handler)
}
