// Package metrics exposes Prometheus counters for the inventory API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	registry *prometheus.Registry

	Requests *prometheus.CounterVec
	Edits    *prometheus.CounterVec
	Imports  *prometheus.CounterVec
	Exports  prometheus.Counter
	Patches  prometheus.Gauge
	Items    prometheus.Gauge
}

// New creates and registers the collectors on a private registry so
// several servers can live in one process (tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		Edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "edits_total",
			Help:      "Successful record mutations by operation.",
		}, []string{"op"}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "imports_total",
			Help:      "Updates-file imports by outcome.",
		}, []string{"outcome"}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "exports_total",
			Help:      "Updates-file exports.",
		}),
		Patches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "patches",
			Help:      "Records with local edits.",
		}),
		Items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "items",
			Help:      "Effective records.",
		}),
	}
	reg.MustRegister(m.Requests, m.Edits, m.Imports, m.Exports, m.Patches, m.Items)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe counts a finished request.
func (m *Metrics) Observe(method string, code int) {
	m.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Middleware counts every request passing through it.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.Observe(r.Method, rec.code)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}
