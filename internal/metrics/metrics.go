// Package metrics exposes Prometheus collectors for the catalog, book manager and HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "biblioteca"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	CatalogBooks     prometheus.Gauge
	CatalogReloads   *prometheus.CounterVec
	CatalogReloadDur prometheus.Histogram
	ViewSessions     prometheus.Gauge

	BookWrites *prometheus.CounterVec
	Rollbacks  prometheus.Counter

	ContactSubmissions prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	SSEClients   prometheus.GaugeFunc
}

// New registers every collector. clientCount feeds the SSE client gauge and may be nil.
func New(clientCount func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if clientCount == nil {
		clientCount = func() int { return 0 }
	}

	m := &Metrics{
		registry: reg,
		CatalogBooks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "catalog", Name: "books",
			Help: "Books currently loaded in the catalog.",
		}),
		CatalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "catalog", Name: "reloads_total",
			Help: "Catalog loads by outcome.",
		}, []string{"outcome"}),
		CatalogReloadDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "catalog", Name: "reload_duration_seconds",
			Help:    "Time spent fetching and indexing the catalog.",
			Buckets: prometheus.DefBuckets,
		}),
		ViewSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "catalog", Name: "view_sessions",
			Help: "Live catalog view sessions.",
		}),
		BookWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "books", Name: "writes_total",
			Help: "Managed book writes by operation and outcome.",
		}, []string{"op", "outcome"}),
		Rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "books", Name: "rollbacks_total",
			Help: "Optimistic writes undone after an upstream failure.",
		}),
		ContactSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "contact", Name: "submissions_total",
			Help: "Accepted contact form submissions.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SSEClients: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sse", Name: "clients",
			Help: "Connected event stream clients.",
		}, func() float64 { return float64(clientCount()) }),
	}

	reg.MustRegister(
		m.CatalogBooks, m.CatalogReloads, m.CatalogReloadDur, m.ViewSessions,
		m.BookWrites, m.Rollbacks, m.ContactSubmissions,
		m.HTTPRequests, m.HTTPDuration, m.SSEClients,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReload records one catalog load. The Observe methods are no-ops on a nil *Metrics.
func (m *Metrics) ObserveReload(started time.Time, books int, err error) {
	if m == nil {
		return
	}
	m.CatalogReloadDur.Observe(time.Since(started).Seconds())
	if err != nil {
		m.CatalogReloads.WithLabelValues("error").Inc()
		return
	}
	m.CatalogReloads.WithLabelValues("ok").Inc()
	m.CatalogBooks.Set(float64(books))
}

// ObserveBookWrite records a managed book write.
func (m *Metrics) ObserveBookWrite(op string, err error, rolledBack bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.BookWrites.WithLabelValues(op, outcome).Inc()
	if rolledBack {
		m.Rollbacks.Inc()
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveContact records an accepted contact submission.
func (m *Metrics) ObserveContact() {
	if m == nil {
		return
	}
	m.ContactSubmissions.Inc()
}

// SetViewSessions records the number of live view sessions.
func (m *Metrics) SetViewSessions(n int) {
	if m == nil {
		return
	}
	m.ViewSessions.Set(float64(n))
}
