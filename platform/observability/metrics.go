// Package observability exposes Prometheus metrics for the HTTP server and
// the domain counters the modules increment.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	fallbacks         *prometheus.CounterVec
	leadsCaptured     *prometheus.CounterVec
	pageVisits        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_fallback_total",
			Help: "Aggregate operations answered in-process because the database function was unavailable.",
		}, []string{"operation"}),
		leadsCaptured: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Leads captured by first interaction type.",
		}, []string{"interaction_type"}),
		pageVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telemetry_page_visits_total",
			Help: "Page visit tracking attempts by outcome.",
		}, []string{"recorded"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.fallbacks,
		m.leadsCaptured,
		m.pageVisits,
	)

	return m
}

// Middleware records request count and latency per matched route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) AggregateFallback(operation string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) LeadCaptured(interactionType string) {
	if m == nil {
		return
	}
	m.leadsCaptured.WithLabelValues(interactionType).Inc()
}

func (m *Metrics) PageVisit(recorded bool) {
	if m == nil {
		return
	}
	m.pageVisits.WithLabelValues(strconv.FormatBool(recorded)).Inc()
}
