package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics holds the HTTP collectors, registered on their own registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimitHits   *prometheus.CounterVec
}

// NewMetrics creates and registers the HTTP collectors together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devconnect",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "devconnect",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devconnect",
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"path"}),
	}
	m.registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.rateLimitHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe records one completed request.
func (m *Metrics) Observe(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "route": route, "status": strconv.Itoa(status)}
	m.requestTotal.With(labels).Inc()
	m.requestDuration.With(labels).Observe(d.Seconds())
}

// RateLimited records a request rejected by the rate limiter.
func (m *Metrics) RateLimited(path string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(path).Inc()
}
