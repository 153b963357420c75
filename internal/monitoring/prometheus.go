// Package monitoring exposes Prometheus metrics for the HTTP surface and
// the fetch pipeline.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	apiErrorsTotal      *prometheus.CounterVec

	fetchAttemptsTotal  *prometheus.CounterVec
	pointsDroppedTotal  *prometheus.CounterVec
	duplicateHoursTotal *prometheus.CounterVec
	degradedDaysTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics. A nil registerer uses the
// default registry; tests pass their own.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		apiErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"endpoint", "error_type"},
		),
		fetchAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayahead_fetch_attempts_total",
				Help: "Day fetch attempts by outcome",
			},
			[]string{"zone", "outcome"},
		),
		pointsDroppedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayahead_points_dropped_total",
				Help: "Malformed points dropped during normalization",
			},
			[]string{"zone"},
		),
		duplicateHoursTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayahead_duplicate_hours_total",
				Help: "Hour slots discarded in favour of a cheaper duplicate",
			},
			[]string{"zone"},
		),
		degradedDaysTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayahead_degraded_days_total",
				Help: "Days built from a fallback series instead of a strict match",
			},
			[]string{"zone"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.apiErrorsTotal,
		m.fetchAttemptsTotal,
		m.pointsDroppedTotal,
		m.duplicateHoursTotal,
		m.degradedDaysTotal,
	)

	return m
}

// MetricsMiddleware creates a Prometheus metrics middleware
func (m *Metrics) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)

		if c.Writer.Status() >= 400 {
			errorType := "client_error"
			if c.Writer.Status() >= 500 {
				errorType = "server_error"
			}
			m.apiErrorsTotal.WithLabelValues(path, errorType).Inc()
		}
	}
}

// RecordFetch records one day fetch attempt and its outcome.
func (m *Metrics) RecordFetch(zone, outcome string) {
	m.fetchAttemptsTotal.WithLabelValues(zone, outcome).Inc()
}

// RecordDay records the normalization tallies of a successfully built day.
func (m *Metrics) RecordDay(zone string, dropped, duplicates int, degraded bool) {
	if dropped > 0 {
		m.pointsDroppedTotal.WithLabelValues(zone).Add(float64(dropped))
	}
	if duplicates > 0 {
		m.duplicateHoursTotal.WithLabelValues(zone).Add(float64(duplicates))
	}
	if degraded {
		m.degradedDaysTotal.WithLabelValues(zone).Inc()
	}
}

// PrometheusHandler returns the Prometheus metrics handler
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
