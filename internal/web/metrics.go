package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the serve-mode instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	windowsTotal  prometheus.Counter
	windowSize    prometheus.Gauge
	renderSeconds prometheus.Histogram
	requestsTotal *prometheus.CounterVec
}

// NewMetrics builds and registers the metric set on its own registry so
// repeated construction (tests, restarts) never collides.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		windowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "envirosense_windows_total",
			Help: "Total count of successfully ingested windows.",
		}),
		windowSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "envirosense_window_readings",
			Help: "Number of readings in the current window.",
		}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "envirosense_chart_render_seconds",
			Help:    "Histogram of chart render durations.",
			Buckets: prometheus.DefBuckets,
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "envirosense_http_requests_total",
			Help: "Total count of HTTP requests by route and status.",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(
		m.windowsTotal,
		m.windowSize,
		m.renderSeconds,
		m.requestsTotal,
	)
	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with per-route request counting.
func (m *Metrics) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

func (m *Metrics) observeRender(start time.Time) {
	m.renderSeconds.Observe(time.Since(start).Seconds())
}
