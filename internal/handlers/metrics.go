package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec
	taskEvents *prometheus.CounterVec
}

// NewMetrics registers the HTTP and domain collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_http_requests_total",
				Help: "Total HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todo_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_auth_events_total",
				Help: "Registrations, logins and logouts by outcome",
			},
			[]string{"action", "outcome"},
		),
		taskEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_task_events_total",
				Help: "Task creations and toggles by outcome",
			},
			[]string{"action", "outcome"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.authEvents, m.taskEvents)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) AuthEvent(action, outcome string) {
	m.authEvents.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) TaskEvent(action, outcome string) {
	m.taskEvents.WithLabelValues(action, outcome).Inc()
}

// Instrument records count and latency per route pattern, so task ids
// do not end up as label values.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status())).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
