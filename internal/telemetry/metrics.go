package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики API.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subway_api_http_requests_total",
		Help: "Total HTTP requests handled by subway-api",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "subway_api_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	HTTPRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subway_api_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// Метрики маршрутов.
var (
	RouteAssemblies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subway_route_assemblies_total",
		Help: "Route assemblies by result (ok, invalid)",
	}, []string{"result"})

	RouteStations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "subway_route_stations",
		Help:    "Number of stations in assembled routes",
		Buckets: []float64{0, 2, 5, 10, 20, 50, 100},
	})

	LineEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subway_line_events_published_total",
		Help: "Line change events by type and result",
	}, []string{"type", "result"})
)

// Метрики аудитора.
var (
	AuditRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subway_audit_runs_total",
		Help: "Route audits by trigger (schedule, event)",
	}, []string{"trigger"})

	AuditBrokenLines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "subway_audit_broken_lines",
		Help: "Lines whose sections do not form a single path at the last full audit",
	})
)

// Результаты для RouteAssemblies.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)
