package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the OctoFit API.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	RateLimitRejectionsTotal prometheus.Counter

	// Leaderboard recompute.
	RecomputesTotal   *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	LeaderboardRows   *prometheus.GaugeVec

	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "octofit_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"resource", "method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "octofit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "octofit_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"resource", "method", "path_pattern"}),

		RateLimitRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "octofit_ratelimit_rejections_total",
			Help: "Total number of requests rejected by the per-client rate limit.",
		}),

		RecomputesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "octofit_leaderboard_recomputes_total",
			Help: "Total number of leaderboard recomputes.",
		}, []string{"status"}),

		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "octofit_leaderboard_recompute_duration_seconds",
			Help:    "Duration of leaderboard recomputes in seconds.",
			Buckets: prometheus.DefBuckets,
		}),

		LeaderboardRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "octofit_leaderboard_rows",
			Help: "Rows written by the last successful recompute, by entry type.",
		}, []string{"type"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "octofit_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.RateLimitRejectionsTotal,
		m.RecomputesTotal,
		m.RecomputeDuration,
		m.LeaderboardRows,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(resource, method, pattern string, status, bytes int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(resource, method, pattern, fmt.Sprintf("%d", status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(resource, method, pattern).Observe(elapsed.Seconds())
	m.HTTPResponseSize.WithLabelValues(resource, method, pattern).Observe(float64(bytes))
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection() {
	m.RateLimitRejectionsTotal.Inc()
}

// ObserveRecompute records a recompute attempt. Row gauges only move on
// success, so they always describe the stored snapshot.
func (m *Metrics) ObserveRecompute(users, teams int, elapsed time.Duration, err error) {
	m.RecomputeDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.RecomputesTotal.WithLabelValues("error").Inc()
		return
	}
	m.RecomputesTotal.WithLabelValues("success").Inc()
	m.LeaderboardRows.WithLabelValues("user").Set(float64(users))
	m.LeaderboardRows.WithLabelValues("team").Set(float64(teams))
}
