// Package metrics exposes Prometheus instrumentation for roastz.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roastz"

// Roast outcomes recorded by ObserveRoast.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidInput    = "invalid_input"
	OutcomeNotFound        = "not_found"
	OutcomeGitHubError     = "github_error"
	OutcomeGenerationError = "generation_error"
	OutcomeTimeout         = "timeout"
	OutcomeCanceled        = "canceled"
	OutcomeRateLimited     = "rate_limited"
	OutcomeInternalError   = "internal_error"
)

// Metrics owns a private registry so tests and multiple servers never collide
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	roasts        *prometheus.CounterVec
	roastDuration prometheus.Histogram
	totalRoasts   prometheus.Gauge

	githubRequests *prometheus.CounterVec
	githubDuration *prometheus.HistogramVec
}

// New registers all roastz collectors plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		roasts: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roasts_total",
			Help:      "Roast requests by outcome.",
		}, []string{"outcome"}),
		roastDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "roast_duration_seconds",
			Help:      "End-to-end roast pipeline latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		totalRoasts: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_roasts",
			Help:      "Last observed value of the persistent roast counter.",
		}),
		githubRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "github_requests_total",
			Help:      "Requests sent to the GitHub API.",
		}, []string{"code", "method"}),
		githubDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "github_request_duration_seconds",
			Help:      "GitHub API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
}

// ObserveRoast records one finished roast request. Only successful roasts
// contribute to the latency histogram.
func (m *Metrics) ObserveRoast(outcome string, elapsed time.Duration) {
	m.roasts.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.roastDuration.Observe(elapsed.Seconds())
	}
}

// SetTotalRoasts publishes the persistent counter value.
func (m *Metrics) SetTotalRoasts(n int64) {
	m.totalRoasts.Set(float64(n))
}

// InstrumentTransport wraps next so every GitHub call is counted and timed.
// A nil next means http.DefaultTransport.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.githubRequests,
		promhttp.InstrumentRoundTripperDuration(m.githubDuration, next))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
