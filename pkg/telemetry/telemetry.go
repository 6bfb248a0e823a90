// Package telemetry exposes Prometheus metrics for profile fetches.
//
// A nil *Collector is valid and records nothing, so components can take one
// unconditionally.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes besides error types
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
)

// Collector owns a private registry with the fetch metrics
type Collector struct {
	registry      *prometheus.Registry
	fetchesTotal  *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	postsTotal    prometheus.Counter
}

// New creates a Collector with Go and process collectors registered
func New() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		fetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "igprofiler_profile_fetches_total",
			Help: "Profile fetches by outcome.",
		}, []string{"outcome"}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "igprofiler_fetch_duration_seconds",
			Help:    "Latency of profile fetches, including parsing.",
			Buckets: prometheus.DefBuckets,
		}),
		postsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "igprofiler_posts_resolved_total",
			Help: "Recent posts extracted across all profiles.",
		}),
	}
}

// ObserveFetch records one fetch with its outcome and duration
func (c *Collector) ObserveFetch(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.fetchesTotal.WithLabelValues(outcome).Inc()
	c.fetchDuration.Observe(d.Seconds())
}

// AddPosts counts resolved posts
func (c *Collector) AddPosts(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.postsTotal.Add(float64(n))
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
