// Package metrics exposes the crawler's Prometheus instruments.
//
// Each Metrics value owns its registry so a process can serve it on /metrics
// and push it to a Pushgateway after a one-shot run.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "compcal"
	pushJob   = "compcal_crawler"
)

// Run results used as the "result" label of runs_total
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the crawler instruments
type Metrics struct {
	registry *prometheus.Registry

	fetched   prometheus.Counter
	persisted prometheus.Counter
	fallbacks prometheus.Counter
	skipped   prometheus.Counter
	runs      *prometheus.CounterVec
	duration  prometheus.Histogram

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the instruments and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.fetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "competitions_fetched_total",
		Help:      "Competitions returned by the WCA API",
	})
	m.persisted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "competitions_persisted_total",
		Help:      "Competition records written to the store",
	})
	m.fallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrich_fallbacks_total",
		Help:      "Competitions stored with the raw record in place of the registration window",
	})
	m.skipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrich_skipped_total",
		Help:      "Competitions skipped because enrichment failed",
	})
	m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Crawler runs by result",
	}, []string{"result"})
	m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a crawler run",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served by route and status",
	}, []string{"route", "status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	m.registry.MustRegister(
		m.fetched, m.persisted, m.fallbacks, m.skipped,
		m.runs, m.duration,
		m.requests, m.requestDuration,
	)
	return m
}

// Registry returns the registry holding the instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Fetched(n int) {
	m.fetched.Add(float64(n))
}

func (m *Metrics) Persisted() {
	m.persisted.Inc()
}

func (m *Metrics) Fallback() {
	m.fallbacks.Inc()
}

func (m *Metrics) Skipped() {
	m.skipped.Inc()
}

// ObserveRun records the result and duration of a finished run.
func (m *Metrics) ObserveRun(err error, elapsed time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.runs.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request. route is the matched route
// pattern, not the raw path, so label cardinality stays bounded.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Push sends the registry to a Pushgateway, replacing the job's previous group.
func (m *Metrics) Push(ctx context.Context, gatewayURL string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, pushJob).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
