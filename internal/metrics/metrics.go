// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics provides Prometheus metrics for research runs, content
// generation, the archive and the HTTP API. Every recording method is safe
// to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "coin_research"

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Research metrics
	ResearchRuns   prometheus.Counter
	FetchesTotal   *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	ResearchFailed prometheus.Counter

	// Generation metrics
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	// Archive metrics
	ArchiveWrites *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers all metrics on reg under namespace. A nil reg uses a fresh
// registry so that repeated construction in tests never collides.
func New(reg *prometheus.Registry, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	f := promauto.With(reg)

	return &Metrics{
		ResearchRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "research",
			Name:      "runs_total",
			Help:      "Total number of research bundles assembled",
		}),
		FetchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "research",
			Name:      "fetches_total",
			Help:      "Total number of upstream fetches by source and outcome",
		}, []string{"source", "outcome"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "research",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch latency by source",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		ResearchFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "research",
			Name:      "background_failures_total",
			Help:      "Total number of background research runs that could not be archived",
		}),

		GenerationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "generations_total",
			Help:      "Total number of content generations by type and outcome",
		}, []string{"type", "outcome"}),
		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "generation_duration_seconds",
			Help:      "Model call latency by content type",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 90, 120},
		}, []string{"type"}),

		ArchiveWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "writes_total",
			Help:      "Total number of archive writes by backend and outcome",
		}, []string{"backend", "outcome"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		gatherer: reg,
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordResearch counts one assembled bundle.
func (m *Metrics) RecordResearch() {
	if m == nil {
		return
	}
	m.ResearchRuns.Inc()
}

// RecordFetch records one upstream fetch.
func (m *Metrics) RecordFetch(source string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(source, outcome(ok)).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordGeneration counts one content generation. Fallback posts count
// with the fallback outcome.
func (m *Metrics) RecordGeneration(contentType string, fallback bool) {
	if m == nil {
		return
	}
	o := OutcomeOK
	if fallback {
		o = OutcomeFallback
	}
	m.GenerationsTotal.WithLabelValues(contentType, o).Inc()
}

// RecordModelCall observes the latency of one model call. Generations that
// never reach the model are not observed.
func (m *Metrics) RecordModelCall(contentType string, d time.Duration) {
	if m == nil {
		return
	}
	m.GenerationDuration.WithLabelValues(contentType).Observe(d.Seconds())
}

// RecordArchive records one archive write.
func (m *Metrics) RecordArchive(backend string, err error) {
	if m == nil {
		return
	}
	m.ArchiveWrites.WithLabelValues(backend, outcome(err == nil)).Inc()
	if err != nil {
		m.ResearchFailed.Inc()
	}
}

// RecordHTTP records one API request.
func (m *Metrics) RecordHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return OutcomeOK
	}
	return OutcomeError
}
