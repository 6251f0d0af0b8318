package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the annotation engine.
type Metrics struct {
	transformsTotal   *prometheus.CounterVec
	transformDuration prometheus.Histogram
	anchorsInserted   prometheus.Counter
	matchesSkipped    *prometheus.CounterVec
	rulesSkipped      prometheus.Counter

	auditsTotal   *prometheus.CounterVec
	auditDuration prometheus.Histogram
	auditMatches  prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a metrics instance with its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		transformsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkweaver_transforms_total",
				Help: "Total number of transform calls by status",
			},
			[]string{"status"},
		),

		transformDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "linkweaver_transform_duration_seconds",
				Help:    "Transform call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		anchorsInserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "linkweaver_anchors_inserted_total",
				Help: "Total number of anchors inserted by transforms",
			},
		),

		matchesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkweaver_matches_skipped_total",
				Help: "Total number of matches skipped by reason (overlap, boundary, limit)",
			},
			[]string{"reason"},
		),

		rulesSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "linkweaver_rules_skipped_total",
				Help: "Total number of rules skipped due to pattern failures",
			},
		),

		auditsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkweaver_audits_total",
				Help: "Total number of audit calls by status",
			},
			[]string{"status"},
		),

		auditDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "linkweaver_audit_duration_seconds",
				Help:    "Audit call latency in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30},
			},
		),

		auditMatches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "linkweaver_audit_matches_total",
				Help: "Total number of keyword matches counted by audits",
			},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.transformsTotal,
		m.transformDuration,
		m.anchorsInserted,
		m.matchesSkipped,
		m.rulesSkipped,
		m.auditsTotal,
		m.auditDuration,
		m.auditMatches,
	)

	return m
}

// RecordTransform records a completed transform call.
func (m *Metrics) RecordTransform(status string, duration time.Duration, anchors, skippedOverlap, skippedBoundary, skippedLimit, rulesSkipped int) {
	m.transformsTotal.WithLabelValues(status).Inc()
	m.transformDuration.Observe(duration.Seconds())
	m.anchorsInserted.Add(float64(anchors))
	m.matchesSkipped.WithLabelValues("overlap").Add(float64(skippedOverlap))
	m.matchesSkipped.WithLabelValues("boundary").Add(float64(skippedBoundary))
	m.matchesSkipped.WithLabelValues("limit").Add(float64(skippedLimit))
	m.rulesSkipped.Add(float64(rulesSkipped))
}

// RecordAudit records a completed audit call.
func (m *Metrics) RecordAudit(status string, duration time.Duration, matches int) {
	m.auditsTotal.WithLabelValues(status).Inc()
	m.auditDuration.Observe(duration.Seconds())
	m.auditMatches.Add(float64(matches))
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
