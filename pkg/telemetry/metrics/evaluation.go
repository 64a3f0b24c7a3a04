package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics tracks compliance evaluation outcomes.
//
// Metrics:
//   - sentinel_evaluations_total: evaluations by resulting status
//   - sentinel_evaluation_duration_seconds: evaluation latency
//   - sentinel_cache_hits_total / sentinel_cache_misses_total: result cache
//   - sentinel_status_transitions_total: compliance status changes by edge
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	cacheHitsTotal     prometheus.Counter
	cacheMissesTotal   prometheus.Counter
	transitionsTotal   *prometheus.CounterVec
}

// NewEvaluationMetrics creates and registers evaluation metrics.
func NewEvaluationMetrics(registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "evaluations_total",
				Help:      "Total number of compliance evaluations",
			},
			[]string{"status"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of compliance evaluations in seconds",
				// Evaluations are in-memory and should be fast (< 16ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		cacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of evaluation result cache hits",
			},
		),

		cacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of evaluation result cache misses",
			},
		),

		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "status_transitions_total",
				Help:      "Total number of device compliance status transitions",
			},
			[]string{"from", "to"},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.cacheHitsTotal,
		em.cacheMissesTotal,
		em.transitionsTotal,
	)

	return em
}

// RecordEvaluation records one evaluation and its latency.
func (em *EvaluationMetrics) RecordEvaluation(status string, duration time.Duration) {
	em.evaluationsTotal.WithLabelValues(status).Inc()
	em.evaluationDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a result cache consultation.
func (em *EvaluationMetrics) RecordCacheLookup(hit bool) {
	if hit {
		em.cacheHitsTotal.Inc()
	} else {
		em.cacheMissesTotal.Inc()
	}
}

// RecordTransition records a compliance status change. The from label is
// "none" on a device's first evaluation.
func (em *EvaluationMetrics) RecordTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	em.transitionsTotal.WithLabelValues(from, to).Inc()
}
