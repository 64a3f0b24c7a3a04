package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuditMetrics tracks the asynchronous audit recorder.
//
// Metrics:
//   - sentinel_audit_events_recorded_total: events persisted to storage
//   - sentinel_audit_events_dropped_total: events lost to backpressure or errors
//   - sentinel_audit_queue_depth: current recorder queue depth
type AuditMetrics struct {
	recordedTotal prometheus.Counter
	droppedTotal  prometheus.Counter
	queueDepth    prometheus.Gauge
}

// NewAuditMetrics creates and registers audit metrics.
func NewAuditMetrics(registry *prometheus.Registry) *AuditMetrics {
	am := &AuditMetrics{
		recordedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "audit_events_recorded_total",
				Help:      "Total number of audit events persisted to storage",
			},
		),

		droppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "audit_events_dropped_total",
				Help:      "Total number of audit events dropped before persistence",
			},
		),

		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "audit_queue_depth",
				Help:      "Current number of audit events awaiting persistence",
			},
		),
	}

	registry.MustRegister(am.recordedTotal, am.droppedTotal, am.queueDepth)
	return am
}

// RecordEvent records a persisted audit event.
func (am *AuditMetrics) RecordEvent() {
	am.recordedTotal.Inc()
}

// RecordDrop records a lost audit event.
func (am *AuditMetrics) RecordDrop() {
	am.droppedTotal.Inc()
}

// UpdateQueueDepth updates the queue depth gauge.
func (am *AuditMetrics) UpdateQueueDepth(depth int) {
	am.queueDepth.Set(float64(depth))
}
