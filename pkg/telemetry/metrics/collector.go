package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"northgate/sentinel/pkg/engine"
)

// Namespace is the prefix for all metrics exposed by the service.
const Namespace = "sentinel"

// Collector owns the Prometheus registry and all metric groups for the
// service. It implements engine.Observer so evaluation metrics flow from
// the engine without the engine importing Prometheus.
type Collector struct {
	registry *prometheus.Registry

	evaluations *EvaluationMetrics
	policies    *PolicyMetrics
	audit       *AuditMetrics
}

var _ engine.Observer = (*Collector)(nil)

// NewCollector creates a metrics collector. If registry is nil, a private
// registry is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Collector{
		registry:    registry,
		evaluations: NewEvaluationMetrics(registry),
		policies:    NewPolicyMetrics(registry),
		audit:       NewAuditMetrics(registry),
	}
}

// EvaluationCompleted records one finished evaluation, cached or computed.
func (c *Collector) EvaluationCompleted(status engine.Status, duration time.Duration) {
	c.evaluations.RecordEvaluation(string(status), duration)
}

// CacheLookup records a result cache consultation.
func (c *Collector) CacheLookup(hit bool) {
	c.evaluations.RecordCacheLookup(hit)
}

// StatusTransition records a device compliance status change.
func (c *Collector) StatusTransition(previous, next engine.Status) {
	c.evaluations.RecordTransition(string(previous), string(next))
}

// PolicyReload records the outcome of a policy set reload.
func (c *Collector) PolicyReload(success bool, activeCount int) {
	c.policies.RecordReload(success, activeCount)
}

// AuditEventRecorded records a persisted audit event.
func (c *Collector) AuditEventRecorded() {
	c.audit.RecordEvent()
}

// AuditEventDropped records an audit event lost to a full queue or a
// storage failure.
func (c *Collector) AuditEventDropped() {
	c.audit.RecordDrop()
}

// UpdateAuditQueueDepth updates the audit recorder queue depth gauge.
func (c *Collector) UpdateAuditQueueDepth(depth int) {
	c.audit.UpdateQueueDepth(depth)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
