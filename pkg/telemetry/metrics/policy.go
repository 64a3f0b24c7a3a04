package metrics

import "github.com/prometheus/client_golang/prometheus"

// PolicyMetrics tracks policy set loading.
//
// Metrics:
//   - sentinel_policy_reloads_total: reload attempts by result
//   - sentinel_policies_active: currently loaded Active policies
type PolicyMetrics struct {
	reloadsTotal   *prometheus.CounterVec
	policiesActive prometheus.Gauge
}

// NewPolicyMetrics creates and registers policy metrics.
func NewPolicyMetrics(registry *prometheus.Registry) *PolicyMetrics {
	pm := &PolicyMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "policy_reloads_total",
				Help:      "Total number of policy set reload attempts",
			},
			[]string{"result"},
		),

		policiesActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "policies_active",
				Help:      "Number of Active policies currently loaded",
			},
		),
	}

	registry.MustRegister(pm.reloadsTotal, pm.policiesActive)
	return pm
}

// RecordReload records a reload attempt. The active gauge is only moved on
// success; a failed reload keeps the previous policy set in service.
func (pm *PolicyMetrics) RecordReload(success bool, activeCount int) {
	result := "success"
	if !success {
		result = "failure"
	}
	pm.reloadsTotal.WithLabelValues(result).Inc()
	if success {
		pm.policiesActive.Set(float64(activeCount))
	}
}
