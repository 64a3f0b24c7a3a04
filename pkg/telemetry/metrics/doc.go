// Package metrics exposes Prometheus metrics for the compliance service.
//
// The Collector owns a private registry and groups metrics by subsystem:
// evaluation outcomes and latency, result cache effectiveness, status
// transitions, policy set reloads, and audit recording. The collector
// implements the evaluation engine's Observer interface so it can be
// installed directly:
//
//	collector := metrics.NewCollector(nil)
//	eng.SetObserver(collector)
//	mux.Handle("/metrics", collector.Handler())
package metrics
