// Package health provides liveness and readiness probes for the service.
//
// The Checker aggregates named component checks. Liveness is a constant
// "process is up" signal; readiness runs every registered check with a
// bounded timeout and degrades to 503 when any component is unhealthy.
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("audit_storage", func(ctx context.Context) error {
//	    return storage.Ping(ctx)
//	})
//	mux.HandleFunc("/health", checker.LivenessHandler())
//	mux.HandleFunc("/ready", checker.ReadinessHandler())
package health
