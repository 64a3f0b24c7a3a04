// Package engine implements the compliance evaluation engine. It
// orchestrates policy resolution and requirement evaluation, combines
// per-policy outcomes into a single EvaluationResult under a fail-closed
// rule, memoizes results in a fingerprint-keyed LRU cache, and emits an
// audit event whenever a device's compliance status transitions.
//
// The engine holds no long-lived state beyond the result cache and the
// per-device last-known status used for transition detection. Posture
// records and policy definitions are owned by external systems and are
// only read here.
//
// # Basic Usage
//
//	eng := engine.New(&engine.Config{}, res, emitter, logger)
//
//	result, err := eng.Evaluate(ctx, record)
//	if err != nil {
//	    var evalErr *engine.EvaluationError
//	    if errors.As(err, &evalErr) && evalErr.Kind == engine.KindResolutionError {
//	        // directory outage: infrastructure failure, not a compliance verdict
//	    }
//	}
//
// Evaluation is safe for concurrent use across devices. Concurrent calls
// for the same device and identical inputs may recompute redundantly;
// evaluation is pure, so both computations produce the same result and
// the cache converges.
package engine
