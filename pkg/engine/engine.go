package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"northgate/sentinel/pkg/audit"
	"northgate/sentinel/pkg/engine/cache"
	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/policy/evaluator"
	"northgate/sentinel/pkg/posture"
)

// PolicyResolver provides the set of policies that apply to a device,
// highest-specificity-first.
type PolicyResolver interface {
	Resolve(ctx context.Context, deviceID string) ([]*policy.Definition, error)
}

// Observer receives engine activity for metrics collection. All methods
// must be cheap and non-blocking.
type Observer interface {
	// EvaluationCompleted is called once per computed or cached result.
	EvaluationCompleted(status Status, duration time.Duration)

	// CacheLookup is called once per cache consultation.
	CacheLookup(hit bool)

	// StatusTransition is called when a device's status changes. The
	// previous status is empty on a device's first evaluation.
	StatusTransition(previous, next Status)
}

type noopObserver struct{}

func (noopObserver) EvaluationCompleted(Status, time.Duration) {}
func (noopObserver) CacheLookup(bool)                          {}
func (noopObserver) StatusTransition(Status, Status)           {}

// Config contains engine configuration.
type Config struct {
	// CacheDisabled turns off result memoization. The engine functions
	// correctly without the cache, only slower.
	CacheDisabled bool

	// CacheSize bounds the number of cached results.
	// Default: cache.DefaultMaxEntries.
	CacheSize int

	// EmitTimeout bounds the audit emit call on a status transition.
	// Default: 2s.
	EmitTimeout time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		CacheSize:   cache.DefaultMaxEntries,
		EmitTimeout: 2 * time.Second,
	}
}

// StatusSource recalls the last recorded status for a device. An emitter
// backed by durable storage can implement it so transition detection
// survives restarts; a device whose status matches its stored history does
// not re-emit after the process comes back up.
type StatusSource interface {
	LastStatus(ctx context.Context, deviceID string) (string, error)
}

// Engine combines policy resolution, requirement evaluation, result
// caching and transition auditing behind a single Evaluate call.
type Engine struct {
	resolver     PolicyResolver
	emitter      audit.Emitter
	statusSource StatusSource
	cache        *cache.ResultCache[*EvaluationResult]
	config       *Config
	logger       *slog.Logger
	observer     Observer

	// lastStatus tracks each device's most recent overall status for
	// transition detection.
	mu         sync.Mutex
	lastStatus map[string]Status
}

// New creates an engine. The resolver is required; emitter may be nil when
// no audit sink is wired.
func New(config *Config, res PolicyResolver, emitter audit.Emitter, logger *slog.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if config.EmitTimeout <= 0 {
		config.EmitTimeout = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		resolver:   res,
		emitter:    emitter,
		config:     config,
		logger:     logger.With("component", "engine"),
		observer:   noopObserver{},
		lastStatus: make(map[string]Status),
	}
	if src, ok := emitter.(StatusSource); ok {
		e.statusSource = src
	}

	if !config.CacheDisabled {
		e.cache = cache.New[*EvaluationResult](config.CacheSize)
	}

	e.logger.Info("compliance engine initialized",
		"cache_enabled", !config.CacheDisabled,
		"cache_size", config.CacheSize,
	)
	return e
}

// SetObserver installs a metrics observer. Call before serving traffic.
func (e *Engine) SetObserver(o Observer) {
	if o != nil {
		e.observer = o
	}
}

// Evaluate resolves the device's applicable policies and evaluates the
// posture record against them.
//
// A malformed posture record yields a NonCompliant result with reason
// "posture unavailable" alongside a KindMalformedPosture error. A failed
// resolver lookup yields no result and a KindResolutionError; it is never
// treated as "no policies apply".
func (e *Engine) Evaluate(ctx context.Context, rec *posture.Record) (*EvaluationResult, error) {
	if err := e.checkPosture(rec); err != nil {
		return failClosedResult(rec), err
	}

	policies, err := e.resolver.Resolve(ctx, rec.DeviceID)
	if err != nil {
		e.logger.Error("policy resolution failed",
			"device_id", rec.DeviceID, "error", err)
		return nil, NewEvaluationError(KindResolutionError, rec.DeviceID, err)
	}

	return e.evaluate(ctx, rec, policies), nil
}

// EvaluateAgainst evaluates the posture record against an explicit policy
// set, bypassing resolution. Inactive and Draft policies in the set are
// excluded from combination.
func (e *Engine) EvaluateAgainst(ctx context.Context, rec *posture.Record, policies []*policy.Definition) (*EvaluationResult, error) {
	if err := e.checkPosture(rec); err != nil {
		return failClosedResult(rec), err
	}
	return e.evaluate(ctx, rec, policies), nil
}

// CacheStats returns cache hit and miss counters; zeros when the cache is
// disabled.
func (e *Engine) CacheStats() (hits, misses uint64) {
	if e.cache == nil {
		return 0, 0
	}
	return e.cache.Stats()
}

// PurgeCache drops every cached result.
func (e *Engine) PurgeCache() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

func (e *Engine) checkPosture(rec *posture.Record) error {
	if rec == nil {
		return NewEvaluationError(KindMalformedPosture, "", nil)
	}
	if err := posture.Validate(rec); err != nil {
		return NewEvaluationError(KindMalformedPosture, rec.DeviceID, err)
	}
	return nil
}

// failClosedResult is the NonCompliant verdict returned alongside a
// malformed-posture error.
func failClosedResult(rec *posture.Record) *EvaluationResult {
	deviceID := ""
	if rec != nil {
		deviceID = rec.DeviceID
	}
	return &EvaluationResult{
		DeviceID:      deviceID,
		OverallStatus: StatusNonCompliant,
		EvaluatedAt:   time.Now().UTC(),
		Reason:        ReasonPostureUnavailable,
		PerPolicy:     []PolicyEvaluation{},
	}
}

// evaluate runs the combination algorithm with cache consultation and
// transition bookkeeping. rec has already been validated.
func (e *Engine) evaluate(ctx context.Context, rec *posture.Record, policies []*policy.Definition) *EvaluationResult {
	start := time.Now()

	active := make([]*policy.Definition, 0, len(policies))
	for _, p := range policies {
		if p.Active() {
			active = append(active, p)
		}
	}

	postureFP := posture.Fingerprint(rec)
	policyFP := policy.SetFingerprint(active)
	key := cache.Key{
		DeviceID:           rec.DeviceID,
		PostureFingerprint: postureFP,
		PolicyFingerprint:  policyFP,
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.observer.CacheLookup(true)
			e.recordTransition(ctx, cached)
			e.observer.EvaluationCompleted(cached.OverallStatus, time.Since(start))
			return cached
		}
		e.observer.CacheLookup(false)
	}

	result := compute(rec, active, postureFP, policyFP)

	if e.cache != nil {
		e.cache.Put(key, result)
	}

	e.recordTransition(ctx, result)
	e.observer.EvaluationCompleted(result.OverallStatus, time.Since(start))

	e.logger.Debug("evaluation completed",
		"device_id", rec.DeviceID,
		"overall_status", result.OverallStatus,
		"active_policies", len(active),
		"violations", len(result.Violations()),
	)

	return result
}

// compute is the pure combination step: evaluate every Active policy in
// full and AND the per-policy statuses. It never short-circuits, so the
// result carries every violated requirement.
func compute(rec *posture.Record, active []*policy.Definition, postureFP, policyFP string) *EvaluationResult {
	result := &EvaluationResult{
		DeviceID:           rec.DeviceID,
		OverallStatus:      StatusCompliant,
		EvaluatedAt:        time.Now().UTC(),
		PerPolicy:          make([]PolicyEvaluation, 0, len(active)),
		PostureFingerprint: postureFP,
		PolicyFingerprint:  policyFP,
	}

	if len(active) == 0 {
		result.OverallStatus = StatusNonCompliant
		result.Reason = ReasonNoActivePolicy
		return result
	}

	for _, pol := range active {
		outcomes := evaluator.Evaluate(rec, pol.Requirements)
		violations := evaluator.Violations(outcomes)
		if violations == nil {
			violations = []evaluator.Outcome{}
		}

		status := StatusCompliant
		if len(violations) > 0 {
			status = StatusNonCompliant
			result.OverallStatus = StatusNonCompliant
		}

		result.PerPolicy = append(result.PerPolicy, PolicyEvaluation{
			PolicyID:      pol.ID,
			PolicyVersion: pol.Version,
			Status:        status,
			Violations:    violations,
		})
	}

	return result
}

// recordTransition updates the device's last-known status and emits an
// audit event when it changed. Unchanged statuses never emit, so a flood
// of identical evaluations produces no alert storm.
func (e *Engine) recordTransition(ctx context.Context, result *EvaluationResult) {
	e.mu.Lock()
	previous, seen := e.lastStatus[result.DeviceID]
	e.mu.Unlock()

	if !seen && e.statusSource != nil {
		// First sight of this device since startup: recall its last
		// recorded status so an unchanged verdict does not re-emit.
		if s, err := e.statusSource.LastStatus(ctx, result.DeviceID); err == nil && s != "" {
			previous, seen = Status(s), true
		}
	}

	e.mu.Lock()
	// A concurrent evaluation may have recorded a status while the lock
	// was released for the recall above.
	if p, ok := e.lastStatus[result.DeviceID]; ok {
		previous, seen = p, true
	}
	if seen && previous == result.OverallStatus {
		e.mu.Unlock()
		return
	}
	e.lastStatus[result.DeviceID] = result.OverallStatus
	e.mu.Unlock()

	e.observer.StatusTransition(previous, result.OverallStatus)

	if e.emitter == nil {
		return
	}

	emitCtx, cancel := context.WithTimeout(ctx, e.config.EmitTimeout)
	defer cancel()

	event := &audit.Event{
		DeviceID:           result.DeviceID,
		PreviousStatus:     string(previous),
		NewStatus:          string(result.OverallStatus),
		EvaluatedAt:        result.EvaluatedAt,
		PostureFingerprint: result.PostureFingerprint,
		PolicyFingerprint:  result.PolicyFingerprint,
		Violations:         violationRecords(result),
	}

	if err := e.emitter.Emit(emitCtx, event); err != nil {
		// The verdict already stands; a dropped event is an audit gap,
		// not an evaluation failure.
		e.logger.Error("failed to emit audit event",
			"device_id", result.DeviceID,
			"new_status", result.OverallStatus,
			"error", err,
		)
	}
}

// violationRecords flattens a result's violations into audit records.
func violationRecords(result *EvaluationResult) []audit.ViolationRecord {
	var records []audit.ViolationRecord
	for _, pe := range result.PerPolicy {
		for _, v := range pe.Violations {
			records = append(records, audit.ViolationRecord{
				PolicyID:        pe.PolicyID,
				PolicyVersion:   pe.PolicyVersion,
				RequirementPath: v.Path,
				Expected:        v.Expected,
				Actual:          v.Actual,
				Reason:          v.Reason,
			})
		}
	}
	return records
}
