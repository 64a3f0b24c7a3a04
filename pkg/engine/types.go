package engine

import (
	"time"

	"northgate/sentinel/pkg/policy/evaluator"
)

// Status is the binary compliance verdict for a device or a single policy.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non-compliant"
)

// ReasonNoActivePolicy is the overall reason attached when a device has no
// Active policy and the engine fails closed.
const ReasonNoActivePolicy = "no active policy assigned"

// ReasonPostureUnavailable is the overall reason attached when the posture
// record is missing or malformed.
const ReasonPostureUnavailable = "posture unavailable"

// PolicyEvaluation is the outcome of evaluating one policy against one
// posture record.
type PolicyEvaluation struct {
	PolicyID      string `json:"policyId"`
	PolicyVersion int    `json:"policyVersion"`
	Status        Status `json:"status"`

	// Violations lists every failed requirement; empty when the policy
	// passed. Evaluation never stops at the first failure, so the list is
	// complete remediation guidance.
	Violations []evaluator.Outcome `json:"violations"`
}

// EvaluationResult is the engine's verdict for one device at one point in
// time. It is ephemeral; the caller decides whether to persist it.
type EvaluationResult struct {
	DeviceID      string    `json:"deviceId"`
	OverallStatus Status    `json:"overallStatus"`
	EvaluatedAt   time.Time `json:"evaluatedAt"`

	// Reason is set only when the verdict did not come from requirement
	// evaluation, e.g. "no active policy assigned".
	Reason string `json:"reason,omitempty"`

	// PerPolicy holds one entry per applicable Active policy, ordered
	// highest-specificity-first as the resolver returned them. Order
	// affects presentation only, never the overall status.
	PerPolicy []PolicyEvaluation `json:"perPolicy"`

	// PostureFingerprint and PolicyFingerprint identify the exact inputs
	// this result was computed from.
	PostureFingerprint string `json:"postureFingerprint"`
	PolicyFingerprint  string `json:"policyFingerprint"`
}

// Violations flattens every violation across all per-policy entries.
func (r *EvaluationResult) Violations() []evaluator.Outcome {
	var all []evaluator.Outcome
	for _, pe := range r.PerPolicy {
		all = append(all, pe.Violations...)
	}
	return all
}
