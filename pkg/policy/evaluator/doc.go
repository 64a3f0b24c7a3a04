// Package evaluator implements the requirement evaluators: pure functions
// that compare one posture field against one policy requirement and report
// pass or fail with a reason.
//
// Each requirement group (device security, authentication, network security)
// has its own evaluator producing a fixed-order slice of Outcomes. Nothing
// here performs I/O or carries state, every function is deterministic, and
// no evaluator short-circuits: a single evaluation surfaces every violated
// requirement so callers can present complete remediation guidance.
//
// All comparison failures fail closed. A version string that cannot be
// parsed (whether from the posture or from the policy floor) fails the
// requirement; it is never a silent pass.
package evaluator
