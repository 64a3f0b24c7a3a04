package evaluator

import (
	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/posture"
)

// Requirement paths as they appear in violation reports. They follow the
// field names of the source data model's PolicyRequirements shape.
const (
	PathDiskEncryption    = "deviceSecurity.diskEncryption"
	PathFirewall          = "deviceSecurity.firewallEnabled"
	PathAntivirus         = "deviceSecurity.antivirusEnabled"
	PathScreenLock        = "deviceSecurity.screenLockEnabled"
	PathMinOSVersion      = "deviceSecurity.minOsVersion" // suffixed with ".<family>"
	PathMFARequired       = "authentication.mfaRequired"
	PathPasswordExpiry    = "authentication.passwordExpiryDays"
	PathFailedLogins      = "authentication.failedLoginAttempts"
	PathVPNRequired       = "networkSecurity.vpnRequired"
	PathRestrictedNetwork = "networkSecurity.restrictedNetworks"
	PathAllowedCountries  = "networkSecurity.allowedCountries"
)

// Outcome is the result of evaluating one requirement against one posture
// record.
type Outcome struct {
	// Path identifies the requirement, e.g. "deviceSecurity.diskEncryption".
	Path string `json:"requirementPath"`

	// Pass reports whether the posture satisfies the requirement.
	Pass bool `json:"pass"`

	// Expected is the value the policy demands.
	Expected interface{} `json:"expected"`

	// Actual is the value the posture reported.
	Actual interface{} `json:"actual"`

	// Reason explains the failure; empty when Pass is true.
	Reason string `json:"reason,omitempty"`
}

// Evaluate runs every requirement of the policy's three groups against the
// posture record, in a fixed order, and returns one Outcome per evaluated
// requirement. Requirements the policy does not impose (a false boolean
// requirement, a zero threshold, an empty list, a missing version floor)
// produce no Outcome.
func Evaluate(rec *posture.Record, req policy.Requirements) []Outcome {
	var outcomes []Outcome
	outcomes = append(outcomes, DeviceSecurity(rec, req.DeviceSecurity)...)
	outcomes = append(outcomes, Authentication(rec, req.Authentication)...)
	outcomes = append(outcomes, NetworkSecurity(rec, req.NetworkSecurity)...)
	return outcomes
}

// Violations filters outcomes down to the failing ones.
func Violations(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.Pass {
			failed = append(failed, o)
		}
	}
	return failed
}

// booleanControl evaluates a required-boolean control: pass iff the control
// is not required or the posture flag is set. The failure reason names the
// missing control.
func booleanControl(path string, required, enabled bool, missing string) (Outcome, bool) {
	if !required {
		return Outcome{}, false
	}
	o := Outcome{Path: path, Pass: enabled, Expected: true, Actual: enabled}
	if !enabled {
		o.Reason = missing
	}
	return o, true
}
