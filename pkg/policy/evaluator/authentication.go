package evaluator

import (
	"fmt"

	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/posture"
)

// Authentication evaluates the authentication requirement group.
//
// The password complexity tier is deliberately absent from the outcomes: no
// posture signal observes actual password strength, so the tier is policy
// metadata only. It is surfaced in the password-age failure reason to
// explain the policy's intent, but it never fails a device on its own.
func Authentication(rec *posture.Record, req policy.AuthenticationRequirements) []Outcome {
	var outcomes []Outcome

	if o, ok := booleanControl(PathMFARequired, req.MFARequired,
		rec.Authentication.MFAEnabled, "multi-factor authentication is not enabled"); ok {
		outcomes = append(outcomes, o)
	}

	if req.PasswordExpiryDays > 0 {
		age := rec.Authentication.PasswordAgeDays
		o := Outcome{
			Path:     PathPasswordExpiry,
			Pass:     age <= req.PasswordExpiryDays,
			Expected: req.PasswordExpiryDays,
			Actual:   age,
		}
		if !o.Pass {
			o.Reason = fmt.Sprintf("password age %d days exceeds the maximum %d days",
				age, req.PasswordExpiryDays)
			if req.PasswordComplexity != "" {
				o.Reason += fmt.Sprintf(" (policy complexity tier: %s)", req.PasswordComplexity)
			}
		}
		outcomes = append(outcomes, o)
	}

	if req.FailedLoginAttempts > 0 {
		failed := rec.Authentication.RecentFailedLogins
		o := Outcome{
			Path:     PathFailedLogins,
			Pass:     failed < req.FailedLoginAttempts,
			Expected: req.FailedLoginAttempts,
			Actual:   failed,
		}
		if !o.Pass {
			o.Reason = fmt.Sprintf("%d recent failed logins reached the threshold of %d",
				failed, req.FailedLoginAttempts)
		}
		outcomes = append(outcomes, o)
	}

	return outcomes
}
