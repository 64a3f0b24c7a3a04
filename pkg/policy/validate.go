package policy

import (
	"fmt"

	"northgate/sentinel/pkg/posture"
)

// Validate checks a policy definition for structural problems: missing
// identity, unknown status or scope, non-positive version, min-OS-version
// entries that can never be compared. It returns a *ValidationError listing
// every problem found, or nil.
//
// A malformed min-OS-version floor is reported here so authoring tools can
// reject it early, but the engine also fails that single requirement closed
// at evaluation time, so a bad floor that slips through never passes a
// device silently.
func Validate(d *Definition) error {
	if d == nil {
		return &ValidationError{Problems: []string{"nil policy definition"}}
	}

	var problems []string

	if d.ID == "" {
		problems = append(problems, "id is required")
	}
	if d.Name == "" {
		problems = append(problems, "name is required")
	}
	if d.Version <= 0 {
		problems = append(problems, fmt.Sprintf("version must be a positive integer, got %d", d.Version))
	}
	if !d.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", d.Status))
	}

	switch d.AppliesTo.Kind {
	case ScopeAllDevices:
		if d.AppliesTo.Name != "" {
			problems = append(problems, "all-devices scope must not carry a name")
		}
	case ScopeGroup, ScopeUser:
		if d.AppliesTo.Name == "" {
			problems = append(problems, fmt.Sprintf("%s scope requires a name", d.AppliesTo.Kind))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown scope kind %q", d.AppliesTo.Kind))
	}

	if tier := d.Requirements.Authentication.PasswordComplexity; tier != "" && tier.Rank() < 0 {
		problems = append(problems, fmt.Sprintf("unknown password complexity tier %q", tier))
	}
	if n := d.Requirements.Authentication.PasswordExpiryDays; n < 0 {
		problems = append(problems, fmt.Sprintf("password_expiry_days must be >= 0, got %d", n))
	}
	if n := d.Requirements.Authentication.FailedLoginAttempts; n < 0 {
		problems = append(problems, fmt.Sprintf("failed_login_attempts must be >= 0, got %d", n))
	}

	for family, floor := range d.Requirements.DeviceSecurity.MinOSVersion {
		if !family.Valid() {
			problems = append(problems, fmt.Sprintf("min_os_version: unknown os family %q", family))
		}
		if _, err := posture.CompareVersions(floor, floor); err != nil {
			problems = append(problems, fmt.Sprintf("min_os_version[%s]: %v", family, err))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{PolicyID: d.ID, Problems: problems}
	}
	return nil
}
