package evaluator

import (
	"errors"
	"fmt"

	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/posture"
)

// DeviceSecurity evaluates the device security requirement group: the four
// boolean controls and the per-family minimum OS version floor.
func DeviceSecurity(rec *posture.Record, req policy.DeviceSecurityRequirements) []Outcome {
	var outcomes []Outcome

	checks := []struct {
		path     string
		required bool
		enabled  bool
		missing  string
	}{
		{PathDiskEncryption, req.DiskEncryption, rec.DiskEncryptionEnabled, "disk encryption is not enabled"},
		{PathFirewall, req.FirewallEnabled, rec.FirewallEnabled, "firewall is not enabled"},
		{PathAntivirus, req.AntivirusEnabled, rec.AntivirusEnabled, "antivirus is not enabled"},
		{PathScreenLock, req.ScreenLockEnabled, rec.ScreenLockEnabled, "screen lock is not enabled"},
	}
	for _, c := range checks {
		if o, ok := booleanControl(c.path, c.required, c.enabled, c.missing); ok {
			outcomes = append(outcomes, o)
		}
	}

	if o, ok := minOSVersion(rec, req.MinOSVersion); ok {
		outcomes = append(outcomes, o)
	}

	return outcomes
}

// minOSVersion evaluates the version floor for the posture's OS family.
// A family without a configured floor imposes nothing. A malformed version
// on either side fails closed: an unparseable posture version is reported
// as such, and an unparseable policy floor fails this requirement without
// touching the rest of the policy.
func minOSVersion(rec *posture.Record, floors map[posture.OSFamily]string) (Outcome, bool) {
	floor, ok := floors[rec.OS.Family]
	if !ok || floor == "" {
		return Outcome{}, false
	}

	path := fmt.Sprintf("%s.%s", PathMinOSVersion, rec.OS.Family)
	o := Outcome{Path: path, Expected: floor, Actual: rec.OS.Version}

	cmp, err := posture.CompareVersions(rec.OS.Version, floor)
	if err != nil {
		var parseErr *posture.VersionParseError
		if errors.As(err, &parseErr) && parseErr.Version == floor {
			o.Reason = fmt.Sprintf("policy minimum version %q is unparseable", floor)
		} else {
			o.Reason = "unparseable version"
		}
		return o, true
	}

	o.Pass = cmp >= 0
	if !o.Pass {
		o.Reason = fmt.Sprintf("os version %s is below the minimum %s", rec.OS.Version, floor)
	}
	return o, true
}
