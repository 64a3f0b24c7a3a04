package evaluator

import (
	"strings"
	"testing"
	"time"

	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/posture"
)

func healthyPosture() *posture.Record {
	return &posture.Record{
		DeviceID:   "dev-001",
		ObservedAt: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
		OS:         posture.OSInfo{Family: posture.OSWindows, Version: "10.0.19044"},

		DiskEncryptionEnabled: true,
		FirewallEnabled:       true,
		AntivirusEnabled:      true,
		ScreenLockEnabled:     true,

		Authentication: posture.AuthState{MFAEnabled: true, PasswordAgeDays: 10, RecentFailedLogins: 0},
		Network: posture.NetworkState{
			CurrentNetworkTag: "corp-wifi",
			SourceCountry:     "US",
			VPNConnected:      true,
		},
	}
}

func fullRequirements() policy.Requirements {
	return policy.Requirements{
		DeviceSecurity: policy.DeviceSecurityRequirements{
			DiskEncryption:    true,
			FirewallEnabled:   true,
			AntivirusEnabled:  true,
			ScreenLockEnabled: true,
			MinOSVersion: map[posture.OSFamily]string{
				posture.OSWindows: "10.0.19044",
				posture.OSMacOS:   "12.0.0",
			},
		},
		Authentication: policy.AuthenticationRequirements{
			MFARequired:         true,
			PasswordComplexity:  policy.ComplexityHigh,
			PasswordExpiryDays:  90,
			FailedLoginAttempts: 5,
		},
		NetworkSecurity: policy.NetworkSecurityRequirements{
			VPNRequired:        true,
			RestrictedNetworks: []string{"public-wifi", "hotel-wifi"},
			AllowedCountries:   []string{"US", "CA"},
		},
	}
}

func findOutcome(t *testing.T, outcomes []Outcome, path string) Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Path == path {
			return o
		}
	}
	t.Fatalf("no outcome for path %s", path)
	return Outcome{}
}

// TestEvaluate_AllSatisfied verifies a fully healthy posture passes every
// requirement with no violations.
func TestEvaluate_AllSatisfied(t *testing.T) {
	outcomes := Evaluate(healthyPosture(), fullRequirements())

	if len(outcomes) == 0 {
		t.Fatal("expected outcomes for imposed requirements")
	}
	for _, o := range outcomes {
		if !o.Pass {
			t.Errorf("requirement %s failed unexpectedly: %s", o.Path, o.Reason)
		}
		if o.Reason != "" {
			t.Errorf("passing requirement %s carries a reason: %q", o.Path, o.Reason)
		}
	}
	if v := Violations(outcomes); len(v) != 0 {
		t.Errorf("Violations() = %d entries, want 0", len(v))
	}
}

// TestEvaluate_NothingImposed verifies an empty requirement set evaluates
// nothing at all.
func TestEvaluate_NothingImposed(t *testing.T) {
	outcomes := Evaluate(healthyPosture(), policy.Requirements{})
	if len(outcomes) != 0 {
		t.Errorf("empty requirements produced %d outcomes", len(outcomes))
	}
}

func TestDeviceSecurity_BooleanControls(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*posture.Record)
		path    string
		missing string
	}{
		{
			name:    "disk encryption off",
			mutate:  func(r *posture.Record) { r.DiskEncryptionEnabled = false },
			path:    PathDiskEncryption,
			missing: "disk encryption",
		},
		{
			name:    "firewall off",
			mutate:  func(r *posture.Record) { r.FirewallEnabled = false },
			path:    PathFirewall,
			missing: "firewall",
		},
		{
			name:    "antivirus off",
			mutate:  func(r *posture.Record) { r.AntivirusEnabled = false },
			path:    PathAntivirus,
			missing: "antivirus",
		},
		{
			name:    "screen lock off",
			mutate:  func(r *posture.Record) { r.ScreenLockEnabled = false },
			path:    PathScreenLock,
			missing: "screen lock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := healthyPosture()
			tt.mutate(rec)
			outcomes := DeviceSecurity(rec, fullRequirements().DeviceSecurity)

			o := findOutcome(t, outcomes, tt.path)
			if o.Pass {
				t.Fatalf("%s should fail", tt.path)
			}
			if o.Expected != true || o.Actual != false {
				t.Errorf("outcome expected/actual = %v/%v, want true/false", o.Expected, o.Actual)
			}
			if !strings.Contains(o.Reason, tt.missing) {
				t.Errorf("reason %q does not name the missing control %q", o.Reason, tt.missing)
			}

			// Exactly one failure; the other three controls still pass.
			if v := Violations(outcomes); len(v) != 1 {
				t.Errorf("Violations() = %d entries, want 1", len(v))
			}
		})
	}
}

func TestDeviceSecurity_ControlNotRequired(t *testing.T) {
	rec := healthyPosture()
	rec.DiskEncryptionEnabled = false

	req := fullRequirements().DeviceSecurity
	req.DiskEncryption = false

	outcomes := DeviceSecurity(rec, req)
	for _, o := range outcomes {
		if o.Path == PathDiskEncryption {
			t.Error("unrequired control should produce no outcome")
		}
	}
}

func TestMinOSVersion(t *testing.T) {
	tests := []struct {
		name       string
		family     posture.OSFamily
		version    string
		floor      string
		wantPass   bool
		wantReason string
	}{
		{name: "equal passes", family: posture.OSWindows, version: "10.0.19044", floor: "10.0.19044", wantPass: true},
		{name: "above passes", family: posture.OSWindows, version: "10.0.22621", floor: "10.0.19044", wantPass: true},
		{name: "below fails", family: posture.OSWindows, version: "10.0.17763", floor: "10.0.19044", wantPass: false, wantReason: "below the minimum"},
		{name: "short form equal", family: posture.OSMacOS, version: "12.0", floor: "12.0.0", wantPass: true},
		{name: "numeric order", family: posture.OSMacOS, version: "9.9.9", floor: "10.0.0", wantPass: false, wantReason: "below the minimum"},
		{name: "unparseable posture version", family: posture.OSWindows, version: "NT-10", floor: "10.0.19044", wantPass: false, wantReason: "unparseable version"},
		{name: "unparseable policy floor", family: posture.OSWindows, version: "10.0.19044", floor: "latest", wantPass: false, wantReason: "policy minimum version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := healthyPosture()
			rec.OS = posture.OSInfo{Family: tt.family, Version: tt.version}

			req := policy.DeviceSecurityRequirements{
				MinOSVersion: map[posture.OSFamily]string{tt.family: tt.floor},
			}
			outcomes := DeviceSecurity(rec, req)
			if len(outcomes) != 1 {
				t.Fatalf("got %d outcomes, want 1", len(outcomes))
			}

			o := outcomes[0]
			if o.Pass != tt.wantPass {
				t.Errorf("pass = %v, want %v (reason %q)", o.Pass, tt.wantPass, o.Reason)
			}
			if tt.wantReason != "" && !strings.Contains(o.Reason, tt.wantReason) {
				t.Errorf("reason %q does not contain %q", o.Reason, tt.wantReason)
			}
			wantPath := PathMinOSVersion + "." + string(tt.family)
			if o.Path != wantPath {
				t.Errorf("path = %q, want %q", o.Path, wantPath)
			}
		})
	}
}

func TestMinOSVersion_NoFloorForFamily(t *testing.T) {
	rec := healthyPosture()
	rec.OS = posture.OSInfo{Family: posture.OSLinux, Version: "6.8.0"}

	req := policy.DeviceSecurityRequirements{
		MinOSVersion: map[posture.OSFamily]string{posture.OSWindows: "10.0.19044"},
	}
	if outcomes := DeviceSecurity(rec, req); len(outcomes) != 0 {
		t.Errorf("family without a floor produced %d outcomes", len(outcomes))
	}
}

func TestAuthentication(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*posture.Record)
		path       string
		wantPass   bool
		wantReason string
	}{
		{
			name:     "mfa enabled passes",
			mutate:   func(r *posture.Record) {},
			path:     PathMFARequired,
			wantPass: true,
		},
		{
			name:       "mfa disabled fails",
			mutate:     func(r *posture.Record) { r.Authentication.MFAEnabled = false },
			path:       PathMFARequired,
			wantPass:   false,
			wantReason: "multi-factor",
		},
		{
			name:     "password age at limit passes",
			mutate:   func(r *posture.Record) { r.Authentication.PasswordAgeDays = 90 },
			path:     PathPasswordExpiry,
			wantPass: true,
		},
		{
			name:       "password age over limit fails",
			mutate:     func(r *posture.Record) { r.Authentication.PasswordAgeDays = 91 },
			path:       PathPasswordExpiry,
			wantPass:   false,
			wantReason: "complexity tier: High",
		},
		{
			name:     "failed logins below threshold passes",
			mutate:   func(r *posture.Record) { r.Authentication.RecentFailedLogins = 4 },
			path:     PathFailedLogins,
			wantPass: true,
		},
		{
			name:       "failed logins at threshold fails",
			mutate:     func(r *posture.Record) { r.Authentication.RecentFailedLogins = 5 },
			path:       PathFailedLogins,
			wantPass:   false,
			wantReason: "threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := healthyPosture()
			tt.mutate(rec)

			outcomes := Authentication(rec, fullRequirements().Authentication)
			o := findOutcome(t, outcomes, tt.path)
			if o.Pass != tt.wantPass {
				t.Errorf("pass = %v, want %v (reason %q)", o.Pass, tt.wantPass, o.Reason)
			}
			if !tt.wantPass && !strings.Contains(o.Reason, tt.wantReason) {
				t.Errorf("reason %q does not contain %q", o.Reason, tt.wantReason)
			}
		})
	}
}

// TestAuthentication_ComplexityNeverFails confirms the complexity tier is
// informational: it appears in no outcome of its own.
func TestAuthentication_ComplexityNeverFails(t *testing.T) {
	req := policy.AuthenticationRequirements{PasswordComplexity: policy.ComplexityVeryHigh}
	if outcomes := Authentication(healthyPosture(), req); len(outcomes) != 0 {
		t.Errorf("complexity-only requirements produced %d outcomes", len(outcomes))
	}
}

func TestNetworkSecurity(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*posture.Record)
		path       string
		wantPass   bool
		wantReason string
	}{
		{
			name:     "vpn connected passes",
			mutate:   func(r *posture.Record) {},
			path:     PathVPNRequired,
			wantPass: true,
		},
		{
			name:       "vpn disconnected fails",
			mutate:     func(r *posture.Record) { r.Network.VPNConnected = false },
			path:       PathVPNRequired,
			wantPass:   false,
			wantReason: "vpn",
		},
		{
			name:     "unrestricted network passes",
			mutate:   func(r *posture.Record) {},
			path:     PathRestrictedNetwork,
			wantPass: true,
		},
		{
			name:       "restricted network fails",
			mutate:     func(r *posture.Record) { r.Network.CurrentNetworkTag = "public-wifi" },
			path:       PathRestrictedNetwork,
			wantPass:   false,
			wantReason: "restricted network",
		},
		{
			name:       "restricted network match is case-insensitive",
			mutate:     func(r *posture.Record) { r.Network.CurrentNetworkTag = "Public-WiFi" },
			path:       PathRestrictedNetwork,
			wantPass:   false,
			wantReason: "restricted network",
		},
		{
			name:     "allowed country passes",
			mutate:   func(r *posture.Record) { r.Network.SourceCountry = "CA" },
			path:     PathAllowedCountries,
			wantPass: true,
		},
		{
			name:       "disallowed country fails",
			mutate:     func(r *posture.Record) { r.Network.SourceCountry = "FR" },
			path:       PathAllowedCountries,
			wantPass:   false,
			wantReason: "not in the allowed list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := healthyPosture()
			tt.mutate(rec)

			outcomes := NetworkSecurity(rec, fullRequirements().NetworkSecurity)
			o := findOutcome(t, outcomes, tt.path)
			if o.Pass != tt.wantPass {
				t.Errorf("pass = %v, want %v (reason %q)", o.Pass, tt.wantPass, o.Reason)
			}
			if !tt.wantPass && !strings.Contains(o.Reason, tt.wantReason) {
				t.Errorf("reason %q does not contain %q", o.Reason, tt.wantReason)
			}
		})
	}
}

// TestNetworkSecurity_EmptyCountryListMeansNoRestriction verifies the
// allow-list semantics: empty set restricts nothing.
func TestNetworkSecurity_EmptyCountryListMeansNoRestriction(t *testing.T) {
	rec := healthyPosture()
	rec.Network.SourceCountry = "KP"

	req := policy.NetworkSecurityRequirements{}
	if outcomes := NetworkSecurity(rec, req); len(outcomes) != 0 {
		t.Errorf("empty network requirements produced %d outcomes", len(outcomes))
	}
}

// TestEvaluate_Deterministic verifies repeated evaluation of the same inputs
// yields identical outcomes in identical order.
func TestEvaluate_Deterministic(t *testing.T) {
	rec := healthyPosture()
	rec.DiskEncryptionEnabled = false
	rec.Network.SourceCountry = "FR"
	req := fullRequirements()

	first := Evaluate(rec, req)
	for i := 0; i < 10; i++ {
		again := Evaluate(rec, req)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d outcomes, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].Path != first[j].Path || again[j].Pass != first[j].Pass ||
				again[j].Reason != first[j].Reason {
				t.Fatalf("run %d outcome %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
