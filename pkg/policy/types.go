package policy

import (
	"time"

	"northgate/sentinel/pkg/posture"
)

// Status is the lifecycle state of a policy definition.
// Only Active policies participate in evaluation; Draft and Inactive
// policies are resolvable for inspection but excluded from combination.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusDraft    Status = "Draft"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDraft:
		return true
	}
	return false
}

// ScopeKind describes what a policy's assignment scope selects.
type ScopeKind string

const (
	// ScopeAllDevices binds the policy to every device.
	ScopeAllDevices ScopeKind = "all-devices"

	// ScopeGroup binds the policy to members of a named group.
	ScopeGroup ScopeKind = "group"

	// ScopeUser binds the policy to a named user's devices.
	ScopeUser ScopeKind = "user"
)

// Specificity returns the ordering weight of the scope kind for result
// presentation: user-scoped policies come before group-scoped, which come
// before the all-devices default. Combination treats every applicable
// policy as mandatory, so this never affects pass/fail.
func (k ScopeKind) Specificity() int {
	switch k {
	case ScopeUser:
		return 2
	case ScopeGroup:
		return 1
	default:
		return 0
	}
}

// Scope is a policy's assignment selector.
type Scope struct {
	// Kind selects all devices, a group, or a user.
	Kind ScopeKind `yaml:"kind" json:"kind"`

	// Name is the group or user name; empty for all-devices.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// ComplexityTier is the ordered password-complexity enumeration.
// No posture signal observes actual password strength, so the tier is
// policy metadata only: it never fails a device, but it is surfaced in
// password-age violation reasons to explain policy intent.
type ComplexityTier string

const (
	ComplexityLow      ComplexityTier = "Low"
	ComplexityMedium   ComplexityTier = "Medium"
	ComplexityHigh     ComplexityTier = "High"
	ComplexityVeryHigh ComplexityTier = "Very High"
)

// Rank returns the tier's position in the Low < Medium < High < Very High
// ordering, or -1 for an unknown tier.
func (c ComplexityTier) Rank() int {
	switch c {
	case ComplexityLow:
		return 0
	case ComplexityMedium:
		return 1
	case ComplexityHigh:
		return 2
	case ComplexityVeryHigh:
		return 3
	}
	return -1
}

// Definition is a named, versioned compliance policy.
type Definition struct {
	// ID is the stable policy identifier.
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable policy name.
	Name string `yaml:"name" json:"name"`

	// Description explains the policy's purpose.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Version is a monotonic integer bumped on any requirement edit.
	// It is part of the result cache key.
	Version int `yaml:"version" json:"version"`

	// Status is the lifecycle state.
	Status Status `yaml:"status" json:"status"`

	// AppliesTo is the assignment scope.
	AppliesTo Scope `yaml:"applies_to" json:"appliesTo"`

	// CreatedBy and timestamps are provenance metadata from the authoring
	// system; the engine carries them through untouched.
	CreatedBy string    `yaml:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty" json:"updatedAt,omitempty"`

	// Requirements are the posture conditions the policy demands.
	Requirements Requirements `yaml:"requirements" json:"requirements"`
}

// Requirements groups the policy's requirement predicates the way the
// source data model does: device security, authentication, network security.
type Requirements struct {
	DeviceSecurity  DeviceSecurityRequirements  `yaml:"device_security" json:"deviceSecurity"`
	Authentication  AuthenticationRequirements  `yaml:"authentication" json:"authentication"`
	NetworkSecurity NetworkSecurityRequirements `yaml:"network_security" json:"networkSecurity"`
}

// DeviceSecurityRequirements are the device-level control requirements.
type DeviceSecurityRequirements struct {
	// DiskEncryption requires full-disk encryption when true.
	DiskEncryption bool `yaml:"disk_encryption" json:"diskEncryption"`

	// FirewallEnabled requires the host firewall when true.
	FirewallEnabled bool `yaml:"firewall_enabled" json:"firewallEnabled"`

	// AntivirusEnabled requires endpoint protection when true.
	AntivirusEnabled bool `yaml:"antivirus_enabled" json:"antivirusEnabled"`

	// ScreenLockEnabled requires an automatic screen lock when true.
	ScreenLockEnabled bool `yaml:"screen_lock_enabled" json:"screenLockEnabled"`

	// MinOSVersion maps OS family to the minimum acceptable version.
	// A family absent from the map has no version floor.
	MinOSVersion map[posture.OSFamily]string `yaml:"min_os_version,omitempty" json:"minOsVersion,omitempty"`
}

// AuthenticationRequirements are the authentication requirements.
type AuthenticationRequirements struct {
	// MFARequired requires multi-factor authentication when true.
	MFARequired bool `yaml:"mfa_required" json:"mfaRequired"`

	// PasswordComplexity is the declared complexity tier (informational).
	PasswordComplexity ComplexityTier `yaml:"password_complexity,omitempty" json:"passwordComplexity,omitempty"`

	// PasswordExpiryDays is the maximum acceptable password age in days.
	// Zero means no limit.
	PasswordExpiryDays int `yaml:"password_expiry_days,omitempty" json:"passwordExpiryDays,omitempty"`

	// FailedLoginAttempts is the threshold of recent failed logins at
	// which the device fails the check. Zero means no limit.
	FailedLoginAttempts int `yaml:"failed_login_attempts,omitempty" json:"failedLoginAttempts,omitempty"`
}

// NetworkSecurityRequirements are the network context requirements.
type NetworkSecurityRequirements struct {
	// VPNRequired requires an established tunnel when true.
	VPNRequired bool `yaml:"vpn_required" json:"vpnRequired"`

	// RestrictedNetworks lists network tags a device must not report from.
	// Matching is case-insensitive exact.
	RestrictedNetworks []string `yaml:"restricted_networks,omitempty" json:"restrictedNetworks,omitempty"`

	// AllowedCountries lists ISO country codes a device may report from.
	// Empty means no restriction.
	AllowedCountries []string `yaml:"allowed_countries,omitempty" json:"allowedCountries,omitempty"`
}

// Active reports whether the policy participates in evaluation.
func (d *Definition) Active() bool {
	return d.Status == StatusActive
}
