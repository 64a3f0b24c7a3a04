package posture

import (
	"time"
)

// OSFamily identifies the operating system family of a device.
type OSFamily string

const (
	OSWindows OSFamily = "windows"
	OSMacOS   OSFamily = "macos"
	OSIOS     OSFamily = "ios"
	OSAndroid OSFamily = "android"
	OSLinux   OSFamily = "linux"
)

// KnownFamilies lists every OS family the engine understands, in a stable
// order suitable for iteration and error messages.
var KnownFamilies = []OSFamily{OSWindows, OSMacOS, OSIOS, OSAndroid, OSLinux}

// Valid reports whether the family is one of the known OS families.
func (f OSFamily) Valid() bool {
	switch f {
	case OSWindows, OSMacOS, OSIOS, OSAndroid, OSLinux:
		return true
	}
	return false
}

// Record is a normalized snapshot of a device's observed security posture.
//
// Records are immutable: updates from the collector create a new Record with
// a later ObservedAt, never modify an existing one. ObservedAt is
// monotonically non-decreasing per device; the posture store enforces this.
type Record struct {
	// DeviceID is the opaque stable identifier of the device.
	DeviceID string `json:"deviceId"`

	// ObservedAt is when the collector captured this snapshot.
	ObservedAt time.Time `json:"observedAt"`

	// OS describes the operating system.
	OS OSInfo `json:"os"`

	// Device security controls.
	DiskEncryptionEnabled bool `json:"diskEncryptionEnabled"`
	FirewallEnabled       bool `json:"firewallEnabled"`
	AntivirusEnabled      bool `json:"antivirusEnabled"`
	ScreenLockEnabled     bool `json:"screenLockEnabled"`

	// Authentication describes the authentication state of the device user.
	Authentication AuthState `json:"authentication"`

	// Network describes the network context the device reports from.
	Network NetworkState `json:"network"`
}

// OSInfo identifies the operating system of a device.
type OSInfo struct {
	// Family is the OS family ("windows", "macos", "ios", "android", "linux").
	Family OSFamily `json:"family"`

	// Version is the OS version as a dotted numeric string, e.g. "10.0.19044".
	Version string `json:"version"`
}

// AuthState captures the authentication-related posture signals.
type AuthState struct {
	// MFAEnabled reports whether multi-factor authentication is enabled.
	MFAEnabled bool `json:"mfaEnabled"`

	// PasswordAgeDays is the age of the current password in days (>= 0).
	PasswordAgeDays int `json:"passwordAgeDays"`

	// RecentFailedLogins is the count of recent failed login attempts (>= 0).
	RecentFailedLogins int `json:"recentFailedLogins"`
}

// NetworkState captures the network context posture signals.
type NetworkState struct {
	// CurrentNetworkTag names the network the device is currently on,
	// e.g. "corp-wifi" or "public-wifi".
	CurrentNetworkTag string `json:"currentNetworkTag"`

	// SourceCountry is the ISO 3166-1 alpha-2 country code the device
	// reports from, e.g. "US".
	SourceCountry string `json:"sourceCountry"`

	// VPNConnected reports whether the device tunnel is established.
	// The connector owns the tunnel, so this signal comes straight from it.
	VPNConnected bool `json:"vpnConnected"`
}

// Clone returns a deep copy of the record. Records are treated as immutable
// throughout the engine; Clone exists for stores that hand records across an
// ownership boundary.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
