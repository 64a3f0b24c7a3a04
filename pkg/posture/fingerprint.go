package posture

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint returns a stable content hash over the security-relevant
// fields of the record. Two records with identical attributes produce the
// same fingerprint regardless of ObservedAt, so repeated heartbeats with an
// unchanged posture hit the same result cache entry.
//
// The serialization is a fixed field order with explicit separators, not
// JSON, so the fingerprint cannot drift with encoder behavior.
func Fingerprint(r *Record) string {
	var b strings.Builder

	b.WriteString(r.DeviceID)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "os=%s/%s\n", r.OS.Family, r.OS.Version)
	fmt.Fprintf(&b, "disk=%t fw=%t av=%t lock=%t\n",
		r.DiskEncryptionEnabled, r.FirewallEnabled, r.AntivirusEnabled, r.ScreenLockEnabled)
	fmt.Fprintf(&b, "mfa=%t pwage=%d failed=%d\n",
		r.Authentication.MFAEnabled, r.Authentication.PasswordAgeDays, r.Authentication.RecentFailedLogins)
	fmt.Fprintf(&b, "net=%s country=%s vpn=%t\n",
		r.Network.CurrentNetworkTag, r.Network.SourceCountry, r.Network.VPNConnected)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
