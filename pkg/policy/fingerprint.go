package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// SetFingerprint returns a stable content hash over the identity and version
// of every policy in the set, insensitive to input order. Editing any
// policy's requirements bumps its version and therefore changes the
// fingerprint, invalidating exactly the cached results that depended on it;
// results for devices the policy never applied to keep their keys.
func SetFingerprint(policies []*Definition) string {
	pairs := make([]string, 0, len(policies))
	for _, p := range policies {
		pairs = append(pairs, fmt.Sprintf("%s@%d", p.ID, p.Version))
	}
	sort.Strings(pairs)

	sum := sha256.Sum256([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(sum[:])
}
