package posture

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted numeric version strings and returns
// -1, 0 or 1 as a is less than, equal to or greater than b.
//
// Comparison is componentwise numeric: the strings are split on ".", the
// shorter sequence is padded with zeros, and components are compared left to
// right; the first unequal component decides. "12.0" therefore equals
// "12.0.0", and "9.9.9" sorts before "10.0.0".
//
// A malformed version (empty, or any non-numeric component) returns a
// *VersionParseError. Callers must fail the comparison closed, never treat
// it as a silent pass.
func CompareVersions(a, b string) (int, error) {
	av, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	bv, err := parseVersion(b)
	if err != nil {
		return 0, err
	}

	n := len(av)
	if len(bv) > n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		var ac, bc int
		if i < len(av) {
			ac = av[i]
		}
		if i < len(bv) {
			bc = bv[i]
		}
		if ac < bc {
			return -1, nil
		}
		if ac > bc {
			return 1, nil
		}
	}
	return 0, nil
}

// parseVersion splits a dotted version string into numeric components.
func parseVersion(v string) ([]int, error) {
	if v == "" {
		return nil, &VersionParseError{Version: v}
	}

	parts := strings.Split(v, ".")
	components := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, &VersionParseError{Version: v, Component: part}
		}
		components = append(components, n)
	}
	return components, nil
}
